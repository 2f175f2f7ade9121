package model

import (
	"strings"
	"time"

	"notes-backend/internal/apperrors"
)

// Note представляет заметку (доменная модель)
type Note struct {
	ID        string    // UUID заметки
	Title     string    // Заголовок заметки
	Content   string    // Содержание заметки
	Tags      []string  // Теги заметки
	FilePath  string    // Путь к файлу заметки относительно корня хранилища
	CreatedAt time.Time // Дата создания
	UpdatedAt time.Time // Дата последнего обновления
}

// Validate проверяет валидность заметки
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return apperrors.Validation("Title required")
	}
	return nil
}

// IsEmpty проверяет, пуста ли заметка
func (n *Note) IsEmpty() bool {
	return n.ID == "" && n.Title == "" && n.Content == ""
}

// NormalizeTags убирает пустые теги и пробелы по краям
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

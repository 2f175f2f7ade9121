package filestore

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"notes-backend/internal/model"
)

// ErrMalformedDocument возвращается (в цепочке причин), когда файл заметки
// не удалось разобрать: нет frontmatter, битый YAML и т.п.
// Репозиторий использует эту ошибку, чтобы отличить испорченный документ
// от настоящего сбоя ввода-вывода.
var ErrMalformedDocument = errors.New("malformed note document")

// frontmatterDelimiter - разделитель YAML frontmatter в markdown-файле
const frontmatterDelimiter = "---"

// frontmatter - сериализуемые метаданные заметки в заголовке файла
type frontmatter struct {
	ID      string    `yaml:"id"`
	Title   string    `yaml:"title"`
	Tags    []string  `yaml:"tags,omitempty"`
	Created time.Time `yaml:"created"`
	Updated time.Time `yaml:"updated"`
}

// encodeDocument сериализует заметку в markdown-документ с YAML frontmatter
func encodeDocument(note model.Note) ([]byte, error) {
	fm := frontmatter{
		ID:      note.ID,
		Title:   note.Title,
		Tags:    note.Tags,
		Created: note.CreatedAt,
		Updated: note.UpdatedAt,
	}

	meta, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("yaml.Marshal: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")
	buf.Write(meta)
	buf.WriteString(frontmatterDelimiter + "\n")
	buf.WriteString(note.Content)
	// Гарантируем перевод строки в конце файла
	if !strings.HasSuffix(note.Content, "\n") {
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// decodeDocument разбирает markdown-документ с YAML frontmatter в заметку.
// relPath используется только для сообщений об ошибках и поля FilePath.
func decodeDocument(relPath string, data []byte) (model.Note, error) {
	text := string(data)

	// Документ обязан начинаться с frontmatter
	if !strings.HasPrefix(text, frontmatterDelimiter+"\n") {
		return model.Note{}, fmt.Errorf("%w: %s: missing frontmatter", ErrMalformedDocument, relPath)
	}

	rest := text[len(frontmatterDelimiter)+1:]

	// Ищем закрывающий разделитель; допускаем файл без тела,
	// где frontmatter закрыт последней строкой
	meta, body, found := strings.Cut(rest, "\n"+frontmatterDelimiter+"\n")
	if !found {
		if strings.HasSuffix(rest, "\n"+frontmatterDelimiter) {
			meta = strings.TrimSuffix(rest, "\n"+frontmatterDelimiter)
			body = ""
		} else {
			return model.Note{}, fmt.Errorf("%w: %s: unterminated frontmatter", ErrMalformedDocument, relPath)
		}
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return model.Note{}, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, relPath, err)
	}
	if fm.ID == "" {
		return model.Note{}, fmt.Errorf("%w: %s: missing id", ErrMalformedDocument, relPath)
	}

	return model.Note{
		ID:        fm.ID,
		Title:     fm.Title,
		Content:   strings.TrimRight(body, "\n"),
		Tags:      fm.Tags,
		FilePath:  relPath,
		CreatedAt: fm.Created,
		UpdatedAt: fm.Updated,
	}, nil
}

package repository

import (
	"context"

	"notes-backend/internal/apperrors"
	"notes-backend/internal/model"
)

// ErrNoteNotFound - матчер для errors.Is: заметка не найдена в хранилище.
// Сами реализации возвращают apperrors.NoteNotFound(id) с заполненным сообщением.
var ErrNoteNotFound = &apperrors.Error{
	Kind: apperrors.KindNotFound,
	Code: apperrors.CodeNoteNotFound,
}

// NoteRepository интерфейс для работы с заметками в хранилище.
// Контракт по ошибкам: реализация логирует контекст операции
// (имя операции, id сущности) и пробрасывает исходную ошибку без изменений -
// подменять её менее специфичной нельзя.
type NoteRepository interface {
	// Create создает новую заметку и возвращает созданную заметку с ID
	Create(ctx context.Context, note model.Note) (model.Note, error)

	// GetByID возвращает заметку по её ID
	GetByID(ctx context.Context, id string) (model.Note, error)

	// List возвращает список всех заметок
	List(ctx context.Context) ([]model.Note, error)

	// Update обновляет существующую заметку и возвращает обновленную заметку
	Update(ctx context.Context, note model.Note) (model.Note, error)

	// Delete удаляет заметку по ID
	Delete(ctx context.Context, id string) error
}

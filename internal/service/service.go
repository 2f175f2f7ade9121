package service

import (
	"context"

	"notes-backend/internal/model"
)

// EventType тип события изменения заметок
type EventType string

// Типы событий, публикуемых сервисом заметок
const (
	// EventCreated - заметка создана через сервис
	EventCreated EventType = "created"
	// EventUpdated - заметка обновлена через сервис
	EventUpdated EventType = "updated"
	// EventDeleted - заметка удалена через сервис
	EventDeleted EventType = "deleted"
	// EventExternal - файл заметки изменен извне (подхвачен watcher'ом)
	EventExternal EventType = "external"
)

// Event - событие изменения заметки для подписчиков
type Event struct {
	Type EventType  `json:"type"`
	Note model.Note `json:"note"`
}

// NoteService интерфейс для бизнес-логики работы с заметками.
// Контракт по ошибкам: сервис валидирует вход до обращения к репозиторию
// (fail fast с ошибкой валидации), а ошибки нижних слоев пробрасывает
// без изменений. Тихое подавление ошибки - дефект, а не валидный путь.
type NoteService interface {
	// Create создает новую заметку с указанными title, content и tags
	Create(ctx context.Context, title, content string, tags []string) (model.Note, error)

	// Get возвращает заметку по её ID
	Get(ctx context.Context, id string) (model.Note, error)

	// List возвращает список всех заметок
	List(ctx context.Context) ([]model.Note, error)

	// Update обновляет заметку с указанным ID (title, content и tags опциональны)
	Update(ctx context.Context, id, title, content string, tags []string) (model.Note, error)

	// Delete удаляет заметку по ID
	Delete(ctx context.Context, id string) error
}

package notes

import (
	"context"
	"strings"
	"time"

	"notes-backend/internal/apperrors"
	"notes-backend/internal/model"
	"notes-backend/internal/repository"
	svc "notes-backend/internal/service"
)

var _ svc.NoteService = (*service)(nil)

type service struct {
	noteRepository repository.NoteRepository
	events         *EventService
}

// NewNoteService создает новый экземпляр сервиса для работы с заметками.
// events опционален: при nil события изменений не публикуются.
func NewNoteService(noteRepository repository.NoteRepository, events *EventService) svc.NoteService {
	return &service{
		noteRepository: noteRepository,
		events:         events,
	}
}

// Create создает новую заметку с указанными title, content и tags
func (s *service) Create(ctx context.Context, title, content string, tags []string) (model.Note, error) {
	// Валидация: title не должен быть пустым (fail fast до обращения к репозиторию)
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Note{}, apperrors.Validation("Title required")
	}

	// Создаем новую заметку
	note := model.Note{
		Title:     title,
		Content:   strings.TrimSpace(content),
		Tags:      model.NormalizeTags(tags),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Сохраняем через репозиторий (UUID будет сгенерирован в репозитории)
	createdNote, err := s.noteRepository.Create(ctx, note)
	if err != nil {
		return model.Note{}, err
	}

	s.publish(svc.EventCreated, createdNote)

	return createdNote, nil
}

// Get возвращает заметку по её ID
func (s *service) Get(ctx context.Context, id string) (model.Note, error) {
	if id == "" {
		return model.Note{}, apperrors.Validation("id cannot be empty")
	}

	note, err := s.noteRepository.GetByID(ctx, id)
	if err != nil {
		return model.Note{}, err
	}

	return note, nil
}

// List возвращает список всех заметок
func (s *service) List(ctx context.Context) ([]model.Note, error) {
	notes, err := s.noteRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

// Update обновляет заметку с указанным ID (title, content и tags опциональны)
func (s *service) Update(ctx context.Context, id, title, content string, tags []string) (model.Note, error) {
	if id == "" {
		return model.Note{}, apperrors.Validation("id cannot be empty")
	}

	// Получаем существующую заметку
	existingNote, err := s.noteRepository.GetByID(ctx, id)
	if err != nil {
		return model.Note{}, err
	}

	// Обновляем поля только если они переданы (не пустые после TrimSpace)
	titleTrimmed := strings.TrimSpace(title)
	if titleTrimmed != "" {
		existingNote.Title = titleTrimmed
	}

	// Content всегда обновляется, даже если пустой
	existingNote.Content = strings.TrimSpace(content)

	// Теги обновляются только если переданы
	if tags != nil {
		existingNote.Tags = model.NormalizeTags(tags)
	}

	// Валидация обновленной заметки
	if err := existingNote.Validate(); err != nil {
		return model.Note{}, err
	}

	// Обновляем временную метку
	existingNote.UpdatedAt = time.Now()

	// Сохраняем через репозиторий
	updatedNote, err := s.noteRepository.Update(ctx, existingNote)
	if err != nil {
		return model.Note{}, err
	}

	s.publish(svc.EventUpdated, updatedNote)

	return updatedNote, nil
}

// Delete удаляет заметку по ID
func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("id cannot be empty")
	}

	// Читаем заметку до удаления, чтобы событие несло её данные.
	// Ошибку чтения не подавляем - несуществующую заметку удалить нельзя.
	note, err := s.noteRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.noteRepository.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(svc.EventDeleted, note)

	return nil
}

// publish отправляет событие подписчикам, если EventService подключен
func (s *service) publish(eventType svc.EventType, note model.Note) {
	if s.events == nil {
		return
	}
	s.events.Publish(svc.Event{Type: eventType, Note: note})
}

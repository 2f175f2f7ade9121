package client

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"notes-backend/internal/converter"
	"notes-backend/internal/model"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// Store - клиентское хранилище состояния UI.
// Единственные мутаторы состояния - его собственные action-методы;
// каждый из них проходит через run, который реализует машину состояний
// операции: Idle → Loading → {Success, Error} → Idle.
type Store struct {
	api *API
	log zerolog.Logger

	mu        sync.Mutex
	notes     []model.Note
	inFlight  int
	lastError string
}

// NewStore создает хранилище состояния поверх клиента границы
func NewStore(api *API, log zerolog.Logger) *Store {
	return &Store{
		api: api,
		log: log.With().Str("component", "client-store").Logger(),
	}
}

// Notes возвращает копию текущего списка заметок
func (s *Store) Notes() []model.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := make([]model.Note, len(s.notes))
	copy(notes, s.notes)
	return notes
}

// Loading сообщает, выполняется ли сейчас хотя бы одна операция.
// Счетчик вместо флага: при параллельных операциях завершение одной
// не снимает Loading, пока другая еще в полете
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// LastError возвращает сообщение последней неуспешной операции
// (пустая строка - ошибок не было или последняя операция успешна)
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// LoadNotes загружает список заметок с сервера.
// При ошибке текущий список остается нетронутым
func (s *Store) LoadNotes(ctx context.Context) error {
	return s.run("load_notes", func() error {
		apiNotes, err := s.api.ListNotes(ctx)
		if err != nil {
			return err
		}

		notes := make([]model.Note, 0, len(apiNotes))
		for _, apiNote := range apiNotes {
			notes = append(notes, converter.APIToModel(apiNote))
		}

		s.mu.Lock()
		s.notes = notes
		s.mu.Unlock()
		return nil
	})
}

// CreateNote создает заметку и добавляет её в локальный список
func (s *Store) CreateNote(ctx context.Context, title, content string, tags []string) (model.Note, error) {
	var created model.Note
	err := s.run("create_note", func() error {
		apiNote, err := s.api.CreateNote(ctx, notesv1.CreateNoteRequest{
			Title:   title,
			Content: content,
			Tags:    tags,
		})
		if err != nil {
			return err
		}

		created = converter.APIToModel(apiNote)

		s.mu.Lock()
		s.notes = append(s.notes, created)
		s.mu.Unlock()
		return nil
	})
	return created, err
}

// GetNote возвращает заметку по ID (локальное состояние не меняет)
func (s *Store) GetNote(ctx context.Context, id string) (model.Note, error) {
	var note model.Note
	err := s.run("get_note", func() error {
		apiNote, err := s.api.GetNote(ctx, id)
		if err != nil {
			return err
		}
		note = converter.APIToModel(apiNote)
		return nil
	})
	return note, err
}

// UpdateNote обновляет заметку и её локальную копию
func (s *Store) UpdateNote(ctx context.Context, id, title, content string, tags []string) (model.Note, error) {
	var updated model.Note
	err := s.run("update_note", func() error {
		apiNote, err := s.api.UpdateNote(ctx, id, notesv1.UpdateNoteRequest{
			Title:   title,
			Content: content,
			Tags:    tags,
		})
		if err != nil {
			return err
		}

		updated = converter.APIToModel(apiNote)

		s.mu.Lock()
		for i := range s.notes {
			if s.notes[i].ID == updated.ID {
				s.notes[i] = updated
				break
			}
		}
		s.mu.Unlock()
		return nil
	})
	return updated, err
}

// DeleteNote удаляет заметку и убирает её из локального списка
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	return s.run("delete_note", func() error {
		if err := s.api.DeleteNote(ctx, id); err != nil {
			return err
		}

		s.mu.Lock()
		for i := range s.notes {
			if s.notes[i].ID == id {
				s.notes = append(s.notes[:i], s.notes[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		return nil
	})
}

// run - общий helper для всех операций хранилища:
// увеличивает счетчик операций в полете до вызова, безусловно уменьшает
// его по завершении (успех или ошибка - Loading не должен "залипнуть"),
// записывает пользовательское сообщение об ошибке и возвращает ошибку
// вызывающему для его собственной обработки.
func (s *Store) run(op string, fn func() error) error {
	s.mu.Lock()
	s.inFlight++
	s.lastError = ""
	s.mu.Unlock()

	err := fn()

	s.mu.Lock()
	s.inFlight--
	if err != nil {
		s.lastError = userMessage(err)
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Str("op", op).Err(err).Msg("store action failed")
		return err
	}

	return nil
}

// userMessage выбирает сообщение для отображения пользователю.
// Failure-конверт несет готовое сообщение; транспортные сбои показываем как есть.
func userMessage(err error) string {
	if opErr, ok := err.(*OperationError); ok {
		return opErr.Message
	}
	return err.Error()
}

package vault

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"notes-backend/internal/apperrors"
	"notes-backend/internal/model"
	"notes-backend/internal/repository"
	"notes-backend/internal/storage"
	"notes-backend/internal/storage/filestore"
)

var _ repository.NoteRepository = (*repo)(nil)

// repo - файловый репозиторий заметок поверх storage-адаптера.
// Держит индекс id -> относительный путь файла, чтобы операции по ID
// не требовали сканирования всего хранилища.
type repo struct {
	store storage.NoteStore
	log   zerolog.Logger

	mu    sync.RWMutex
	paths map[string]string // id -> relPath
}

// NewRepository создает файловый репозиторий и строит индекс по содержимому
// хранилища. Ошибка сканирования при старте фатальна - работать с хранилищем,
// которое не удалось прочитать, нельзя.
func NewRepository(ctx context.Context, store storage.NoteStore, log zerolog.Logger) (repository.NoteRepository, error) {
	r := &repo{
		store: store,
		log:   log.With().Str("component", "vault-repository").Logger(),
		paths: make(map[string]string),
	}

	if _, err := r.scan(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

// Create создает новую заметку и возвращает созданную заметку с ID
func (r *repo) Create(ctx context.Context, note model.Note) (model.Note, error) {
	// Генерируем UUID если не передан
	if note.ID == "" {
		note.ID = uuid.New().String()
	}

	// Файл заметки именуется по её ID
	if note.FilePath == "" {
		note.FilePath = note.ID + ".md"
	}

	// Устанавливаем временные метки
	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	if err := r.store.Create(ctx, note); err != nil {
		// Логируем контекст операции и пробрасываем ошибку без изменений
		r.log.Error().Str("op", "create").Str("note_id", note.ID).Err(err).Msg("repository operation failed")
		return model.Note{}, err
	}

	r.mu.Lock()
	r.paths[note.ID] = note.FilePath
	r.mu.Unlock()

	return note, nil
}

// GetByID возвращает заметку по её ID
func (r *repo) GetByID(ctx context.Context, id string) (model.Note, error) {
	r.mu.RLock()
	relPath, exists := r.paths[id]
	r.mu.RUnlock()

	if !exists {
		return model.Note{}, apperrors.NoteNotFound(id)
	}

	note, err := r.store.Read(ctx, relPath)
	if err != nil {
		// Файл есть в индексе, но прочитать его не удалось (удален извне,
		// нет прав и т.п.) - пробрасываем ошибку storage-адаптера как есть
		r.log.Error().Str("op", "get_by_id").Str("note_id", id).Err(err).Msg("repository operation failed")
		return model.Note{}, err
	}

	return note, nil
}

// List возвращает список всех заметок, пересканируя хранилище.
// Сканирование подхватывает заметки, добавленные или измененные извне.
func (r *repo) List(ctx context.Context) ([]model.Note, error) {
	notes, err := r.scan(ctx)
	if err != nil {
		r.log.Error().Str("op", "list").Err(err).Msg("repository operation failed")
		return nil, err
	}

	return notes, nil
}

// Update обновляет существующую заметку и возвращает обновленную заметку
func (r *repo) Update(ctx context.Context, note model.Note) (model.Note, error) {
	r.mu.RLock()
	relPath, exists := r.paths[note.ID]
	r.mu.RUnlock()

	if !exists {
		return model.Note{}, apperrors.NoteNotFound(note.ID)
	}

	note.FilePath = relPath
	note.UpdatedAt = time.Now()

	if err := r.store.Update(ctx, note); err != nil {
		r.log.Error().Str("op", "update").Str("note_id", note.ID).Err(err).Msg("repository operation failed")
		return model.Note{}, err
	}

	return note, nil
}

// Delete удаляет заметку по ID
func (r *repo) Delete(ctx context.Context, id string) error {
	r.mu.RLock()
	relPath, exists := r.paths[id]
	r.mu.RUnlock()

	if !exists {
		return apperrors.NoteNotFound(id)
	}

	if err := r.store.Remove(ctx, relPath); err != nil {
		r.log.Error().Str("op", "delete").Str("note_id", id).Err(err).Msg("repository operation failed")
		return err
	}

	r.mu.Lock()
	delete(r.paths, id)
	r.mu.Unlock()

	return nil
}

// scan читает все файлы заметок из хранилища и перестраивает индекс.
//
// Graceful degradation (задокументированное исключение из правила
// "никогда не подменять ошибку"): файл, который не удалось разобрать
// (битый frontmatter), пропускается с warn-логом, чтобы один испорченный
// документ не ломал листинг всего хранилища. Настоящие сбои ввода-вывода
// по-прежнему прерывают сканирование и пробрасываются наверх.
func (r *repo) scan(ctx context.Context) ([]model.Note, error) {
	relPaths, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	notes := make([]model.Note, 0, len(relPaths))
	paths := make(map[string]string, len(relPaths))

	for _, relPath := range relPaths {
		note, err := r.store.Read(ctx, relPath)
		if err != nil {
			if errors.Is(err, filestore.ErrMalformedDocument) {
				r.log.Warn().Str("op", "scan").Str("path", relPath).Err(err).Msg("skipping malformed note document")
				continue
			}
			return nil, err
		}

		notes = append(notes, note)
		paths[note.ID] = relPath
	}

	r.mu.Lock()
	r.paths = paths
	r.mu.Unlock()

	return notes, nil
}

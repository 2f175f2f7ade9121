package notes

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"notes-backend/internal/model"
	svc "notes-backend/internal/service"
	"notes-backend/internal/storage/filestore"
)

// Watcher следит за каталогом-хранилищем и публикует события EventExternal,
// когда файлы заметок меняются снаружи процесса (редактор, git pull и т.п.)
type Watcher struct {
	store  *filestore.Store
	events *EventService
	log    zerolog.Logger
	fsw    *fsnotify.Watcher
}

// NewWatcher создает watcher над каталогом указанного файлового хранилища
func NewWatcher(store *filestore.Store, events *EventService, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		store:  store,
		events: events,
		log:    log.With().Str("component", "vault-watcher").Logger(),
		fsw:    fsw,
	}, nil
}

// Start подписывает watcher на каталог хранилища (включая подкаталоги)
// и запускает цикл обработки событий. Цикл завершается при отмене ctx
// или закрытии watcher'а.
func (w *Watcher) Start(ctx context.Context) error {
	// Подписываемся на корень и все существующие подкаталоги
	err := filepath.WalkDir(w.store.Root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	go w.loop(ctx)

	w.log.Info().Str("path", w.store.Root()).Msg("vault watcher started")
	return nil
}

// Close останавливает watcher
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// loop обрабатывает события файловой системы до отмены контекста
func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("vault watcher error")
		}
	}
}

// handle обрабатывает одно событие файловой системы
func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	// Новые подкаталоги добавляем в подписку
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				w.log.Warn().Str("path", event.Name).Err(err).Msg("failed to watch new directory")
			}
			return
		}
	}

	rel, err := filepath.Rel(w.store.Root(), event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		note, err := w.store.Read(ctx, rel)
		if err != nil {
			// Не заметка (чужой файл, битый документ) или файл уже исчез -
			// событие не публикуем
			w.log.Debug().Str("path", rel).Err(err).Msg("ignoring fs event")
			return
		}
		w.events.Publish(svc.Event{Type: svc.EventExternal, Note: note})

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		// Содержимого уже нет - событие несет только путь
		w.events.Publish(svc.Event{Type: svc.EventExternal, Note: model.Note{FilePath: rel}})
	}
}

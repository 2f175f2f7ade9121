package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"notes-backend/internal/apperrors"
	"notes-backend/internal/model"
	"notes-backend/internal/storage"
)

// defaultGlobs используется, если в конфиге не заданы шаблоны поиска заметок
var defaultGlobs = []string{"**/*.md"}

var _ storage.NoteStore = (*Store)(nil)

// Store - файловый storage-адаптер: хранит каждую заметку отдельным
// markdown-файлом с YAML frontmatter внутри каталога-хранилища
type Store struct {
	root  string
	globs []string
	log   zerolog.Logger
}

// NewStore создает файловое хранилище заметок в каталоге root.
// Каталог создается, если его еще нет. globs ограничивают, какие файлы
// считаются заметками при сканировании (формат doublestar, например "**/*.md").
func NewStore(root string, globs []string, log zerolog.Logger) (*Store, error) {
	if root == "" {
		return nil, apperrors.Validation("vault path required")
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, mapPathError(root, err)
	}

	if len(globs) == 0 {
		globs = defaultGlobs
	}

	return &Store{
		root:  root,
		globs: globs,
		log:   log.With().Str("component", "filestore").Logger(),
	}, nil
}

// Root возвращает абсолютный путь каталога-хранилища (нужен watcher'у)
func (s *Store) Root() string {
	return s.root
}

// Read читает и декодирует файл заметки по относительному пути
func (s *Store) Read(ctx context.Context, relPath string) (model.Note, error) {
	path, err := s.resolve(relPath)
	if err != nil {
		return model.Note{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Note{}, mapPathError(relPath, err)
	}

	note, err := decodeDocument(relPath, data)
	if err != nil {
		// Файл прочитан, но не разобран - это не сбой ввода-вывода
		return model.Note{}, apperrors.Wrap(apperrors.KindUnknown, apperrors.CodeUnknown,
			fmt.Sprintf("failed to decode note document: %s", relPath), err)
	}

	return note, nil
}

// Create записывает новый файл заметки (O_EXCL: существующий файл - ошибка)
func (s *Store) Create(ctx context.Context, note model.Note) error {
	return s.write(note, os.O_WRONLY|os.O_CREATE|os.O_EXCL)
}

// Update перезаписывает существующий файл заметки.
// Без O_CREATE: открытие несуществующего файла атомарно дает NOT_FOUND,
// а не создает файл заново
func (s *Store) Update(ctx context.Context, note model.Note) error {
	return s.write(note, os.O_WRONLY|os.O_TRUNC)
}

// Remove удаляет файл заметки по относительному пути
func (s *Store) Remove(ctx context.Context, relPath string) error {
	path, err := s.resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return mapPathError(relPath, err)
	}

	return nil
}

// List возвращает отсортированные относительные пути всех файлов,
// подпадающих под настроенные glob-шаблоны
func (s *Store) List(ctx context.Context) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Скрытые каталоги (".git" и подобные) не сканируем
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if s.matches(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, mapPathError(s.root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// write кодирует заметку и записывает файл с указанными флагами открытия
func (s *Store) write(note model.Note, flags int) error {
	path, err := s.resolve(note.FilePath)
	if err != nil {
		return err
	}

	// Создаем промежуточные каталоги для вложенных путей
	if dir := filepath.Dir(path); dir != s.root {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return mapPathError(note.FilePath, err)
		}
	}

	data, err := encodeDocument(note)
	if err != nil {
		return apperrors.Unknown(err)
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return mapPathError(note.FilePath, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return mapPathError(note.FilePath, err)
	}

	if err := f.Close(); err != nil {
		return mapPathError(note.FilePath, err)
	}

	return nil
}

// matches проверяет относительный путь по всем настроенным glob-шаблонам
func (s *Store) matches(rel string) bool {
	for _, glob := range s.globs {
		ok, err := doublestar.Match(glob, rel)
		if err != nil {
			s.log.Warn().Str("glob", glob).Err(err).Msg("invalid note glob, skipping")
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// resolve превращает относительный путь заметки в абсолютный путь внутри
// хранилища и отклоняет пути, выходящие за его пределы
func (s *Store) resolve(relPath string) (string, error) {
	if relPath == "" {
		return "", apperrors.Validation("note file path required")
	}

	path := filepath.Join(s.root, filepath.FromSlash(relPath))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", apperrors.Validation(fmt.Sprintf("note file path escapes vault: %s", relPath))
	}

	return path, nil
}

// mapPathError переводит платформенную ошибку файловой системы
// в типизированную ошибку со стабильным кодом.
// Это единственное место, где категория ошибки ввода-вывода определяется впервые.
func mapPathError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return apperrors.FileSystem(apperrors.CodeNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return apperrors.FileSystem(apperrors.CodePermissionDenied, path, err)
	case errors.Is(err, fs.ErrExist):
		return apperrors.FileSystem(apperrors.CodeAlreadyExists, path, err)
	default:
		return apperrors.FileSystem(apperrors.CodeUnknown, path, err)
	}
}

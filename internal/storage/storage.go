package storage

import (
	"context"

	"notes-backend/internal/model"
)

// NoteStore интерфейс низкоуровневого хранилища заметок.
// Каждый метод выполняет одну операцию над файловой системой.
// При сбое ввода-вывода реализация обязана вернуть типизированную ошибку
// apperrors.FileSystem со стабильным кодом - и никогда не маскировать
// сбой пустым значением.
type NoteStore interface {
	// Read читает и декодирует файл заметки по относительному пути
	Read(ctx context.Context, relPath string) (model.Note, error)

	// Create записывает новый файл заметки; если файл уже существует,
	// возвращает ошибку с кодом ALREADY_EXISTS
	Create(ctx context.Context, note model.Note) error

	// Update перезаписывает существующий файл заметки; если файла нет,
	// возвращает ошибку с кодом NOT_FOUND
	Update(ctx context.Context, note model.Note) error

	// Remove удаляет файл заметки по относительному пути
	Remove(ctx context.Context, relPath string) error

	// List возвращает относительные пути всех файлов заметок,
	// подпадающих под настроенные glob-шаблоны
	List(ctx context.Context) ([]string, error)
}

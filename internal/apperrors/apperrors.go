package apperrors

import (
	"errors"
	"fmt"
)

// Kind определяет категорию типизированной ошибки
type Kind string

// Фиксированный набор категорий ошибок
const (
	// KindValidation - ошибка валидации входных данных (fail fast в сервисе)
	KindValidation Kind = "validation"
	// KindFileSystem - ошибка файловой системы (возникает в storage-адаптере)
	KindFileSystem Kind = "filesystem"
	// KindNotFound - запрошенная сущность не найдена
	KindNotFound Kind = "not_found"
	// KindUnknown - неклассифицированная ошибка (fallback)
	KindUnknown Kind = "unknown"
)

// Стабильные машиночитаемые коды ошибок.
// Эти коды пересекают границу процесса как часть Result envelope,
// поэтому менять их нельзя - клиенты матчатся на них.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeNoteNotFound     = "NOTE_NOT_FOUND"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeAlreadyExists    = "ALREADY_EXISTS"
	CodeUnknown          = "UNKNOWN"
)

// Error - типизированная ошибка приложения.
// Создается один раз в точке обнаружения сбоя (обычно в storage-адаптере
// или при валидации в сервисе) и после создания не мутируется.
// Верхние слои (репозиторий, сервис) логируют и пробрасывают её без изменений,
// и только IPC-граница конвертирует её в сериализуемый Result.
type Error struct {
	// Kind - категория ошибки
	Kind Kind
	// Message - человекочитаемое сообщение (попадает в error.message на границе)
	Message string
	// Code - стабильный машиночитаемый идентификатор (попадает в error.code)
	Code string
	// Cause - исходная низкоуровневая ошибка (для errors.Is/As и отладки)
	Cause error
}

// New создает новую типизированную ошибку
func New(kind Kind, code, message string) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap создает новую типизированную ошибку, оборачивая исходную причину
func Wrap(kind Kind, code, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error реализует интерфейс error.
// Формат: <kind>:<code>: <message> - удобно сканировать и глазами, и grep'ом
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Code != "" {
		return fmt.Sprintf("%s:%s: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap возвращает исходную причину для цепочек errors.Is/errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is позволяет сравнивать ошибки по Kind и Code через errors.Is
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return true
}

// Validation создает ошибку валидации входных данных
func Validation(message string) *Error {
	return New(KindValidation, CodeValidation, message)
}

// NoteNotFound создает ошибку отсутствия заметки с указанным ID
func NoteNotFound(id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeNoteNotFound,
		Message: fmt.Sprintf("note %s not found", id),
	}
}

// FileSystem создает ошибку файловой системы.
// Код выбирает storage-адаптер по категории платформенной ошибки
// (NOT_FOUND, PERMISSION_DENIED, ALREADY_EXISTS, UNKNOWN).
func FileSystem(code, path string, cause error) *Error {
	return &Error{
		Kind:    KindFileSystem,
		Code:    code,
		Message: fmt.Sprintf("%s: %s", fsMessage(code), path),
		Cause:   cause,
	}
}

// fsMessage возвращает человекочитаемую часть сообщения для кода ФС
func fsMessage(code string) string {
	switch code {
	case CodeNotFound:
		return "file not found"
	case CodePermissionDenied:
		return "permission denied"
	case CodeAlreadyExists:
		return "file already exists"
	default:
		return "file operation failed"
	}
}

// Unknown оборачивает неклассифицированную ошибку
func Unknown(cause error) *Error {
	return Wrap(KindUnknown, CodeUnknown, "internal error", cause)
}

// FromError извлекает типизированную ошибку из цепочки err.
// Возвращает (nil, false), если в цепочке нет *Error -
// в этом случае граница не должна выставлять code в Result.
func FromError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

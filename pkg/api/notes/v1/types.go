// Package notesv1 содержит wire-типы IPC-границы заметок (версия v1).
// Все типы - плоские сериализуемые структуры: через границу не проходит
// ни одно живое значение ошибки, только данные.
package notesv1

import "encoding/json"

// Note - сериализуемое представление заметки на границе
type Note struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags,omitempty"`
	FilePath  string   `json:"file_path,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// CreateNoteRequest - тело запроса создания заметки
type CreateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// UpdateNoteRequest - тело запроса обновления заметки
type UpdateNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// ErrorPayload - плоское представление ошибки в Result.
// Code заполняется только когда исходная ошибка - распознанная
// типизированная ошибка приложения.
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Result - дискриминированный конверт ответа границы:
// {success: true, data} либо {success: false, error: {message, code?}}.
// Это единственный документированный wire-контракт системы.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorPayload   `json:"error,omitempty"`
}

// Event - сериализуемое событие изменения заметки для WebSocket-стрима
type Event struct {
	Type string `json:"type"`
	Note *Note  `json:"note,omitempty"`
}

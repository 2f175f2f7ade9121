package ipc

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"notes-backend/internal/apperrors"
	"notes-backend/internal/converter"
	svc "notes-backend/internal/service"
	notesService "notes-backend/internal/service/notes"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// Handler реализует IPC-границу заметок поверх HTTP/JSON.
// Каждый метод вызывает сервис и возвращает Result-конверт;
// ошибка сервиса логируется здесь и дальше существует только как данные.
type Handler struct {
	noteService svc.NoteService
	events      *notesService.EventService
	log         zerolog.Logger
}

// NewHandler создает новый экземпляр IPC-хэндлера.
// events опционален: при nil эндпоинт событий отвечает ошибкой.
func NewHandler(noteService svc.NoteService, events *notesService.EventService, log zerolog.Logger) *Handler {
	return &Handler{
		noteService: noteService,
		events:      events,
		log:         log.With().Str("component", "ipc").Logger(),
	}
}

// CreateNote создает новую заметку
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, "create_note", apperrors.Validation("invalid request body"))
		return
	}

	// Вызываем бизнес-логику
	note, err := h.noteService.Create(r.Context(), req.Title, req.Content, req.Tags)
	if err != nil {
		h.fail(w, "create_note", err)
		return
	}

	// Конвертируем domain модель в wire-представление
	h.ok(w, "create_note", converter.ModelToAPI(note))
}

// GetNote возвращает заметку по её UUID
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// Вызываем бизнес-логику
	note, err := h.noteService.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get_note", err)
		return
	}

	// Конвертируем domain модель в wire-представление
	h.ok(w, "get_note", converter.ModelToAPI(note))
}

// ListNotes возвращает список всех заметок
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	// Вызываем бизнес-логику
	notes, err := h.noteService.List(r.Context())
	if err != nil {
		h.fail(w, "list_notes", err)
		return
	}

	// Пустой список сериализуем как [], а не null
	apiNotes := converter.ModelsToAPI(notes)
	if apiNotes == nil {
		apiNotes = []*notesv1.Note{}
	}

	h.ok(w, "list_notes", apiNotes)
}

// UpdateNote обновляет существующую заметку
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, "update_note", apperrors.Validation("invalid request body"))
		return
	}

	// Вызываем бизнес-логику
	note, err := h.noteService.Update(r.Context(), id, req.Title, req.Content, req.Tags)
	if err != nil {
		h.fail(w, "update_note", err)
		return
	}

	// Конвертируем domain модель в wire-представление
	h.ok(w, "update_note", converter.ModelToAPI(note))
}

// DeleteNote удаляет заметку по UUID
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// Вызываем бизнес-логику
	if err := h.noteService.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete_note", err)
		return
	}

	h.ok(w, "delete_note", struct{}{})
}

// Health - liveness-проба (вне Result-контракта, plain 200)
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// ok пишет успешный конверт; сбой сериализации превращается в Failure
func (h *Handler) ok(w http.ResponseWriter, op string, data any) {
	result, err := successResult(data)
	if err != nil {
		h.fail(w, op, apperrors.Unknown(err))
		return
	}
	writeResult(w, result)
}

// fail логирует ошибку с контекстом операции и пишет конверт {success: false}
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.log.Error().Str("op", op).Err(err).Msg("operation failed")
	writeResult(w, failureResult(err))
}

package converter

import (
	"time"

	"notes-backend/internal/model"
	svc "notes-backend/internal/service"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// ModelToAPI конвертирует domain модель Note в wire-представление
func ModelToAPI(note model.Note) *notesv1.Note {
	var createdAt, updatedAt string
	if !note.CreatedAt.IsZero() {
		createdAt = note.CreatedAt.Format(time.RFC3339Nano)
	}
	if !note.UpdatedAt.IsZero() {
		updatedAt = note.UpdatedAt.Format(time.RFC3339Nano)
	}

	return &notesv1.Note{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		FilePath:  note.FilePath,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// APIToModel конвертирует wire-представление Note в domain модель
func APIToModel(apiNote *notesv1.Note) model.Note {
	if apiNote == nil {
		return model.Note{}
	}

	var createdAt, updatedAt time.Time
	if apiNote.CreatedAt != "" {
		createdAt, _ = time.Parse(time.RFC3339Nano, apiNote.CreatedAt)
	}
	if apiNote.UpdatedAt != "" {
		updatedAt, _ = time.Parse(time.RFC3339Nano, apiNote.UpdatedAt)
	}

	return model.Note{
		ID:        apiNote.ID,
		Title:     apiNote.Title,
		Content:   apiNote.Content,
		Tags:      apiNote.Tags,
		FilePath:  apiNote.FilePath,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ModelsToAPI конвертирует слайс domain моделей в слайс wire-представлений
func ModelsToAPI(notes []model.Note) []*notesv1.Note {
	if notes == nil {
		return nil
	}

	apiNotes := make([]*notesv1.Note, len(notes))
	for i, note := range notes {
		apiNotes[i] = ModelToAPI(note)
	}

	return apiNotes
}

// EventToAPI конвертирует доменное событие в wire-представление
func EventToAPI(event svc.Event) *notesv1.Event {
	apiEvent := &notesv1.Event{Type: string(event.Type)}
	if !event.Note.IsEmpty() || event.Note.FilePath != "" {
		apiEvent.Note = ModelToAPI(event.Note)
	}
	return apiEvent
}

package apperrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := New(KindValidation, CodeValidation, "Title required")
	want := "validation:VALIDATION_ERROR: Title required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	noCode := &Error{Kind: KindUnknown, Message: "boom"}
	if noCode.Error() != "unknown: boom" {
		t.Errorf("Error() = %q, want %q", noCode.Error(), "unknown: boom")
	}
}

func TestError_UnwrapReachesCause(t *testing.T) {
	cause := fs.ErrNotExist
	err := FileSystem(CodeNotFound, "notes/a.md", fmt.Errorf("open: %w", cause))

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected errors.Is to reach the platform cause through Unwrap")
	}
}

func TestError_IsMatchesByKindAndCode(t *testing.T) {
	err := NoteNotFound("id-1")

	matcher := &Error{Kind: KindNotFound, Code: CodeNoteNotFound}
	if !errors.Is(err, matcher) {
		t.Error("expected match on kind+code")
	}

	// Ошибка ФС с кодом NOT_FOUND - не то же самое, что отсутствие заметки
	fsErr := FileSystem(CodeNotFound, "notes/a.md", nil)
	if errors.Is(fsErr, matcher) {
		t.Error("filesystem NOT_FOUND must not match the note-not-found matcher")
	}
}

func TestFromError(t *testing.T) {
	typed := Validation("Title required")
	wrapped := fmt.Errorf("service: %w", typed)

	got, ok := FromError(wrapped)
	if !ok {
		t.Fatal("expected typed error in chain")
	}
	if got.Code != CodeValidation {
		t.Errorf("Code = %q, want %q", got.Code, CodeValidation)
	}

	if _, ok := FromError(errors.New("plain")); ok {
		t.Error("plain error must not be recognized as typed")
	}
}

func TestUnknown_HidesCauseMessage(t *testing.T) {
	err := Unknown(errors.New("password=hunter2"))
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
	if err.Cause == nil {
		t.Error("cause must be retained for logging")
	}
}

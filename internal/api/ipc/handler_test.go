package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-backend/internal/apperrors"
	"notes-backend/internal/config"
	"notes-backend/internal/model"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// mockNoteService - мок сервиса для тестирования handler
type mockNoteService struct {
	createFunc func(ctx context.Context, title, content string, tags []string) (model.Note, error)
	getFunc    func(ctx context.Context, id string) (model.Note, error)
	listFunc   func(ctx context.Context) ([]model.Note, error)
	updateFunc func(ctx context.Context, id, title, content string, tags []string) (model.Note, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockNoteService) Create(ctx context.Context, title, content string, tags []string) (model.Note, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, title, content, tags)
	}
	return model.Note{}, nil
}

func (m *mockNoteService) Get(ctx context.Context, id string) (model.Note, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return model.Note{}, nil
}

func (m *mockNoteService) List(ctx context.Context) ([]model.Note, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockNoteService) Update(ctx context.Context, id, title, content string, tags []string) (model.Note, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, title, content, tags)
	}
	return model.Note{}, nil
}

func (m *mockNoteService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func testGatewayConfig() *config.ConfigGateway {
	return &config.ConfigGateway{
		CORSAllowedOrigins: "http://localhost:3000",
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
	}
}

func newTestRouter(svc *mockNoteService) http.Handler {
	handler := NewHandler(svc, nil, zerolog.Nop())
	return NewRouter(handler, testGatewayConfig(), zerolog.Nop())
}

// doRequest выполняет запрос через роутер и разбирает Result-конверт
func doRequest(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, notesv1.Result) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var result notesv1.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result), "boundary must always answer with a Result envelope")

	return rec, result
}

func TestHandler_CreateNote_Success(t *testing.T) {
	svc := &mockNoteService{
		createFunc: func(ctx context.Context, title, content string, tags []string) (model.Note, error) {
			return model.Note{ID: "note-1", Title: title, Content: content, Tags: tags}, nil
		},
	}
	router := newTestRouter(svc)

	rec, result := doRequest(t, router, http.MethodPost, "/api/v1/notes", notesv1.CreateNoteRequest{
		Title:   "Test Note",
		Content: "Test Content",
		Tags:    []string{"work"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, result.Success)
	require.Nil(t, result.Error)

	var note notesv1.Note
	require.NoError(t, json.Unmarshal(result.Data, &note))
	assert.Equal(t, "note-1", note.ID)
	assert.Equal(t, "Test Note", note.Title)
	assert.Equal(t, []string{"work"}, note.Tags)
}

func TestHandler_CreateNote_ValidationError(t *testing.T) {
	svc := &mockNoteService{
		createFunc: func(ctx context.Context, title, content string, tags []string) (model.Note, error) {
			return model.Note{}, apperrors.Validation("Title required")
		},
	}
	router := newTestRouter(svc)

	rec, result := doRequest(t, router, http.MethodPost, "/api/v1/notes", notesv1.CreateNoteRequest{})

	// Исход операции передается конвертом, а не HTTP-статусом
	assert.Equal(t, http.StatusOK, rec.Code)
	require.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, "Title required", result.Error.Message)
	assert.Equal(t, apperrors.CodeValidation, result.Error.Code)
	assert.Nil(t, result.Data)
}

func TestHandler_CreateNote_InvalidBody(t *testing.T) {
	router := newTestRouter(&mockNoteService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var result notesv1.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.False(t, result.Success)
	assert.Equal(t, apperrors.CodeValidation, result.Error.Code)
}

func TestHandler_GetNote_NotFound(t *testing.T) {
	svc := &mockNoteService{
		getFunc: func(ctx context.Context, id string) (model.Note, error) {
			return model.Note{}, apperrors.NoteNotFound(id)
		},
	}
	router := newTestRouter(svc)

	_, result := doRequest(t, router, http.MethodGet, "/api/v1/notes/missing-id", nil)

	require.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, apperrors.CodeNoteNotFound, result.Error.Code)
	assert.Contains(t, result.Error.Message, "missing-id")
}

func TestHandler_GetNote_MissingFilePropagatesCode(t *testing.T) {
	// Сценарий: файл заметки исчез - storage поднял FileSystemError NOT_FOUND,
	// сервис пробросил, граница обязана отдать code NOT_FOUND в конверте
	svc := &mockNoteService{
		getFunc: func(ctx context.Context, id string) (model.Note, error) {
			return model.Note{}, apperrors.FileSystem(apperrors.CodeNotFound, "notes/gone.md", errors.New("ENOENT"))
		},
	}
	router := newTestRouter(svc)

	_, result := doRequest(t, router, http.MethodGet, "/api/v1/notes/some-id", nil)

	require.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, apperrors.CodeNotFound, result.Error.Code)
}

func TestHandler_GetNote_UnrecognizedError(t *testing.T) {
	svc := &mockNoteService{
		getFunc: func(ctx context.Context, id string) (model.Note, error) {
			return model.Note{}, errors.New("database exploded: password=hunter2")
		},
	}
	router := newTestRouter(svc)

	_, result := doRequest(t, router, http.MethodGet, "/api/v1/notes/some-id", nil)

	require.False(t, result.Success)
	require.NotNil(t, result.Error)

	// Нераспознанная ошибка: без кода и без утечки внутренностей
	assert.Empty(t, result.Error.Code)
	assert.Equal(t, "internal error", result.Error.Message)
}

func TestHandler_ListNotes_EmptyIsArray(t *testing.T) {
	router := newTestRouter(&mockNoteService{})

	_, result := doRequest(t, router, http.MethodGet, "/api/v1/notes", nil)

	require.True(t, result.Success)
	assert.Equal(t, "[]", string(result.Data))
}

func TestHandler_ListNotes_Success(t *testing.T) {
	svc := &mockNoteService{
		listFunc: func(ctx context.Context) ([]model.Note, error) {
			return []model.Note{
				{ID: "id-1", Title: "Note 1"},
				{ID: "id-2", Title: "Note 2"},
			}, nil
		},
	}
	router := newTestRouter(svc)

	_, result := doRequest(t, router, http.MethodGet, "/api/v1/notes", nil)

	require.True(t, result.Success)

	var notes []*notesv1.Note
	require.NoError(t, json.Unmarshal(result.Data, &notes))
	require.Len(t, notes, 2)
	assert.Equal(t, "Note 1", notes[0].Title)
}

func TestHandler_UpdateNote_Success(t *testing.T) {
	svc := &mockNoteService{
		updateFunc: func(ctx context.Context, id, title, content string, tags []string) (model.Note, error) {
			return model.Note{ID: id, Title: title, Content: content}, nil
		},
	}
	router := newTestRouter(svc)

	_, result := doRequest(t, router, http.MethodPut, "/api/v1/notes/note-1", notesv1.UpdateNoteRequest{
		Title:   "Updated",
		Content: "Updated Content",
	})

	require.True(t, result.Success)

	var note notesv1.Note
	require.NoError(t, json.Unmarshal(result.Data, &note))
	assert.Equal(t, "note-1", note.ID)
	assert.Equal(t, "Updated", note.Title)
}

func TestHandler_DeleteNote_Success(t *testing.T) {
	deleted := ""
	svc := &mockNoteService{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	router := newTestRouter(svc)

	_, result := doRequest(t, router, http.MethodDelete, "/api/v1/notes/note-1", nil)

	require.True(t, result.Success)
	assert.Equal(t, "note-1", deleted)
}

func TestHandler_ResultIsPlainSerializable(t *testing.T) {
	svc := &mockNoteService{
		getFunc: func(ctx context.Context, id string) (model.Note, error) {
			return model.Note{}, apperrors.FileSystem(apperrors.CodePermissionDenied, "x.md", errors.New("EACCES"))
		},
	}
	router := newTestRouter(svc)

	rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/notes/some-id", nil)

	// Конверт - плоский JSON-объект: никаких несериализуемых значений
	var plain map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plain))
	assert.Equal(t, false, plain["success"])

	errObj, ok := plain["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "PERMISSION_DENIED", errObj["code"])
	assert.NotEmpty(t, errObj["message"])
}

func TestHandler_Idempotence(t *testing.T) {
	svc := &mockNoteService{
		getFunc: func(ctx context.Context, id string) (model.Note, error) {
			return model.Note{}, apperrors.NoteNotFound(id)
		},
	}
	router := newTestRouter(svc)

	// Повторный вызов с теми же аргументами без побочных эффектов
	// дает тот же дискриминант
	_, first := doRequest(t, router, http.MethodGet, "/api/v1/notes/same-id", nil)
	_, second := doRequest(t, router, http.MethodGet, "/api/v1/notes/same-id", nil)

	assert.Equal(t, first.Success, second.Success)
	assert.Equal(t, first.Error.Code, second.Error.Code)
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(&mockNoteService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_NilGatewayConfig(t *testing.T) {
	// Конфиг без секции gateway: роутер работает на значениях по умолчанию
	handler := NewHandler(&mockNoteService{}, nil, zerolog.Nop())
	router := NewRouter(handler, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var result notesv1.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
}

func TestRouter_AuthRequired(t *testing.T) {
	cfg := testGatewayConfig()
	cfg.AuthToken = "my-secret-token"

	handler := NewHandler(&mockNoteService{}, nil, zerolog.Nop())
	router := NewRouter(handler, cfg, zerolog.Nop())

	// Без токена - 401
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Невалидный токен - 401
	req = httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Валидный токен - запрос проходит к границе
	req = httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil)
	req.Header.Set("Authorization", "Bearer my-secret-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// healthz доступен без токена
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	notesv1 "notes-backend/pkg/api/notes/v1"
)

// OperationError - локальная ошибка операции, восстановленная из Failure-конверта.
// Это уже не та ошибка, что была на сервере: через границу прошли только
// плоские поля message и code.
type OperationError struct {
	Message string
	Code    string
}

func (e *OperationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// API - HTTP-клиент IPC-границы заметок
type API struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPI создает клиент границы по базовому адресу сервера.
// token опционален (пустая строка - без авторизации).
func NewAPI(baseURL, token string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateNote создает заметку через границу
func (a *API) CreateNote(ctx context.Context, req notesv1.CreateNoteRequest) (*notesv1.Note, error) {
	var note notesv1.Note
	if err := a.do(ctx, http.MethodPost, "/api/v1/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// GetNote возвращает заметку по ID
func (a *API) GetNote(ctx context.Context, id string) (*notesv1.Note, error) {
	var note notesv1.Note
	if err := a.do(ctx, http.MethodGet, "/api/v1/notes/"+url.PathEscape(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// ListNotes возвращает список всех заметок
func (a *API) ListNotes(ctx context.Context) ([]*notesv1.Note, error) {
	var notes []*notesv1.Note
	if err := a.do(ctx, http.MethodGet, "/api/v1/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateNote обновляет заметку по ID
func (a *API) UpdateNote(ctx context.Context, id string, req notesv1.UpdateNoteRequest) (*notesv1.Note, error) {
	var note notesv1.Note
	if err := a.do(ctx, http.MethodPut, "/api/v1/notes/"+url.PathEscape(id), req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote удаляет заметку по ID
func (a *API) DeleteNote(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/v1/notes/"+url.PathEscape(id), nil, nil)
}

// SubscribeEvents подключается к WebSocket-стриму событий.
// Возвращенный канал закрывается при обрыве соединения или отмене ctx.
func (a *API) SubscribeEvents(ctx context.Context) (<-chan notesv1.Event, error) {
	wsURL := "ws" + strings.TrimPrefix(a.baseURL, "http") + "/api/v1/events"

	header := http.Header{}
	if a.token != "" {
		header.Set("Authorization", "Bearer "+a.token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to event stream: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	events := make(chan notesv1.Event, 10)

	// Закрываем соединение при отмене контекста
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer conn.Close()

		for {
			var result notesv1.Result
			if err := conn.ReadJSON(&result); err != nil {
				return
			}

			// Каждый кадр - Result-конверт; Failure в стриме не ожидается,
			// но проверяем дискриминант, а не полагаемся на это
			if !result.Success || result.Data == nil {
				continue
			}

			var event notesv1.Event
			if err := json.Unmarshal(result.Data, &event); err != nil {
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

// do выполняет один запрос к границе и разворачивает Result-конверт.
// Failure-конверт превращается в *OperationError; транспортные сбои
// (сеть, не-JSON ответ) возвращаются как обычные ошибки.
func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Граница отвечает конвертом со статусом 200; другой статус означает,
	// что запрос отклонен транспортным слоем (авторизация, rate limit)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result notesv1.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.Success {
		opErr := &OperationError{Message: "unknown error"}
		if result.Error != nil {
			opErr.Message = result.Error.Message
			opErr.Code = result.Error.Code
		}
		return opErr
	}

	if out != nil && result.Data != nil {
		if err := json.Unmarshal(result.Data, out); err != nil {
			return fmt.Errorf("failed to decode result data: %w", err)
		}
	}

	return nil
}

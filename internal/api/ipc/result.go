package ipc

import (
	"encoding/json"
	"net/http"

	"notes-backend/internal/apperrors"
	notesv1 "notes-backend/pkg/api/notes/v1"
)

// Этот файл - единственная точка системы, где ошибки превращаются в данные.
// Ни один слой выше границы не видит живую ошибку нижних слоев:
// наружу уходит только плоский Result.

// successResult строит конверт {success: true, data}
func successResult(data any) (notesv1.Result, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return notesv1.Result{}, err
	}
	return notesv1.Result{Success: true, Data: raw}, nil
}

// failureResult сплющивает ошибку в конверт {success: false, error}.
// Code заполняется только для распознанной типизированной ошибки;
// для неклассифицированных ошибок сообщение не раскрывает внутренности.
func failureResult(err error) notesv1.Result {
	payload := &notesv1.ErrorPayload{}

	if typed, ok := apperrors.FromError(err); ok {
		payload.Message = typed.Message
		payload.Code = typed.Code
	} else {
		payload.Message = "internal error"
	}

	return notesv1.Result{Success: false, Error: payload}
}

// writeResult сериализует конверт в ответ.
// HTTP-статус всегда 200: для завершившейся операции исход (успех или ошибка)
// передается внутри конверта, а не транспортным статусом.
func writeResult(w http.ResponseWriter, result notesv1.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(result); err != nil {
		// Ответ уже начат - записать другой конверт нельзя
		// (клиент увидит обрыв тела и обработает его как сетевую ошибку)
		return
	}
}

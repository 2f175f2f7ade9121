package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// authorizationHeader - имя заголовка для авторизации
const authorizationHeader = "Authorization"

// Auth проверяет наличие и валидность токена авторизации в заголовке запроса.
// Токен должен быть передан в формате "Bearer <token>".
// Пустой expectedToken отключает проверку (локальный запуск без авторизации).
// Liveness-проба /healthz пропускается без токена.
func Auth(next http.Handler, expectedToken string, log zerolog.Logger) http.Handler {
	if expectedToken == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get(authorizationHeader)
		if authHeader == "" {
			log.Warn().Str("path", r.URL.Path).Str("remote", r.RemoteAddr).Msg("authorization header not provided")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Проверяем формат токена (должен начинаться с "Bearer ")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Warn().Str("path", r.URL.Path).Str("remote", r.RemoteAddr).Msg("invalid authorization header format")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Извлекаем токен (часть после "Bearer ") и сравниваем с ожидаемым
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token != expectedToken {
			log.Warn().Str("path", r.URL.Path).Str("remote", r.RemoteAddr).Msg("invalid token")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Токен валиден, пропускаем запрос дальше к хендлеру
		next.ServeHTTP(w, r)
	})
}

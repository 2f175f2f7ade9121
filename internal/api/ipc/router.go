package ipc

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"notes-backend/internal/api/http/middleware"
	"notes-backend/internal/config"
)

// NewRouter собирает HTTP-роутер IPC-границы с цепочкой middleware.
// Порядок middleware (от внешнего к внутреннему):
// CORS → Logging → Auth → RateLimit → роутер
// Логирование стоит выше авторизации, чтобы заблокированные запросы тоже попадали в лог.
func NewRouter(handler *Handler, cfg *config.ConfigGateway, log zerolog.Logger) http.Handler {
	// Конфиг без секции gateway - валидный случай (все значения по умолчанию)
	if cfg == nil {
		cfg = &config.ConfigGateway{}
	}

	r := mux.NewRouter()

	// Маршруты операций над заметками
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/notes", handler.CreateNote).Methods(http.MethodPost)
	api.HandleFunc("/notes", handler.ListNotes).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", handler.GetNote).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", handler.UpdateNote).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id}", handler.DeleteNote).Methods(http.MethodDelete)

	// WebSocket-стрим событий изменения заметок
	api.HandleFunc("/events", handler.StreamEvents).Methods(http.MethodGet)

	// Liveness-проба
	r.HandleFunc("/healthz", handler.Health).Methods(http.MethodGet)

	// Применение middleware (в обратном порядке выполнения)
	var h http.Handler = r
	h = middleware.RateLimit(h, cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	h = middleware.Auth(h, cfg.AuthToken, log)
	h = middleware.Logging(h, log)
	h = setupCORS(cfg).Handler(h)

	return h
}

// setupCORS настраивает CORS middleware используя конфигурацию
func setupCORS(cfg *config.ConfigGateway) *cors.Cors {
	// Пустой список origins оставляем nil - rs/cors тогда разрешает все
	var origins []string
	if cfg.CORSAllowedOrigins != "" {
		origins = strings.Split(cfg.CORSAllowedOrigins, ",")
		// Убираем пробелы из origins
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	maxAge := cfg.CORSMaxAge
	if maxAge == 0 {
		maxAge = 86400 // 24 часа по умолчанию
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-Requested-With",
		},
		AllowCredentials: true,
		MaxAge:           maxAge,
	})
}

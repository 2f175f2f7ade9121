package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"notes-backend/internal/config"
)

// New создает корневой логгер приложения по настройкам из конфига.
// Неизвестный уровень логирования не фатален - откатываемся на info.
func New(cfg *config.ConfigLogger) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg != nil && cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}

	var out = os.Stderr
	log := zerolog.New(out)

	// Pretty-вывод для локальной разработки, JSON по умолчанию
	if cfg != nil && cfg.Pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	return log.Level(level).With().Timestamp().Logger()
}

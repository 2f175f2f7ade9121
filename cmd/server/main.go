package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"notes-backend/internal/config"
	"notes-backend/internal/logger"
	"notes-backend/internal/server"
)

const defaultConfigFile = "config.yml"

func main() {
	// Путь к конфигу можно переопределить через переменную окружения
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = defaultConfigFile
	}

	// Загружаем конфигурацию из файла
	appConfig, err := config.InitConfig[config.Config](configFile)
	if err != nil {
		log.Fatalf("Error initializing config: %v", err)
	}

	appLog := logger.New(appConfig.Logger)
	appLog.Info().Str("config", configFile).Msg("starting notes backend")

	// Создаем сервер (listener поднимается сразу)
	srv, err := server.NewServer(appConfig, appLog)
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to create server")
	}

	// Инициализация компонентов (DI): Storage → Repository → Service → Handler
	if err := srv.Initialize(); err != nil {
		appLog.Fatal().Err(err).Msg("failed to initialize server")
	}

	// Канал для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Запуск HTTP сервера и watcher'а в горутинах
	errChan := srv.Start()

	// Ожидание сигнала или ошибки
	select {
	case err := <-errChan:
		appLog.Fatal().Err(err).Msg("server error")
	case sig := <-sigChan:
		appLog.Info().Str("signal", sig.String()).Msg("received signal, starting graceful shutdown")
	}

	// Graceful shutdown с таймаутом из конфига
	if err := srv.Shutdown(); err != nil {
		appLog.Error().Err(err).Msg("shutdown finished with error")
		os.Exit(1)
	}

	appLog.Info().Msg("notes backend stopped")
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"notes-backend/internal/api/ipc"
	"notes-backend/internal/config"
	"notes-backend/internal/repository"
	"notes-backend/internal/repository/memory"
	"notes-backend/internal/repository/vault"
	notesService "notes-backend/internal/service/notes"
	"notes-backend/internal/storage/filestore"
)

// Server представляет сервер приложения с IPC-границей поверх HTTP
type Server struct {
	// HTTP компоненты
	HTTPServer *http.Server
	HTTPAddr   string
	Listener   net.Listener

	// Контекст сервера для graceful shutdown стримов и watcher'а.
	// Отменяется при shutdown, чтобы WebSocket-подписчики и watcher
	// корректно завершились
	Ctx    context.Context
	Cancel context.CancelFunc

	// Конфигурация и логгер
	Config *config.Config
	Log    zerolog.Logger

	// Компоненты хранилища (заполняются в Initialize)
	watcher *notesService.Watcher
	events  *notesService.EventService
}

// NewServer создает и инициализирует новый экземпляр сервера
func NewServer(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	httpPort := cfg.Server.PortHTTP
	if httpPort == 0 {
		httpPort = 8080
		log.Warn().Msg("PortHTTP is 0, using default 8080")
	}

	httpAddr := "0.0.0.0:" + strconv.Itoa(httpPort)
	log.Info().Str("addr", httpAddr).Msg("config loaded")

	// Создаем listener заранее: ошибка занятого порта всплывает на старте,
	// а не после инициализации всех компонентов
	listener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", httpAddr, err)
	}

	// Контекст сервера отменяется при получении сигнала shutdown
	serverCtx, serverCancel := context.WithCancel(context.Background())

	return &Server{
		HTTPAddr: httpAddr,
		Listener: listener,
		Ctx:      serverCtx,
		Cancel:   serverCancel,
		Config:   cfg,
		Log:      log,
	}, nil
}

// Initialize инициализирует компоненты сервера (Storage → Repository → Service → Handler)
func (s *Server) Initialize() error {
	s.events = notesService.NewEventService()

	noteRepo, err := s.initRepository()
	if err != nil {
		return err
	}

	noteSvc := notesService.NewNoteService(noteRepo, s.events)
	s.Log.Info().Msg("initialized note service")

	noteHandler := ipc.NewHandler(noteSvc, s.events, s.Log)
	s.Log.Info().Msg("initialized IPC handler")

	router := ipc.NewRouter(noteHandler, s.Config.Gateway, s.Log)

	s.HTTPServer = &http.Server{
		Addr:              s.HTTPAddr,
		Handler:           router,
		ReadTimeout:       time.Duration(s.Config.Server.HTTPReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.Config.Server.HTTPWriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(s.Config.Server.HTTPIdleTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(s.Config.Server.HTTPReadHeaderTimeout) * time.Second,
		// Контексты запросов наследуются от контекста сервера: HTTPServer.Shutdown
		// не закрывает hijacked WebSocket-соединения, поэтому отмена s.Ctx -
		// единственный способ завершить их стрим-хендлеры при shutdown
		BaseContext: func(net.Listener) context.Context { return s.Ctx },
	}

	return nil
}

// initRepository выбирает реализацию репозитория по конфигурации:
// файловое хранилище при настроенном vault.path, иначе in-memory
func (s *Server) initRepository() (repository.NoteRepository, error) {
	vaultCfg := s.Config.Vault
	if vaultCfg == nil || vaultCfg.Path == "" {
		s.Log.Info().Msg("initialized in-memory repository (map-based)")
		return memory.NewRepository(), nil
	}

	store, err := filestore.NewStore(vaultCfg.Path, vaultCfg.IncludeGlobs, s.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	s.Log.Info().Str("path", vaultCfg.Path).Msg("initialized file store")

	noteRepo, err := vault.NewRepository(s.Ctx, store, s.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to index vault: %w", err)
	}
	s.Log.Info().Msg("initialized vault repository")

	// Watcher подхватывает внешние изменения файлов заметок
	if vaultCfg.Watch {
		watcher, err := notesService.NewWatcher(store, s.events, s.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to create vault watcher: %w", err)
		}
		s.watcher = watcher
	}

	return noteRepo, nil
}

// Start запускает HTTP сервер и watcher в горутинах.
// Возвращает канал ошибок для отслеживания ошибок серверов
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 2)

	go func() {
		s.Log.Info().Str("addr", s.HTTPAddr).Msg("IPC server listening")
		if err := s.HTTPServer.Serve(s.Listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("IPC server error: %w", err)
		}
	}()

	if s.watcher != nil {
		if err := s.watcher.Start(s.Ctx); err != nil {
			errChan <- fmt.Errorf("vault watcher error: %w", err)
		}
	}

	return errChan
}

// Shutdown выполняет graceful shutdown сервера
func (s *Server) Shutdown() error {
	s.Log.Info().Msg("starting graceful shutdown")

	// Отменяем контекст сервера ПЕРЕД Shutdown: WebSocket-стримы и watcher
	// слушают именно его и должны завершиться до остановки HTTP сервера
	s.Cancel()

	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.Log.Warn().Err(err).Msg("failed to close vault watcher")
		}
	}

	shutdownTimeout := time.Duration(s.Config.Server.GracefulShutdownTimeout) * time.Second
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.HTTPServer.Shutdown(ctx); err != nil {
		s.Log.Warn().Err(err).Msg("graceful shutdown timeout, forcing stop")
		if closeErr := s.HTTPServer.Close(); closeErr != nil {
			return closeErr
		}
		return err
	}

	s.Log.Info().Msg("IPC server stopped gracefully")
	return nil
}

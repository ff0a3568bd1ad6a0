package main

import (
	"accountant-assistant/internal/adapters/eventbroker/nats"
	"accountant-assistant/internal/adapters/handlers/http/chi"
	upload2 "accountant-assistant/internal/adapters/handlers/http/chi/v1/upload"
	"accountant-assistant/internal/adapters/handlers/ws"
	"accountant-assistant/internal/adapters/notifier"
	"accountant-assistant/internal/adapters/scheduler"
	"accountant-assistant/internal/adapters/transport"
	"accountant-assistant/internal/config"
	"accountant-assistant/internal/core/domain"
	"accountant-assistant/internal/core/port"
	"accountant-assistant/internal/core/service/upload"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	//transport
	uploadTransport, err := transport.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init upload transport", "transport", cfg.Upload.Transport, "error", err)
		os.Exit(1)
	}
	logger.Info("upload transport ready", "transport", cfg.Upload.Transport)

	//notifications
	notifiers := []port.Notifier{notifier.NewLogNotifier(logger)}
	var publisher port.EventPublisher
	if cfg.NATS.Enabled {
		publisher, err = nats.NewNATSPublisher(ctx, cfg.NATS, logger)
		if err != nil {
			logger.Error("failed to init nats publisher", "error", err)
			os.Exit(1)
		}
		notifiers = append(notifiers, publisher)
		logger.Info("nats publisher connected", "stream", cfg.NATS.StreamName)
	}
	// the hub subscribes to the sessions, so it is bound once they exist
	hubNotifier := notifier.NewDeferred()
	notifiers = append(notifiers, hubNotifier)
	sessionNotifier := notifier.NewFanout(notifiers...)

	//sessions
	ticker := scheduler.NewTicker()
	sessions := make([]port.UploadSessionService, 0, len(domain.Surfaces))
	for _, surface := range domain.Surfaces {
		sessions = append(sessions, upload.NewUploadSession(surface, uploadTransport, ticker, sessionNotifier, cfg.Upload, logger))
	}
	registry := upload.NewSessionRegistry(sessions...)

	hub := ws.NewHub(registry, logger, cfg.Env.Env != "prod")
	hubNotifier.Bind(hub)

	//http
	uploadHandler := upload2.NewUploadHandlerV1(registry, hub, logger, cfg.Server.MaxUploadBytes)

	router := chi.NewRouter(logger, uploadHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	// websocket connections are hijacked, Shutdown does not wait for them
	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()

	for _, session := range sessions {
		session.Clear()
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close nats publisher", "error", err)
		}
	}
	logger.Info("app shutdown complete")

}

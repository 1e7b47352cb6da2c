package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rocketscienceinc/gridgames-backend/internal/config"
	"github.com/rocketscienceinc/gridgames-backend/internal/metrics"
	"github.com/rocketscienceinc/gridgames-backend/internal/repository"
	"github.com/rocketscienceinc/gridgames-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gridgames-backend/internal/session"
	"github.com/rocketscienceinc/gridgames-backend/internal/usecase"
	"github.com/rocketscienceinc/gridgames-backend/transport/rest"
	"github.com/rocketscienceinc/gridgames-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gameMetrics := metrics.New(promRegistry)

	registry := session.NewRegistry(logger,
		session.WithTTL(conf.Session.TTL),
		session.WithEvictHook(func(_ string, evicted *session.Session) {
			gameMetrics.SessionEvicted(evicted.Kind)
		}),
		session.WithSweepHook(gameMetrics.SetActiveSessions),
	)

	resultRepo := repository.NewResultRepository(redisStorage.Connection, conf.Redis.ResultTTL)
	gameUseCase := usecase.NewGameManager(logger, conf, registry, resultRepo, gameMetrics)

	go func() {
		registry.Run(ctx, conf.Session.SweepInterval)
		log.Info("session janitor stopped")
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		handlers := rest.NewHandlers(logger, resultRepo, gameUseCase)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, handlers, promRegistry)); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

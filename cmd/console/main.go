// Command console runs the laser workshop order console: it keeps a session
// with the workshop backend, mirrors orders and shifts in memory, follows the
// backend's realtime feed and serves the console API.
//
// @title                      Laser Workshop Console API
// @version                    1.0
// @description                Order, shift and employee management for the laser workshop.
// @BasePath                   /
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/api"
	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
	"github.com/laser-workshop/workshop-console/internal/core/service"
	"github.com/laser-workshop/workshop-console/internal/i18n"
	"github.com/laser-workshop/workshop-console/internal/infrastructure/config"
	"github.com/laser-workshop/workshop-console/internal/infrastructure/db/file"
	redisstore "github.com/laser-workshop/workshop-console/internal/infrastructure/db/redis"
	httpserver "github.com/laser-workshop/workshop-console/internal/infrastructure/http"
	"github.com/laser-workshop/workshop-console/internal/infrastructure/http/handlers"
	"github.com/laser-workshop/workshop-console/internal/infrastructure/http/live"
	"github.com/laser-workshop/workshop-console/internal/infrastructure/queue"
	"github.com/laser-workshop/workshop-console/internal/infrastructure/realtime"
	"github.com/laser-workshop/workshop-console/internal/infrastructure/workshopapi"
	"github.com/laser-workshop/workshop-console/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "workshop-console",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("console stopped")
	}
	log.Info().Msg("console exited properly")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Persistence ---
	deps := map[string]handlers.Pinger{}
	store, closeStore, err := openStore(ctx, cfg, deps)
	if err != nil {
		return err
	}
	defer closeStore()

	catalog, err := i18n.Load(ctx, cfg.Locale.Dir, store, i18n.Language(cfg.Locale.DefaultLanguage), log)
	if err != nil {
		return err
	}

	// --- Backend ---
	backend := workshopapi.New(cfg.Backend.APIBaseURL, workshopapi.Options{Timeout: cfg.Backend.Timeout}, log)
	deps["backend"] = backend

	session := service.NewSessionService(backend, store, log)
	backend.SetTokenSource(session)

	channel := realtime.New(realtime.Options{
		URL:         cfg.Backend.WSURL,
		MaxAttempts: cfg.Realtime.MaxAttempts,
		BaseDelay:   cfg.Realtime.BaseDelay,
	}, session, log)

	workshop := service.NewWorkshop(ctx, backend, channel, log)
	session.Subscribe(workshop.OnSession)

	dispatcher := queue.NewDispatcher(cfg.DispatchWorkers, workshop, log)
	dispatcher.Start(ctx)
	go dispatcher.Consume(ctx, channel.Events())

	hub := live.NewHub(workshop.Board, log)
	go hub.Run(ctx)
	session.Subscribe(func(u *domain.User) {
		if u == nil {
			hub.CloseAll()
		}
	})

	if err := session.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore previous session")
	}

	// --- HTTP ---
	e := httpserver.NewRouter(log, deps)
	api.Register(e, api.Deps{
		Session:  session,
		Workshop: workshop,
		Backend:  backend,
		Channel:  channel,
		Catalog:  catalog,
		Hub:      hub,
		Log:      log,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.Backend.APIBaseURL).Msg("console listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channel.Disconnect()
	channel.Wait()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// openStore picks the key-value backend for the session and preferences.
func openStore(ctx context.Context, cfg *config.Config, deps map[string]handlers.Pinger) (ports.KeyValueStore, func(), error) {
	if cfg.Storage.Backend == config.StorageRedis {
		rs, err := redisstore.Open(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		deps["redis"] = rs
		return rs, func() { _ = rs.Close() }, nil
	}

	fs, err := file.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	return fs, func() {}, nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tomodachi-calendar/internal/adapters/auth/remote"
	"tomodachi-calendar/internal/adapters/auth/session"
	pg "tomodachi-calendar/internal/adapters/storage/postgres"
	rds "tomodachi-calendar/internal/adapters/storage/redis"
	mem "tomodachi-calendar/internal/adapters/storage/memory"
	"tomodachi-calendar/internal/domain/events"
	"tomodachi-calendar/internal/platform/config"
	"tomodachi-calendar/internal/platform/logger"
	"tomodachi-calendar/internal/ports/auth"
	"tomodachi-calendar/internal/router"
)

// @title Tomodachi Calendar API
// @version 1.0
// @description Calendario compartido: cualquiera lee, solo el autor edita o borra su evento.
// @BasePath /
func main() {
	// .env primero: el logger también se configura desde ahí.
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("invalid config", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	log := logger.New(cfg.LoggerOptions())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("cannot open store", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	defer closeStore()

	verifier, err := openVerifier(cfg, log)
	if err != nil {
		log.Error("cannot configure sessions", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Store:        store,
		Logger:       log,
		Location:     cfg.Location,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", map[string]any{"addr": cfg.Addr, "tz": cfg.Location.String()})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
	log.Info("server stopped", nil)
}

// openStore elige backend: Redis, luego Postgres, si no in-memory (modo dev).
func openStore(ctx context.Context, cfg config.Config, log logger.Logger) (events.Store, func(), error) {
	switch {
	case cfg.RedisAddr != "":
		client, err := rds.Open(ctx, rds.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis store", map[string]any{"addr": cfg.RedisAddr, "key": cfg.EventsKey})
		return rds.NewEventStore(client, cfg.EventsKey), func() { _ = client.Close() }, nil

	case cfg.DBDSN != "":
		db, err := pg.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("using postgres store", map[string]any{"key": cfg.EventsKey})
		return pg.NewEventStore(db, cfg.EventsKey), func() { _ = db.Close() }, nil

	default:
		log.Warn("no REDIS_ADDR or DB_DSN, using in-memory store", nil)
		return mem.NewEventStore(), func() {}, nil
	}
}

// openVerifier: SESSION_SECRET => JWT local, AUTH_BASE_URL => servicio remoto,
// ninguno => nil (modo dev con X-Debug-User-ID).
func openVerifier(cfg config.Config, log logger.Logger) (auth.AuthVerifier, error) {
	switch {
	case cfg.SessionSecret != "":
		log.Info("sessions: jwt", nil)
		return session.NewVerifier(cfg.SessionSecret)
	case cfg.AuthBaseURL != "":
		log.Info("sessions: remote", map[string]any{"base_url": cfg.AuthBaseURL})
		return remote.NewVerifier(remote.Config{
			BaseURL: cfg.AuthBaseURL,
			APIKey:  cfg.AuthAPIKey,
			Timeout: cfg.AuthTimeout,
		})
	default:
		log.Warn("sessions: dev mode (X-Debug-User-ID)", nil)
		return nil, nil
	}
}

package router

import (
	"net/http"
	"time"

	_ "tomodachi-calendar/docs"
	mem "tomodachi-calendar/internal/adapters/storage/memory"
	"tomodachi-calendar/internal/domain/events"
	"tomodachi-calendar/internal/middleware"
	"tomodachi-calendar/internal/platform/logger"
	"tomodachi-calendar/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene nil se usa el store in-memory.
	Store events.Store

	Logger   logger.Logger
	Location *time.Location
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	store := opts.Store
	if store == nil {
		store = mem.NewEventStore()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.AccessLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	eventsSvc := events.NewService(store, events.Options{
		Location: opts.Location,
		Logger:   log.With(map[string]any{"component": "events"}),
	})
	events.RegisterRoutes(r, eventsSvc, log)

	return r
}

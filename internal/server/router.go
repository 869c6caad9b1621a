// Package server is the local web console API over the week view.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type Options struct {
	AllowedOrigins []string
	// Logger receives request logs; it should use the ECS ReplaceAttr of
	// NewLogger.
	Logger *slog.Logger
}

// NewLogger returns a JSON logger in the ECS schema used for request logs.
func NewLogger(w io.Writer, level slog.Leveler, version string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "chronos"),
		slog.String("version", version),
	)
}

func NewRouter(h *Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.Route("/api", func(r chi.Router) {
		r.Route("/week", func(r chi.Router) {
			r.Get("/", h.GetWeek)
			r.Post("/reload", h.ReloadWeek)
		})
		r.Route("/days/{date}", func(r chi.Router) {
			r.Post("/entries", h.AddEntry)
			r.Post("/leaves", h.RegisterLeave)
		})
		r.Route("/entries/{id}", func(r chi.Router) {
			r.Put("/", h.EditEntry)
			r.Delete("/", h.DeleteEntry)
		})
		r.Put("/leaves/{id}/cancel", h.CancelLeave)
		r.Get("/projects", h.ListProjects)
	})
	return r
}

// ListenAndServe serves handler on addr until ctx is canceled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

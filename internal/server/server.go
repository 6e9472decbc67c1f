// Package server exposes the generated artifacts over HTTP for local
// dashboard development. It serves static files only; nothing here mutates
// state.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fitsync/internal/runlog"
)

// Options configures the preview server.
type Options struct {
	Bind       string
	ArtifactsD string // directory the sync writes artifacts into
	RunLogPath string // optional; empty disables /api/runs
	Logger     *slog.Logger
}

// New builds the HTTP server. Artifacts are served from the directory root,
// so /activities.json maps straight onto the artifact of the same name.
func New(opts Options) *http.Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if opts.RunLogPath != "" {
		r.Get("/api/runs", runsHandler(opts.RunLogPath, logger))
	}
	r.Handle("/*", http.FileServer(http.Dir(opts.ArtifactsD)))

	return &http.Server{
		Addr:              opts.Bind,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start).Round(time.Microsecond))
		})
	}
}

// runsHandler reads the sync journal on demand so the server never holds the
// database open between requests.
func runsHandler(path string, logger *slog.Logger) http.HandlerFunc {
	type runView struct {
		ID         string `json:"id"`
		StartedAt  string `json:"started_at"`
		FinishedAt string `json:"finished_at"`
		Status     string `json:"status"`
		Activities int    `json:"activities"`
		Wellness   int    `json:"wellness"`
		Sources    string `json:"sources"`
		Error      string `json:"error,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := runlog.Open(path)
		if err != nil {
			logger.Error("open run journal", "error", err)
			http.Error(w, "journal unavailable", http.StatusServiceUnavailable)
			return
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		runs, err := store.Recent(ctx, 50)
		if err != nil {
			logger.Error("query run journal", "error", err)
			http.Error(w, "journal query failed", http.StatusInternalServerError)
			return
		}

		views := make([]runView, 0, len(runs))
		for _, run := range runs {
			views = append(views, runView{
				ID:         run.ID,
				StartedAt:  run.StartedAt.Format(time.RFC3339),
				FinishedAt: run.FinishedAt.Format(time.RFC3339),
				Status:     run.Status,
				Activities: run.Activities,
				Wellness:   run.Wellness,
				Sources:    run.Sources,
				Error:      run.Error,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(views)
	}
}

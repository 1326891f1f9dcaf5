package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.Recoverer)
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(requestLogger(h.logger))

	mux.Get("/health", h.Health)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api/v1", func(r chi.Router) {
		r.Route("/news", func(r chi.Router) {
			r.Get("/", h.GetState)
			r.Get("/stream", h.StreamState)
			r.Post("/next", h.LoadNextPage)
			r.Post("/refresh", h.Refresh)
			r.Post("/offline", h.LoadOffline)
			r.Delete("/offline-notice", h.DismissOfflineNotice)
			r.Get("/{id}", h.GetArticle)
		})
		r.Post("/events", h.PostEvent)
	})

	return mux
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// Package api serves the settings console over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)

	r.Route("/api/guilds", func(r chi.Router) {
		r.Get("/", h.ListGuilds)

		r.Route("/{guildID}", func(r chi.Router) {
			r.Put("/", h.TrackGuild)
			r.Get("/settings", h.GetSettings)
			r.Get("/external-id", h.GetExternalID)

			r.Route("/settings/{section}", func(r chi.Router) {
				r.Patch("/", h.UpdateSection)
				r.Post("/reset", h.ResetSection)
				r.Post("/save", h.SaveSection)
			})
		})
	})

	return r
}

// NewServer creates the HTTP server for the console API
func NewServer(addr string, h *Handler, allowedOrigins []string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h, allowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// requestLogger logs every request with logrus
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			entry := log.WithFields(log.Fields{
				"requestID": middleware.GetReqID(r.Context()),
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    ww.Status(),
				"bytes":     ww.BytesWritten(),
				"duration":  time.Since(start),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.Warn("HTTP request failed")
				return
			}
			entry.Debug("HTTP request")
		}()

		next.ServeHTTP(ww, r)
	})
}

// Package server exposes the terrain generator over HTTP.
package server

import (
	"net/http"
	"time"

	"terragen/internal/terrain"
	"terragen/internal/tiles"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Size limits for on-demand renders.
const (
	minSize     = 1
	maxSize     = 1024
	defaultSize = 256
)

// Server renders terrain for HTTP clients. One builder backs every route so
// tiles and ad-hoc renders share a seed and parameters.
type Server struct {
	builder  *terrain.Builder
	streamer *tiles.Streamer
	log      zerolog.Logger
}

// New creates a server around builder and streamer.
func New(builder *terrain.Builder, streamer *tiles.Streamer, log zerolog.Logger) *Server {
	return &Server{
		builder:  builder,
		streamer: streamer,
		log:      log,
	}
}

// Routes configures all routes and returns the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/info", s.info)
		r.Get("/tiles/{x}/{y}", s.tile)
		r.Get("/heightmap", s.heightmap)
		r.Get("/render", s.render)
	})

	return r
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Debug().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("took", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

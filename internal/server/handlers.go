package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"terragen/internal/colormap"
	"terragen/internal/export"
	"terragen/internal/tiles"

	"github.com/go-chi/chi/v5"
	"github.com/go-gl/mathgl/mgl64"
)

var errNonFinite = errors.New("value must be finite")

// infoResponse describes the generator behind the server.
type infoResponse struct {
	Seed         int64     `json:"seed"`
	Scale        float64   `json:"scale"`
	Octaves      int       `json:"octaves"`
	Persistence  float64   `json:"persistence"`
	Lacunarity   float64   `json:"lacunarity"`
	Amplitudes   []float64 `json:"amplitudes"`
	Frequencies  []float64 `json:"frequencies"`
	AmplitudeSum float64   `json:"amplitude_sum"`
	TileSize     int       `json:"tile_size"`
	Tiles        tileStats `json:"tiles"`
}

// tileStats reports the state of the tile cache.
type tileStats struct {
	Cached   int    `json:"cached"`
	Capacity int    `json:"capacity"`
	Evicted  uint64 `json:"evicted"`
	Pending  int    `json:"pending"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// info handles GET /api/info
func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	p := s.builder.Params()
	store := s.streamer.Store()
	respondJSON(w, http.StatusOK, infoResponse{
		Seed:         s.builder.Seed(),
		Scale:        p.Scale,
		Octaves:      p.Octaves,
		Persistence:  p.Persistence,
		Lacunarity:   p.Lacunarity,
		Amplitudes:   s.builder.Amplitudes(),
		Frequencies:  s.builder.Frequencies(),
		AmplitudeSum: s.builder.AmplitudeSum(),
		TileSize:     s.streamer.Size(),
		Tiles: tileStats{
			Cached:   store.Len(),
			Capacity: store.Capacity(),
			Evicted:  store.Evicted(),
			Pending:  s.streamer.Pending(),
		},
	})
}

// tile handles GET /api/tiles/{x}/{y} - returns one cached tile as PNG
func (s *Server) tile(w http.ResponseWriter, r *http.Request) {
	x, err := strconv.Atoi(chi.URLParam(r, "x"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	y, err := strconv.Atoi(chi.URLParam(r, "y"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	c := tiles.Coord{X: x, Y: y}
	t := s.streamer.Get(c)
	s.streamer.RequestAround(c, 1)
	s.respondImage(w, t.Image)
}

// heightmap handles GET /api/heightmap - returns the raw field as JSON
func (s *Server) heightmap(w http.ResponseWriter, r *http.Request) {
	width, height, offset, ok := parseWindow(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.builder.Build(width, height, offset))
}

// render handles GET /api/render - returns a normalized, colored PNG
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	width, height, offset, ok := parseWindow(w, r)
	if !ok {
		return
	}
	s.respondImage(w, colormap.ToImage(s.builder.Build(width, height, offset)))
}

func (s *Server) respondImage(w http.ResponseWriter, buf colormap.RGBBuffer) {
	var b bytes.Buffer
	if err := export.Encode(&b, export.FormatPNG, buf.Image()); err != nil {
		s.log.Error().Err(err).Msg("encode png")
		respondError(w, http.StatusInternalServerError, "Failed to encode image")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(b.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b.Bytes()); err != nil {
		s.log.Debug().Err(err).Msg("write png")
	}
}

// parseWindow reads width, height, ox and oy query parameters.
func parseWindow(w http.ResponseWriter, r *http.Request) (int, int, mgl64.Vec2, bool) {
	width := clamp(parseIntParam(r, "width", defaultSize), minSize, maxSize)
	height := clamp(parseIntParam(r, "height", defaultSize), minSize, maxSize)

	ox, err := parseFloatParam(r, "ox")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ox offset")
		return 0, 0, mgl64.Vec2{}, false
	}
	oy, err := parseFloatParam(r, "oy")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid oy offset")
		return 0, 0, mgl64.Vec2{}, false
	}
	return width, height, mgl64.Vec2{ox, oy}, true
}

func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNonFinite
	}
	return f, nil
}

// clamp limits a value to a range
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// respondJSON writes a JSON response. The body is encoded before the status
// is sent so encoding failures surface as 500.
func respondJSON(w http.ResponseWriter, status int, data any) {
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(data); err != nil {
		b.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&b).Encode(map[string]string{"error": "Failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(b.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(b.Bytes())
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

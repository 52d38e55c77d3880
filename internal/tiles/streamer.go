package tiles

import (
	"runtime"
	"sync"
	"time"

	"terragen/internal/colormap"
	"terragen/internal/profiling"
	"terragen/internal/terrain"

	"github.com/rs/zerolog"
)

// Streamer renders tiles on demand and in the background.
type Streamer struct {
	jobs       chan Coord
	pending    map[Coord]struct{}
	pendingMu  sync.Mutex
	maxPending int
	closed     bool
	wg         sync.WaitGroup

	size    int
	lo, hi  float64
	builder *terrain.Builder
	store   *Store
	log     zerolog.Logger
}

// NewStreamer starts one render worker per CPU. Tiles are size x size pixels
// and are normalized against the builder's amplitude bound so that
// neighbouring tiles share one height scale.
func NewStreamer(b *terrain.Builder, store *Store, size int, log zerolog.Logger) *Streamer {
	bound := b.AmplitudeSum()
	s := &Streamer{
		jobs:       make(chan Coord, 1024),
		pending:    make(map[Coord]struct{}),
		maxPending: 4096,
		size:       max(size, 1),
		lo:         -bound,
		hi:         bound,
		builder:    b,
		store:      store,
		log:        log.With().Str("component", "tiles").Logger(),
	}

	workers := max(runtime.NumCPU(), 1)
	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker()
	}

	return s
}

// Size returns the tile edge in pixels.
func (s *Streamer) Size() int { return s.size }

// Store returns the cache the streamer renders into.
func (s *Streamer) Store() *Store { return s.store }

// Close stops the workers after the queued tiles are rendered.
func (s *Streamer) Close() {
	s.pendingMu.Lock()
	if s.closed {
		s.pendingMu.Unlock()
		return
	}
	s.closed = true
	close(s.jobs)
	s.pendingMu.Unlock()
	s.wg.Wait()
}

func (s *Streamer) worker() {
	defer s.wg.Done()
	for c := range s.jobs {
		s.Get(c)
		s.pendingMu.Lock()
		delete(s.pending, c)
		s.pendingMu.Unlock()
	}
}

// Get returns the tile at c, rendering it on the calling goroutine if it is
// not cached.
func (s *Streamer) Get(c Coord) *Tile {
	if t, ok := s.store.Get(c); ok {
		return t
	}
	return s.store.Add(s.Render(c))
}

// Render builds the tile at c without consulting the cache.
func (s *Streamer) Render(c Coord) *Tile {
	defer profiling.Track("tiles.Render")()
	start := time.Now()

	field := s.builder.Build(s.size, s.size, c.Origin(s.size))
	norm := colormap.NormalizeRange(field, s.lo, s.hi)
	t := &Tile{
		Coord:      c,
		Field:      field,
		Normalized: norm,
		Image:      colormap.Colorize(norm),
	}

	s.log.Debug().Stringer("tile", c).Dur("took", time.Since(start)).Msg("tile rendered")
	return t
}

// Request queues c for background rendering. It returns false when the tile
// is cached, already queued, the queue is full or the streamer is closed.
func (s *Streamer) Request(c Coord) bool {
	if s.store.Has(c) {
		return false
	}

	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if s.closed {
		return false
	}
	if _, ok := s.pending[c]; ok {
		return false
	}
	if s.maxPending > 0 && len(s.pending) >= s.maxPending {
		return false
	}

	select {
	case s.jobs <- c:
		s.pending[c] = struct{}{}
		return true
	default:
		return false
	}
}

// RequestAround queues the tiles within radius of center, nearest rings
// first, and returns how many were queued.
func (s *Streamer) RequestAround(center Coord, radius int) int {
	queued := 0
	enqueue := func(x, y int) {
		if s.Request(Coord{X: x, Y: y}) {
			queued++
		}
	}

	enqueue(center.X, center.Y)
	for r := 1; r <= radius; r++ {
		x0, x1 := center.X-r, center.X+r
		y0, y1 := center.Y-r, center.Y+r
		for x := x0; x <= x1; x++ {
			enqueue(x, y0)
			enqueue(x, y1)
		}
		for y := y0 + 1; y <= y1-1; y++ {
			enqueue(x0, y)
			enqueue(x1, y)
		}
	}
	return queued
}

// Pending returns the number of queued or in-flight tiles.
func (s *Streamer) Pending() int {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return len(s.pending)
}

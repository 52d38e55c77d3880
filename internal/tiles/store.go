package tiles

import (
	"sync"

	"terragen/internal/colormap"
	"terragen/internal/terrain"

	"github.com/zyedidia/generic/cache"
)

// Tile is one rendered square of the terrain.
type Tile struct {
	Coord      Coord
	Field      terrain.HeightField
	Normalized colormap.NormalizedField
	Image      colormap.RGBBuffer
}

// Store keeps the most recently used tiles.
type Store struct {
	mu      sync.Mutex
	tiles   *cache.Cache[Coord, *Tile]
	present map[Coord]struct{}
	evicted uint64
}

// NewStore creates a store holding at most capacity tiles.
func NewStore(capacity int) *Store {
	s := &Store{
		tiles:   cache.New[Coord, *Tile](max(capacity, 1)),
		present: make(map[Coord]struct{}),
	}
	s.tiles.SetEvictCallback(func(c Coord, _ *Tile) {
		delete(s.present, c)
		s.evicted++
	})
	return s
}

// Get returns the cached tile and marks it as recently used.
func (s *Store) Get(c Coord) (*Tile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tiles.Get(c)
}

// Has reports whether c is cached without touching its recency.
func (s *Store) Has(c Coord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.present[c]
	return ok
}

// Add installs t unless a tile for the same coordinate is already cached, in
// which case the cached tile is returned instead.
func (s *Store) Add(t *Tile) *Tile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.tiles.Get(t.Coord); ok {
		return existing
	}
	s.tiles.Put(t.Coord, t)
	s.present[t.Coord] = struct{}{}
	return t
}

// Len returns the number of cached tiles.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tiles.Size()
}

// Capacity returns the maximum number of cached tiles.
func (s *Store) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tiles.Capacity()
}

// Evicted counts tiles dropped to make room.
func (s *Store) Evicted() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicted
}

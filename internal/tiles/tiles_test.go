package tiles

import (
	"sync"
	"testing"
	"time"

	"terragen/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func newTestBuilder(t *testing.T) *terrain.Builder {
	t.Helper()
	b, err := terrain.New(42, 20, 3, 0.5, 2)
	if err != nil {
		t.Fatalf("terrain.New: %v", err)
	}
	return b
}

func TestCoordOrigin(t *testing.T) {
	if got := (Coord{-2, 3}).Origin(16); got != (mgl64.Vec2{-32, 48}) {
		t.Errorf("Origin = %v", got)
	}
	if got := (Coord{-2, 3}).String(); got != "-2,3" {
		t.Errorf("String = %q", got)
	}
}

// TestStoreEvictsLeastRecentlyUsed verifies LRU ordering
func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	s := NewStore(2)
	s.Add(&Tile{Coord: Coord{0, 0}})
	s.Add(&Tile{Coord: Coord{1, 0}})
	if _, ok := s.Get(Coord{0, 0}); !ok {
		t.Fatalf("expected tile 0,0")
	}
	s.Add(&Tile{Coord: Coord{2, 0}})

	if s.Has(Coord{1, 0}) {
		t.Errorf("tile 1,0 should have been evicted")
	}
	if !s.Has(Coord{0, 0}) || !s.Has(Coord{2, 0}) {
		t.Errorf("expected tiles 0,0 and 2,0 to remain")
	}
	if s.Len() != 2 || s.Evicted() != 1 {
		t.Errorf("Len = %d, Evicted = %d", s.Len(), s.Evicted())
	}
}

func TestStoreAddKeepsExisting(t *testing.T) {
	s := NewStore(4)
	first := s.Add(&Tile{Coord: Coord{3, 3}})
	second := s.Add(&Tile{Coord: Coord{3, 3}})
	if first != second {
		t.Errorf("second Add should return the cached tile")
	}
	if s.Len() != 1 || s.Capacity() != 4 {
		t.Errorf("Len = %d, Capacity = %d", s.Len(), s.Capacity())
	}
}

// TestStoreHasKeepsRecency verifies Has neither promotes a tile nor reports
// evicted ones
func TestStoreHasKeepsRecency(t *testing.T) {
	s := NewStore(2)
	s.Add(&Tile{Coord: Coord{0, 0}})
	s.Add(&Tile{Coord: Coord{1, 0}})
	if !s.Has(Coord{0, 0}) {
		t.Fatalf("expected tile 0,0 to be cached")
	}
	s.Add(&Tile{Coord: Coord{2, 0}})

	if s.Has(Coord{0, 0}) {
		t.Errorf("Has must not promote: tile 0,0 should have been evicted")
	}
	if _, ok := s.Get(Coord{0, 0}); ok {
		t.Errorf("evicted tile still returned by Get")
	}
	if !s.Has(Coord{1, 0}) || !s.Has(Coord{2, 0}) {
		t.Errorf("expected tiles 1,0 and 2,0 to remain")
	}
}

// TestStreamerGetCaches verifies a second Get hits the store
func TestStreamerGetCaches(t *testing.T) {
	st := NewStreamer(newTestBuilder(t), NewStore(8), 16, zerolog.Nop())
	defer st.Close()

	a := st.Get(Coord{1, -1})
	b := st.Get(Coord{1, -1})
	if a != b {
		t.Errorf("expected cached tile on second Get")
	}
	if a.Image.Width != 16 || a.Image.Height != 16 || len(a.Image.Pix) != 16*16*3 {
		t.Errorf("unexpected image shape %dx%d", a.Image.Width, a.Image.Height)
	}
}

// TestTilesAreSeamless verifies adjacent tiles match one larger build
func TestTilesAreSeamless(t *testing.T) {
	b := newTestBuilder(t)
	st := NewStreamer(b, NewStore(8), 8, zerolog.Nop())
	defer st.Close()

	left := st.Get(Coord{0, 0})
	right := st.Get(Coord{1, 0})
	whole := b.Build(16, 8, mgl64.Vec2{0, 0})

	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			var got float64
			if x < 8 {
				got = left.Field.At(x, y)
			} else {
				got = right.Field.At(x-8, y)
			}
			if got != whole.At(x, y) {
				t.Fatalf("pixel (%d,%d) = %v, expected %v", x, y, got, whole.At(x, y))
			}
		}
	}

	// fixed-range normalization: equal heights give equal colors across tiles
	again := st.Render(Coord{0, 0})
	if diff := cmp.Diff(left.Image, again.Image); diff != "" {
		t.Errorf("re-render differs:\n%s", diff)
	}
	for _, v := range left.Normalized.Values {
		if v < 0 || v > 1 {
			t.Fatalf("normalized value %v out of [0,1]", v)
		}
	}
}

// TestStreamerRequest verifies background rendering fills the store
func TestStreamerRequest(t *testing.T) {
	store := NewStore(64)
	st := NewStreamer(newTestBuilder(t), store, 8, zerolog.Nop())

	queued := st.RequestAround(Coord{0, 0}, 1)
	if queued != 9 {
		t.Errorf("expected 9 tiles queued, got %d", queued)
	}
	if st.Request(Coord{0, 0}) {
		t.Errorf("queued or cached tile should not be queued again")
	}

	st.Close()
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			if !store.Has(Coord{x, y}) {
				t.Errorf("tile %d,%d not rendered", x, y)
			}
		}
	}
	if st.Pending() != 0 {
		t.Errorf("expected no pending tiles after Close, got %d", st.Pending())
	}
	if st.Request(Coord{5, 5}) {
		t.Errorf("Request after Close should fail")
	}
}

func TestStreamerConcurrentGet(t *testing.T) {
	st := NewStreamer(newTestBuilder(t), NewStore(16), 8, zerolog.Nop())
	defer st.Close()

	var wg sync.WaitGroup
	results := make([]*Tile, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = st.Get(Coord{2, 2})
		}(i)
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("concurrent Get timed out")
	}

	cached, _ := st.store.Get(Coord{2, 2})
	for i, r := range results {
		if diff := cmp.Diff(cached.Image, r.Image); diff != "" {
			t.Errorf("result %d differs from cached tile:\n%s", i, diff)
		}
	}
}

package viewer

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

func TestPan(t *testing.T) {
	start := mgl64.Vec2{10, 20}
	cases := []struct {
		key  glfw.Key
		want mgl64.Vec2
	}{
		{glfw.KeyLeft, mgl64.Vec2{2, 20}},
		{glfw.KeyRight, mgl64.Vec2{18, 20}},
		{glfw.KeyUp, mgl64.Vec2{10, 12}},
		{glfw.KeyDown, mgl64.Vec2{10, 28}},
	}
	for _, c := range cases {
		got, ok := pan(start, c.key, 8)
		if !ok || got != c.want {
			t.Errorf("pan(%v) = %v, %v; expected %v", c.key, got, ok, c.want)
		}
	}
	if got, ok := pan(start, glfw.KeySpace, 8); ok || got != start {
		t.Errorf("non-arrow key should not pan, got %v", got)
	}
}

// TestQuadUVFlipped verifies the top edge samples image row 0
func TestQuadUVFlipped(t *testing.T) {
	if len(quadVertices) != 6*4 {
		t.Fatalf("expected 6 vertices, got %d floats", len(quadVertices))
	}
	for i := 0; i < len(quadVertices); i += 4 {
		y, v := quadVertices[i+1], quadVertices[i+3]
		if y+v != 1 {
			t.Errorf("vertex %d: y=%v v=%v should be flipped", i/4, y, v)
		}
	}
}

func TestNewClampsSize(t *testing.T) {
	v := New(nil, 0, -3, mgl64.Vec2{4, 5}, zerolog.Nop())
	if v.width != 1 || v.height != 1 {
		t.Errorf("expected 1x1, got %dx%d", v.width, v.height)
	}
	if v.Offset() != (mgl64.Vec2{4, 5}) || !v.dirty {
		t.Errorf("unexpected initial state")
	}
}

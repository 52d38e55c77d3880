// Package tiles renders the terrain as an unbounded grid of fixed-size tiles
// with an LRU cache and a background worker pool.
package tiles

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Coord addresses a tile. Tile (0,0) covers pixels [0,size) on both axes.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Origin returns the pixel offset of the tile's top-left sample.
func (c Coord) Origin(size int) mgl64.Vec2 {
	return mgl64.Vec2{float64(c.X * size), float64(c.Y * size)}
}

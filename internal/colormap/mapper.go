package colormap

import (
	"math"

	"terragen/internal/profiling"
	"terragen/internal/terrain"

	"github.com/dgravesa/go-parallel/parallel"
)

// NormalizedField has the shape of a HeightField with every value in [0, 1].
type NormalizedField struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"values"`
}

// At returns the normalized height at column x, row y.
func (n NormalizedField) At(x, y int) float64 {
	return n.Values[y*n.Width+x]
}

// Bounds returns the minimum and maximum over the finite cells of f. ok is
// false when f holds no finite value.
func Bounds(f terrain.HeightField) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range f.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// Normalize rescales f to [0, 1] using its own finite min and max. A flat
// field (max == min) normalizes to all zeros. Non-finite cells become 0.
func Normalize(f terrain.HeightField) NormalizedField {
	lo, hi, ok := Bounds(f)
	if !ok {
		return zeroField(f)
	}
	return NormalizeRange(f, lo, hi)
}

// NormalizeRange rescales f against fixed bounds instead of the field's own,
// clamping to [0, 1]. Tiles rendered with the same bounds line up.
func NormalizeRange(f terrain.HeightField, lo, hi float64) NormalizedField {
	out := zeroField(f)
	span := hi - lo
	if !(span > 0) || math.IsInf(span, 0) {
		return out
	}
	for i, v := range f.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out.Values[i] = math.Max(0, math.Min(1, (v-lo)/span))
	}
	return out
}

func zeroField(f terrain.HeightField) NormalizedField {
	return NormalizedField{
		Width:  f.Width,
		Height: f.Height,
		Values: make([]float64, len(f.Values)),
	}
}

// Colorize maps every normalized cell through ColorFor. Rows are colored in
// parallel and written to disjoint parts of the buffer.
func Colorize(n NormalizedField) RGBBuffer {
	defer profiling.Track("colormap.Colorize")()

	buf := NewRGBBuffer(n.Width, n.Height)
	if n.Width == 0 || n.Height == 0 {
		return buf
	}
	parallel.For(n.Height, func(y, _ int) {
		row := buf.Pix[y*n.Width*3 : (y+1)*n.Width*3]
		for x := 0; x < n.Width; x++ {
			c := ColorFor(n.Values[y*n.Width+x])
			row[x*3] = c.R
			row[x*3+1] = c.G
			row[x*3+2] = c.B
		}
	})
	return buf
}

// ToImage normalizes f and colorizes the result.
func ToImage(f terrain.HeightField) RGBBuffer {
	return Colorize(Normalize(f))
}

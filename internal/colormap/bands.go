package colormap

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Band is a half-open height interval [Lo, Lo+Width) blended from Start to End.
type Band struct {
	Name  string
	Lo    float64
	Width float64
	Start RGB
	End   RGB
}

// Bands partitions [0, 1]; the last band is closed on the right.
var Bands = [4]Band{
	{Name: "water", Lo: 0.0, Width: 0.2, Start: RGB{0, 32, 128}, End: RGB{64, 160, 255}},
	{Name: "land", Lo: 0.2, Width: 0.3, Start: RGB{20, 120, 40}, End: RGB{120, 200, 80}},
	{Name: "mountain", Lo: 0.5, Width: 0.3, Start: RGB{120, 90, 50}, End: RGB{180, 180, 180}},
	{Name: "snow", Lo: 0.8, Width: 0.2, Start: RGB{230, 230, 230}, End: RGB{255, 255, 255}},
}

// Upper boundaries of the first three bands.
const (
	waterTop    = 0.2
	landTop     = 0.5
	mountainTop = 0.8
)

// BandFor returns the index into Bands that covers h after clamping.
func BandFor(h float64) int {
	h = clampHeight(h)
	switch {
	case h < waterTop:
		return 0
	case h < landTop:
		return 1
	case h < mountainTop:
		return 2
	default:
		return 3
	}
}

// ColorFor maps a normalized height to a color. Heights outside [0, 1] are
// clamped and NaN is treated as 0. Channels are truncated, not rounded.
func ColorFor(h float64) RGB {
	h = clampHeight(h)
	b := Bands[BandFor(h)]
	t := math.Min(1, (h-b.Lo)/b.Width)
	return blend(b.Start, b.End, t)
}

func clampHeight(h float64) float64 {
	if math.IsNaN(h) {
		return 0
	}
	return mgl64.Clamp(h, 0, 1)
}

func blend(from, to RGB, t float64) RGB {
	return RGB{
		R: mix(from.R, to.R, t),
		G: mix(from.G, to.G, t),
		B: mix(from.B, to.B, t),
	}
}

func mix(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

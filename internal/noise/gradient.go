package noise

import (
	"math"
	"math/rand"
	randv2 "math/rand/v2"
)

// sqrt2 scales the raw lattice blend into [-1, 1].
const sqrt2 = 1.41421356237

// 2D gradient directions, indexed by hash&7.
var (
	gradX = [8]float64{1, -1, 1, -1, 1, -1, 0, 0}
	gradY = [8]float64{1, 1, -1, -1, 0, 0, 1, -1}
)

// Gradient is seeded 2D Perlin gradient noise. The permutation table is built
// once in New and never written again, so Sample is safe for concurrent use.
type Gradient struct {
	seed         int64
	permutations [512]int
}

// New builds a Gradient whose permutation table is a Fisher-Yates shuffle of
// 0..255 driven by a math/rand source seeded with seed.
func New(seed int64) *Gradient {
	g := &Gradient{seed: seed}
	rnd := rand.New(rand.NewSource(seed))

	for i := 0; i < 256; i++ {
		g.permutations[i] = i
	}
	for i := 0; i < 256; i++ {
		j := rnd.Intn(256-i) + i
		g.permutations[i], g.permutations[j] = g.permutations[j], g.permutations[i]
		g.permutations[i+256] = g.permutations[i]
	}

	return g
}

// NewRandom draws a seed from process entropy and builds a Gradient from it.
// This is the only place the package touches global randomness.
func NewRandom() *Gradient {
	return New(RandomSeed())
}

// RandomSeed returns a fresh seed in [0, 2^31).
func RandomSeed() int64 {
	return randv2.Int64N(1 << 31)
}

// Seed returns the seed the permutation table was built from.
func (g *Gradient) Seed() int64 {
	return g.seed
}

// Sample evaluates the noise at (x, y). The result is always in [-1, 1] and
// is exactly zero on integer lattice points. Non-finite coordinates yield 0.
func (g *Gradient) Sample(x, y float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0
	}
	fx := math.Floor(x)
	fy := math.Floor(y)
	// Mod keeps the lattice index exact beyond the int range.
	xi := int(math.Mod(fx, 256)) & 255
	yi := int(math.Mod(fy, 256)) & 255

	xf := x - fx
	yf := y - fy

	u := fade(xf)
	v := fade(yf)

	p := &g.permutations
	aa := p[p[xi]+yi]
	ab := p[p[xi]+yi+1]
	ba := p[p[xi+1]+yi]
	bb := p[p[xi+1]+yi+1]

	x1 := lerp(grad(aa, xf, yf), grad(ba, xf-1, yf), u)
	x2 := lerp(grad(ab, xf, yf-1), grad(bb, xf-1, yf-1), u)
	r := lerp(x1, x2, v)

	return math.Max(-1, math.Min(1, r/sqrt2))
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func grad(hash int, dx, dy float64) float64 {
	i := hash & 7
	return gradX[i]*dx + gradY[i]*dy
}

package terrain

import (
	"errors"
	"fmt"
	"math"

	"terragen/internal/noise"
	"terragen/internal/profiling"

	"github.com/dgravesa/go-parallel/parallel"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidParameter is returned by the constructors when the noise
// parameters cannot produce a finite field.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params holds the fractal noise settings.
type Params struct {
	Scale       float64 `json:"scale"`
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Lacunarity  float64 `json:"lacunarity"`
}

// DefaultParams mirrors the command-line defaults.
func DefaultParams() Params {
	return Params{
		Scale:       60.0,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2.0,
	}
}

// Validate reports whether p can produce a finite field.
func (p Params) Validate() error {
	_, err := p.normalized()
	return err
}

// normalized validates scale, coerces octaves to at least one and rejects
// persistence or lacunarity values whose octave tables leave the finite range.
func (p Params) normalized() (Params, error) {
	if !(p.Scale > 0) || math.IsInf(p.Scale, 1) {
		return p, fmt.Errorf("%w: scale must be > 0, got %v", ErrInvalidParameter, p.Scale)
	}
	if p.Octaves < 1 {
		p.Octaves = 1
	}

	amplitude, frequency, sum := 1.0, 1.0, 1.0
	for o := 1; o < p.Octaves; o++ {
		amplitude *= p.Persistence
		frequency *= p.Lacunarity
		sum += math.Abs(amplitude)
		if !finite(amplitude) || !finite(sum) {
			return p, fmt.Errorf("%w: persistence %v overflows at octave %d", ErrInvalidParameter, p.Persistence, o)
		}
		if !finite(frequency) {
			return p, fmt.Errorf("%w: lacunarity %v overflows at octave %d", ErrInvalidParameter, p.Lacunarity, o)
		}
	}
	return p, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Builder sums octaves of a noise source over a pixel grid. It is immutable
// after construction and may be shared between goroutines.
type Builder struct {
	src        noise.Source
	seed       int64
	params     Params
	amplitudes []float64
	freqs      []float64
}

// New creates a Builder over seeded gradient noise.
func New(seed int64, scale float64, octaves int, persistence, lacunarity float64) (*Builder, error) {
	p, err := Params{
		Scale:       scale,
		Octaves:     octaves,
		Persistence: persistence,
		Lacunarity:  lacunarity,
	}.normalized()
	if err != nil {
		return nil, err
	}
	b := newBuilder(noise.New(seed), p)
	b.seed = seed
	return b, nil
}

// NewRandom is New with a seed drawn from process entropy. Seed reports it.
func NewRandom(scale float64, octaves int, persistence, lacunarity float64) (*Builder, error) {
	return New(noise.RandomSeed(), scale, octaves, persistence, lacunarity)
}

// NewWithSource creates a Builder over an arbitrary source. Seed reports 0
// unless the source implements noise.Seeded.
func NewWithSource(src noise.Source, p Params) (*Builder, error) {
	p, err := p.normalized()
	if err != nil {
		return nil, err
	}
	b := newBuilder(src, p)
	if sd, ok := src.(noise.Seeded); ok {
		b.seed = sd.Seed()
	}
	return b, nil
}

func newBuilder(src noise.Source, p Params) *Builder {
	b := &Builder{
		src:        src,
		params:     p,
		amplitudes: make([]float64, p.Octaves),
		freqs:      make([]float64, p.Octaves),
	}
	amplitude, frequency := 1.0, 1.0
	for o := 0; o < p.Octaves; o++ {
		b.amplitudes[o] = amplitude
		b.freqs[o] = frequency
		amplitude *= p.Persistence
		frequency *= p.Lacunarity
	}
	return b
}

// Seed returns the seed behind the gradient source.
func (b *Builder) Seed() int64 { return b.seed }

// Params returns the effective (coerced) parameters.
func (b *Builder) Params() Params { return b.params }

// Amplitudes returns the per-octave amplitude, octave 0 first.
func (b *Builder) Amplitudes() []float64 {
	return append([]float64(nil), b.amplitudes...)
}

// Frequencies returns the per-octave frequency multiplier, octave 0 first.
func (b *Builder) Frequencies() []float64 {
	return append([]float64(nil), b.freqs...)
}

// AmplitudeSum bounds the magnitude of any value Build can produce.
func (b *Builder) AmplitudeSum() float64 {
	sum := 0.0
	for _, a := range b.amplitudes {
		sum += math.Abs(a)
	}
	return sum
}

// Sample returns the octave sum at pixel position (px, py), where offsets
// are already folded into px and py.
func (b *Builder) Sample(px, py float64) float64 {
	x := px / b.params.Scale
	y := py / b.params.Scale

	h := 0.0
	for o, amplitude := range b.amplitudes {
		f := b.freqs[o]
		h += b.src.Sample(x*f, y*f) * amplitude
	}
	return h
}

// Build fills a width x height field. Pixel (i, j) samples at
// ((i+offset.X)/scale, (j+offset.Y)/scale). Rows are generated in parallel;
// the output does not depend on scheduling.
func (b *Builder) Build(width, height int, offset mgl64.Vec2) HeightField {
	defer profiling.Track("terrain.Build")()

	field := NewHeightField(width, height)
	if field.Width == 0 || field.Height == 0 {
		return field
	}

	ox, oy := offset.X(), offset.Y()
	parallel.For(field.Height, func(j, _ int) {
		row := field.Row(j)
		py := float64(j) + oy
		for i := range row {
			row[i] = b.Sample(float64(i)+ox, py)
		}
	})
	return field
}

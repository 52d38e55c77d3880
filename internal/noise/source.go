package noise

import (
	"fmt"
	"math"
	"sort"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Source is anything that yields a continuous 2D noise value in [-1, 1].
type Source interface {
	Sample(x, y float64) float64
}

// Seeded is implemented by sources that can report the seed they were built from.
type Seeded interface {
	Seed() int64
}

// Names of the built-in sources accepted by NewSource.
const (
	KindGradient    = "gradient"
	KindOpenSimplex = "opensimplex"
	KindPerlinLib   = "perlin"
)

var sourceFactories = map[string]func(seed int64) Source{
	KindGradient:    func(seed int64) Source { return New(seed) },
	KindOpenSimplex: func(seed int64) Source { return NewOpenSimplex(seed) },
	KindPerlinLib:   func(seed int64) Source { return NewPerlinLib(seed) },
}

// NewSource builds the named source. An empty kind selects KindGradient.
func NewSource(kind string, seed int64) (Source, error) {
	if kind == "" {
		kind = KindGradient
	}
	factory, ok := sourceFactories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown noise source %q (have %v)", kind, Kinds())
	}
	return factory(seed), nil
}

// Kinds lists the registered source names in sorted order.
func Kinds() []string {
	kinds := make([]string, 0, len(sourceFactories))
	for k := range sourceFactories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// OpenSimplex adapts github.com/ojrac/opensimplex-go.
type OpenSimplex struct {
	seed int64
	n    opensimplex.Noise
}

func NewOpenSimplex(seed int64) *OpenSimplex {
	return &OpenSimplex{seed: seed, n: opensimplex.New(seed)}
}

func (o *OpenSimplex) Seed() int64 { return o.seed }

func (o *OpenSimplex) Sample(x, y float64) float64 {
	return clampUnit(o.n.Eval2(x, y))
}

// PerlinLib adapts github.com/aquilax/go-perlin as a single-octave source;
// octave summation stays with the caller.
type PerlinLib struct {
	seed int64
	p    *perlin.Perlin
}

func NewPerlinLib(seed int64) *PerlinLib {
	return &PerlinLib{seed: seed, p: perlin.NewPerlin(2, 2, 1, seed)}
}

func (p *PerlinLib) Seed() int64 { return p.seed }

func (p *PerlinLib) Sample(x, y float64) float64 {
	// Noise2D peaks near ±sqrt(0.5).
	return clampUnit(p.p.Noise2D(x, y) * sqrt2)
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// Package config holds terrain generation settings and runtime view state.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"terragen/internal/noise"
	"terragen/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidSettings is wrapped by every Validate failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings describes one generation run.
type Settings struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Scale       float64 `json:"scale"`
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Lacunarity  float64 `json:"lacunarity"`
	Seed        *int64  `json:"seed,omitempty"` // nil draws a random seed
	OffsetX     float64 `json:"offset_x"`
	OffsetY     float64 `json:"offset_y"`
	Noise       string  `json:"noise"`
	Out         string  `json:"out"`
	Heights     string  `json:"heights,omitempty"`
	Upscale     int     `json:"upscale"`
	Show        bool    `json:"show"`
	Zoom        int     `json:"zoom"`
	Addr        string  `json:"addr"`
	TileSize    int     `json:"tile_size"`
	CacheTiles  int     `json:"cache_tiles"`
	Verbose     bool    `json:"verbose"`
}

// Default returns the stock settings.
func Default() Settings {
	p := terrain.DefaultParams()
	return Settings{
		Width:       256,
		Height:      256,
		Scale:       p.Scale,
		Octaves:     p.Octaves,
		Persistence: p.Persistence,
		Lacunarity:  p.Lacunarity,
		Noise:       noise.KindGradient,
		Out:         "terrain.png",
		Upscale:     1,
		Zoom:        2,
		Addr:        ":8080",
		TileSize:    256,
		CacheTiles:  256,
	}
}

// Load reads a JSON settings file on top of the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse config %s: %w", path, err)
	}
	return s, nil
}

// Params returns the fractal parameters of s.
func (s Settings) Params() terrain.Params {
	return terrain.Params{
		Scale:       s.Scale,
		Octaves:     s.Octaves,
		Persistence: s.Persistence,
		Lacunarity:  s.Lacunarity,
	}
}

// NewBuilder creates the fractal builder described by s, drawing a random
// seed when none is set.
func (s Settings) NewBuilder() (*terrain.Builder, error) {
	seed := noise.RandomSeed()
	if s.Seed != nil {
		seed = *s.Seed
	}
	src, err := noise.NewSource(s.Noise, seed)
	if err != nil {
		return nil, err
	}
	return terrain.NewWithSource(src, s.Params())
}

// Offset returns the configured sample offset.
func (s Settings) Offset() mgl64.Vec2 {
	return mgl64.Vec2{s.OffsetX, s.OffsetY}
}

// Validate reports the first unusable value.
func (s Settings) Validate() error {
	switch {
	case s.Width < 1 || s.Height < 1:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidSettings, s.Width, s.Height)
	case !(s.Scale > 0) || math.IsInf(s.Scale, 1):
		return fmt.Errorf("%w: scale %v", ErrInvalidSettings, s.Scale)
	case math.IsNaN(s.Persistence) || math.IsInf(s.Persistence, 0):
		return fmt.Errorf("%w: persistence %v", ErrInvalidSettings, s.Persistence)
	case math.IsNaN(s.Lacunarity) || math.IsInf(s.Lacunarity, 0):
		return fmt.Errorf("%w: lacunarity %v", ErrInvalidSettings, s.Lacunarity)
	case s.Upscale < 1:
		return fmt.Errorf("%w: upscale %d", ErrInvalidSettings, s.Upscale)
	case s.TileSize < 1:
		return fmt.Errorf("%w: tile size %d", ErrInvalidSettings, s.TileSize)
	case s.CacheTiles < 1:
		return fmt.Errorf("%w: cache tiles %d", ErrInvalidSettings, s.CacheTiles)
	case s.Zoom < 1:
		return fmt.Errorf("%w: zoom %d", ErrInvalidSettings, s.Zoom)
	}
	if err := s.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if s.Noise == "" {
		return nil
	}
	for _, k := range noise.Kinds() {
		if k == s.Noise {
			return nil
		}
	}
	return fmt.Errorf("%w: noise %q", ErrInvalidSettings, s.Noise)
}

// RegisterFlags binds the shared generation flags of fs to s. Flags that are
// not set on the command line keep whatever s already holds.
func (s *Settings) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&s.Width, "width", s.Width, "image width in pixels")
	fs.IntVar(&s.Height, "height", s.Height, "image height in pixels")
	fs.Float64Var(&s.Scale, "scale", s.Scale, "noise scale (higher is smoother)")
	fs.IntVar(&s.Octaves, "octaves", s.Octaves, "number of noise octaves")
	fs.Float64Var(&s.Persistence, "persistence", s.Persistence, "amplitude multiplier per octave")
	fs.Float64Var(&s.Lacunarity, "lacunarity", s.Lacunarity, "frequency multiplier per octave")
	fs.Var(seedValue{&s.Seed}, "seed", "random seed (default random)")
	fs.Float64Var(&s.OffsetX, "offset-x", s.OffsetX, "horizontal sample offset in pixels")
	fs.Float64Var(&s.OffsetY, "offset-y", s.OffsetY, "vertical sample offset in pixels")
	fs.StringVar(&s.Noise, "noise", s.Noise, "noise source: "+strings.Join(noise.Kinds(), ", "))
	fs.BoolVar(&s.Verbose, "verbose", s.Verbose, "enable debug logging")
}

// OutputFlags binds the file and display flags used by the generator command.
func OutputFlags(fs *flag.FlagSet, s *Settings) {
	fs.StringVar(&s.Out, "out", s.Out, "output image path (.png, .bmp, .tif)")
	fs.StringVar(&s.Heights, "heights", s.Heights, "optional 16-bit grayscale height map path")
	fs.IntVar(&s.Upscale, "upscale", s.Upscale, "integer pixel upscale factor for the output image")
	fs.BoolVar(&s.Show, "show", s.Show, "display the result in a window")
	fs.IntVar(&s.Zoom, "zoom", s.Zoom, "on-screen pixels per field cell when showing")
}

// ServeFlags binds the flags used by the tile server.
func ServeFlags(fs *flag.FlagSet, s *Settings) {
	fs.StringVar(&s.Addr, "addr", s.Addr, "listen address")
	fs.IntVar(&s.TileSize, "tile-size", s.TileSize, "tile edge in pixels")
	fs.IntVar(&s.CacheTiles, "cache-tiles", s.CacheTiles, "number of rendered tiles kept in memory")
}

// Parse resolves settings from the defaults, an optional -config JSON file and
// args, later sources overriding earlier ones. bind adds command specific flags.
func Parse(name string, args []string, bind func(*flag.FlagSet, *Settings)) (Settings, error) {
	var path string
	newFlagSet := func(s *Settings, out io.Writer) *flag.FlagSet {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(out)
		fs.StringVar(&path, "config", path, "JSON settings file")
		s.RegisterFlags(fs)
		if bind != nil {
			bind(fs, s)
		}
		return fs
	}

	s := Default()
	if err := newFlagSet(&s, os.Stderr).Parse(args); err != nil {
		return s, err
	}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return s, err
		}
		s = loaded
		if err := newFlagSet(&s, io.Discard).Parse(args); err != nil {
			return s, err
		}
	}
	return s, s.Validate()
}

type seedValue struct{ p **int64 }

func (v seedValue) String() string {
	if v.p == nil || *v.p == nil {
		return ""
	}
	return strconv.FormatInt(**v.p, 10)
}

func (v seedValue) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*v.p = &n
	return nil
}

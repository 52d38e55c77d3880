package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"terragen/internal/colormap"
	"terragen/internal/config"
	"terragen/internal/export"
	"terragen/internal/profiling"
	"terragen/internal/viewer"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("terragen failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	settings, err := config.Parse("terragen", args, config.OutputFlags)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if settings.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	builder, err := settings.NewBuilder()
	if err != nil {
		return err
	}
	log.Debug().
		Int64("seed", builder.Seed()).
		Str("noise", settings.Noise).
		Floats64("amplitudes", builder.Amplitudes()).
		Msg("builder ready")

	field := builder.Build(settings.Width, settings.Height, settings.Offset())
	normalized := colormap.Normalize(field)
	if lo, hi, ok := colormap.Bounds(field); ok {
		log.Debug().Float64("min", lo).Float64("max", hi).Msg("height range")
	}

	if err := export.Save(settings.Out, colormap.Colorize(normalized), export.Options{Upscale: settings.Upscale}); err != nil {
		return err
	}
	fmt.Printf("Saved terrain to %s (seed %d)\n", settings.Out, builder.Seed())

	if settings.Heights != "" {
		if err := export.SaveHeights(settings.Heights, normalized); err != nil {
			return err
		}
		fmt.Printf("Saved height map to %s\n", settings.Heights)
	}

	log.Debug().
		Str("stages", profiling.TopN(5)).
		Dur("export", profiling.SumWithPrefix("export.")).
		Msg("timings")

	if settings.Show {
		config.SetZoom(settings.Zoom)
		v := viewer.New(builder, settings.Width, settings.Height, settings.Offset(), log.Logger)
		if err := v.Show(); err != nil {
			return fmt.Errorf("show: %w", err)
		}
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"terragen/internal/config"
	"terragen/internal/server"
	"terragen/internal/tiles"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xlab/closer"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	settings, err := config.Parse("terragen-server", os.Args[1:], config.ServeFlags)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("invalid settings")
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if settings.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	builder, err := settings.NewBuilder()
	if err != nil {
		log.Fatal().Err(err).Msg("builder")
	}

	streamer := tiles.NewStreamer(builder, tiles.NewStore(settings.CacheTiles), settings.TileSize, log.Logger)
	srv := &http.Server{
		Addr:              settings.Addr,
		Handler:           server.New(builder, streamer, log.Logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	closer.Bind(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
		streamer.Close()
		log.Info().Msg("stopped")
	})

	go func() {
		log.Info().
			Str("addr", settings.Addr).
			Int64("seed", builder.Seed()).
			Int("tile_size", settings.TileSize).
			Msg("serving terrain")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("listen")
			closer.Close()
		}
	}()

	closer.Hold()
}

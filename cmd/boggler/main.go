package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/boggler/config"
	"github.com/domino14/boggler/shell"
	"github.com/domino14/boggler/store"
)

var (
	GitVersion string
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
	log.Info().Str("version", GitVersion).Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	st, err := store.NewStore(cfg.GetString(config.ConfigStore), cfg.GetString(config.ConfigStorePath))
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	ctx, cancel := context.WithCancel(logger.WithContext(context.Background()))
	defer cancel()
	if err := st.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("could not open run store")
	}
	defer st.Close()

	sc, err := shell.NewShellController(cfg, st, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		cancel()
		close(done)
	}()

	if len(cfg.Args()) == 0 {
		loopDone := make(chan struct{})
		go func() {
			defer close(loopDone)
			sc.Loop(ctx, sig)
		}()
		<-done
		// The loop may still be saving an interrupted run.
		<-loopDone
	} else {
		sc.Execute(ctx, shellquote.Join(cfg.Args()...))
	}

	if out := cfg.GetString(config.ConfigOutput); out != "" {
		if res, variant := sc.Last(); res != nil {
			if err := shell.WriteResultFile(out, variant, res); err != nil {
				log.Error().Err(err).Str("output", out).Msg("could not write result")
			} else {
				log.Info().Str("output", out).Msg("wrote result")
			}
		}
	}
	log.Info().Msg("shutting down")
}

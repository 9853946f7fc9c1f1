package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/rookery/cache"
	"github.com/domino14/rookery/config"
	"github.com/domino14/rookery/shell"
)

var (
	GitVersion string
)

//go:embed rookery.txt
var rookerybanner string

func setupLogging(cfg *config.Config) {
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
}

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("shell-exiting")
		os.Exit(1)
	}
}

func run() error {
	fmt.Println(rookerybanner)
	fmt.Println(GitVersion)

	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		return err
	}
	setupLogging(cfg)
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if prof := os.Getenv("ROOKERY_CPU_PROFILE"); prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	scores, err := cache.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := scores.Close(); err != nil {
			log.Error().Err(err).Msg("closing-score-cache")
		}
	}()

	rl, err := shell.NewReadline(cfg)
	if err != nil {
		return err
	}
	defer rl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		// We received an interrupt signal; unblock the prompt.
		log.Info().Msg("got quit signal...")
		cancel()
		rl.Close()
	}()

	sc := shell.NewShellController(cfg, scores, rl, rl.Stdout())
	err = sc.Play(ctx)
	log.Info().Msg("shell gracefully shutting down")
	return err
}

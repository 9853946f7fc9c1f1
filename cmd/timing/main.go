// Command timing measures engine operations on one position.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/rookery/cache"
	"github.com/domino14/rookery/config"
	"github.com/domino14/rookery/equity"
	"github.com/domino14/rookery/gametree"
	"github.com/domino14/rookery/position"
	"github.com/domino14/rookery/search"
	"github.com/domino14/rookery/timing"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("timing-failed")
		os.Exit(1)
	}
}

func run() error {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		return err
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()

	op, err := timing.ParseOperation(cfg.GetString(config.ConfigTimingOperation))
	if err != nil {
		return err
	}

	pos := position.New()
	if fen := cfg.GetString(config.ConfigStartFEN); fen != "" {
		if pos, err = position.FromFEN(fen); err != nil {
			return err
		}
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

	scorer := equity.NewScorer(scores)
	root, err := gametree.NewRoot(pos, scorer)
	if err != nil {
		return err
	}
	solver := search.NewSolver(search.WithParallelism(cfg.GetInt(config.ConfigParallelism)))
	h := timing.NewHarness(scorer, solver, cfg.GetInt(config.ConfigTimingIterations))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	res, err := h.Run(ctx, root, op, cfg.GetInt(config.ConfigDepth))
	if err != nil {
		return err
	}
	fmt.Println(res)
	if err := res.Histogram(os.Stdout); err != nil {
		return err
	}
	log.Info().Str("stats", scores.Stats().String()).Msg("cache-stats")
	return nil
}

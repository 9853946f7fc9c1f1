// Command cachedump exports a durable score cache to a parquet file.
//
//	cachedump -cache-path shelf/dev_scores.db scores.parquet
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/namsral/flag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/rookery/cache"
	"github.com/domino14/rookery/config"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	if err := run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("cachedump-failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("cachedump", flag.ContinueOnError)
	backend := fs.String(config.ConfigCacheBackend, config.CacheBackendSQLite, "score cache backend: sqlite or gob")
	path := fs.String(config.ConfigCachePath, "shelf/dev_scores.db", "path of the durable score cache")
	parallel := fs.Int64("parallel", 4, "parquet writer goroutines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: cachedump [flags] <out.parquet>")
	}

	var store cache.Store
	var err error
	switch *backend {
	case config.CacheBackendSQLite:
		store, err = cache.OpenSQLite(*path)
	case config.CacheBackendGob:
		store, err = cache.OpenGob(*path)
	default:
		return fmt.Errorf("cannot export from %q backend", *backend)
	}
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := cache.ExportParquet(store, fs.Arg(0), *parallel)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d scores to %s\n", n, fs.Arg(0))
	return nil
}

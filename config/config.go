package config

import (
	"github.com/namsral/flag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug            = "debug"
	ConfigDepth            = "depth"
	ConfigCacheBackend     = "cache-backend"
	ConfigCachePath        = "cache-path"
	ConfigCacheShards      = "cache-shards"
	ConfigParallelism      = "parallelism"
	ConfigTimingIterations = "timing-iterations"
	ConfigRecordPath       = "record-path"
	ConfigHistoryFile      = "history-file"
	ConfigConfigFile       = "config-file"
	ConfigStartFEN         = "fen"
	ConfigTimingOperation  = "operation"
)

const (
	CacheBackendSQLite = "sqlite"
	CacheBackendGob    = "gob"
	CacheBackendMemory = "memory"
)

// Config is a thin wrapper around viper. Defaults are set first, then an
// optional yaml file, then command-line flags (or their ROOKERY_* env
// equivalents) on top.
type Config struct {
	*viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigDepth, 3)
	c.SetDefault(ConfigCacheBackend, CacheBackendSQLite)
	c.SetDefault(ConfigCachePath, "shelf/dev_scores.db")
	c.SetDefault(ConfigCacheShards, 64)
	c.SetDefault(ConfigParallelism, 1)
	c.SetDefault(ConfigTimingIterations, 10000)
	c.SetDefault(ConfigRecordPath, "")
	c.SetDefault(ConfigHistoryFile, "/tmp/rookery_readline.tmp")
	c.SetDefault(ConfigConfigFile, "")
	c.SetDefault(ConfigStartFEN, "")
	c.SetDefault(ConfigTimingOperation, "search-trace")
	return c
}

// Load parses args into the config. Unknown flags are an error; flags that
// were not given keep their defaults.
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		*c = *DefaultConfig()
	}
	fs := flag.NewFlagSetWithEnvPrefix("rookery", "ROOKERY", flag.ContinueOnError)
	fs.Bool(ConfigDebug, c.GetBool(ConfigDebug), "turn on debug logging")
	fs.Int(ConfigDepth, c.GetInt(ConfigDepth), "search depth in plies for the engine")
	fs.String(ConfigCacheBackend, c.GetString(ConfigCacheBackend), "score cache backend: sqlite, gob or memory")
	fs.String(ConfigCachePath, c.GetString(ConfigCachePath), "path of the durable score cache")
	fs.Int(ConfigCacheShards, c.GetInt(ConfigCacheShards), "number of in-memory score cache shards")
	fs.Int(ConfigParallelism, c.GetInt(ConfigParallelism), "goroutines used to search the root's children")
	fs.Int(ConfigTimingIterations, c.GetInt(ConfigTimingIterations), "repetitions of the score operation in the timing harness")
	fs.String(ConfigRecordPath, c.GetString(ConfigRecordPath), "write a yaml game record here when a game ends")
	fs.String(ConfigHistoryFile, c.GetString(ConfigHistoryFile), "readline history file")
	fs.String(ConfigConfigFile, c.GetString(ConfigConfigFile), "optional yaml config file")
	fs.String(ConfigStartFEN, c.GetString(ConfigStartFEN), "start from this FEN instead of the initial position")
	fs.String(ConfigTimingOperation, c.GetString(ConfigTimingOperation), "operation timed by the timing tool: score, search or search-trace")

	if err := fs.Parse(args); err != nil {
		return err
	}

	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	if path, ok := explicit[ConfigConfigFile]; ok && path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	for k, v := range explicit {
		c.Set(k, v)
	}
	return nil
}

// SanitizedSettings is what gets logged at startup.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}

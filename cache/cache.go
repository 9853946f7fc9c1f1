package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/rookery/config"
)

// The score cache maps canonical position keys to static scores. It is a
// sharded in-memory table sitting in front of a durable Store; misses fall
// through to the store and hits are copied into memory.

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

type shard struct {
	TableLock
	scores map[string]int
}

type Stats struct {
	Lookups      uint64
	Hits         uint64
	Writes       uint64
	FailedWrites uint64
	Entries      int
}

type ScoreCache struct {
	shards []*shard
	store  Store

	lookups      atomic.Uint64
	hits         atomic.Uint64
	writes       atomic.Uint64
	failedWrites atomic.Uint64
}

// New builds a score cache over store. It starts in single-threaded mode.
func New(store Store, numShards int) *ScoreCache {
	if numShards < 1 {
		numShards = 1
	}
	c := &ScoreCache{store: store, shards: make([]*shard, numShards)}
	for i := range c.shards {
		c.shards[i] = &shard{TableLock: FakeLock{}, scores: make(map[string]int)}
	}
	return c
}

// Open builds the cache backend named in the config.
func Open(cfg *config.Config) (*ScoreCache, error) {
	var store Store
	var err error
	backend := cfg.GetString(config.ConfigCacheBackend)
	path := cfg.GetString(config.ConfigCachePath)
	switch backend {
	case config.CacheBackendSQLite:
		store, err = OpenSQLite(path)
	case config.CacheBackendGob:
		store, err = OpenGob(path)
	case config.CacheBackendMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s score cache at %s: %w", backend, path, err)
	}
	c := New(store, cfg.GetInt(config.ConfigCacheShards))
	if cfg.GetInt(config.ConfigParallelism) > 1 {
		c.SetMultiThreadedMode()
	}
	log.Info().Str("backend", backend).Str("path", path).Msg("score-cache-opened")
	return c, nil
}

// SetSingleThreadedMode drops shard locking. Only call it while nothing
// else is using the cache.
func (c *ScoreCache) SetSingleThreadedMode() {
	for _, s := range c.shards {
		s.TableLock = FakeLock{}
	}
}

// SetMultiThreadedMode guards every shard with its own RWMutex. Required
// before searching subtrees concurrently.
func (c *ScoreCache) SetMultiThreadedMode() {
	for _, s := range c.shards {
		s.TableLock = new(sync.RWMutex)
	}
}

func (c *ScoreCache) shardFor(key string) *shard {
	return c.shards[xxhash.Sum64String(key)%uint64(len(c.shards))]
}

// Get returns the cached score for key.
func (c *ScoreCache) Get(key string) (int, bool, error) {
	c.lookups.Add(1)
	s := c.shardFor(key)
	s.RLock()
	v, ok := s.scores[key]
	s.RUnlock()
	if ok {
		c.hits.Add(1)
		return v, true, nil
	}
	v, ok, err := c.store.Get(key)
	if err != nil || !ok {
		return 0, false, err
	}
	c.hits.Add(1)
	s.Lock()
	s.scores[key] = v
	s.Unlock()
	return v, true, nil
}

const (
	storeWriteAttempts = 3
	storeWriteDelay    = 5 * time.Millisecond
)

// Put records the score in memory and writes it through to the store,
// retrying briefly. A store failure returns a *PersistenceError; the
// in-memory value remains.
func (c *ScoreCache) Put(key string, score int) error {
	s := c.shardFor(key)
	s.Lock()
	s.scores[key] = score
	s.Unlock()
	c.writes.Add(1)
	err := retry.Do(
		func() error { return c.store.Put(key, score) },
		retry.Attempts(storeWriteAttempts),
		retry.Delay(storeWriteDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		c.failedWrites.Add(1)
		log.Error().Err(err).Str("key", key).Msg("score-cache-write-failed")
		return &PersistenceError{Key: key, Err: err}
	}
	return nil
}

// Range walks the durable store.
func (c *ScoreCache) Range(fn func(key string, score int) bool) error {
	return c.store.Range(fn)
}

func (c *ScoreCache) Stats() Stats {
	entries := 0
	for _, s := range c.shards {
		s.RLock()
		entries += len(s.scores)
		s.RUnlock()
	}
	return Stats{
		Lookups:      c.lookups.Load(),
		Hits:         c.hits.Load(),
		Writes:       c.writes.Load(),
		FailedWrites: c.failedWrites.Load(),
		Entries:      entries,
	}
}

var statsPrinter = message.NewPrinter(language.English)

func (s Stats) String() string {
	return statsPrinter.Sprintf("lookups %d, hits %d, writes %d, failed writes %d, in memory %d",
		s.Lookups, s.Hits, s.Writes, s.FailedWrites, s.Entries)
}

// Close flushes and closes the store. A failed flush is a persistence
// error.
func (c *ScoreCache) Close() error {
	st := c.Stats()
	log.Info().
		Uint64("lookups", st.Lookups).
		Uint64("hits", st.Hits).
		Uint64("writes", st.Writes).
		Uint64("failed-writes", st.FailedWrites).
		Msg("score-cache-closing")
	if err := c.store.Close(); err != nil {
		return &PersistenceError{Key: "*", Err: err}
	}
	return nil
}

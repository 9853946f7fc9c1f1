package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/rookery/config"
)

type failingStore struct {
	Store
}

func (f failingStore) Put(string, int) error {
	return errors.New("disk on fire")
}

// flakyStore fails the first n writes.
type flakyStore struct {
	Store
	n int
}

func (f *flakyStore) Put(key string, score int) error {
	if f.n > 0 {
		f.n--
		return errors.New("database is locked")
	}
	return f.Store.Put(key, score)
}

func TestGetPut(t *testing.T) {
	c := New(NewMemoryStore(), 4)

	_, ok, err := c.Get("k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put("k1", 17))
	v, ok, err := c.Get("k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 17, v)

	// a cached zero is a hit like any other value
	require.NoError(t, c.Put("k0", 0))
	v, ok, err = c.Get("k0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, v)

	st := c.Stats()
	assert.Equal(t, uint64(3), st.Lookups)
	assert.Equal(t, uint64(2), st.Hits)
	assert.Equal(t, uint64(2), st.Writes)
	assert.Equal(t, 2, st.Entries)
}

func TestMissFallsThroughToStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Put("warm", -12))

	c := New(store, 8)
	assert.Equal(t, 0, c.Stats().Entries)
	v, ok, err := c.Get("warm")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -12, v)
	assert.Equal(t, 1, c.Stats().Entries)
}

func TestPersistenceFailureIsSurfaced(t *testing.T) {
	c := New(failingStore{NewMemoryStore()}, 2)

	err := c.Put("k", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistence))
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "k", pe.Key)
	assert.Contains(t, err.Error(), "disk on fire")

	// still usable for the rest of the run
	v, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Equal(t, uint64(1), c.Stats().FailedWrites)
}

func TestTransientStoreFailureIsRetried(t *testing.T) {
	store := &flakyStore{Store: NewMemoryStore(), n: 2}
	c := New(store, 2)
	require.NoError(t, c.Put("k", 9))
	v, ok, err := store.Store.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 9, v)
	assert.Equal(t, uint64(0), c.Stats().FailedWrites)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf", "scores.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	c := New(store, 4)
	require.NoError(t, c.Put("b", 2))
	require.NoError(t, c.Put("a", 1))
	require.NoError(t, c.Put("a", 3))
	require.NoError(t, c.Close())

	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()
	v, ok, err := store.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	var keys []string
	require.NoError(t, store.Range(func(k string, _ int) bool {
		keys = append(keys, k)
		return true
	}))
	assert.Equal(t, []string{"a", "b"}, keys)

	_, ok, err = store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGobFlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.gob")

	store, err := OpenGob(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("x", -4000))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing is written before close")
	require.NoError(t, store.Close())

	store, err = OpenGob(path)
	require.NoError(t, err)
	v, ok, err := store.Get("x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -4000, v)
	require.NoError(t, store.Close())
}

func TestGobTruncatedSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.gob")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	store, err := OpenGob(path)
	require.NoError(t, err)
	_, ok, err := store.Get("x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigCacheBackend, config.CacheBackendMemory)
	c, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Put("k", 1))
	require.NoError(t, c.Close())

	cfg.Set(config.ConfigCacheBackend, config.CacheBackendSQLite)
	cfg.Set(config.ConfigCachePath, filepath.Join(t.TempDir(), "s.db"))
	c, err = Open(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	cfg.Set(config.ConfigCacheBackend, "redis")
	_, err = Open(cfg)
	assert.Error(t, err)
}

func TestConcurrentWritersInMultiThreadedMode(t *testing.T) {
	c := New(NewMemoryStore(), 16)
	c.SetMultiThreadedMode()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("pos-%d", i)
				// every writer stores the same deterministic value
				assert.NoError(t, c.Put(key, i*3))
				v, ok, err := c.Get(key)
				assert.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, i*3, v)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 200, c.Stats().Entries)
}

func TestStatsString(t *testing.T) {
	st := Stats{Lookups: 1234567, Hits: 1000, Writes: 3, Entries: 12}
	assert.Equal(t, "lookups 1,234,567, hits 1,000, writes 3, failed writes 0, in memory 12", st.String())
}

package cache

import (
	"encoding/gob"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// gobStore keeps every score in memory and writes the whole map back to
// disk on Close. The file is replaced atomically so a crash mid-flush keeps
// the previous snapshot.
type gobStore struct {
	mu     sync.RWMutex
	path   string
	scores map[string]int
	dirty  bool
}

type gobDump struct {
	Scores map[string]int
}

// OpenGob loads the snapshot at path; a missing or truncated file starts an
// empty cache.
func OpenGob(path string) (Store, error) {
	s := &gobStore{path: path, scores: make(map[string]int)}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	defer f.Close()

	var dump gobDump
	if err := gob.NewDecoder(f).Decode(&dump); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			log.Warn().Str("path", path).Msg("discarding-truncated-score-snapshot")
			return s, nil
		}
		return nil, err
	}
	if dump.Scores != nil {
		s.scores = dump.Scores
	}
	log.Debug().Str("path", path).Int("entries", len(s.scores)).Msg("loaded-gob-score-store")
	return s, nil
}

func (s *gobStore) Get(key string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.scores[key]
	return v, ok, nil
}

func (s *gobStore) Put(key string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[key] = score
	s.dirty = true
	return nil
}

func (s *gobStore) Range(fn func(string, int) bool) error {
	s.mu.RLock()
	snapshot := make(map[string]int, len(s.scores))
	for k, v := range s.scores {
		snapshot[k] = v
	}
	s.mu.RUnlock()
	return rangeSorted(snapshot, fn)
}

// Close flushes the snapshot if anything changed since it was loaded.
func (s *gobStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := ensureDir(s.path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(tmp).Encode(gobDump{Scores: s.scores}); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	s.dirty = false
	log.Debug().Str("path", s.path).Int("entries", len(s.scores)).Msg("flushed-gob-score-store")
	return nil
}

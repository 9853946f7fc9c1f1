package cache

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const (
	createTable = `CREATE TABLE IF NOT EXISTS scores (
	key   TEXT PRIMARY KEY,
	score INTEGER NOT NULL
)`
	selectScore = `SELECT score FROM scores WHERE key = ?`
	upsertScore = `INSERT INTO scores (key, score) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET score = excluded.score`
	selectAll = `SELECT key, score FROM scores ORDER BY key`
)

type sqliteStore struct {
	db   *sql.DB
	get  *sql.Stmt
	put  *sql.Stmt
	path string
}

// OpenSQLite opens (creating if needed) a score table in the sqlite file at
// path. Every Put is written through.
func OpenSQLite(path string) (Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer; sqlite serializes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, err
	}
	get, err := db.Prepare(selectScore)
	if err != nil {
		db.Close()
		return nil, err
	}
	put, err := db.Prepare(upsertScore)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Debug().Str("path", path).Msg("opened-sqlite-score-store")
	return &sqliteStore{db: db, get: get, put: put, path: path}, nil
}

func (s *sqliteStore) Get(key string) (int, bool, error) {
	var score int
	err := s.get.QueryRow(key).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

func (s *sqliteStore) Put(key string, score int) error {
	_, err := s.put.Exec(key, score)
	return err
}

func (s *sqliteStore) Range(fn func(string, int) bool) error {
	rows, err := s.db.Query(selectAll)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var score int
		if err := rows.Scan(&key, &score); err != nil {
			return err
		}
		if !fn(key, score) {
			break
		}
	}
	return rows.Err()
}

func (s *sqliteStore) Close() error {
	s.get.Close()
	s.put.Close()
	return s.db.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

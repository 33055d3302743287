package benchstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists benchmark runs to a SQLite database so results can be
// compared across invocations. The parsing core itself persists
// nothing; this is driver-side history only.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	file       TEXT NOT NULL,
	mode       TEXT NOT NULL,
	iterations INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	iteration INTEGER NOT NULL,
	seconds   REAL NOT NULL
);
`

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("benchstore: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("benchstore: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one benchmark run and returns its generated id.
func (s *Store) Record(file, mode string, durations []float64) (string, error) {
	runID := uuid.New().String()
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, file, mode, iterations, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, file, mode, len(durations), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}
	for i, d := range durations {
		if _, err := tx.Exec(
			`INSERT INTO samples (run_id, iteration, seconds) VALUES (?, ?, ?)`,
			runID, i, d,
		); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

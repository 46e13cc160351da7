// Package sqlite implements store.Store on a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/phrasal/pkg/phrasal/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database at path with WAL mode enabled and
// initializes the schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	min_count INTEGER NOT NULL,
	threshold REAL NOT NULL,
	delimiter TEXT NOT NULL,
	approximate INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS phrases (
	run_id TEXT NOT NULL,
	joined TEXT NOT NULL,
	a TEXT NOT NULL,
	b TEXT NOT NULL,
	score REAL NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, joined),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or updates a run record.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	approx := 0
	if r.Approximate {
		approx = 1
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, created_at, min_count, threshold, delimiter, approximate)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	min_count=excluded.min_count,
	threshold=excluded.threshold,
	delimiter=excluded.delimiter,
	approximate=excluded.approximate;
`, r.ID, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.MinCount, r.Threshold, r.Delimiter, approx)
	return err
}

// GetRun returns a run by ID.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, created_at, min_count, threshold, delimiter, approximate
FROM runs WHERE id=?`, id)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// ListRuns returns all runs, newest first.
func (s *sqliteStore) ListRuns(ctx context.Context) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, created_at, min_count, threshold, delimiter, approximate
FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// UpsertPhrase inserts or updates a phrase within a run.
func (s *sqliteStore) UpsertPhrase(ctx context.Context, runID string, p store.Phrase) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO phrases (run_id, joined, a, b, score, count)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(run_id, joined) DO UPDATE SET
	a=excluded.a,
	b=excluded.b,
	score=excluded.score,
	count=excluded.count;
`, runID, p.Joined, p.A, p.B, p.Score, p.Count)
	return err
}

// GetPhrases returns a run's phrases ordered by descending score.
func (s *sqliteStore) GetPhrases(ctx context.Context, runID string, limit int) ([]store.Phrase, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT joined, a, b, score, count
FROM phrases WHERE run_id=? ORDER BY score DESC LIMIT ?`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phrases []store.Phrase
	for rows.Next() {
		var p store.Phrase
		if err := rows.Scan(&p.Joined, &p.A, &p.B, &p.Score, &p.Count); err != nil {
			return nil, err
		}
		phrases = append(phrases, p)
	}
	return phrases, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (store.Run, error) {
	var (
		r       store.Run
		created string
		approx  int
	)
	if err := row.Scan(&r.ID, &created, &r.MinCount, &r.Threshold, &r.Delimiter, &approx); err != nil {
		return store.Run{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		r.CreatedAt = t
	}
	r.Approximate = approx != 0
	return r, nil
}

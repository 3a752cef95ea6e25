package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL, for histories shared
// between machines.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects and applies migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id SERIAL PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			kinds TEXT NOT NULL DEFAULT '[]'
		);`,
		`CREATE TABLE IF NOT EXISTS run_rows (
			id SERIAL PRIMARY KEY,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			label TEXT NOT NULL,
			elapsed_ns BIGINT NOT NULL,
			measurements TEXT NOT NULL DEFAULT '[]'
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Save persists one run with its rows.
func (s *PostgresStore) Save(run Run) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	kinds, err := json.Marshal(run.Kinds)
	if err != nil {
		return err
	}
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var runID int64
	if err := tx.QueryRow(
		`INSERT INTO runs (created_at, kinds) VALUES ($1, $2) RETURNING id`,
		created, string(kinds),
	).Scan(&runID); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, row := range run.Rows {
		measurements, err := json.Marshal(row.Measurements)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO run_rows (run_id, label, elapsed_ns, measurements) VALUES ($1, $2, $3, $4)`,
			runID, row.Label, row.ElapsedNs, string(measurements),
		); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}
	return tx.Commit()
}

// LoadAll returns all runs with their rows, oldest first.
func (s *PostgresStore) LoadAll() ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, created_at, kinds FROM runs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var kinds string
		if err := rows.Scan(&run.ID, &run.CreatedAt, &kinds); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(kinds), &run.Kinds); err != nil {
			return nil, fmt.Errorf("failed to decode kinds: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		if runs[i].Rows, err = s.loadRows(runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *PostgresStore) loadRows(runID int64) ([]Row, error) {
	rows, err := s.db.Query(
		`SELECT label, elapsed_ns, measurements FROM run_rows WHERE run_id = $1 ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		var measurements string
		if err := rows.Scan(&row.Label, &row.ElapsedNs, &measurements); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(measurements), &row.Measurements); err != nil {
			return nil, fmt.Errorf("failed to decode measurements: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// LoadLatest returns the most recent run, or nil when the history is
// empty.
func (s *PostgresStore) LoadLatest() (*Run, error) {
	runs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[len(runs)-1], nil
}

// Package store persists benchmark runs so later invocations can
// compare against them, backed by SQLite locally or PostgreSQL for a
// shared history.
package store

import (
	"time"

	"snipbench/internal/counters"
	"snipbench/internal/harness"
)

// Row is one persisted snippet result.
type Row struct {
	Label        string           `json:"label"`
	ElapsedNs    int64            `json:"elapsed_ns"`
	Measurements []counters.Value `json:"measurements,omitempty"`
}

// Run is one persisted harness invocation.
type Run struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Kinds     []string  `json:"kinds,omitempty"`
	Rows      []Row     `json:"rows"`
}

// NewRun wraps harness output for persistence.
func NewRun(kinds []string, rows []harness.Row) Run {
	run := Run{CreatedAt: time.Now(), Kinds: kinds}
	for _, r := range rows {
		run.Rows = append(run.Rows, Row{
			Label:        r.Label,
			ElapsedNs:    r.ElapsedNs,
			Measurements: r.Measurements,
		})
	}
	return run
}

// Store is the persistence interface for benchmark history.
type Store interface {
	Close() error
	Save(run Run) error
	LoadAll() ([]Run, error)
	LoadLatest() (*Run, error)
}

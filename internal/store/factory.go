package store

import (
	"fmt"
	"strings"
)

// Config selects and parameterizes the storage backend.
type Config struct {
	Type string // "sqlite" or "postgres"
	DSN  string // file path for SQLite, connection string for Postgres
}

// New creates a Store from the configuration. An empty type defaults to
// SQLite in the working directory.
func New(cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Type) {
	case "postgres", "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return NewPostgresStore(cfg.DSN)
	case "sqlite", "sqlite3", "":
		if cfg.DSN == "" {
			cfg.DSN = ".snipbench.db"
		}
		return NewSQLiteStore(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

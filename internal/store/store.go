package store

import (
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musivault/internal/shared"
)

// Store provides snapshot writes and read projections over the vault database.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// New creates a Store backed by the given database connection.
func New(db *sql.DB, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{db: db, logger: logger}
}

// DB exposes the underlying connection for callers that manage setup (migrations, pooling).
func (s *Store) DB() *sql.DB {
	return s.db
}

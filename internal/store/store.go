// Package store provides SQLite-backed persistence for settlements,
// ledgers, structures, modifiers, disasters, and populations.
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mkarlsen/bastion/internal/catalog"
)

// Store wraps a SQLite connection.
type Store struct {
	db *sqlx.DB
	*queries
}

// Tx is a set of store operations running inside one transaction.
type Tx struct {
	tx *sqlx.Tx
	*queries
}

// queries holds the data-access methods shared by Store and Tx. ext is
// either the root connection or an open transaction.
type queries struct {
	ext sqlx.ExtContext
	cat *catalog.Catalog
}

// Open opens or creates the database at path and runs migrations.
// Use ":memory:" for throwaway test databases.
func Open(path string, cat *catalog.Catalog) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: conn, queries: &queries{ext: conn, cat: cat}}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic. The context's deadline bounds every statement, so a
// stalled tick rolls back rather than holding the settlement lock forever.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{tx: tx, queries: &queries{ext: tx, cat: s.cat}}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settlements (
		id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		world_id TEXT NOT NULL,
		name TEXT NOT NULL,
		biome TEXT NOT NULL,
		resilience REAL NOT NULL DEFAULT 50,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ledgers (
		settlement_id TEXT PRIMARY KEY REFERENCES settlements(id) ON DELETE CASCADE,
		amounts_json TEXT NOT NULL,
		capacity INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS populations (
		settlement_id TEXT PRIMARY KEY REFERENCES settlements(id) ON DELETE CASCADE,
		current INTEGER NOT NULL,
		capacity INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS structures (
		id TEXT PRIMARY KEY,
		settlement_id TEXT NOT NULL REFERENCES settlements(id) ON DELETE CASCADE,
		type_key TEXT NOT NULL,
		level INTEGER NOT NULL,
		health REAL NOT NULL,
		slot INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		last_harvest_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS settlement_modifiers (
		settlement_id TEXT NOT NULL REFERENCES settlements(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		total_value REAL NOT NULL,
		source_count INTEGER NOT NULL,
		contributors_json TEXT NOT NULL,
		PRIMARY KEY (settlement_id, type)
	);

	CREATE TABLE IF NOT EXISTS disasters (
		id TEXT PRIMARY KEY,
		world_id TEXT NOT NULL,
		settlement_id TEXT NOT NULL REFERENCES settlements(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		severity REAL NOT NULL,
		biome_filter TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		last_processed TEXT NOT NULL,
		scheduled_at INTEGER NOT NULL,
		warning_at INTEGER NOT NULL,
		impact_at INTEGER NOT NULL,
		aftermath_at INTEGER NOT NULL,
		resolve_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_tiles (
		world_id TEXT NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		biome TEXT NOT NULL,
		elevation REAL NOT NULL,
		moisture REAL NOT NULL,
		PRIMARY KEY (world_id, q, r)
	);

	CREATE INDEX IF NOT EXISTS idx_structures_settlement ON structures(settlement_id);
	CREATE INDEX IF NOT EXISTS idx_disasters_settlement ON disasters(settlement_id);
	CREATE INDEX IF NOT EXISTS idx_disasters_status ON disasters(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

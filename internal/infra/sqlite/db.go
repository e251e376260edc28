// Package sqlite provides SQLite persistence for the metering engine:
// credit accounts, the transaction ledger, skill pricing configuration,
// and skill execution records.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	db      *sql.DB
	path    string
	waivers *waiverFilter
}

// Open creates (if needed) and opens the engine database inside dir, then
// applies migrations. SQLite allows a single writer; the pool is pinned to
// one connection so every transaction observes the latest committed state
// and the balance check-then-decrement cannot interleave with another
// writer. _txlock=immediate takes the write lock at BEGIN, not at first
// write, closing the remaining upgrade race.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, "contentengine.db")

	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn, path: path, waivers: newWaiverFilter(10_000)}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := db.warmWaiverFilter(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("warm waiver filter: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.db.Close()
}

// Path returns the database file location.
func (db *DB) Path() string { return db.path }

// migrate executes the schema statements one at a time (SQLite executes
// one statement per call).
func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

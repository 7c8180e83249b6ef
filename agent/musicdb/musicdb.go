// Package musicdb provides the digital music store database: customers,
// catalog, and invoices over SQLite. It backs the identity directory and
// every specialist tool, and nothing else reaches the database directly.
package musicdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the store database connection. Use ":memory:" for an
// ephemeral demo/test database.
type DB struct {
	db *sql.DB
}

func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open music store database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	// A single connection keeps an in-memory database from vanishing
	// between pool checkouts.
	db.SetMaxOpenConns(1)

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Verify confirms the database is reachable and populated.
func (d *DB) Verify(ctx context.Context) error {
	var count int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM Customer").Scan(&count); err != nil {
		return fmt.Errorf("verify music store database: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("music store database has no customers")
	}
	return nil
}

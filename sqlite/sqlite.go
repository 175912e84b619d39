// Package sqlite provides SQLite-based storage for extracted products and specs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fwojciec/specsheet"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// SchemaVersion is stored in PRAGMA user_version of every database
// created by this package.
const SchemaVersion = 1

type pragma struct {
	stmt     string
	fileOnly bool
}

var pragmas = []pragma{
	{stmt: "PRAGMA busy_timeout = 5000"},
	// WAL mode is not supported for in-memory databases.
	{stmt: "PRAGMA journal_mode = WAL", fileOnly: true},
	// Specs are removed with their product.
	{stmt: "PRAGMA foreign_keys = ON"},
}

// Open opens the database connection and creates the schema if needed.
// A database written by a different schema version is rejected with
// EINVALID.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range pragmas {
		if p.fileOnly && db.path == ":memory:" {
			continue
		}
		if _, err := conn.Exec(p.stmt); err != nil {
			conn.Close()
			return fmt.Errorf("%s: %w", p.stmt, err)
		}
	}

	db.db = conn
	if err := db.migrate(); err != nil {
		conn.Close()
		db.db = nil
		return err
	}
	return nil
}

func (db *DB) migrate() error {
	var version int
	if err := db.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch version {
	case SchemaVersion:
		return nil
	case 0:
	default:
		return specsheet.Errorf(specsheet.EINVALID, "database %s has schema version %d, expected %d", db.path, version, SchemaVersion)
	}

	// A database without a version must not already hold foreign tables.
	var tables int
	if err := db.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name NOT IN ('products', 'specs')`).Scan(&tables); err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	if tables > 0 {
		return specsheet.Errorf(specsheet.EINVALID, "database %s was not created by specsheet", db.path)
	}

	if err := db.createSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			brand TEXT NOT NULL DEFAULT '',
			family TEXT NOT NULL DEFAULT '',
			model_no TEXT NOT NULL DEFAULT '',
			article_number TEXT NOT NULL DEFAULT '',
			ordering_code TEXT NOT NULL DEFAULT '',
			product_name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			source_pdf TEXT NOT NULL,
			source_hash TEXT NOT NULL DEFAULT '',
			pages_covered TEXT NOT NULL DEFAULT '[]',
			provenance TEXT NOT NULL DEFAULT '{}',
			degraded INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS specs (
			id INTEGER PRIMARY KEY,
			product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			spec_key TEXT NOT NULL,
			spec_value_num REAL,
			spec_value_text TEXT,
			unit TEXT NOT NULL DEFAULT '',
			raw TEXT NOT NULL DEFAULT '',
			applies_to TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand);
		CREATE INDEX IF NOT EXISTS idx_products_model ON products(model_no);
		CREATE INDEX IF NOT EXISTS idx_products_ordering ON products(ordering_code);
		CREATE INDEX IF NOT EXISTS idx_products_source ON products(source_pdf);
		CREATE INDEX IF NOT EXISTS idx_specs_product_id ON specs(product_id);
		CREATE INDEX IF NOT EXISTS idx_specs_key_num ON specs(spec_key, spec_value_num);
	`

	_, err := db.db.Exec(schema)
	return err
}

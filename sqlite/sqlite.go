// Package sqlite provides SQLite-based storage implementations for vsx
// services, including the FTS5 search projection over shape names.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string

	// mu serializes writes. SQLite allows one writer at a time; taking the
	// lock in Go keeps write transactions from queueing on busy_timeout and
	// protects the FTS triggers from interleaved replace cycles.
	mu sync.Mutex

	// degraded is set when the FTS index failed its integrity check and
	// could not be rebuilt. Searches fall back to the base tables.
	degraded atomic.Bool
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection, creates the schema if needed and
// verifies the FTS index, rebuilding it when unsound.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	// This prevents immediate "database is locked" errors.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// Note: WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Enable foreign key constraints
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// The FTS projection is a rebuildable cache. A failed rebuild is not
	// fatal: searches degrade to the LIKE fallback instead.
	ctx := context.Background()
	if err := db.CheckIndex(ctx); err != nil {
		if err := db.RebuildIndex(ctx); err != nil {
			db.degraded.Store(true)
		}
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

// Degraded reports whether the FTS index is unusable and searches are
// served from the base tables.
func (db *DB) Degraded() bool {
	return db.degraded.Load()
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
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

// withTx runs fn inside a write transaction under the process-wide write
// lock. The transaction is rolled back if fn returns an error.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// CheckIndex runs the FTS5 integrity check against the external-content
// table. An error means the index is out of sync with the shapes table.
func (db *DB) CheckIndex(ctx context.Context) error {
	_, err := db.db.ExecContext(ctx, `INSERT INTO shapes_fts(shapes_fts, rank) VALUES('integrity-check', 1)`)
	return err
}

// RebuildIndex rebuilds the FTS index from the shapes table and clears the
// degraded flag on success.
func (db *DB) RebuildIndex(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.db.ExecContext(ctx, `INSERT INTO shapes_fts(shapes_fts) VALUES('rebuild')`); err != nil {
		return fmt.Errorf("failed to rebuild search index: %w", err)
	}
	db.degraded.Store(false)
	return nil
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS stencils (
			path TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			extension TEXT NOT NULL,
			file_size INTEGER NOT NULL DEFAULT 0,
			shape_count INTEGER NOT NULL DEFAULT 0,
			last_modified TEXT NOT NULL,
			last_scan TEXT NOT NULL,
			scan_error TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS shapes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stencil_path TEXT NOT NULL REFERENCES stencils(path) ON DELETE CASCADE,
			name TEXT NOT NULL,
			width REAL,
			height REAL,
			geometry TEXT,
			properties TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_shapes_stencil_path ON shapes(stencil_path);
		CREATE INDEX IF NOT EXISTS idx_shapes_name ON shapes(name);

		CREATE VIRTUAL TABLE IF NOT EXISTS shapes_fts USING fts5(
			name,
			content='shapes',
			content_rowid='id'
		);

		CREATE TRIGGER IF NOT EXISTS shapes_fts_insert AFTER INSERT ON shapes BEGIN
			INSERT INTO shapes_fts(rowid, name) VALUES (new.id, new.name);
		END;
		CREATE TRIGGER IF NOT EXISTS shapes_fts_delete AFTER DELETE ON shapes BEGIN
			INSERT INTO shapes_fts(shapes_fts, rowid, name) VALUES ('delete', old.id, old.name);
		END;
		CREATE TRIGGER IF NOT EXISTS shapes_fts_update AFTER UPDATE OF name ON shapes BEGIN
			INSERT INTO shapes_fts(shapes_fts, rowid, name) VALUES ('delete', old.id, old.name);
			INSERT INTO shapes_fts(rowid, name) VALUES (new.id, new.name);
		END;

		CREATE TABLE IF NOT EXISTS favorites (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stencil_path TEXT NOT NULL REFERENCES stencils(path) ON DELETE CASCADE,
			shape_id INTEGER REFERENCES shapes(id) ON DELETE CASCADE,
			added_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_favorites_stencil_path ON favorites(stencil_path);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_favorites_stencil
			ON favorites(stencil_path) WHERE shape_id IS NULL;
		CREATE UNIQUE INDEX IF NOT EXISTS idx_favorites_shape
			ON favorites(shape_id) WHERE shape_id IS NOT NULL;

		CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS collection_shapes (
			collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
			shape_id INTEGER NOT NULL REFERENCES shapes(id) ON DELETE CASCADE,
			PRIMARY KEY (collection_id, shape_id)
		);

		CREATE TABLE IF NOT EXISTS preset_directories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS saved_searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			search_term TEXT NOT NULL DEFAULT '',
			filters TEXT NOT NULL DEFAULT '{}'
		);
	`

	_, err := db.db.Exec(schema)
	return err
}

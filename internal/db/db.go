// Package db manages the local SQLite cache of cleaned work orders.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// configure sets up database pragmas for optimal performance.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema() error {
	if err := db.createWorkOrdersTable(); err != nil {
		return err
	}
	return db.createFetchSnapshotsTable()
}

func (db *DB) createWorkOrdersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS work_orders (
		wo_id TEXT PRIMARY KEY,
		prob_type TEXT NOT NULL,
		bl_id TEXT NOT NULL,
		completed_by TEXT,
		date_requested DATETIME NOT NULL,
		date_completed DATETIME,
		time_start TEXT,
		time_end TEXT,
		time_completed TEXT,
		fiscal_year_requested INTEGER NOT NULL,
		fiscal_year_completed INTEGER
	);
	CREATE INDEX IF NOT EXISTS idx_work_orders_requested ON work_orders(date_requested);
	CREATE INDEX IF NOT EXISTS idx_work_orders_prob_type ON work_orders(prob_type);
	CREATE INDEX IF NOT EXISTS idx_work_orders_fy ON work_orders(fiscal_year_requested);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createFetchSnapshotsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS fetch_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		row_count INTEGER NOT NULL,
		open_count INTEGER DEFAULT 0,
		dataset TEXT NOT NULL,
		table_name TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_fetch_snapshots_time ON fetch_snapshots(fetched_at);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	// Checkpoint WAL before closing
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum performs database maintenance to reclaim space.
func (db *DB) Vacuum() error {
	_, err := db.ExecContext(context.Background(), "VACUUM")
	return err
}

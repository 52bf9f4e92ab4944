// Package store provides SQLite persistence for flick.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for file-based DBs.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		// Each connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS engagement (
		item_id TEXT PRIMARY KEY,
		approvals INTEGER NOT NULL DEFAULT 0,
		disapprovals INTEGER NOT NULL DEFAULT 0,
		views INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS preferences (
		topic TEXT PRIMARY KEY,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS swipes (
		topic TEXT PRIMARY KEY,
		accepted INTEGER NOT NULL DEFAULT 0,
		rejected INTEGER NOT NULL DEFAULT 0
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Stats summarizes everything stored.
type Stats struct {
	EngagedItems      int `json:"engaged_items"`
	TotalApprovals    int `json:"total_approvals"`
	TotalDisapprovals int `json:"total_disapprovals"`
	TotalViews        int `json:"total_views"`
	TotalAccepted     int `json:"total_accepted"`
	TotalRejected     int `json:"total_rejected"`
	Preferences       int `json:"preferences"`
}

// Stats returns store-wide totals.
// Thread-safe: acquires read lock.
func (s *Store) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(approvals), 0), COALESCE(SUM(disapprovals), 0), COALESCE(SUM(views), 0)
		FROM engagement
	`).Scan(&st.EngagedItems, &st.TotalApprovals, &st.TotalDisapprovals, &st.TotalViews)
	if err != nil {
		return Stats{}, fmt.Errorf("query engagement totals: %w", err)
	}

	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(accepted), 0), COALESCE(SUM(rejected), 0) FROM swipes
	`).Scan(&st.TotalAccepted, &st.TotalRejected)
	if err != nil {
		return Stats{}, fmt.Errorf("query swipe totals: %w", err)
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM preferences`).Scan(&st.Preferences); err != nil {
		return Stats{}, fmt.Errorf("query preferences: %w", err)
	}
	return st, nil
}

// boolToInt converts a bool to an int for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

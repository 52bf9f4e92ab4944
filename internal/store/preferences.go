package store

import (
	"context"
	"fmt"
)

// LoadPreferences returns the saved topic keys in the order they were saved.
// Thread-safe: acquires read lock.
func (s *Store) LoadPreferences(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT topic FROM preferences ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// SavePreferences replaces the saved topics in one transaction.
// Duplicate keys keep their first position.
// Thread-safe: acquires write lock.
func (s *Store) SavePreferences(ctx context.Context, topics []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin preferences tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM preferences`); err != nil {
		return fmt.Errorf("clear preferences: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO preferences (topic, position) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare preferences insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range topics {
		if _, err := stmt.ExecContext(ctx, t, i); err != nil {
			return fmt.Errorf("insert preference %q: %w", t, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit preferences: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/abelbrown/flick/internal/engagement"
)

// Counts are the aggregate engagement numbers of one item.
type Counts struct {
	Approvals    int `json:"likes"`
	Disapprovals int `json:"dislikes"`
	Views        int `json:"views"`
}

func counterColumn(action engagement.Action) (string, error) {
	switch action {
	case engagement.Approve:
		return "approvals", nil
	case engagement.Disapprove:
		return "disapprovals", nil
	}
	return "", fmt.Errorf("unknown engagement action %q", action)
}

// PersistEngagement adds one to the action's counter when active and
// removes one when not. Counters never go below zero.
// Thread-safe: acquires write lock.
func (s *Store) PersistEngagement(ctx context.Context, itemID string, action engagement.Action, active bool) error {
	_, err := s.ApplyEngagement(ctx, itemID, action, active)
	return err
}

// ApplyEngagement is PersistEngagement returning the updated counts.
// Thread-safe: acquires write lock.
func (s *Store) ApplyEngagement(ctx context.Context, itemID string, action engagement.Action, active bool) (Counts, error) {
	col, err := counterColumn(action)
	if err != nil {
		return Counts{}, err
	}
	delta := 1
	if !active {
		delta = -1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("begin engagement tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO engagement (item_id) VALUES (?)`, itemID); err != nil {
		return Counts{}, fmt.Errorf("insert engagement row: %w", err)
	}
	// col comes from counterColumn, never from input.
	update := fmt.Sprintf(`
		UPDATE engagement SET %[1]s = MAX(0, %[1]s + ?), updated_at = CURRENT_TIMESTAMP
		WHERE item_id = ?`, col)
	if _, err := tx.ExecContext(ctx, update, delta, itemID); err != nil {
		return Counts{}, fmt.Errorf("update engagement: %w", err)
	}

	var c Counts
	err = tx.QueryRowContext(ctx,
		`SELECT approvals, disapprovals, views FROM engagement WHERE item_id = ?`, itemID,
	).Scan(&c.Approvals, &c.Disapprovals, &c.Views)
	if err != nil {
		return Counts{}, fmt.Errorf("read engagement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("commit engagement: %w", err)
	}
	return c, nil
}

// RecordView increments the view counter of an item.
// Thread-safe: acquires write lock.
func (s *Store) RecordView(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO engagement (item_id, views) VALUES (?, 1)
		ON CONFLICT(item_id) DO UPDATE SET views = views + 1, updated_at = CURRENT_TIMESTAMP
	`, itemID)
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// EngagementCounts returns the counts of every known item in ids.
// Unknown items are absent from the result.
// Thread-safe: acquires read lock.
func (s *Store) EngagementCounts(ctx context.Context, ids []string) (map[string]Counts, error) {
	out := make(map[string]Counts, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, approvals, disapprovals, views FROM engagement WHERE item_id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("query engagement: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var c Counts
		if err := rows.Scan(&id, &c.Approvals, &c.Disapprovals, &c.Views); err != nil {
			return nil, fmt.Errorf("scan engagement: %w", err)
		}
		out[id] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

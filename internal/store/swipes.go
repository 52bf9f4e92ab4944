package store

import (
	"context"
	"fmt"
)

// Tally is the persisted accept/reject count of one topic.
type Tally struct {
	Topic    string `json:"topic"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// RecordSwipe adds one accepted or rejected decision to topic's tally.
// Thread-safe: acquires write lock.
func (s *Store) RecordSwipe(ctx context.Context, topic string, accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, r := boolToInt(accepted), boolToInt(!accepted)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO swipes (topic, accepted, rejected) VALUES (?, ?, ?)
		ON CONFLICT(topic) DO UPDATE SET accepted = accepted + excluded.accepted, rejected = rejected + excluded.rejected
	`, topic, a, r)
	if err != nil {
		return fmt.Errorf("record swipe: %w", err)
	}
	return nil
}

// Tallies returns every topic tally ordered by topic.
// Thread-safe: acquires read lock.
func (s *Store) Tallies(ctx context.Context) ([]Tally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT topic, accepted, rejected FROM swipes ORDER BY topic`)
	if err != nil {
		return nil, fmt.Errorf("query swipes: %w", err)
	}
	defer rows.Close()

	var out []Tally
	for rows.Next() {
		var t Tally
		if err := rows.Scan(&t.Topic, &t.Accepted, &t.Rejected); err != nil {
			return nil, fmt.Errorf("scan swipe: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

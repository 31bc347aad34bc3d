package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Append adds a record to the end of a ledger within a transaction
func (s *Store) Append(ctx context.Context, key string, record interface{}) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int64
	err = tx.GetContext(ctx, &next,
		tx.Rebind("SELECT COALESCE(MAX(seq), 0) + 1 FROM ledger_entries WHERE ledger_key = ?"), key)
	if err != nil {
		return fmt.Errorf("failed to read ledger position: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO ledger_entries (ledger_key, seq, payload) VALUES (?, ?, ?)"),
		key, next, string(payload))
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", key, err)
	}

	return tx.Commit()
}

// List retrieves every record of a ledger in append order
func (s *Store) List(ctx context.Context, key string, dest interface{}) error {
	var rows []string
	err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind("SELECT payload FROM ledger_entries WHERE ledger_key = ? ORDER BY seq"), key)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", key, err)
	}

	payloads := make([][]byte, len(rows))
	for i, r := range rows {
		payloads[i] = []byte(r)
	}
	return DecodeSequence(payloads, dest)
}

// Count returns the number of records in a ledger
func (s *Store) Count(ctx context.Context, key string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		s.db.Rebind("SELECT COUNT(*) FROM ledger_entries WHERE ledger_key = ?"), key)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", key, err)
	}
	return n, nil
}

package store

import (
	"context"
	"fmt"
)

// Result is one persisted cache entry.
type Result struct {
	// Identity is the target's rendered identity ("module.name").
	Identity string

	// Value is the canonical JSON serialized form of the target's output.
	Value string

	// Token is the freshness token stamped when the value was written.
	Token int64

	// RunToken identifies the run that wrote this entry.
	RunToken string
}

// Run is one persisted evaluation run record.
type Run struct {
	RunToken string
	Changed  int
}

// WriteResult upserts a cache entry. The row is replaced wholesale:
// value, token and run_token always move together, never partially.
func (s *Store) WriteResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (identity, value, token, run_token)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET
			value = excluded.value,
			token = excluded.token,
			run_token = excluded.run_token
	`,
		r.Identity,
		r.Value,
		r.Token,
		r.RunToken,
	)
	if err != nil {
		return fmt.Errorf("write result %s: %w", r.Identity, err)
	}

	return nil
}

// WriteRun records one completed evaluation run.
// Idempotent via ON CONFLICT DO NOTHING - run tokens are unique per run.
func (s *Store) WriteRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_token, changed)
		VALUES (?, ?)
		ON CONFLICT(run_token) DO NOTHING
	`,
		r.RunToken,
		r.Changed,
	)
	if err != nil {
		return fmt.Errorf("write run %s: %w", r.RunToken, err)
	}

	return nil
}

// DeleteResult removes one cache entry. Removing a missing entry is
// not an error.
func (s *Store) DeleteResult(ctx context.Context, identity string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE identity = ?`, identity)
	if err != nil {
		return fmt.Errorf("delete result %s: %w", identity, err)
	}
	return nil
}

// DeleteAllResults clears the whole result cache.
func (s *Store) DeleteAllResults(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM results`)
	if err != nil {
		return fmt.Errorf("delete all results: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReadResult fetches the cache entry for an identity.
// The boolean reports whether an entry exists; a missing entry is not
// an error.
func (s *Store) ReadResult(ctx context.Context, identity string) (Result, bool, error) {
	var r Result
	err := s.db.QueryRowContext(ctx, `
		SELECT identity, value, token, run_token
		FROM results
		WHERE identity = ?
	`, identity).Scan(&r.Identity, &r.Value, &r.Token, &r.RunToken)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("read result %s: %w", identity, err)
	}

	return r, true, nil
}

// ListIdentities returns all cached identities in lexical order.
func (s *Store) ListIdentities(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identity FROM results ORDER BY identity
	`)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}

	return ids, nil
}

// MaxToken returns the highest freshness token across all cached
// entries (0 for an empty cache). The evaluator resumes its logical
// clock past this value so fresh tokens always compare newer than
// persisted ones.
func (s *Store) MaxToken(ctx context.Context) (int64, error) {
	var max int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(token), 0) FROM results
	`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max token: %w", err)
	}

	return max, nil
}

// ReadRun fetches one run record.
func (s *Store) ReadRun(ctx context.Context, runToken string) (Run, bool, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT run_token, changed FROM runs WHERE run_token = ?
	`, runToken).Scan(&r.RunToken, &r.Changed)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("read run %s: %w", runToken, err)
	}

	return r, true, nil
}

// CountResults returns the number of cached entries.
func (s *Store) CountResults(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

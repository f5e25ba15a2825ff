// Package testutil provides shared helpers for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/ChallenHB/mill/internal/store"
)

// TempStore opens a SQLite result cache in a per-test temporary
// directory and closes it on cleanup.
func TempStore(t *testing.T) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mill.db")
	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open temp store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close temp store: %v", err)
		}
	})
	return st
}

// TempStoreAt opens a SQLite result cache at an explicit path and
// closes it on cleanup. Use for tests that reopen the same database
// to exercise persistence across evaluator instances.
func TempStoreAt(t *testing.T, path string) *store.Store {
	t.Helper()

	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store at %s: %v", path, err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

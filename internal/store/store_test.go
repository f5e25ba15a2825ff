package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "mill.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mill.db")

	st, err := Open(path)
	require.NoError(t, err)
	defer st.Close()

	n, err := st.CountResults(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mill.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	var version int
	require.NoError(t, st.DB().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_AppliesPragmas(t *testing.T) {
	st := openTemp(t)

	var mode string
	require.NoError(t, st.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, st.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestWriteReadResult_RoundTrip(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	want := Result{
		Identity: "core.compile",
		Value:    `{"first":1,"second":2}`,
		Token:    7,
		RunToken: "run-1",
	}
	require.NoError(t, st.WriteResult(ctx, want))

	got, ok, err := st.ReadResult(ctx, "core.compile")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestReadResult_Missing(t *testing.T) {
	st := openTemp(t)

	_, ok, err := st.ReadResult(context.Background(), "never.written")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteResult_UpsertReplacesWholeRow(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	require.NoError(t, st.WriteResult(ctx, Result{Identity: "t.a", Value: "1", Token: 1, RunToken: "run-1"}))
	require.NoError(t, st.WriteResult(ctx, Result{Identity: "t.a", Value: "2", Token: 5, RunToken: "run-2"}))

	got, ok, err := st.ReadResult(ctx, "t.a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", got.Value)
	assert.Equal(t, int64(5), got.Token)
	assert.Equal(t, "run-2", got.RunToken)

	n, err := st.CountResults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListIdentities_LexicalOrder(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	for _, id := range []string{"t.zulu", "t.alpha", "t.mike"} {
		require.NoError(t, st.WriteResult(ctx, Result{Identity: id, Value: "0", Token: 1, RunToken: "run-1"}))
	}

	ids, err := st.ListIdentities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t.alpha", "t.mike", "t.zulu"}, ids)
}

func TestMaxToken(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	max, err := st.MaxToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), max, "empty cache has no tokens")

	require.NoError(t, st.WriteResult(ctx, Result{Identity: "t.a", Value: "1", Token: 3, RunToken: "run-1"}))
	require.NoError(t, st.WriteResult(ctx, Result{Identity: "t.b", Value: "2", Token: 9, RunToken: "run-1"}))

	max, err = st.MaxToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), max)
}

func TestWriteReadRun(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	require.NoError(t, st.WriteRun(ctx, Run{RunToken: "run-1", Changed: 4}))

	got, ok, err := st.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Run{RunToken: "run-1", Changed: 4}, got)

	_, ok, err = st.ReadRun(ctx, "run-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteRun_Idempotent(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	require.NoError(t, st.WriteRun(ctx, Run{RunToken: "run-1", Changed: 4}))
	require.NoError(t, st.WriteRun(ctx, Run{RunToken: "run-1", Changed: 99}))

	got, _, err := st.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Changed, "first write wins")
}

func TestDeleteResult(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	require.NoError(t, st.WriteResult(ctx, Result{Identity: "t.a", Value: "1", Token: 1, RunToken: "run-1"}))
	require.NoError(t, st.DeleteResult(ctx, "t.a"))

	_, ok, err := st.ReadResult(ctx, "t.a")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing entry is fine.
	require.NoError(t, st.DeleteResult(ctx, "t.a"))
}

func TestDeleteAllResults(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	require.NoError(t, st.WriteResult(ctx, Result{Identity: "t.a", Value: "1", Token: 1, RunToken: "run-1"}))
	require.NoError(t, st.WriteResult(ctx, Result{Identity: "t.b", Value: "2", Token: 2, RunToken: "run-1"}))
	require.NoError(t, st.DeleteAllResults(ctx))

	n, err := st.CountResults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPersistence_AcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mill.db")
	ctx := context.Background()

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.WriteResult(ctx, Result{Identity: "t.a", Value: "42", Token: 3, RunToken: "run-1"}))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	got, ok, err := st.ReadResult(ctx, "t.a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "42", got.Value)
}

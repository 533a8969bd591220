package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/rapidread/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "rapidread.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Put(ctx, "k", []byte("v1")))
	require.NoError(t, kv.Put(ctx, "k", []byte("v2")))
	got, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, kv.Delete(ctx, "k"))
	require.NoError(t, kv.Delete(ctx, "k"))
	_, ok, err = kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteKV(t *testing.T) {
	exerciseKV(t, openTestStore(t))
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func TestBadgerKV(t *testing.T) {
	kv, err := OpenBadger(filepath.Join(t.TempDir(), "badger"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = kv.Close()
	})
	exerciseKV(t, kv)
}

func TestSessionStoreOnSQLite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rapidread.db")
	st, err := Open(path)
	require.NoError(t, err)

	want := model.PersistedState{SourceText: "persist me", WPM: 600, WordIndex: 1}
	NewSessionStore(st, nil).Save(context.Background(), want)
	require.NoError(t, st.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	assert.Equal(t, want, NewSessionStore(reopened, nil).Load(context.Background()))
}

func TestInsertAndListReads(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, st.InsertRead(ctx, model.ReadRecord{
			ID:         []string{"r1", "r2", "r3"}[i],
			StartedAt:  start,
			EndedAt:    start.Add(time.Minute),
			Source:     model.SourceText,
			Words:      300 + i,
			WPM:        450,
			DurationMs: 60000,
		}))
	}

	all, err := st.ListReads(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r1", all[0].ID)
	assert.True(t, all[0].EndedAt.Equal(base.Add(time.Minute)))

	last, err := st.ListReads(ctx, model.StatsConfig{Last: 2})
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "r2", last[0].ID)
	assert.Equal(t, "r3", last[1].ID)

	since := base.Add(90 * time.Minute)
	recent, err := st.ListReads(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 302, recent[0].Words)

	assert.Error(t, st.InsertRead(ctx, model.ReadRecord{ID: "r1", StartedAt: base, EndedAt: base}))
}

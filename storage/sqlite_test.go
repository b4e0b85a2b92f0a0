package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-link-shortener/types"
)

func newTestSQLiteStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newRecord(code, longURL string) types.URLRecord {
	return types.URLRecord{Code: code, LongURL: longURL, CreatedAt: time.Now().UTC()}
}

func TestSQLiteStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Create And GetByCode", func(t *testing.T) {
		store := newTestSQLiteStorage(t)
		created := newRecord("abc", "https://example.com")
		require.NoError(t, store.Create(ctx, created))

		record, err := store.GetByCode(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", record.Code)
		assert.Equal(t, "https://example.com", record.LongURL)
		assert.EqualValues(t, 0, record.HitCount)
		assert.WithinDuration(t, created.CreatedAt, record.CreatedAt, time.Second)

		// Test non-existent code
		_, err = store.GetByCode(ctx, "nonexistent")
		assert.Equal(t, ErrNotFound, err)
	})

	t.Run("Duplicate Code", func(t *testing.T) {
		store := newTestSQLiteStorage(t)
		require.NoError(t, store.Create(ctx, newRecord("abc", "https://one.example")))

		err := store.Create(ctx, newRecord("abc", "https://two.example"))
		assert.Equal(t, ErrDuplicateCode, err)
	})

	t.Run("Duplicate URL", func(t *testing.T) {
		store := newTestSQLiteStorage(t)
		require.NoError(t, store.Create(ctx, newRecord("abc", "https://example.com")))

		err := store.Create(ctx, newRecord("abd", "https://example.com"))
		assert.Equal(t, ErrDuplicateURL, err)
	})

	t.Run("GetByLongURL", func(t *testing.T) {
		store := newTestSQLiteStorage(t)
		require.NoError(t, store.Create(ctx, newRecord("abc", "https://example.com")))

		record, err := store.GetByLongURL(ctx, "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "abc", record.Code)

		_, err = store.GetByLongURL(ctx, "https://unknown.example")
		assert.Equal(t, ErrNotFound, err)
	})

	t.Run("IncrementHits", func(t *testing.T) {
		store := newTestSQLiteStorage(t)
		require.NoError(t, store.Create(ctx, newRecord("abc", "https://example.com")))

		require.NoError(t, store.IncrementHits(ctx, "abc"))
		require.NoError(t, store.IncrementHits(ctx, "abc"))

		record, err := store.GetByCode(ctx, "abc")
		require.NoError(t, err)
		assert.EqualValues(t, 2, record.HitCount)

		// Test non-existent code
		err = store.IncrementHits(ctx, "nonexistent")
		assert.Equal(t, ErrNotFound, err)
	})

	t.Run("LastCode Follows Insertion Order", func(t *testing.T) {
		store := newTestSQLiteStorage(t)

		// Empty storage has no last code
		last, err := store.LastCode(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", last)

		require.NoError(t, store.Create(ctx, newRecord("zz", "https://one.example")))
		require.NoError(t, store.Create(ctx, newRecord("aa", "https://two.example")))

		last, err = store.LastCode(ctx)
		require.NoError(t, err)
		assert.Equal(t, "aa", last, "Recency should follow inserts, not code ordering")
	})
}

package keyValueDb_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openauction/auctiond/internal/storage/keyValueDb"
	"github.com/openauction/auctiond/internal/storage/keyValueDb/bbolt"
	"github.com/openauction/auctiond/internal/storage/keyValueDb/pebble"
)

type backend struct {
	name string
	open func(t *testing.T) keyValueDb.DB
}

func backends() []backend {
	return []backend{
		{
			name: "bbolt",
			open: func(t *testing.T) keyValueDb.DB {
				db, err := bbolt.Open(filepath.Join(t.TempDir(), "accounts.db"))
				require.NoError(t, err)
				return db
			},
		},
		{
			name: "pebble",
			open: func(t *testing.T) keyValueDb.DB {
				db, err := pebble.Open(filepath.Join(t.TempDir(), "accounts"))
				require.NoError(t, err)
				return db
			},
		},
	}
}

func TestReadWriteDelete(t *testing.T) {
	for _, be := range backends() {
		t.Run(be.name, func(t *testing.T) {
			db := be.open(t)
			defer db.Close()
			ctx := context.Background()

			_, err := db.Read(ctx, []byte("missing"))
			assert.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)

			require.NoError(t, db.Write(ctx, []byte("account"), []byte("state")))

			got, err := db.Read(ctx, []byte("account"))
			require.NoError(t, err)
			assert.Equal(t, []byte("state"), got)

			ok, err := db.Has(ctx, []byte("account"))
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, db.Delete(ctx, []byte("account")))

			ok, err = db.Has(ctx, []byte("account"))
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting a missing key is not an error.
			require.NoError(t, db.Delete(ctx, []byte("account")))
		})
	}
}

func TestBatchAtomicity(t *testing.T) {
	for _, be := range backends() {
		t.Run(be.name, func(t *testing.T) {
			db := be.open(t)
			defer db.Close()
			ctx := context.Background()

			require.NoError(t, db.Write(ctx, []byte("stale"), []byte("old")))

			ops := []keyValueDb.BatchOperation{
				{Type: keyValueDb.BatchPut, Key: []byte("a"), Value: []byte("1")},
				{Type: keyValueDb.BatchPut, Key: []byte("b"), Value: []byte("2")},
				{Type: keyValueDb.BatchDelete, Key: []byte("stale")},
			}
			require.NoError(t, db.Batch(ctx, ops))

			got, err := db.Read(ctx, []byte("a"))
			require.NoError(t, err)
			assert.Equal(t, []byte("1"), got)

			got, err = db.Read(ctx, []byte("b"))
			require.NoError(t, err)
			assert.Equal(t, []byte("2"), got)

			ok, err := db.Has(ctx, []byte("stale"))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestBatchRejectsUnknownOp(t *testing.T) {
	for _, be := range backends() {
		t.Run(be.name, func(t *testing.T) {
			db := be.open(t)
			defer db.Close()

			ops := []keyValueDb.BatchOperation{
				{Type: keyValueDb.BatchOpType(99), Key: []byte("x")},
			}
			err := db.Batch(context.Background(), ops)
			assert.ErrorIs(t, err, keyValueDb.ErrBatchOperationFailed)
		})
	}
}

func TestIteratorRange(t *testing.T) {
	for _, be := range backends() {
		t.Run(be.name, func(t *testing.T) {
			db := be.open(t)
			defer db.Close()
			ctx := context.Background()

			for i := 0; i < 5; i++ {
				key := []byte(fmt.Sprintf("key%d", i))
				require.NoError(t, db.Write(ctx, key, []byte(fmt.Sprintf("val%d", i))))
			}

			// End bound is exclusive.
			iter, err := db.Iterator(ctx, []byte("key1"), []byte("key4"))
			require.NoError(t, err)
			defer iter.Close()

			var keys []string
			for iter.Next() {
				keys = append(keys, string(iter.Key()))
			}
			require.NoError(t, iter.Error())
			assert.Equal(t, []string{"key1", "key2", "key3"}, keys)
		})
	}
}

func TestClosedDB(t *testing.T) {
	for _, be := range backends() {
		t.Run(be.name, func(t *testing.T) {
			db := be.open(t)
			require.NoError(t, db.Close())

			_, err := db.Read(context.Background(), []byte("x"))
			assert.ErrorIs(t, err, keyValueDb.ErrDBClosed)

			err = db.Write(context.Background(), []byte("x"), []byte("y"))
			assert.ErrorIs(t, err, keyValueDb.ErrDBClosed)

			// Double close is a no-op.
			require.NoError(t, db.Close())
		})
	}
}

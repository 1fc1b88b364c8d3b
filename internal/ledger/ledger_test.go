package ledger_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openauction/auctiond/internal/ledger"
	"github.com/openauction/auctiond/internal/storage/keyValueDb/bbolt"
	"github.com/openauction/auctiond/internal/types"
)

func pk(b byte) types.Pubkey {
	var key types.Pubkey
	for i := range key {
		key[i] = b
	}
	return key
}

func TestAccountRoundTrip(t *testing.T) {
	acct := &ledger.Account{
		Lamports: 1_500_000,
		Owner:    pk(0x11),
		Data:     []byte{0xde, 0xad, 0xbe, 0xef},
	}

	got, err := ledger.ParseAccount(acct.Serialize())
	require.NoError(t, err)
	assert.Equal(t, acct, got)
}

func TestAccountRoundTripEmptyData(t *testing.T) {
	acct := &ledger.Account{Lamports: 42, Owner: pk(0x22), Data: []byte{}}

	got, err := ledger.ParseAccount(acct.Serialize())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.Lamports)
	assert.Empty(t, got.Data)
}

func TestParseAccountRejectsTruncated(t *testing.T) {
	acct := &ledger.Account{Lamports: 1, Owner: pk(0x33), Data: []byte("abc")}
	raw := acct.Serialize()

	_, err := ledger.ParseAccount(raw[:len(raw)-1])
	assert.ErrorIs(t, err, ledger.ErrAccountTooShort)

	_, err = ledger.ParseAccount(raw[:10])
	assert.ErrorIs(t, err, ledger.ErrAccountTooShort)
}

func TestCloneIsDeep(t *testing.T) {
	acct := &ledger.Account{Lamports: 7, Owner: pk(0x44), Data: []byte{1, 2, 3}}
	clone := acct.Clone()
	clone.Data[0] = 9
	clone.Lamports = 8

	assert.Equal(t, byte(1), acct.Data[0])
	assert.Equal(t, uint64(7), acct.Lamports)
}

func TestRentMinimum(t *testing.T) {
	rent := ledger.Rent{Baseline: 1000, PerByte: 10}

	min, err := rent.Minimum(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), min)

	min, err = rent.Minimum(100)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), min)
}

func TestRentMinimumOverflow(t *testing.T) {
	rent := ledger.Rent{Baseline: 1, PerByte: ^uint64(0)}
	_, err := rent.Minimum(2)
	assert.Error(t, err)
}

func stores(t *testing.T) map[string]interface {
	ledger.View
	ledger.BatchApplier
} {
	db, err := bbolt.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]interface {
		ledger.View
		ledger.BatchApplier
	}{
		"store":  ledger.NewStore(db),
		"memory": ledger.NewMemoryStore(),
	}
}

func TestStoreLifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := pk(0x55)

			_, err := store.Get(ctx, key)
			assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

			acct := &ledger.Account{Lamports: 100, Owner: pk(0x66), Data: []byte("record")}
			require.NoError(t, store.Put(ctx, key, acct))

			got, err := store.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, acct, got)

			ok, err := store.Exists(ctx, key)
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, store.Delete(ctx, key))
			ok, err = store.Exists(ctx, key)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreApplyChanges(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			stale := pk(0x77)
			require.NoError(t, store.Put(ctx, stale, &ledger.Account{Lamports: 1}))

			created := pk(0x88)
			puts := map[types.Pubkey]*ledger.Account{
				created: {Lamports: 500, Owner: pk(0x99), Data: []byte("new")},
			}
			deletes := map[types.Pubkey]struct{}{stale: {}}

			require.NoError(t, store.ApplyChanges(ctx, puts, deletes))

			got, err := store.Get(ctx, created)
			require.NoError(t, err)
			assert.Equal(t, uint64(500), got.Lamports)

			_, err = store.Get(ctx, stale)
			assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
		})
	}
}

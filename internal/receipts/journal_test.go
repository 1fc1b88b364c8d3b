package receipts_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openauction/auctiond/internal/core/tx"
	"github.com/openauction/auctiond/internal/receipts"
	"github.com/openauction/auctiond/internal/types"
)

func pk(fill byte) types.Pubkey {
	var key types.Pubkey
	for i := range key {
		key[i] = fill
	}
	return key
}

func receipt(marketplace, asset types.Pubkey, price uint64) tx.SaleReceipt {
	return tx.SaleReceipt{
		Marketplace: marketplace,
		Buyer:       pk(0xB1),
		Seller:      pk(0x5E),
		AssetID:     asset,
		Price:       price,
		Fee:         price / 40,
		Royalty:     price / 20,
		Proceeds:    price - price/40 - price/20,
		SettledAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestJournalRoundTrip(t *testing.T) {
	journal, err := receipts.Open(filepath.Join(t.TempDir(), "receipts.db"))
	require.NoError(t, err)
	defer journal.Close()

	ctx := context.Background()
	want := receipt(pk(0x01), pk(0xAA), 10000)
	require.NoError(t, journal.RecordSale(ctx, want))

	got, err := journal.List(ctx, receipts.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, want.SettledAt.Equal(got[0].SettledAt))
	got[0].SettledAt = want.SettledAt
	assert.Equal(t, want, got[0])
}

func TestJournalFilters(t *testing.T) {
	journal, err := receipts.Open(filepath.Join(t.TempDir(), "receipts.db"))
	require.NoError(t, err)
	defer journal.Close()

	ctx := context.Background()
	m1, m2 := pk(0x01), pk(0x02)
	a1, a2 := pk(0xAA), pk(0xAB)

	require.NoError(t, journal.RecordSale(ctx, receipt(m1, a1, 100)))
	require.NoError(t, journal.RecordSale(ctx, receipt(m1, a2, 200)))
	require.NoError(t, journal.RecordSale(ctx, receipt(m2, a1, 300)))

	got, err := journal.List(ctx, receipts.Filter{Marketplace: m1})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = journal.List(ctx, receipts.Filter{Marketplace: m1, AssetID: a1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(100), got[0].Price)

	// Newest first, limit applies after ordering.
	got, err = journal.List(ctx, receipts.Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(300), got[0].Price)
}

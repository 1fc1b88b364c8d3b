package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openauction/auctiond/internal/types"
)

func fillKey(fill byte) types.Pubkey {
	var pk types.Pubkey
	for i := range pk {
		pk[i] = fill
	}
	return pk
}

func TestMarketplaceConfigRoundTrip(t *testing.T) {
	original := &MarketplaceConfig{
		Authority:                 fillKey(1),
		SettlementCurrency:        fillKey(2),
		FeeBasisPoints:            250,
		RequiresSignOff:           true,
		TreasuryAccount:           fillKey(3),
		TreasuryWithdrawalAccount: fillKey(4),
		TreasuryWithdrawalOwner:   fillKey(5),
		FeeAccount:                fillKey(6),
		FeeWithdrawalAccount:      fillKey(7),
		Bump:                      254,
		TreasuryBump:              253,
		FeeBump:                   252,
	}

	data := original.Serialize()
	require.Len(t, data, MarketplaceConfigSize)

	parsed, err := ParseMarketplaceConfig(data)
	require.NoError(t, err)
	require.Equal(t, original, parsed)
}

func TestParseMarketplaceConfigBadSize(t *testing.T) {
	_, err := ParseMarketplaceConfig(make([]byte, MarketplaceConfigSize-1))
	require.Error(t, err)

	_, err = ParseMarketplaceConfig(nil)
	require.Error(t, err)
}

func TestTradeStateRoundTrip(t *testing.T) {
	ts := &TradeState{Bump: 251}
	data := ts.Serialize()
	require.Len(t, data, TradeStateSize)

	parsed, err := ParseTradeState(data)
	require.NoError(t, err)
	require.Equal(t, ts, parsed)

	_, err = ParseTradeState([]byte{})
	require.Error(t, err)
}

func TestMetadataSerializeDeterministic(t *testing.T) {
	collection := &Collection{Verified: true, Key: fillKey(9)}
	meta := &Metadata{
		Name:                 "Solitude",
		Symbol:               "SOL1",
		URI:                  "https://example.com/solitude.json",
		SellerFeeBasisPoints: 500,
		IsMutable:            true,
		Creators: []Creator{
			{Address: fillKey(10), Verified: true, Share: 70},
			{Address: fillKey(11), Share: 30},
		},
		Collection: collection,
	}

	first := meta.Serialize()
	second := meta.Serialize()
	require.Equal(t, first, second)

	// Any field change must move the encoding.
	meta.SellerFeeBasisPoints = 501
	require.NotEqual(t, first, meta.Serialize())
}

func TestMetadataSerializeNoCollection(t *testing.T) {
	with := (&Metadata{Name: "a", Collection: &Collection{Key: fillKey(1)}}).Serialize()
	without := (&Metadata{Name: "a"}).Serialize()
	require.NotEqual(t, with, without)
}

func TestValidateCreatorShares(t *testing.T) {
	tests := []struct {
		name    string
		shares  []uint8
		wantErr bool
	}{
		{name: "no creators", shares: nil, wantErr: false},
		{name: "single creator", shares: []uint8{100}, wantErr: false},
		{name: "split", shares: []uint8{60, 30, 10}, wantErr: false},
		{name: "under", shares: []uint8{50, 49}, wantErr: true},
		{name: "over", shares: []uint8{60, 50}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			meta := &Metadata{}
			for i, share := range tc.shares {
				meta.Creators = append(meta.Creators, Creator{Address: fillKey(byte(i + 1)), Share: share})
			}
			err := meta.ValidateCreatorShares()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

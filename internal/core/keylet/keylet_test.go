package keylet

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/openauction/auctiond/internal/types"
)

func testPubkey(fill byte) types.Pubkey {
	var pk types.Pubkey
	for i := range pk {
		pk[i] = fill
	}
	return pk
}

func TestDeriveDeterministic(t *testing.T) {
	party := testPubkey(1)
	marketplace := testPubkey(2)
	asset := testPubkey(3)

	first, err := TradeState(party, marketplace, asset, 10000)
	require.NoError(t, err)

	second, err := TradeState(party, marketplace, asset, 10000)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.False(t, first.Address.IsZero())
	require.False(t, onCurve([32]byte(first.Address)))
}

func TestDerivePriceSensitivity(t *testing.T) {
	party := testPubkey(1)
	marketplace := testPubkey(2)
	asset := testPubkey(3)

	at10000, err := TradeState(party, marketplace, asset, 10000)
	require.NoError(t, err)

	at9999, err := TradeState(party, marketplace, asset, 9999)
	require.NoError(t, err)

	require.NotEqual(t, at10000.Address, at9999.Address)
}

func TestDeriveDistinctRecordKinds(t *testing.T) {
	a := testPubkey(7)
	b := testPubkey(8)

	config, err := Marketplace(a, b)
	require.NoError(t, err)

	treasury, err := Treasury(config.Address)
	require.NoError(t, err)

	fee, err := Fee(config.Address)
	require.NoError(t, err)

	escrow, err := Escrow(config.Address, a)
	require.NoError(t, err)

	seen := map[types.Pubkey]string{
		config.Address:   "config",
		treasury.Address: "treasury",
		fee.Address:      "fee",
		escrow.Address:   "escrow",
	}
	require.Len(t, seen, 4, "derived record kinds must not collide")
}

func TestCreateAddressMatchesDerive(t *testing.T) {
	party := testPubkey(4)
	marketplace := testPubkey(5)
	asset := testPubkey(6)

	derived, err := TradeState(party, marketplace, asset, 42)
	require.NoError(t, err)

	recreated, err := CreateAddress(derived.Bump,
		[]byte(seedTradeState), party[:], marketplace[:], asset[:], priceLE(42))
	require.NoError(t, err)
	require.Equal(t, derived.Address, recreated)
}

func TestDeriveProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var party, marketplace, asset types.Pubkey
		copy(party[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "party"))
		copy(marketplace[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "marketplace"))
		copy(asset[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "asset"))
		price := rapid.Uint64().Draw(t, "price")

		first, err := TradeState(party, marketplace, asset, price)
		if err != nil {
			t.Fatalf("derive failed: %v", err)
		}
		second, err := TradeState(party, marketplace, asset, price)
		if err != nil {
			t.Fatalf("re-derive failed: %v", err)
		}
		if first != second {
			t.Fatalf("derivation is not deterministic: %v vs %v", first, second)
		}
		if onCurve([32]byte(first.Address)) {
			t.Fatalf("derived address is on the curve")
		}

		// A one-unit price change must move the address.
		if price < ^uint64(0) {
			shifted, err := TradeState(party, marketplace, asset, price+1)
			if err != nil {
				t.Fatalf("derive failed: %v", err)
			}
			if shifted.Address == first.Address {
				t.Fatalf("price change did not move the address")
			}
		}
	})
}

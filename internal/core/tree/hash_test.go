package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openauction/auctiond/internal/core/state"
)

func sampleMetadata() *state.Metadata {
	return &state.Metadata{
		Name:                 "Sample Asset",
		Symbol:               "SMPL",
		URI:                  "https://assets.example/smpl.json",
		SellerFeeBasisPoints: 500,
		IsMutable:            true,
		Creators: []state.Creator{
			{Address: fillKey(0x11), Verified: true, Share: 60},
			{Address: fillKey(0x22), Share: 40},
		},
	}
}

func TestLeafHashDeterministic(t *testing.T) {
	asset := fillKey(0x01)
	owner := fillKey(0x02)
	delegate := fillKey(0x03)
	data := fillHash(0x04)
	creators := fillHash(0x05)

	a := LeafHash(asset, owner, delegate, 7, data, creators)
	b := LeafHash(asset, owner, delegate, 7, data, creators)
	require.Equal(t, a, b)

	require.NotEqual(t, a, LeafHash(asset, owner, delegate, 8, data, creators))
	require.NotEqual(t, a, LeafHash(asset, fillKey(0x09), delegate, 7, data, creators))
	require.NotEqual(t, a, LeafHash(asset, owner, owner, 7, data, creators))
}

func TestHashMetadataCoversFee(t *testing.T) {
	meta := sampleMetadata()
	base := HashMetadata(meta)
	require.Equal(t, base, HashMetadata(sampleMetadata()))

	// The fee is hashed in a second pass over the serialized form, so
	// changing it must move the hash even if serialization were tampered.
	meta.SellerFeeBasisPoints++
	require.NotEqual(t, base, HashMetadata(meta))

	meta = sampleMetadata()
	meta.URI = "https://assets.example/other.json"
	require.NotEqual(t, base, HashMetadata(meta))
}

func TestHashCreatorsOrderAndFields(t *testing.T) {
	creators := sampleMetadata().Creators
	base := HashCreators(creators)
	require.Equal(t, base, HashCreators(sampleMetadata().Creators))

	swapped := []state.Creator{creators[1], creators[0]}
	require.NotEqual(t, base, HashCreators(swapped))

	unverified := sampleMetadata().Creators
	unverified[0].Verified = false
	require.NotEqual(t, base, HashCreators(unverified))

	reshared := sampleMetadata().Creators
	reshared[0].Share, reshared[1].Share = 40, 60
	require.NotEqual(t, base, HashCreators(reshared))

	require.NotEqual(t, HashCreators(nil), base)
}

func TestAssetIDPerTreeAndNonce(t *testing.T) {
	treeA := fillKey(0x0a)
	treeB := fillKey(0x0b)

	require.Equal(t, AssetID(treeA, 0), AssetID(treeA, 0))
	require.NotEqual(t, AssetID(treeA, 0), AssetID(treeA, 1))
	require.NotEqual(t, AssetID(treeA, 0), AssetID(treeB, 0))
}

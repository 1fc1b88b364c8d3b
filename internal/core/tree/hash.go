package tree

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/openauction/auctiond/internal/core/state"
	"github.com/openauction/auctiond/internal/types"
)

// leafVersion tags the leaf schema so future layouts can coexist in one tree.
const leafVersion = 0x01

// LeafHash computes the committed hash for one asset leaf.
func LeafHash(assetID, owner, delegate types.Pubkey, nonce uint64, dataHash, creatorHash types.Hash) types.Hash {
	var nonceLE [8]byte
	binary.LittleEndian.PutUint64(nonceLE[:], nonce)
	sum := crypto.Keccak256(
		[]byte{leafVersion},
		assetID[:],
		owner[:],
		delegate[:],
		nonceLE[:],
		dataHash[:],
		creatorHash[:],
	)
	var out types.Hash
	copy(out[:], sum)
	return out
}

// HashMetadata computes the data hash for asset metadata: the keccak256 of
// the serialized metadata, hashed again with the seller fee basis points.
// Settlement compares this against the dataHash the tree attests to.
func HashMetadata(meta *state.Metadata) types.Hash {
	inner := crypto.Keccak256(meta.Serialize())
	var feeLE [2]byte
	binary.LittleEndian.PutUint16(feeLE[:], meta.SellerFeeBasisPoints)
	sum := crypto.Keccak256(inner, feeLE[:])
	var out types.Hash
	copy(out[:], sum)
	return out
}

// HashCreators computes the creator hash: keccak256 over the concatenated
// (address, verified, share) triples.
func HashCreators(creators []state.Creator) types.Hash {
	parts := make([][]byte, 0, len(creators))
	for _, c := range creators {
		entry := make([]byte, 0, types.PubkeyLen+2)
		entry = append(entry, c.Address[:]...)
		if c.Verified {
			entry = append(entry, 1)
		} else {
			entry = append(entry, 0)
		}
		entry = append(entry, c.Share)
		parts = append(parts, entry)
	}
	sum := crypto.Keccak256(parts...)
	var out types.Hash
	copy(out[:], sum)
	return out
}

// AssetID derives the address identifying the asset minted at (tree, nonce).
func AssetID(treeID types.Pubkey, nonce uint64) types.Pubkey {
	var nonceLE [8]byte
	binary.LittleEndian.PutUint64(nonceLE[:], nonce)
	h := sha256.New()
	h.Write([]byte("asset"))
	h.Write(treeID[:])
	h.Write(nonceLE[:])
	var out types.Pubkey
	copy(out[:], h.Sum(nil))
	return out
}

// nodeHash combines two child hashes into their parent.
func nodeHash(left, right types.Hash) types.Hash {
	sum := crypto.Keccak256(left[:], right[:])
	var out types.Hash
	copy(out[:], sum)
	return out
}

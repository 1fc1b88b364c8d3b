package state

import (
	"encoding/binary"
	"fmt"

	"github.com/openauction/auctiond/internal/types"
)

// Creator is one royalty recipient. Shares across all creators of an asset
// sum to 100.
type Creator struct {
	Address  types.Pubkey `json:"address"`
	Verified bool         `json:"verified"`
	Share    uint8        `json:"share"`
}

// Collection marks an asset's membership in a verified collection.
type Collection struct {
	Verified bool         `json:"verified"`
	Key      types.Pubkey `json:"key"`
}

// Metadata is the full asset metadata supplied to settlement. It is never
// persisted by this program; it exists to be hashed and compared against the
// data hash committed in the asset tree.
type Metadata struct {
	Name                 string       `json:"name"`
	Symbol               string       `json:"symbol"`
	URI                  string       `json:"uri"`
	SellerFeeBasisPoints uint16       `json:"sellerFeeBasisPoints"`
	PrimarySaleHappened  bool         `json:"primarySaleHappened"`
	IsMutable            bool         `json:"isMutable"`
	Creators             []Creator    `json:"creators"`
	Collection           *Collection  `json:"collection,omitempty"`
}

// Serialize encodes the metadata into the canonical byte form used for
// hashing: length-prefixed strings, little-endian integers, option tags for
// optional fields. The encoding is part of the leaf-hash contract with the
// asset tree.
func (m *Metadata) Serialize() []byte {
	out := make([]byte, 0, 128)
	appendString := func(s string) {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(s)))
		out = append(out, s...)
	}
	appendBool := func(b bool) {
		if b {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}

	appendString(m.Name)
	appendString(m.Symbol)
	appendString(m.URI)
	out = binary.LittleEndian.AppendUint16(out, m.SellerFeeBasisPoints)
	appendBool(m.PrimarySaleHappened)
	appendBool(m.IsMutable)

	out = binary.LittleEndian.AppendUint32(out, uint32(len(m.Creators)))
	for _, creator := range m.Creators {
		out = append(out, creator.Address[:]...)
		appendBool(creator.Verified)
		out = append(out, creator.Share)
	}

	if m.Collection != nil {
		out = append(out, 1)
		appendBool(m.Collection.Verified)
		out = append(out, m.Collection.Key[:]...)
	} else {
		out = append(out, 0)
	}

	return out
}

// ValidateCreatorShares checks that creator shares sum to exactly 100 when
// any creators are present.
func (m *Metadata) ValidateCreatorShares() error {
	if len(m.Creators) == 0 {
		return nil
	}
	total := 0
	for _, creator := range m.Creators {
		total += int(creator.Share)
	}
	if total != 100 {
		return fmt.Errorf("creator shares sum to %d, want 100", total)
	}
	return nil
}

// Package state defines the persisted ledger record layouts. Integers are
// little-endian fixed width and public keys are raw 32-byte values; the
// layouts are protocol-visible and must not change shape.
package state

import (
	"encoding/binary"
	"fmt"

	"github.com/openauction/auctiond/internal/types"
)

// MaxBasisPoints is the denominator for fee and royalty rates.
const MaxBasisPoints = 10000

// MarketplaceConfigSize is the serialized size of a MarketplaceConfig record.
const MarketplaceConfigSize = 7*types.PubkeyLen + 2 + 1 + 3

// MarketplaceConfig is the per-(authority, settlement currency) marketplace
// record: fee policy, withdrawal destinations, and the derivation bumps of
// its sub-accounts. Created once; never destroyed, since closing it would
// orphan open orders.
type MarketplaceConfig struct {
	Authority                 types.Pubkey
	SettlementCurrency        types.Pubkey
	FeeBasisPoints            uint16
	RequiresSignOff           bool
	TreasuryAccount           types.Pubkey
	TreasuryWithdrawalAccount types.Pubkey
	TreasuryWithdrawalOwner   types.Pubkey
	FeeAccount                types.Pubkey
	FeeWithdrawalAccount      types.Pubkey
	Bump                      uint8
	TreasuryBump              uint8
	FeeBump                   uint8
}

// Serialize encodes the record into its fixed wire layout.
func (c *MarketplaceConfig) Serialize() []byte {
	out := make([]byte, 0, MarketplaceConfigSize)
	out = append(out, c.Authority[:]...)
	out = append(out, c.SettlementCurrency[:]...)
	out = binary.LittleEndian.AppendUint16(out, c.FeeBasisPoints)
	if c.RequiresSignOff {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	out = append(out, c.TreasuryAccount[:]...)
	out = append(out, c.TreasuryWithdrawalAccount[:]...)
	out = append(out, c.TreasuryWithdrawalOwner[:]...)
	out = append(out, c.FeeAccount[:]...)
	out = append(out, c.FeeWithdrawalAccount[:]...)
	out = append(out, c.Bump, c.TreasuryBump, c.FeeBump)
	return out
}

// ParseMarketplaceConfig decodes a MarketplaceConfig record.
func ParseMarketplaceConfig(data []byte) (*MarketplaceConfig, error) {
	if len(data) != MarketplaceConfigSize {
		return nil, fmt.Errorf("marketplace config: invalid record size %d, want %d", len(data), MarketplaceConfigSize)
	}

	c := &MarketplaceConfig{}
	offset := 0
	readKey := func() types.Pubkey {
		var pk types.Pubkey
		copy(pk[:], data[offset:offset+types.PubkeyLen])
		offset += types.PubkeyLen
		return pk
	}

	c.Authority = readKey()
	c.SettlementCurrency = readKey()
	c.FeeBasisPoints = binary.LittleEndian.Uint16(data[offset : offset+2])
	offset += 2
	c.RequiresSignOff = data[offset] != 0
	offset++
	c.TreasuryAccount = readKey()
	c.TreasuryWithdrawalAccount = readKey()
	c.TreasuryWithdrawalOwner = readKey()
	c.FeeAccount = readKey()
	c.FeeWithdrawalAccount = readKey()
	c.Bump = data[offset]
	c.TreasuryBump = data[offset+1]
	c.FeeBump = data[offset+2]

	return c, nil
}

// Package keylet derives the addresses of ledger records. Every record the
// settlement engine touches lives at a deterministic, collision-resistant
// address computed from its identifying tuple; record lookup is address
// equality, never search.
package keylet

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/oasisprotocol/curve25519-voi/curve"

	"github.com/openauction/auctiond/internal/types"
)

// Seed prefixes for address derivation. These are protocol-visible: changing
// any of them moves every derived record.
const (
	seedMarketplace = "auction_house"
	seedTradeState  = "trade_state"
	seedEscrow      = "escrow"
	seedFee         = "fee"
	seedTreasury    = "treasury"
	seedProgram     = "program"
	seedSigner      = "signer"
)

// derivedAddressMarker terminates the hash input so seed boundaries cannot be
// forged by concatenation.
const derivedAddressMarker = "ProgramDerivedAddress"

// ErrBumpSeedNotFound is returned when no bump in [0,255] produces an
// off-curve address for the given seeds.
var ErrBumpSeedNotFound = errors.New("no valid bump seed found")

// ErrAddressOnCurve is returned when a known-bump re-derivation lands on the
// curve, meaning the bump does not belong to these seeds.
var ErrAddressOnCurve = errors.New("derived address is on the curve")

// ProgramID is the settlement program's own identity. Records derived below
// are owned by this address, and the program signer is derived from it.
var ProgramID = func() types.Pubkey {
	return types.Pubkey(sha256.Sum256([]byte("openauction/auctiond/settlement-program/v1")))
}()

// Keylet is a derived record address together with its canonical bump.
type Keylet struct {
	Address types.Pubkey
	Bump    uint8
}

// onCurve reports whether b decompresses to a valid edwards25519 point. A
// derived address must be off-curve so that no private key can ever exist
// for it.
func onCurve(b [32]byte) bool {
	var compressed curve.CompressedEdwardsY
	if _, err := compressed.SetBytes(b[:]); err != nil {
		return false
	}
	var point curve.EdwardsPoint
	_, err := point.SetCompressedY(&compressed)
	return err == nil
}

// createAddress hashes seeds plus an explicit bump into a candidate address.
func createAddress(bump uint8, seeds ...[]byte) [32]byte {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write(ProgramID[:])
	h.Write([]byte(derivedAddressMarker))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Derive finds the canonical bump for the seeds: the largest value in
// [0,255] whose candidate address is off-curve. Identical seeds always yield
// the identical (address, bump) pair.
func Derive(seeds ...[]byte) (Keylet, error) {
	for bump := 255; bump >= 0; bump-- {
		candidate := createAddress(uint8(bump), seeds...)
		if !onCurve(candidate) {
			return Keylet{Address: types.Pubkey(candidate), Bump: uint8(bump)}, nil
		}
	}
	return Keylet{}, ErrBumpSeedNotFound
}

// CreateAddress re-derives the address for seeds with a known bump. It fails
// with ErrAddressOnCurve if the candidate lands on the curve.
func CreateAddress(bump uint8, seeds ...[]byte) (types.Pubkey, error) {
	candidate := createAddress(bump, seeds...)
	if onCurve(candidate) {
		return types.ZeroPubkey, ErrAddressOnCurve
	}
	return types.Pubkey(candidate), nil
}

// priceLE encodes a price as 8 little-endian bytes. The encoding is part of
// the trade-state address and therefore protocol-visible.
func priceLE(price uint64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, price)
	return out
}

// Marketplace returns the keylet for a marketplace configuration record,
// one per (authority, settlement currency) pair.
func Marketplace(authority, currency types.Pubkey) (Keylet, error) {
	return Derive([]byte(seedMarketplace), authority[:], currency[:])
}

// Treasury returns the keylet for a marketplace's treasury account.
func Treasury(marketplace types.Pubkey) (Keylet, error) {
	return Derive([]byte(seedTreasury), marketplace[:])
}

// Fee returns the keylet for a marketplace's fee account.
func Fee(marketplace types.Pubkey) (Keylet, error) {
	return Derive([]byte(seedFee), marketplace[:])
}

// TradeState returns the keylet for an order record. The price participates
// in the derivation, so the same party can hold orders for the same asset at
// different prices, and matching is enforced structurally: both sides of a
// sale must re-derive to existing records under the same price.
func TradeState(party, marketplace, asset types.Pubkey, price uint64) (Keylet, error) {
	return Derive([]byte(seedTradeState), party[:], marketplace[:], asset[:], priceLE(price))
}

// Escrow returns the keylet for a bidder's escrow account, one per
// (marketplace, bidder) pair.
func Escrow(marketplace, bidder types.Pubkey) (Keylet, error) {
	return Derive([]byte(seedEscrow), marketplace[:], bidder[:])
}

// ProgramSigner returns the keylet the program uses as its delegate
// authority when holding listed assets.
func ProgramSigner() (Keylet, error) {
	return Derive([]byte(seedProgram), []byte(seedSigner))
}

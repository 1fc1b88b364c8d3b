package types

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// PubkeyLen is the length of a public key in bytes.
const PubkeyLen = 32

// Pubkey is a 32-byte account address. Derived record addresses use the same
// representation even though no private key exists for them.
type Pubkey [PubkeyLen]byte

// ZeroPubkey is the all-zero address.
var ZeroPubkey Pubkey

// PubkeyFromBase58 parses a base58-encoded public key.
func PubkeyFromBase58(s string) (Pubkey, error) {
	var pk Pubkey
	decoded := base58.Decode(s)
	if len(decoded) != PubkeyLen {
		return pk, fmt.Errorf("invalid pubkey %q: decoded length %d, want %d", s, len(decoded), PubkeyLen)
	}
	copy(pk[:], decoded)
	return pk, nil
}

// PubkeyFromBytes copies b into a Pubkey.
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	var pk Pubkey
	if len(b) != PubkeyLen {
		return pk, fmt.Errorf("invalid pubkey length %d, want %d", len(b), PubkeyLen)
	}
	copy(pk[:], b)
	return pk, nil
}

// String renders the key in base58.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// IsZero reports whether the key is the all-zero address.
func (p Pubkey) IsZero() bool {
	return p == ZeroPubkey
}

// Bytes returns a copy of the raw key bytes.
func (p Pubkey) Bytes() []byte {
	out := make([]byte, PubkeyLen)
	copy(out, p[:])
	return out
}

// MarshalJSON encodes the key as a base58 string.
func (p Pubkey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a base58 string into the key.
func (p *Pubkey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	pk, err := PubkeyFromBase58(s)
	if err != nil {
		return err
	}
	*p = pk
	return nil
}

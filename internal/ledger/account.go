// Package ledger holds the account model the settlement engine operates on.
// Every on-ledger record (marketplace config, trade state, escrow) is an
// Account: a lamport balance, an owning program, and an opaque data blob.
package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/openauction/auctiond/internal/types"
)

var ErrAccountTooShort = errors.New("account data too short")

// Account is a single ledger entry addressed by a Pubkey.
type Account struct {
	Lamports uint64
	Owner    types.Pubkey
	Data     []byte
}

// Size returns the serialized byte length of the account.
func (a *Account) Size() int {
	return 8 + types.PubkeyLen + 4 + len(a.Data)
}

// Serialize encodes the account as lamports | owner | dataLen | data,
// all integers little-endian.
func (a *Account) Serialize() []byte {
	buf := make([]byte, 0, a.Size())
	buf = binary.LittleEndian.AppendUint64(buf, a.Lamports)
	buf = append(buf, a.Owner[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(a.Data)))
	buf = append(buf, a.Data...)
	return buf
}

// ParseAccount decodes an account produced by Serialize.
func ParseAccount(raw []byte) (*Account, error) {
	const header = 8 + types.PubkeyLen + 4
	if len(raw) < header {
		return nil, fmt.Errorf("%w: %d bytes", ErrAccountTooShort, len(raw))
	}

	acct := &Account{
		Lamports: binary.LittleEndian.Uint64(raw[:8]),
	}
	copy(acct.Owner[:], raw[8:8+types.PubkeyLen])

	dataLen := binary.LittleEndian.Uint32(raw[8+types.PubkeyLen : header])
	if len(raw) != header+int(dataLen) {
		return nil, fmt.Errorf("%w: declared %d data bytes, have %d", ErrAccountTooShort, dataLen, len(raw)-header)
	}
	acct.Data = make([]byte, dataLen)
	copy(acct.Data, raw[header:])

	return acct, nil
}

// Clone returns a deep copy, so buffered views can mutate freely.
func (a *Account) Clone() *Account {
	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return &Account{
		Lamports: a.Lamports,
		Owner:    a.Owner,
		Data:     data,
	}
}

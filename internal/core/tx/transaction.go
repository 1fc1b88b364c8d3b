package tx

import (
	"fmt"

	"github.com/openauction/auctiond/internal/types"
)

// Type identifies a settlement operation.
type Type int

const (
	TypeCreateMarketplace Type = iota
	TypeUpdateMarketplace
	TypeWithdrawFromTreasury
	TypeWithdrawFromFee
	TypeAsk
	TypeBid
	TypeExecuteSale
	TypeCancel
)

var typeNames = map[Type]string{
	TypeCreateMarketplace:    "CreateMarketplace",
	TypeUpdateMarketplace:    "UpdateMarketplace",
	TypeWithdrawFromTreasury: "WithdrawFromTreasury",
	TypeWithdrawFromFee:      "WithdrawFromFee",
	TypeAsk:                  "Ask",
	TypeBid:                  "Bid",
	TypeExecuteSale:          "ExecuteSale",
	TypeCancel:               "Cancel",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// OrderSide distinguishes the ask and bid sides of an order.
type OrderSide int

const (
	SideAsk OrderSide = iota
	SideBid
)

func (s OrderSide) String() string {
	if s == SideAsk {
		return "ask"
	}
	return "bid"
}

// Common holds the fields shared by every operation. Signature verification
// happens upstream of this engine; by the time an operation arrives here
// Signers is the authenticated signer set, and operations check presence,
// not signatures.
type Common struct {
	// Signers is the set of accounts that signed the submission.
	Signers []types.Pubkey

	// Payer funds rent deposits for records the operation creates.
	// Operations that create nothing ignore it.
	Payer types.Pubkey
}

// SignedBy reports whether key is in the signer set.
func (c *Common) SignedBy(key types.Pubkey) bool {
	for _, s := range c.Signers {
		if s == key {
			return true
		}
	}
	return false
}

// Transaction is the interface every settlement operation implements.
type Transaction interface {
	// TxType returns the operation type.
	TxType() Type

	// GetCommon returns the shared fields.
	GetCommon() *Common

	// Validate performs stateless preflight checks. It never touches
	// ledger state.
	Validate() Result
}

// Appliable is implemented by operations that apply themselves against a
// buffered ledger view.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

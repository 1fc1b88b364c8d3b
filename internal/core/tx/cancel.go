package tx

import (
	"github.com/openauction/auctiond/internal/core/keylet"
	"github.com/openauction/auctiond/internal/core/tree"
	"github.com/openauction/auctiond/internal/types"
)

// Cancel closes an open order. An ask-side cancel hands the leaf delegate
// back to the owner; a bid-side cancel refunds the committed price from
// escrow. Cancelling a record that no longer exists is an error: the order
// was already cancelled or settled, and the caller must learn that.
type Cancel struct {
	Common

	Party       types.Pubkey
	Marketplace types.Pubkey
	TreeID      types.Pubkey
	Side        OrderSide
	Price       uint64

	// OrderAddress is the record the caller believes it is closing; it must
	// match the derivation exactly.
	OrderAddress types.Pubkey

	Proof tree.OwnershipArgs
}

func (c *Cancel) TxType() Type       { return TypeCancel }
func (c *Cancel) GetCommon() *Common { return &c.Common }

func (c *Cancel) Validate() Result {
	if c.Party.IsZero() {
		return ResultMissingRequiredSigner
	}
	if c.Marketplace.IsZero() {
		return ResultAccountNotInitialized
	}
	return ResultSuccess
}

func (c *Cancel) missingResult() Result {
	if c.Side == SideAsk {
		return ResultInvalidSellerTradeState
	}
	return ResultInvalidBuyerTradeState
}

func (c *Cancel) Apply(ctx *ApplyContext) Result {
	if !c.SignedBy(c.Party) {
		return ResultMissingRequiredSigner
	}

	if _, res := ctx.LoadMarketplace(c.Marketplace); !res.IsSuccess() {
		return res
	}

	record, err := keylet.TradeState(c.Party, c.Marketplace, c.Proof.AssetID, c.Price)
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}
	if record.Address != c.OrderAddress {
		return ResultInvalidBuyingOrSellingOrder
	}

	exists, existsErr := ctx.View.Exists(record.Address)
	if existsErr != nil {
		return ResultInternal
	}
	if !exists {
		return c.missingResult()
	}

	if c.Side == SideBid {
		escrow, escrowErr := keylet.Escrow(c.Marketplace, c.Party)
		if escrowErr != nil {
			return ResultBumpSeedNotInHashMap
		}
		if res := ctx.transfer(escrow.Address, c.Party, c.Price); !res.IsSuccess() {
			return res
		}
	}

	if res := ctx.closeRecord(record.Address, c.Party); !res.IsSuccess() {
		return res
	}

	if c.Side == SideAsk {
		// Hand the leaf back: the program signer resigns its delegation.
		// The delegation cannot be rolled back, so it runs after every
		// buffered ledger effect.
		signer, signerErr := keylet.ProgramSigner()
		if signerErr != nil {
			return ResultBumpSeedNotInHashMap
		}
		proof := c.Proof
		proof.Owner = c.Party
		proof.Delegate = signer.Address
		if err := ctx.Tree.Delegate(c.TreeID, proof, c.Party); err != nil {
			return classifyTreeError(err)
		}
	}

	return ResultSuccess
}

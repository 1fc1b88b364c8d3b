package tx

import (
	"errors"

	"github.com/openauction/auctiond/internal/core/keylet"
	"github.com/openauction/auctiond/internal/core/state"
	"github.com/openauction/auctiond/internal/core/tree"
	"github.com/openauction/auctiond/internal/types"
)

// Ask posts a sell order. The seller proves current ownership of the asset
// leaf, the leaf is delegated to the program signer so settlement can later
// move it, and a seller order record is created at the price-keyed address.
// No funds move.
type Ask struct {
	Common

	Seller      types.Pubkey
	Marketplace types.Pubkey
	TreeID      types.Pubkey
	Price       uint64
	Proof       tree.OwnershipArgs
}

func (a *Ask) TxType() Type       { return TypeAsk }
func (a *Ask) GetCommon() *Common { return &a.Common }

func (a *Ask) Validate() Result {
	if a.Seller.IsZero() {
		return ResultMissingRequiredSigner
	}
	if a.Marketplace.IsZero() {
		return ResultAccountNotInitialized
	}
	if a.Payer.IsZero() {
		return ResultPayerNotProvided
	}
	return ResultSuccess
}

func (a *Ask) Apply(ctx *ApplyContext) Result {
	if !a.SignedBy(a.Seller) {
		return ResultMissingRequiredSigner
	}

	if _, res := ctx.LoadMarketplace(a.Marketplace); !res.IsSuccess() {
		return res
	}

	// The caller must be the leaf's owner. A previously delegated leaf is
	// fine: the proof carries the committed delegate, and the delegation
	// below re-points it at the program signer.
	if a.Proof.Owner != a.Seller {
		return ResultPublicKeyMismatch
	}

	signer, err := keylet.ProgramSigner()
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}

	record, err := keylet.TradeState(a.Seller, a.Marketplace, a.Proof.AssetID, a.Price)
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}

	// Record first: its rent debit can fail and the buffered ledger rolls
	// back cleanly. The tree delegation cannot be rolled back, so it is the
	// last fallible step.
	ts := &state.TradeState{Bump: record.Bump}
	if res := ctx.createRecord(record.Address, ts.Serialize(), a.Payer); !res.IsSuccess() {
		return res
	}

	// Delegating re-verifies the proof against the live root.
	if err := ctx.Tree.Delegate(a.TreeID, a.Proof, signer.Address); err != nil {
		return classifyTreeError(err)
	}
	return ResultSuccess
}

// classifyTreeError maps tree-program failures onto the result taxonomy.
func classifyTreeError(err error) Result {
	switch {
	case errors.Is(err, tree.ErrLeafMismatch):
		return ResultMetadataHashMismatch
	case errors.Is(err, tree.ErrStaleRoot), errors.Is(err, tree.ErrInvalidProof), errors.Is(err, tree.ErrUnknownTree):
		return ResultInvalidProof
	default:
		return ResultInternal
	}
}

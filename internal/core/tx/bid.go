package tx

import (
	"errors"

	"github.com/openauction/auctiond/internal/core/keylet"
	"github.com/openauction/auctiond/internal/core/state"
	"github.com/openauction/auctiond/internal/ledger"
	"github.com/openauction/auctiond/internal/types"
	"github.com/openauction/auctiond/pkg/safe"
)

// Bid posts a buy order: a unilateral payment commitment, no ownership
// claim and no proof. The bidder's escrow is created lazily; each bid
// deposits its full price, so the escrow always covers every open
// commitment and any of them can be refunded or settled independently.
type Bid struct {
	Common

	Bidder      types.Pubkey
	Marketplace types.Pubkey
	AssetID     types.Pubkey
	Price       uint64
}

func (b *Bid) TxType() Type       { return TypeBid }
func (b *Bid) GetCommon() *Common { return &b.Common }

func (b *Bid) Validate() Result {
	if b.Bidder.IsZero() {
		return ResultMissingRequiredSigner
	}
	if b.Marketplace.IsZero() {
		return ResultAccountNotInitialized
	}
	if b.Payer.IsZero() {
		return ResultPayerNotProvided
	}
	return ResultSuccess
}

func (b *Bid) Apply(ctx *ApplyContext) Result {
	if !b.SignedBy(b.Bidder) {
		return ResultMissingRequiredSigner
	}

	if _, res := ctx.LoadMarketplace(b.Marketplace); !res.IsSuccess() {
		return res
	}

	escrow, err := keylet.Escrow(b.Marketplace, b.Bidder)
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}

	// Deposit the full price, so escrow balance stays at rent floor plus
	// the sum of open commitments. The bidder additionally funds the rent
	// floor when the escrow is first created.
	deposit := b.Price
	if _, err := ctx.View.Get(escrow.Address); err != nil {
		if !errors.Is(err, ledger.ErrAccountNotFound) {
			return ResultInternal
		}
		rentFloor, rentErr := ctx.Config.Rent.Minimum(0)
		if rentErr != nil {
			return ResultNumericOverflow
		}
		var addErr error
		deposit, addErr = safe.Add(b.Price, rentFloor)
		if addErr != nil {
			return ResultNumericOverflow
		}
		ctx.View.Insert(escrow.Address, &ledger.Account{Owner: keylet.ProgramID})
	}
	if res := ctx.transfer(b.Bidder, escrow.Address, deposit); !res.IsSuccess() {
		return res
	}

	record, err := keylet.TradeState(b.Bidder, b.Marketplace, b.AssetID, b.Price)
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}

	ts := &state.TradeState{Bump: record.Bump}
	return ctx.createRecord(record.Address, ts.Serialize(), b.Payer)
}

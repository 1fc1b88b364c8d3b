package tx

import (
	"time"

	"github.com/openauction/auctiond/internal/core/keylet"
	"github.com/openauction/auctiond/internal/core/state"
	"github.com/openauction/auctiond/internal/core/tree"
	"github.com/openauction/auctiond/internal/types"
	"github.com/openauction/auctiond/pkg/safe"
)

// ExecuteSale settles a matched ask/bid pair atomically: it re-verifies
// ownership with a fresh proof, transfers the asset leaf to the buyer,
// splits the price among marketplace fee, creator royalties, and seller
// proceeds, and closes both order records.
//
// Matching is structural: both record addresses are derived with the same
// price, so a price disagreement surfaces as a missing record, not as a
// comparison failure.
type ExecuteSale struct {
	Common

	Buyer       types.Pubkey
	Seller      types.Pubkey
	Marketplace types.Pubkey
	TreeID      types.Pubkey

	// SellerPrice echoes the price of the ask being settled; it must equal
	// BuyerPrice before anything else is checked.
	SellerPrice uint64
	BuyerPrice  uint64

	RoyaltyBasisPoints uint16
	Metadata           state.Metadata

	// CreatorAccounts carries the royalty destinations in metadata order.
	CreatorAccounts []types.Pubkey

	Proof tree.OwnershipArgs
}

func (e *ExecuteSale) TxType() Type       { return TypeExecuteSale }
func (e *ExecuteSale) GetCommon() *Common { return &e.Common }

func (e *ExecuteSale) Validate() Result {
	if e.Buyer.IsZero() || e.Seller.IsZero() {
		return ResultMissingRequiredSigner
	}
	if e.Marketplace.IsZero() {
		return ResultAccountNotInitialized
	}
	if e.SellerPrice != e.BuyerPrice {
		return ResultInvalidBuyingOrderPrice
	}
	if e.RoyaltyBasisPoints > state.MaxBasisPoints {
		return ResultNumericOverflow
	}
	if len(e.CreatorAccounts) != len(e.Metadata.Creators) {
		return ResultPublicKeyMismatch
	}
	if err := e.Metadata.ValidateCreatorShares(); err != nil {
		return ResultPublicKeyMismatch
	}
	return ResultSuccess
}

func (e *ExecuteSale) Apply(ctx *ApplyContext) Result {
	cfg, res := ctx.LoadMarketplace(e.Marketplace)
	if !res.IsSuccess() {
		return res
	}

	// 1. The supplied metadata must hash to the attested data hash, and the
	// supplied creator accounts must be the ones the creator hash commits to.
	if tree.HashMetadata(&e.Metadata) != e.Proof.DataHash {
		return ResultMetadataHashMismatch
	}
	if tree.HashCreators(e.Metadata.Creators) != e.Proof.CreatorHash {
		return ResultMetadataHashMismatch
	}
	for i, creator := range e.Metadata.Creators {
		if e.CreatorAccounts[i] != creator.Address {
			return ResultPublicKeyMismatch
		}
	}

	// 2. Both order records must exist at the price-keyed addresses.
	buyerRecord, err := keylet.TradeState(e.Buyer, e.Marketplace, e.Proof.AssetID, e.BuyerPrice)
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}
	if res := e.requireRecord(ctx, buyerRecord.Address, ResultInvalidBuyerTradeState); !res.IsSuccess() {
		return res
	}

	sellerRecord, err := keylet.TradeState(e.Seller, e.Marketplace, e.Proof.AssetID, e.BuyerPrice)
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}
	if res := e.requireRecord(ctx, sellerRecord.Address, ResultBothPartiesNeedToAgreeToSale); !res.IsSuccess() {
		return res
	}

	// 3. The escrow must cover the price on top of its rent floor.
	escrow, err := keylet.Escrow(e.Marketplace, e.Buyer)
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}
	escrowAcct, getErr := ctx.View.Get(escrow.Address)
	if getErr != nil {
		return ResultNotEnoughFunds
	}
	avail, res := ctx.spendable(escrowAcct)
	if !res.IsSuccess() {
		return res
	}
	if avail < e.BuyerPrice {
		return ResultNotEnoughFunds
	}

	// 4. Sign-off policy.
	if cfg.RequiresSignOff && !e.SignedBy(cfg.Authority) {
		return ResultRequireAuctionHouseSignOff
	}

	// 5. Exact three-way split: fee and royalty round down, the remainder
	// stays with the seller, and the parts reconcile to the price. A
	// fee/royalty pair that overbooks the price underflows the subtraction
	// chain and fails here, before anything irreversible. All ledger
	// effects below stay buffered until commit.
	fee, mathErr := safe.MulDiv(e.BuyerPrice, uint64(cfg.FeeBasisPoints), state.MaxBasisPoints)
	if mathErr != nil {
		return ResultNumericOverflow
	}
	royaltyPool, mathErr := safe.MulDiv(e.BuyerPrice, uint64(e.RoyaltyBasisPoints), state.MaxBasisPoints)
	if mathErr != nil {
		return ResultNumericOverflow
	}

	remaining, mathErr := safe.Sub(e.BuyerPrice, fee)
	if mathErr != nil {
		return ResultNumericOverflow
	}

	if res := ctx.debit(escrow.Address, e.BuyerPrice); !res.IsSuccess() {
		return res
	}
	if res := ctx.credit(cfg.FeeAccount, fee); !res.IsSuccess() {
		return res
	}

	var royaltyPaid uint64
	for i, creator := range e.Metadata.Creators {
		share, shareErr := safe.MulDiv(royaltyPool, uint64(creator.Share), 100)
		if shareErr != nil {
			return ResultNumericOverflow
		}
		remaining, mathErr = safe.Sub(remaining, share)
		if mathErr != nil {
			return ResultNumericOverflow
		}
		royaltyPaid, mathErr = safe.Add(royaltyPaid, share)
		if mathErr != nil {
			return ResultNumericOverflow
		}
		if share == 0 {
			continue
		}
		if res := ctx.credit(e.CreatorAccounts[i], share); !res.IsSuccess() {
			return res
		}
	}

	// remaining is now the seller's proceeds, carrying any rounding
	// remainder from the integer royalty split.
	if res := ctx.credit(e.Seller, remaining); !res.IsSuccess() {
		return res
	}

	// 6. Close both records, returning rent to the parties that funded them.
	if res := ctx.closeRecord(sellerRecord.Address, e.Seller); !res.IsSuccess() {
		return res
	}
	if res := ctx.closeRecord(buyerRecord.Address, e.Buyer); !res.IsSuccess() {
		return res
	}

	// 7. Fresh proof and transfer, strictly last: the leaf move cannot be
	// rolled back, and the root may have advanced since the ask, so
	// settlement never trusts the listing-time verification.
	signer, err := keylet.ProgramSigner()
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}
	proof := e.Proof
	proof.Owner = e.Seller
	proof.Delegate = signer.Address
	if err := ctx.Tree.Transfer(e.TreeID, proof, e.Buyer); err != nil {
		return classifyTreeError(err)
	}

	ctx.Receipt = &SaleReceipt{
		Marketplace: e.Marketplace,
		Buyer:       e.Buyer,
		Seller:      e.Seller,
		AssetID:     e.Proof.AssetID,
		Price:       e.BuyerPrice,
		Fee:         fee,
		Royalty:     royaltyPaid,
		Proceeds:    remaining,
		SettledAt:   time.Now().UTC(),
	}
	return ResultSuccess
}

func (e *ExecuteSale) requireRecord(ctx *ApplyContext, address types.Pubkey, missing Result) Result {
	acct, err := ctx.View.Get(address)
	if err != nil {
		return missing
	}
	if acct.Owner != keylet.ProgramID {
		return missing
	}
	if _, err := state.ParseTradeState(acct.Data); err != nil {
		return missing
	}
	return ResultSuccess
}

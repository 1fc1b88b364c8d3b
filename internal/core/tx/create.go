package tx

import (
	"github.com/openauction/auctiond/internal/core/keylet"
	"github.com/openauction/auctiond/internal/core/state"
	"github.com/openauction/auctiond/internal/types"
)

// CreateMarketplace creates the marketplace config record for an
// (authority, settlement currency) pair, along with its treasury and fee
// sub-accounts. One marketplace per pair; recreation fails.
type CreateMarketplace struct {
	Common

	Authority          types.Pubkey
	SettlementCurrency types.Pubkey
	FeeBasisPoints     uint16
	RequiresSignOff    bool

	// Withdrawal destinations for accumulated treasury and fee funds.
	TreasuryWithdrawalAccount types.Pubkey
	TreasuryWithdrawalOwner   types.Pubkey
	FeeWithdrawalAccount      types.Pubkey
}

func (c *CreateMarketplace) TxType() Type       { return TypeCreateMarketplace }
func (c *CreateMarketplace) GetCommon() *Common { return &c.Common }

func (c *CreateMarketplace) Validate() Result {
	if c.FeeBasisPoints > state.MaxBasisPoints {
		return ResultInvalidSellerFeeBasisPoints
	}
	if c.Authority.IsZero() {
		return ResultMissingRequiredSigner
	}
	if c.Payer.IsZero() {
		return ResultPayerNotProvided
	}
	return ResultSuccess
}

func (c *CreateMarketplace) Apply(ctx *ApplyContext) Result {
	if !c.SignedBy(c.Authority) {
		return ResultMissingRequiredSigner
	}

	market, err := keylet.Marketplace(c.Authority, c.SettlementCurrency)
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}
	treasury, err := keylet.Treasury(market.Address)
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}
	fee, err := keylet.Fee(market.Address)
	if err != nil {
		return ResultBumpSeedNotInHashMap
	}

	cfg := &state.MarketplaceConfig{
		Authority:                 c.Authority,
		SettlementCurrency:        c.SettlementCurrency,
		FeeBasisPoints:            c.FeeBasisPoints,
		RequiresSignOff:           c.RequiresSignOff,
		TreasuryAccount:           treasury.Address,
		TreasuryWithdrawalAccount: c.TreasuryWithdrawalAccount,
		TreasuryWithdrawalOwner:   c.TreasuryWithdrawalOwner,
		FeeAccount:                fee.Address,
		FeeWithdrawalAccount:      c.FeeWithdrawalAccount,
		Bump:                      market.Bump,
		TreasuryBump:              treasury.Bump,
		FeeBump:                   fee.Bump,
	}

	if res := ctx.createRecord(market.Address, cfg.Serialize(), c.Payer); !res.IsSuccess() {
		return res
	}
	if res := ctx.createRecord(treasury.Address, nil, c.Payer); !res.IsSuccess() {
		return res
	}
	return ctx.createRecord(fee.Address, nil, c.Payer)
}

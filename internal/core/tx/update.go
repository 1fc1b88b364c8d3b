package tx

import (
	"github.com/openauction/auctiond/internal/core/state"
	"github.com/openauction/auctiond/internal/types"
)

// UpdateMarketplace lets the marketplace authority change fee policy, the
// signoff requirement, and withdrawal destinations. Identity fields
// (authority, settlement currency) are part of the address and cannot
// change.
type UpdateMarketplace struct {
	Common

	Marketplace    types.Pubkey
	FeeBasisPoints uint16
	RequiresSignOff bool

	TreasuryWithdrawalAccount types.Pubkey
	TreasuryWithdrawalOwner   types.Pubkey
	FeeWithdrawalAccount      types.Pubkey
}

func (u *UpdateMarketplace) TxType() Type       { return TypeUpdateMarketplace }
func (u *UpdateMarketplace) GetCommon() *Common { return &u.Common }

func (u *UpdateMarketplace) Validate() Result {
	if u.FeeBasisPoints > state.MaxBasisPoints {
		return ResultInvalidSellerFeeBasisPoints
	}
	if u.Marketplace.IsZero() {
		return ResultAccountNotInitialized
	}
	return ResultSuccess
}

func (u *UpdateMarketplace) Apply(ctx *ApplyContext) Result {
	cfg, res := ctx.LoadMarketplace(u.Marketplace)
	if !res.IsSuccess() {
		return res
	}
	if !u.SignedBy(cfg.Authority) {
		return ResultMissingRequiredSigner
	}

	cfg.FeeBasisPoints = u.FeeBasisPoints
	cfg.RequiresSignOff = u.RequiresSignOff
	cfg.TreasuryWithdrawalAccount = u.TreasuryWithdrawalAccount
	cfg.TreasuryWithdrawalOwner = u.TreasuryWithdrawalOwner
	cfg.FeeWithdrawalAccount = u.FeeWithdrawalAccount

	acct, err := ctx.View.Get(u.Marketplace)
	if err != nil {
		return ResultInternal
	}
	acct.Data = cfg.Serialize()
	ctx.View.Update(u.Marketplace)
	return ResultSuccess
}

// WithdrawFromTreasury moves accumulated treasury funds above the treasury's
// rent floor to the configured withdrawal account. Authority-signed only.
type WithdrawFromTreasury struct {
	Common

	Marketplace types.Pubkey
	Amount      uint64
}

func (w *WithdrawFromTreasury) TxType() Type       { return TypeWithdrawFromTreasury }
func (w *WithdrawFromTreasury) GetCommon() *Common { return &w.Common }

func (w *WithdrawFromTreasury) Validate() Result {
	if w.Marketplace.IsZero() {
		return ResultAccountNotInitialized
	}
	if w.Amount == 0 {
		return ResultNotEnoughFunds
	}
	return ResultSuccess
}

func (w *WithdrawFromTreasury) Apply(ctx *ApplyContext) Result {
	cfg, res := ctx.LoadMarketplace(w.Marketplace)
	if !res.IsSuccess() {
		return res
	}
	if !w.SignedBy(cfg.Authority) {
		return ResultMissingRequiredSigner
	}
	return ctx.transfer(cfg.TreasuryAccount, cfg.TreasuryWithdrawalAccount, w.Amount)
}

// WithdrawFromFee moves accumulated fee-account funds above the account's
// rent floor to the configured fee withdrawal account.
type WithdrawFromFee struct {
	Common

	Marketplace types.Pubkey
	Amount      uint64
}

func (w *WithdrawFromFee) TxType() Type       { return TypeWithdrawFromFee }
func (w *WithdrawFromFee) GetCommon() *Common { return &w.Common }

func (w *WithdrawFromFee) Validate() Result {
	if w.Marketplace.IsZero() {
		return ResultAccountNotInitialized
	}
	if w.Amount == 0 {
		return ResultNotEnoughFunds
	}
	return ResultSuccess
}

func (w *WithdrawFromFee) Apply(ctx *ApplyContext) Result {
	cfg, res := ctx.LoadMarketplace(w.Marketplace)
	if !res.IsSuccess() {
		return res
	}
	if !w.SignedBy(cfg.Authority) {
		return ResultMissingRequiredSigner
	}
	return ctx.transfer(cfg.FeeAccount, cfg.FeeWithdrawalAccount, w.Amount)
}

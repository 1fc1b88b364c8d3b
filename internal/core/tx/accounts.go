package tx

import (
	"errors"

	"github.com/openauction/auctiond/internal/core/keylet"
	"github.com/openauction/auctiond/internal/ledger"
	"github.com/openauction/auctiond/internal/types"
)

// spendable returns the lamports an account can part with while keeping its
// own rent-exempt floor.
func (ctx *ApplyContext) spendable(acct *ledger.Account) (uint64, Result) {
	floor, err := ctx.Config.Rent.Minimum(len(acct.Data))
	if err != nil {
		return 0, ResultNumericOverflow
	}
	if acct.Lamports < floor {
		return 0, ResultSuccess
	}
	return acct.Lamports - floor, ResultSuccess
}

// debit removes amount from the account at key, keeping its rent floor
// intact. Fails with NotEnoughFunds if the spendable balance is short.
func (ctx *ApplyContext) debit(key types.Pubkey, amount uint64) Result {
	acct, err := ctx.View.Get(key)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return ResultNotEnoughFunds
		}
		return ResultInternal
	}

	avail, res := ctx.spendable(acct)
	if !res.IsSuccess() {
		return res
	}
	if avail < amount {
		return ResultNotEnoughFunds
	}

	acct.Lamports -= amount
	ctx.View.Update(key)
	return ResultSuccess
}

// credit adds amount to the account at key, creating a bare wallet account
// if none exists yet.
func (ctx *ApplyContext) credit(key types.Pubkey, amount uint64) Result {
	acct, err := ctx.View.Get(key)
	if err != nil {
		if !errors.Is(err, ledger.ErrAccountNotFound) {
			return ResultInternal
		}
		ctx.View.Insert(key, &ledger.Account{Lamports: amount})
		return ResultSuccess
	}

	newBalance := acct.Lamports + amount
	if newBalance < acct.Lamports {
		return ResultNumericOverflow
	}
	acct.Lamports = newBalance
	ctx.View.Update(key)
	return ResultSuccess
}

// transfer moves amount from one account to another.
func (ctx *ApplyContext) transfer(from, to types.Pubkey, amount uint64) Result {
	if res := ctx.debit(from, amount); !res.IsSuccess() {
		return res
	}
	return ctx.credit(to, amount)
}

// createRecord creates a program-owned record at key holding data, funding
// its rent-exempt minimum from payer. Fails with AccountAlreadyInitialized
// if the address is occupied.
func (ctx *ApplyContext) createRecord(key types.Pubkey, data []byte, payer types.Pubkey) Result {
	exists, err := ctx.View.Exists(key)
	if err != nil {
		return ResultInternal
	}
	if exists {
		return ResultAccountAlreadyInitialized
	}

	rentMin, rentErr := ctx.Config.Rent.Minimum(len(data))
	if rentErr != nil {
		return ResultNumericOverflow
	}
	if res := ctx.debit(payer, rentMin); !res.IsSuccess() {
		return res
	}

	ctx.View.Insert(key, &ledger.Account{
		Lamports: rentMin,
		Owner:    keylet.ProgramID,
		Data:     data,
	})
	return ResultSuccess
}

// closeRecord removes the record at key and refunds its whole balance,
// rent deposit included, to refundTo.
func (ctx *ApplyContext) closeRecord(key, refundTo types.Pubkey) Result {
	acct, err := ctx.View.Get(key)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return ResultAccountNotInitialized
		}
		return ResultInternal
	}

	balance := acct.Lamports
	ctx.View.Erase(key)
	return ctx.credit(refundTo, balance)
}

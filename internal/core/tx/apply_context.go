package tx

import (
	"errors"

	"github.com/openauction/auctiond/internal/core/state"
	"github.com/openauction/auctiond/internal/core/tree"
	"github.com/openauction/auctiond/internal/ledger"
	"github.com/openauction/auctiond/internal/types"
)

// ApplyContext carries everything an operation needs to apply itself: the
// buffered ledger view, engine configuration, and the injected tree
// collaborator.
type ApplyContext struct {
	// View is the buffered state table. All reads and writes go through it.
	View *ApplyStateTable

	// Config holds engine configuration (rent parameters).
	Config EngineConfig

	// Tree is the external compressed-asset tree program.
	Tree tree.Verifier

	// Receipt is populated by ExecuteSale on success so the engine can
	// journal the sale after commit.
	Receipt *SaleReceipt
}

// LoadMarketplace reads and parses the marketplace config at address.
func (ctx *ApplyContext) LoadMarketplace(address types.Pubkey) (*state.MarketplaceConfig, Result) {
	acct, err := ctx.View.Get(address)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return nil, ResultAccountNotInitialized
		}
		return nil, ResultInternal
	}
	cfg, err := state.ParseMarketplaceConfig(acct.Data)
	if err != nil {
		return nil, ResultInternal
	}
	return cfg, ResultSuccess
}

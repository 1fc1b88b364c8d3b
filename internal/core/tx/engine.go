package tx

import (
	"context"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/openauction/auctiond/internal/core/state"
	"github.com/openauction/auctiond/internal/core/tree"
	"github.com/openauction/auctiond/internal/ledger"
	"github.com/openauction/auctiond/internal/types"
)

// configCacheSize bounds the marketplace-config read cache. Deployments
// rarely host more than a handful of marketplaces.
const configCacheSize = 128

// EngineConfig holds configuration for the settlement engine.
type EngineConfig struct {
	// Rent prices record storage.
	Rent ledger.Rent
}

// SaleReceipt records one settled sale for the off-ledger journal.
type SaleReceipt struct {
	Marketplace types.Pubkey
	Buyer       types.Pubkey
	Seller      types.Pubkey
	AssetID     types.Pubkey
	Price       uint64
	Fee         uint64
	Royalty     uint64
	Proceeds    uint64
	SettledAt   time.Time
}

// SaleRecorder journals settled sales. The journal is observational; a
// recording failure is logged, never propagated into the settlement result.
type SaleRecorder interface {
	RecordSale(ctx context.Context, receipt SaleReceipt) error
}

// LedgerStore is the storage surface the engine commits against.
type LedgerStore interface {
	ledger.View
	ledger.BatchApplier
}

// ApplyResult is the outcome of submitting one operation.
type ApplyResult struct {
	Result  Result
	Applied bool
	Message string
}

// Engine processes settlement operations against the account ledger. Applies
// are serialized: the host-ledger model this emulates locks the touched
// account set per operation, and a single apply goroutine gives the same
// guarantee without finer locking.
type Engine struct {
	store    LedgerStore
	config   EngineConfig
	tree     tree.Verifier
	journal  SaleRecorder
	log      zerolog.Logger
	cfgCache *lru.Cache[types.Pubkey, *state.MarketplaceConfig]

	applyCh chan applyRequest
}

type applyRequest struct {
	ctx    context.Context
	txn    Transaction
	result chan ApplyResult
}

// NewEngine creates a settlement engine. journal may be nil.
func NewEngine(store LedgerStore, config EngineConfig, verifier tree.Verifier, journal SaleRecorder, log zerolog.Logger) *Engine {
	cache, _ := lru.New[types.Pubkey, *state.MarketplaceConfig](configCacheSize)
	return &Engine{
		store:    store,
		config:   config,
		tree:     verifier,
		journal:  journal,
		log:      log.With().Str("component", "engine").Logger(),
		cfgCache: cache,
		applyCh:  make(chan applyRequest),
	}
}

// Run serves the apply loop until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-e.applyCh:
			req.result <- e.apply(req.ctx, req.txn)
		}
	}
}

// Apply submits an operation and waits for its result. Operations are
// applied one at a time in submission order.
func (e *Engine) Apply(ctx context.Context, txn Transaction) ApplyResult {
	req := applyRequest{ctx: ctx, txn: txn, result: make(chan ApplyResult, 1)}
	select {
	case e.applyCh <- req:
	case <-ctx.Done():
		return ApplyResult{Result: ResultInternal, Message: ctx.Err().Error()}
	}
	select {
	case res := <-req.result:
		return res
	case <-ctx.Done():
		return ApplyResult{Result: ResultInternal, Message: ctx.Err().Error()}
	}
}

// ApplyDirect applies an operation synchronously without going through the
// apply loop. Only safe when the caller guarantees no concurrent applies;
// tests and single-threaded tools use it.
func (e *Engine) ApplyDirect(ctx context.Context, txn Transaction) ApplyResult {
	return e.apply(ctx, txn)
}

func (e *Engine) apply(ctx context.Context, txn Transaction) ApplyResult {
	result := txn.Validate()
	if !result.IsSuccess() {
		e.log.Info().
			Stringer("type", txn.TxType()).
			Stringer("result", result).
			Msg("operation rejected in preflight")
		return ApplyResult{Result: result, Message: result.Message()}
	}

	table := NewApplyStateTable(ctx, e.store)
	actx := &ApplyContext{
		View:   table,
		Config: e.config,
		Tree:   e.tree,
	}

	appliable, ok := txn.(Appliable)
	if !ok {
		return ApplyResult{Result: ResultInternal, Message: "operation cannot be applied"}
	}

	result = appliable.Apply(actx)
	if !result.IsSuccess() {
		e.log.Info().
			Stringer("type", txn.TxType()).
			Stringer("result", result).
			Msg("operation failed")
		return ApplyResult{Result: result, Message: result.Message()}
	}

	if err := table.Commit(e.store); err != nil {
		e.log.Error().Err(err).
			Stringer("type", txn.TxType()).
			Msg("commit failed")
		return ApplyResult{Result: ResultInternal, Message: "commit failed: " + err.Error()}
	}

	for _, key := range table.Touched() {
		e.cfgCache.Remove(key)
	}

	if actx.Receipt != nil && e.journal != nil {
		if err := e.journal.RecordSale(ctx, *actx.Receipt); err != nil {
			e.log.Error().Err(err).Msg("failed to journal sale receipt")
		}
	}

	e.log.Debug().
		Stringer("type", txn.TxType()).
		Msg("operation applied")
	return ApplyResult{Result: ResultSuccess, Applied: true, Message: ResultSuccess.Message()}
}

// MarketplaceConfig returns the parsed config at address, served from an
// LRU cache that commits invalidate. This is the read path for the RPC
// surface; applies always read through their own buffered view.
func (e *Engine) MarketplaceConfig(ctx context.Context, address types.Pubkey) (*state.MarketplaceConfig, error) {
	if cfg, ok := e.cfgCache.Get(address); ok {
		return cfg, nil
	}

	acct, err := e.store.Get(ctx, address)
	if err != nil {
		return nil, err
	}
	cfg, err := state.ParseMarketplaceConfig(acct.Data)
	if err != nil {
		return nil, err
	}
	e.cfgCache.Add(address, cfg)
	return cfg, nil
}

// Account returns the raw ledger account at address.
func (e *Engine) Account(ctx context.Context, address types.Pubkey) (*ledger.Account, error) {
	return e.store.Get(ctx, address)
}

// IsNotFound reports whether err means the queried account does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ledger.ErrAccountNotFound)
}

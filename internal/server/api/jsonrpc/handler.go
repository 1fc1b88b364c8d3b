package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openauction/auctiond/internal/core/keylet"
	"github.com/openauction/auctiond/internal/core/tree"
	"github.com/openauction/auctiond/internal/core/tx"
	"github.com/openauction/auctiond/internal/receipts"
	"github.com/openauction/auctiond/internal/types"
)

// ReceiptLister is the journal read surface the handler queries. nil when
// journaling is disabled.
type ReceiptLister interface {
	List(ctx context.Context, filter receipts.Filter) ([]tx.SaleReceipt, error)
}

type methodFunc func(ctx context.Context, params json.RawMessage) (any, error)

// TreeDefaults are the dimensions used for tree_create calls that leave them
// unset.
type TreeDefaults struct {
	Depth  int
	Canopy int
}

// Handler dispatches JSON-RPC methods: operation submissions go through the
// settlement engine, queries read the ledger directly, and the tree_* methods
// administer the in-process asset tree program.
type Handler struct {
	engine   *tx.Engine
	journal  ReceiptLister
	program  *tree.Program
	treeDefs TreeDefaults
	methods  map[string]methodFunc
}

func NewHandler(engine *tx.Engine, journal ReceiptLister, program *tree.Program, treeDefs TreeDefaults) *Handler {
	h := &Handler{
		engine:   engine,
		journal:  journal,
		program:  program,
		treeDefs: treeDefs,
		methods:  make(map[string]methodFunc),
	}

	// Every registered operation type is a submission method.
	for _, name := range tx.RegisteredTypes() {
		h.methods[name] = h.submitMethod(name)
	}

	h.methods["account_info"] = h.handleAccountInfo
	h.methods["marketplace_info"] = h.handleMarketplaceInfo
	h.methods["order_info"] = h.handleOrderInfo
	h.methods["escrow_info"] = h.handleEscrowInfo
	h.methods["receipts"] = h.handleReceipts

	if program != nil {
		h.methods["tree_create"] = h.handleTreeCreate
		h.methods["tree_mint"] = h.handleTreeMint
		h.methods["tree_asset"] = h.handleTreeAsset
	}

	return h
}

// Handle dispatches a JSON-RPC method to the appropriate handler.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	fn, exists := h.methods[method]
	if !exists {
		return nil, fmt.Errorf("method %s not found", method)
	}
	return fn(ctx, params)
}

func (h *Handler) submitMethod(name string) methodFunc {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		op, err := tx.New(name)
		if err != nil {
			return nil, err
		}
		if len(params) > 0 {
			if err := json.Unmarshal(params, op); err != nil {
				return nil, fmt.Errorf("invalid params for %s: %w", name, err)
			}
		}

		res := h.engine.Apply(ctx, op)
		return map[string]any{
			"result":  res.Result.String(),
			"applied": res.Applied,
			"message": res.Message,
		}, nil
	}
}

func (h *Handler) handleAccountInfo(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Address types.Pubkey `json:"address"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	acct, err := h.engine.Account(ctx, req.Address)
	if err != nil {
		if tx.IsNotFound(err) {
			return map[string]any{"address": req.Address, "exists": false}, nil
		}
		return nil, err
	}

	return map[string]any{
		"address":  req.Address,
		"exists":   true,
		"lamports": acct.Lamports,
		"owner":    acct.Owner,
		"data_len": len(acct.Data),
	}, nil
}

func (h *Handler) handleMarketplaceInfo(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Authority types.Pubkey `json:"authority"`
		Currency  types.Pubkey `json:"currency"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	market, err := keylet.Marketplace(req.Authority, req.Currency)
	if err != nil {
		return nil, err
	}
	cfg, err := h.engine.MarketplaceConfig(ctx, market.Address)
	if err != nil {
		if tx.IsNotFound(err) {
			return map[string]any{"address": market.Address, "exists": false}, nil
		}
		return nil, err
	}

	return map[string]any{
		"address":           market.Address,
		"exists":            true,
		"authority":         cfg.Authority,
		"currency":          cfg.SettlementCurrency,
		"fee_basis_points":  cfg.FeeBasisPoints,
		"requires_sign_off": cfg.RequiresSignOff,
		"treasury_account":  cfg.TreasuryAccount,
		"fee_account":       cfg.FeeAccount,
	}, nil
}

func (h *Handler) handleOrderInfo(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Party       types.Pubkey `json:"party"`
		Marketplace types.Pubkey `json:"marketplace"`
		AssetID     types.Pubkey `json:"asset_id"`
		Price       uint64       `json:"price"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	record, err := keylet.TradeState(req.Party, req.Marketplace, req.AssetID, req.Price)
	if err != nil {
		return nil, err
	}

	_, err = h.engine.Account(ctx, record.Address)
	exists := err == nil
	if err != nil && !tx.IsNotFound(err) {
		return nil, err
	}

	return map[string]any{
		"address": record.Address,
		"bump":    record.Bump,
		"open":    exists,
	}, nil
}

func (h *Handler) handleEscrowInfo(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		Marketplace types.Pubkey `json:"marketplace"`
		Bidder      types.Pubkey `json:"bidder"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	escrow, err := keylet.Escrow(req.Marketplace, req.Bidder)
	if err != nil {
		return nil, err
	}

	var balance uint64
	acct, err := h.engine.Account(ctx, escrow.Address)
	exists := err == nil
	if err != nil && !tx.IsNotFound(err) {
		return nil, err
	}
	if exists {
		balance = acct.Lamports
	}

	return map[string]any{
		"address": escrow.Address,
		"exists":  exists,
		"balance": balance,
	}, nil
}

func (h *Handler) handleReceipts(ctx context.Context, params json.RawMessage) (any, error) {
	if h.journal == nil {
		return nil, fmt.Errorf("receipt journal is disabled")
	}

	var req struct {
		Marketplace types.Pubkey `json:"marketplace"`
		AssetID     types.Pubkey `json:"asset_id"`
		Limit       int          `json:"limit"`
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
	}

	list, err := h.journal.List(ctx, receipts.Filter{
		Marketplace: req.Marketplace,
		AssetID:     req.AssetID,
		Limit:       req.Limit,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"receipts": list, "count": len(list)}, nil
}

func (h *Handler) handleTreeCreate(ctx context.Context, params json.RawMessage) (any, error) {
	req := struct {
		TreeID types.Pubkey `json:"tree_id"`
		Depth  int          `json:"depth"`
		Canopy int          `json:"canopy"`
	}{Depth: h.treeDefs.Depth, Canopy: h.treeDefs.Canopy}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	if err := h.program.CreateTree(req.TreeID, req.Depth, req.Canopy); err != nil {
		return nil, err
	}
	return map[string]any{
		"tree_id": req.TreeID,
		"depth":   req.Depth,
		"canopy":  req.Canopy,
	}, nil
}

func (h *Handler) handleTreeMint(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		TreeID      types.Pubkey `json:"tree_id"`
		Owner       types.Pubkey `json:"owner"`
		Delegate    types.Pubkey `json:"delegate"`
		DataHash    types.Hash   `json:"data_hash"`
		CreatorHash types.Hash   `json:"creator_hash"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if req.Delegate.IsZero() {
		req.Delegate = req.Owner
	}

	assetID, nonce, index, err := h.program.Mint(req.TreeID, req.Owner, req.Delegate, req.DataHash, req.CreatorHash)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"asset_id": assetID,
		"nonce":    nonce,
		"index":    index,
	}, nil
}

// handleTreeAsset returns the current root and proof path for a leaf, the
// pieces a caller needs to assemble the ownership arguments of ask, cancel
// and execute_sale.
func (h *Handler) handleTreeAsset(ctx context.Context, params json.RawMessage) (any, error) {
	var req struct {
		TreeID types.Pubkey `json:"tree_id"`
		Index  uint32       `json:"index"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	root, err := h.program.Root(req.TreeID)
	if err != nil {
		return nil, err
	}
	path, err := h.program.ProofPath(req.TreeID, req.Index)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"root":       root,
		"proof_path": path,
	}, nil
}

package jsonrpc_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openauction/auctiond/internal/core/keylet"
	"github.com/openauction/auctiond/internal/core/tree"
	"github.com/openauction/auctiond/internal/core/tx"
	"github.com/openauction/auctiond/internal/ledger"
	"github.com/openauction/auctiond/internal/server/api/jsonrpc"
	"github.com/openauction/auctiond/internal/types"
)

func pk(fill byte) types.Pubkey {
	var key types.Pubkey
	for i := range key {
		key[i] = fill
	}
	return key
}

type rpcClient struct {
	t   *testing.T
	srv *httptest.Server
}

func (c *rpcClient) call(method string, params any) map[string]any {
	c.t.Helper()

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	})
	require.NoError(c.t, err)

	resp, err := http.Post(c.srv.URL, "application/json", bytes.NewReader(body))
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func (c *rpcClient) result(method string, params any) map[string]any {
	c.t.Helper()
	decoded := c.call(method, params)
	require.NotContains(c.t, decoded, "error", fmt.Sprintf("%s returned %v", method, decoded["error"]))
	result, ok := decoded["result"].(map[string]any)
	require.True(c.t, ok)
	return result
}

func newTestServer(t *testing.T) (*rpcClient, *ledger.MemoryStore, context.CancelFunc) {
	t.Helper()

	store := ledger.NewMemoryStore()
	program := tree.NewProgram()
	engine := tx.NewEngine(store, tx.EngineConfig{Rent: ledger.Rent{Baseline: 1000, PerByte: 10}}, program, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go engine.Run(ctx)

	handler := jsonrpc.NewHandler(engine, nil, program, jsonrpc.TreeDefaults{Depth: 6, Canopy: 1})
	srv := httptest.NewServer(jsonrpc.NewServer(handler, zerolog.Nop()))
	t.Cleanup(srv.Close)

	return &rpcClient{t: t, srv: srv}, store, cancel
}

func TestSubmitCreateAndQuery(t *testing.T) {
	client, store, cancel := newTestServer(t)
	defer cancel()

	authority := pk(0xA1)
	currency := pk(0xC0)
	require.NoError(t, store.Put(context.Background(),
		authority, &ledger.Account{Lamports: 1_000_000}))

	result := client.result("create", map[string]any{
		"Signers":            []types.Pubkey{authority},
		"Payer":              authority,
		"Authority":          authority,
		"SettlementCurrency": currency,
		"FeeBasisPoints":     250,
	})
	assert.Equal(t, "Success", result["result"])
	assert.Equal(t, true, result["applied"])

	info := client.result("marketplace_info", map[string]any{
		"authority": authority,
		"currency":  currency,
	})
	assert.Equal(t, true, info["exists"])
	assert.Equal(t, float64(250), info["fee_basis_points"])
	assert.Equal(t, authority.String(), info["authority"])
}

func TestSubmitRejectionSurfacesResult(t *testing.T) {
	client, store, cancel := newTestServer(t)
	defer cancel()

	authority := pk(0xA2)
	require.NoError(t, store.Put(context.Background(),
		authority, &ledger.Account{Lamports: 1_000_000}))

	result := client.result("create", map[string]any{
		"Signers":            []types.Pubkey{authority},
		"Payer":              authority,
		"Authority":          authority,
		"SettlementCurrency": pk(0xC0),
		"FeeBasisPoints":     10001,
	})
	assert.Equal(t, "InvalidSellerFeeBasisPoints", result["result"])
	assert.Equal(t, false, result["applied"])
}

func TestAccountInfo(t *testing.T) {
	client, store, cancel := newTestServer(t)
	defer cancel()

	wallet := pk(0x42)
	require.NoError(t, store.Put(context.Background(),
		wallet, &ledger.Account{Lamports: 5555}))

	info := client.result("account_info", map[string]any{"address": wallet})
	assert.Equal(t, true, info["exists"])
	assert.Equal(t, float64(5555), info["lamports"])

	info = client.result("account_info", map[string]any{"address": pk(0x43)})
	assert.Equal(t, false, info["exists"])
}

func TestOrderAndEscrowInfo(t *testing.T) {
	client, _, cancel := newTestServer(t)
	defer cancel()

	party := pk(0x11)
	marketplace := pk(0x22)
	asset := pk(0x33)

	record, err := keylet.TradeState(party, marketplace, asset, 10000)
	require.NoError(t, err)

	info := client.result("order_info", map[string]any{
		"party":       party,
		"marketplace": marketplace,
		"asset_id":    asset,
		"price":       10000,
	})
	assert.Equal(t, record.Address.String(), info["address"])
	assert.Equal(t, false, info["open"])

	escrow, err := keylet.Escrow(marketplace, party)
	require.NoError(t, err)
	info = client.result("escrow_info", map[string]any{
		"marketplace": marketplace,
		"bidder":      party,
	})
	assert.Equal(t, escrow.Address.String(), info["address"])
	assert.Equal(t, false, info["exists"])
}

func TestTreeAdminMethods(t *testing.T) {
	client, _, cancel := newTestServer(t)
	defer cancel()

	treeID := pk(0x77)
	owner := pk(0x78)

	created := client.result("tree_create", map[string]any{"tree_id": treeID})
	assert.Equal(t, float64(6), created["depth"])
	assert.Equal(t, float64(1), created["canopy"])

	minted := client.result("tree_mint", map[string]any{
		"tree_id":      treeID,
		"owner":        owner,
		"data_hash":    types.Hash(pk(0x01)).String(),
		"creator_hash": types.Hash(pk(0x02)).String(),
	})
	assert.Equal(t, float64(0), minted["nonce"])
	require.NotEmpty(t, minted["asset_id"])

	info := client.result("tree_asset", map[string]any{
		"tree_id": treeID,
		"index":   0,
	})
	require.NotEmpty(t, info["root"])
	path, ok := info["proof_path"].([]any)
	require.True(t, ok)
	assert.Len(t, path, 5)
}

func TestUnknownMethod(t *testing.T) {
	client, _, cancel := newTestServer(t)
	defer cancel()

	decoded := client.call("no_such_method", nil)
	require.Contains(t, decoded, "error")
}

func TestReceiptsDisabled(t *testing.T) {
	client, _, cancel := newTestServer(t)
	defer cancel()

	decoded := client.call("receipts", map[string]any{})
	require.Contains(t, decoded, "error")
}

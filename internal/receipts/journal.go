// Package receipts journals settled sales in an embedded SQLite database.
// The journal is observational: the settlement engine writes to it after a
// successful commit and never reads it back, so a journal failure can never
// affect ledger state.
package receipts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openauction/auctiond/internal/core/tx"
	"github.com/openauction/auctiond/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS sale_receipts (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	marketplace TEXT    NOT NULL,
	buyer       TEXT    NOT NULL,
	seller      TEXT    NOT NULL,
	asset_id    TEXT    NOT NULL,
	price       INTEGER NOT NULL,
	fee         INTEGER NOT NULL,
	royalty     INTEGER NOT NULL,
	proceeds    INTEGER NOT NULL,
	settled_at  TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sale_receipts_marketplace ON sale_receipts(marketplace);
CREATE INDEX IF NOT EXISTS idx_sale_receipts_asset ON sale_receipts(asset_id);
`

// Journal is a SQLite-backed sale-receipt log. It implements tx.SaleRecorder.
type Journal struct {
	db *sql.DB
}

// Open opens (or creates) the journal database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open receipts database %s: %w", path, err)
	}
	// The modernc driver serializes writes itself but misbehaves with more
	// than one writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create receipts schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// RecordSale appends one settled sale.
func (j *Journal) RecordSale(ctx context.Context, receipt tx.SaleReceipt) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO sale_receipts
		 (marketplace, buyer, seller, asset_id, price, fee, royalty, proceeds, settled_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.Marketplace.String(),
		receipt.Buyer.String(),
		receipt.Seller.String(),
		receipt.AssetID.String(),
		int64(receipt.Price),
		int64(receipt.Fee),
		int64(receipt.Royalty),
		int64(receipt.Proceeds),
		receipt.SettledAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale receipt: %w", err)
	}
	return nil
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Marketplace types.Pubkey
	AssetID     types.Pubkey
	Limit       int
}

// List returns journaled sales, newest first.
func (j *Journal) List(ctx context.Context, filter Filter) ([]tx.SaleReceipt, error) {
	query := `SELECT marketplace, buyer, seller, asset_id, price, fee, royalty, proceeds, settled_at
	          FROM sale_receipts`
	var args []any
	var where []string

	if !filter.Marketplace.IsZero() {
		where = append(where, "marketplace = ?")
		args = append(args, filter.Marketplace.String())
	}
	if !filter.AssetID.IsZero() {
		where = append(where, "asset_id = ?")
		args = append(args, filter.AssetID.String())
	}
	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale receipts: %w", err)
	}
	defer rows.Close()

	var receipts []tx.SaleReceipt
	for rows.Next() {
		var (
			r                                  tx.SaleReceipt
			marketplace, buyer, seller, asset  string
			price, fee, royalty, proceeds      int64
			settledAt                          string
		)
		if err := rows.Scan(&marketplace, &buyer, &seller, &asset,
			&price, &fee, &royalty, &proceeds, &settledAt); err != nil {
			return nil, fmt.Errorf("failed to scan sale receipt: %w", err)
		}

		if r.Marketplace, err = types.PubkeyFromBase58(marketplace); err != nil {
			return nil, fmt.Errorf("corrupt marketplace column: %w", err)
		}
		if r.Buyer, err = types.PubkeyFromBase58(buyer); err != nil {
			return nil, fmt.Errorf("corrupt buyer column: %w", err)
		}
		if r.Seller, err = types.PubkeyFromBase58(seller); err != nil {
			return nil, fmt.Errorf("corrupt seller column: %w", err)
		}
		if r.AssetID, err = types.PubkeyFromBase58(asset); err != nil {
			return nil, fmt.Errorf("corrupt asset column: %w", err)
		}
		r.Price, r.Fee, r.Royalty, r.Proceeds = uint64(price), uint64(fee), uint64(royalty), uint64(proceeds)
		if r.SettledAt, err = time.Parse(time.RFC3339Nano, settledAt); err != nil {
			return nil, fmt.Errorf("corrupt settled_at column: %w", err)
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}

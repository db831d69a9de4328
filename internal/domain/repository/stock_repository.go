package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
)

// LocationStock is one line of the "what's actually here" browse view.
type LocationStock struct {
	ProductID   string
	SKU         string
	ProductName string
	Category    string
	Unit        string
	Quantity    decimal.Decimal
}

// LowStockItem is a product under its minimum at a location (or aggregated).
type LowStockItem struct {
	ProductID    string
	SKU          string
	ProductName  string
	Unit         string
	CurrentStock decimal.Decimal
	MinimumStock decimal.Decimal
}

// ConservationMismatch is a pair whose materialized balance disagrees with the
// journal sum. Any row here is a data-integrity bug.
type ConservationMismatch struct {
	ProductID  string
	LocationID string
	Balance    decimal.Decimal
	JournalSum decimal.Decimal
}

// StockRepository maintains the materialized balances. Writes happen inside
// the same SQL transaction as the journal append (see booking.TxRunner).
type StockRepository interface {
	// Get returns the balance for a pair; a missing row is a zero balance.
	Get(ctx context.Context, productID, locationID string) (*entity.StockBalance, error)
	// AddQuantity upserts the pair and adds delta (receipts, reversals of outs).
	AddQuantity(ctx context.Context, productID, locationID string, delta decimal.Decimal) error
	// WithdrawIfAvailable atomically decrements the balance only when the
	// result stays non-negative. Returns false when stock was insufficient;
	// the store itself is the guard, not a client-side compare.
	WithdrawIfAvailable(ctx context.Context, productID, locationID string, qty decimal.Decimal) (bool, error)
	// ListAtLocation returns positive balances joined with product data,
	// ordered by product name.
	ListAtLocation(ctx context.Context, locationID string) ([]LocationStock, error)
	// ListBelowMinimum returns products under their minimum stock at the
	// location; empty locationID aggregates over all locations. Ordered by
	// deficit, largest first.
	ListBelowMinimum(ctx context.Context, locationID string) ([]LowStockItem, error)
	// VerifyConservation compares every materialized balance against the
	// journal sum and returns the mismatching pairs.
	VerifyConservation(ctx context.Context) ([]ConservationMismatch, error)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item (SKU). On-hand quantity per location lives
// in StockBalance; a product that is referenced by journal entries is never
// hard-deleted, only deactivated.
type Product struct {
	ID           string
	SKU          string // unique, the human-facing reference in imports
	Name         string
	EAN          *string // optional barcode, unique when present
	Category     string
	Unit         string // measurement unit, e.g. "kg", "stuks"
	MinimumStock decimal.Decimal // low-stock alert threshold
	Price        *decimal.Decimal // optional, valuation only
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

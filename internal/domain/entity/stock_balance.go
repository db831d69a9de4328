package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance is the materialized on-hand quantity of a product at a location.
// Derived from the journal and updated in the same transaction as every
// journal append; Quantity never drops below zero.
type StockBalance struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}

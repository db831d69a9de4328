package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingLineRequest is one (product, location, quantity) withdrawal line.
type BookingLineRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"` // positive, requested amount
}

// BookingRequest body for POST /api/bookings. All lines commit or none do.
type BookingRequest struct {
	ProjectID  string               `json:"project_id"`
	ActorID    string               `json:"actor_id"`
	Notes      string               `json:"notes,omitempty"`
	OccurredAt *time.Time           `json:"occurred_at,omitempty"` // imports backdate; defaults to now
	Lines      []BookingLineRequest `json:"lines"`
}

// BookingResult identifies the committed batch.
type BookingResult struct {
	BatchID        string    `json:"batch_id"`
	TransactionIDs []string  `json:"transaction_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReceiptRequest body for POST /api/stock/receipts (goods in).
type ReceiptRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	ActorID    string          `json:"actor_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	ProjectID  string          `json:"project_id,omitempty"` // returns from a project site
	Notes      string          `json:"notes,omitempty"`
}

// TransferRequest body for POST /api/stock/transfers (move between locations).
type TransferRequest struct {
	ProductID      string          `json:"product_id"`
	FromLocationID string          `json:"from_location_id"`
	ToLocationID   string          `json:"to_location_id"`
	ActorID        string          `json:"actor_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Notes          string          `json:"notes,omitempty"`
}

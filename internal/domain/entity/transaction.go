package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TransactionTypeIn  = "in"  // goods receipt, transfer arrival, reversal of an out
	TransactionTypeOut = "out" // booking against a project, transfer departure
)

// Transaction is one journal entry: a signed quantity movement for a
// (product, location) pair. The journal is append-only; corrections are made
// with a compensating entry (ReversalOf points at the original), never by
// mutating a committed row.
type Transaction struct {
	ID         string
	BatchID    string // shared by all entries committed in one booking/transfer
	ProductID  string
	LocationID string
	ProjectID  *string // nil for non-project movements (receipts, transfers)
	UserID     string
	Type       string
	Quantity   decimal.Decimal // signed: negative for out
	Notes      string
	ReversalOf *string
	Date       time.Time // effective date (imports may backdate)
	CreatedAt  time.Time
}

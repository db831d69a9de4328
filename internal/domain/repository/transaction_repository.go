package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
)

// TransactionFilter narrows a journal query. Nil/zero fields are ignored.
// Limit of 0 means no limit (exports read the whole range).
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	ProductID  string
	LocationID string
	ProjectID  string
	UserID     string
	SearchText string // matches notes, product name/sku, project name
	Limit      int
	Offset     int
}

// JournalRow is a journal entry joined with the names the UI and the export
// need. Query results are newest first.
type JournalRow struct {
	ID           string
	BatchID      string
	ProductID    string
	ProductSKU   string
	ProductName  string
	Category     string
	Unit         string
	LocationID   string
	LocationName string
	ProjectID    *string
	ProjectName  string
	UserID       string
	UserName     string
	Type         string
	Quantity     decimal.Decimal
	Notes        string
	ReversalOf   *string
	Date         time.Time
	CreatedAt    time.Time
}

// TransactionRepository is the append-only journal. There is no update; the
// only way to undo an entry is appending a compensating one.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	Query(ctx context.Context, filter TransactionFilter) ([]JournalRow, error)
	// HasReversal reports whether a compensating entry already references id.
	HasReversal(ctx context.Context, id string) (bool, error)
	// SumForPair recomputes the balance of one pair straight from the journal.
	SumForPair(ctx context.Context, productID, locationID string) (decimal.Decimal, error)
}

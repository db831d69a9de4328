package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionResponse one journal entry with joined names, newest first in lists.
type TransactionResponse struct {
	ID           string          `json:"id"`
	BatchID      string          `json:"batch_id"`
	ProductID    string          `json:"product_id"`
	ProductSKU   string          `json:"product_sku"`
	ProductName  string          `json:"product_name"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	ProjectID    *string         `json:"project_id,omitempty"`
	ProjectName  string          `json:"project_name,omitempty"`
	UserID       string          `json:"user_id"`
	UserName     string          `json:"user_name"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Notes        string          `json:"notes,omitempty"`
	ReversalOf   *string         `json:"reversal_of,omitempty"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransactionListResponse paginated journal slice.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// DeleteTransactionsRequest body for POST /api/transactions/delete.
// Each id is reversed with a compensating entry; rows are never removed.
type DeleteTransactionsRequest struct {
	IDs     []string `json:"ids"`
	ActorID string   `json:"actor_id"`
}

// DeleteTransactionsResult ids of the appended reversal entries.
type DeleteTransactionsResult struct {
	ReversalIDs []string `json:"reversal_ids"`
}

// StockBalanceResponse current balance of one pair.
type StockBalanceResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// LocationStockResponse one pick-list line for the stock browse API.
type LocationStockResponse struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// LowStockResponse a product under its minimum threshold.
type LowStockResponse struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	Deficit      decimal.Decimal `json:"deficit"`
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo StockRepository over PostgreSQL (pool or tx via Querier).
type StockRepo struct {
	q Querier
}

// NewStockRepository builds the adapter.
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get returns the current balance for a pair; a missing row is a zero balance.
func (r *StockRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockBalance, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM stock_balances WHERE product_id = $1 AND location_id = $2`
	var s entity.StockBalance
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &s, nil
}

// AddQuantity upserts the pair and adds delta to its balance.
func (r *StockRepo) AddQuantity(ctx context.Context, productID, locationID string, delta decimal.Decimal) error {
	query := `
		INSERT INTO stock_balances (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = stock_balances.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, productID, locationID, delta); err != nil {
		return fmt.Errorf("add stock quantity: %w", err)
	}
	return nil
}

// WithdrawIfAvailable performs the conditional decrement: the WHERE clause
// re-evaluates under the row lock, so two overlapping withdrawals can never
// jointly drive the balance negative. Returns false when the condition failed
// (insufficient stock or no row at all).
func (r *StockRepo) WithdrawIfAvailable(ctx context.Context, productID, locationID string, qty decimal.Decimal) (bool, error) {
	query := `
		UPDATE stock_balances
		SET quantity = quantity - $3, updated_at = now()
		WHERE product_id = $1 AND location_id = $2 AND quantity >= $3`
	tag, err := r.q.Exec(ctx, query, productID, locationID, qty)
	if err != nil {
		return false, fmt.Errorf("withdraw stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListAtLocation returns positive balances at a location joined with product
// data, ordered by product name.
func (r *StockRepo) ListAtLocation(ctx context.Context, locationID string) ([]repository.LocationStock, error) {
	query := `
		SELECT s.product_id, p.sku, p.name, p.category, p.unit, s.quantity
		FROM stock_balances s
		JOIN products p ON p.id = s.product_id
		WHERE s.location_id = $1 AND s.quantity > 0
		ORDER BY p.name`
	rows, err := r.q.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("list stock at location: %w", err)
	}
	defer rows.Close()
	var list []repository.LocationStock
	for rows.Next() {
		var it repository.LocationStock
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.ProductName, &it.Category, &it.Unit, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan location stock: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// ListBelowMinimum returns the products whose balance is under their minimum
// stock at the given location, or aggregated over all locations when
// locationID is empty. Ordered by deficit, largest first.
func (r *StockRepo) ListBelowMinimum(ctx context.Context, locationID string) ([]repository.LowStockItem, error) {
	var (
		query string
		args  []any
	)
	if locationID != "" {
		query = `
			SELECT p.id, p.sku, p.name, p.unit, COALESCE(s.quantity, 0) AS current_stock, p.minimum_stock
			FROM products p
			LEFT JOIN stock_balances s ON s.product_id = p.id AND s.location_id = $1
			WHERE p.active
			  AND p.minimum_stock > 0
			  AND COALESCE(s.quantity, 0) < p.minimum_stock
			ORDER BY (p.minimum_stock - COALESCE(s.quantity, 0)) DESC`
		args = []any{locationID}
	} else {
		query = `
			SELECT p.id, p.sku, p.name, p.unit, COALESCE(SUM(s.quantity), 0) AS current_stock, p.minimum_stock
			FROM products p
			LEFT JOIN stock_balances s ON s.product_id = p.id
			WHERE p.active
			  AND p.minimum_stock > 0
			GROUP BY p.id, p.sku, p.name, p.unit, p.minimum_stock
			HAVING COALESCE(SUM(s.quantity), 0) < p.minimum_stock
			ORDER BY (p.minimum_stock - COALESCE(SUM(s.quantity), 0)) DESC`
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list below minimum stock: %w", err)
	}
	defer rows.Close()
	var items []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.ProductName, &it.Unit, &it.CurrentStock, &it.MinimumStock); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// VerifyConservation returns every pair whose materialized balance differs
// from the journal sum. Expected to always return nothing.
func (r *StockRepo) VerifyConservation(ctx context.Context) ([]repository.ConservationMismatch, error) {
	query := `
		SELECT COALESCE(s.product_id, t.product_id),
		       COALESCE(s.location_id, t.location_id),
		       COALESCE(s.quantity, 0),
		       COALESCE(t.total, 0)
		FROM stock_balances s
		FULL OUTER JOIN (
			SELECT product_id, location_id, SUM(quantity) AS total
			FROM transactions
			GROUP BY product_id, location_id
		) t ON t.product_id = s.product_id AND t.location_id = s.location_id
		WHERE COALESCE(s.quantity, 0) <> COALESCE(t.total, 0)`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("verify conservation: %w", err)
	}
	defer rows.Close()
	var mismatches []repository.ConservationMismatch
	for rows.Next() {
		var m repository.ConservationMismatch
		if err := rows.Scan(&m.ProductID, &m.LocationID, &m.Balance, &m.JournalSum); err != nil {
			return nil, fmt.Errorf("scan conservation mismatch: %w", err)
		}
		mismatches = append(mismatches, m)
	}
	return mismatches, rows.Err()
}

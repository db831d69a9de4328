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

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo the append-only journal over PostgreSQL. No UPDATE or
// DELETE statements live here on purpose.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository builds the adapter.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create appends one journal entry.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, batch_id, product_id, location_id, project_id, user_id, type, quantity, notes, reversal_of, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.BatchID, t.ProductID, t.LocationID, t.ProjectID, t.UserID,
		t.Type, t.Quantity, t.Notes, t.ReversalOf, t.Date, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// GetByID returns one entry, nil when unknown.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	query := `
		SELECT id, batch_id, product_id, location_id, project_id, user_id, type, quantity, notes, reversal_of, date, created_at
		FROM transactions WHERE id = $1`
	var t entity.Transaction
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.BatchID, &t.ProductID, &t.LocationID, &t.ProjectID, &t.UserID,
		&t.Type, &t.Quantity, &t.Notes, &t.ReversalOf, &t.Date, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

// Query returns journal rows joined with product/location/project/user names,
// newest first. Limit 0 means no limit (export path).
func (r *TransactionRepo) Query(ctx context.Context, f repository.TransactionFilter) ([]repository.JournalRow, error) {
	query := `
		SELECT t.id, t.batch_id, t.product_id, p.sku, p.name, p.category, p.unit,
		       t.location_id, l.name, t.project_id, COALESCE(pr.name, ''),
		       t.user_id, COALESCE(u.name, ''), t.type, t.quantity, t.notes,
		       t.reversal_of, t.date, t.created_at
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		JOIN locations l ON l.id = t.location_id
		LEFT JOIN projects pr ON pr.id = t.project_id
		LEFT JOIN users u ON u.id = t.user_id
		WHERE 1=1`
	var args []any
	pos := 1
	add := func(cond string, val any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if f.From != nil {
		add("t.date >= $%d", *f.From)
	}
	if f.To != nil {
		add("t.date <= $%d", *f.To)
	}
	if f.ProductID != "" {
		add("t.product_id = $%d", f.ProductID)
	}
	if f.LocationID != "" {
		add("t.location_id = $%d", f.LocationID)
	}
	if f.ProjectID != "" {
		add("t.project_id = $%d", f.ProjectID)
	}
	if f.UserID != "" {
		add("t.user_id = $%d", f.UserID)
	}
	if f.SearchText != "" {
		query += fmt.Sprintf(` AND (t.notes ILIKE '%%' || $%d || '%%'
			OR p.name ILIKE '%%' || $%d || '%%'
			OR p.sku ILIKE '%%' || $%d || '%%'
			OR pr.name ILIKE '%%' || $%d || '%%')`, pos, pos, pos, pos)
		args = append(args, f.SearchText)
		pos++
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	var list []repository.JournalRow
	for rows.Next() {
		var row repository.JournalRow
		if err := rows.Scan(
			&row.ID, &row.BatchID, &row.ProductID, &row.ProductSKU, &row.ProductName,
			&row.Category, &row.Unit, &row.LocationID, &row.LocationName,
			&row.ProjectID, &row.ProjectName, &row.UserID, &row.UserName,
			&row.Type, &row.Quantity, &row.Notes, &row.ReversalOf, &row.Date, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// HasReversal reports whether a compensating entry references id.
func (r *TransactionRepo) HasReversal(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM transactions WHERE reversal_of = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reversal: %w", err)
	}
	return exists, nil
}

// SumForPair recomputes one balance straight from the journal.
func (r *TransactionRepo) SumForPair(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM transactions WHERE product_id = $1 AND location_id = $2`,
		productID, locationID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions for pair: %w", err)
	}
	return sum, nil
}

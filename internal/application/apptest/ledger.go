package apptest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

type stockRepo struct{ s *Store }

func (r *stockRepo) Get(_ context.Context, productID, locationID string) (*entity.StockBalance, error) {
	qty := r.s.balances[pairKey{productID, locationID}]
	return &entity.StockBalance{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   qty,
		UpdatedAt:  time.Now(),
	}, nil
}

func (r *stockRepo) AddQuantity(_ context.Context, productID, locationID string, delta decimal.Decimal) error {
	k := pairKey{productID, locationID}
	r.s.balances[k] = r.s.balances[k].Add(delta)
	return nil
}

func (r *stockRepo) WithdrawIfAvailable(_ context.Context, productID, locationID string, qty decimal.Decimal) (bool, error) {
	k := pairKey{productID, locationID}
	current := r.s.balances[k]
	if current.LessThan(qty) {
		return false, nil
	}
	r.s.balances[k] = current.Sub(qty)
	return true, nil
}

func (r *stockRepo) ListAtLocation(_ context.Context, locationID string) ([]repository.LocationStock, error) {
	var list []repository.LocationStock
	for k, qty := range r.s.balances {
		if k.locationID != locationID || !qty.IsPositive() {
			continue
		}
		p := r.s.products[k.productID]
		list = append(list, repository.LocationStock{
			ProductID:   k.productID,
			SKU:         p.SKU,
			ProductName: p.Name,
			Category:    p.Category,
			Unit:        p.Unit,
			Quantity:    qty,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductName < list[j].ProductName })
	return list, nil
}

func (r *stockRepo) ListBelowMinimum(_ context.Context, locationID string) ([]repository.LowStockItem, error) {
	totals := map[string]decimal.Decimal{}
	for k, qty := range r.s.balances {
		if locationID != "" && k.locationID != locationID {
			continue
		}
		totals[k.productID] = totals[k.productID].Add(qty)
	}
	var list []repository.LowStockItem
	for _, p := range r.s.products {
		if !p.Active || !p.MinimumStock.IsPositive() {
			continue
		}
		current := totals[p.ID]
		if current.GreaterThanOrEqual(p.MinimumStock) {
			continue
		}
		list = append(list, repository.LowStockItem{
			ProductID:    p.ID,
			SKU:          p.SKU,
			ProductName:  p.Name,
			Unit:         p.Unit,
			CurrentStock: current,
			MinimumStock: p.MinimumStock,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		di := list[i].MinimumStock.Sub(list[i].CurrentStock)
		dj := list[j].MinimumStock.Sub(list[j].CurrentStock)
		return di.GreaterThan(dj)
	})
	return list, nil
}

func (r *stockRepo) VerifyConservation(_ context.Context) ([]repository.ConservationMismatch, error) {
	sums := map[pairKey]decimal.Decimal{}
	for _, t := range r.s.journal {
		k := pairKey{t.ProductID, t.LocationID}
		sums[k] = sums[k].Add(t.Quantity)
	}
	seen := map[pairKey]bool{}
	var out []repository.ConservationMismatch
	for k, bal := range r.s.balances {
		seen[k] = true
		if !bal.Equal(sums[k]) {
			out = append(out, repository.ConservationMismatch{
				ProductID:  k.productID,
				LocationID: k.locationID,
				Balance:    bal,
				JournalSum: sums[k],
			})
		}
	}
	for k, sum := range sums {
		if !seen[k] && !sum.IsZero() {
			out = append(out, repository.ConservationMismatch{
				ProductID:  k.productID,
				LocationID: k.locationID,
				JournalSum: sum,
			})
		}
	}
	return out, nil
}

type journalRepo struct{ s *Store }

func (r *journalRepo) Create(_ context.Context, t *entity.Transaction) error {
	cp := *t
	r.s.journal = append(r.s.journal, &cp)
	return nil
}

func (r *journalRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	for _, t := range r.s.journal {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *journalRepo) Query(_ context.Context, f repository.TransactionFilter) ([]repository.JournalRow, error) {
	var rows []repository.JournalRow
	for _, t := range r.s.journal {
		if f.From != nil && t.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && t.Date.After(*f.To) {
			continue
		}
		if f.ProductID != "" && t.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && t.LocationID != f.LocationID {
			continue
		}
		if f.ProjectID != "" && (t.ProjectID == nil || *t.ProjectID != f.ProjectID) {
			continue
		}
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		row := r.rowFor(t)
		if f.SearchText != "" && !rowMatches(row, f.SearchText) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return paginate(rows, f.Limit, f.Offset), nil
}

func (r *journalRepo) rowFor(t *entity.Transaction) repository.JournalRow {
	row := repository.JournalRow{
		ID:         t.ID,
		BatchID:    t.BatchID,
		ProductID:  t.ProductID,
		LocationID: t.LocationID,
		ProjectID:  t.ProjectID,
		UserID:     t.UserID,
		Type:       t.Type,
		Quantity:   t.Quantity,
		Notes:      t.Notes,
		ReversalOf: t.ReversalOf,
		Date:       t.Date,
		CreatedAt:  t.CreatedAt,
	}
	if p, ok := r.s.products[t.ProductID]; ok {
		row.ProductSKU = p.SKU
		row.ProductName = p.Name
		row.Category = p.Category
		row.Unit = p.Unit
	}
	if l, ok := r.s.locations[t.LocationID]; ok {
		row.LocationName = l.Name
	}
	if t.ProjectID != nil {
		if pr, ok := r.s.projects[*t.ProjectID]; ok {
			row.ProjectName = pr.Name
		}
	}
	if u, ok := r.s.users[t.UserID]; ok {
		row.UserName = u.Name
	}
	return row
}

func rowMatches(row repository.JournalRow, text string) bool {
	needle := strings.ToLower(text)
	for _, hay := range []string{row.Notes, row.ProductName, row.ProductSKU, row.ProjectName} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

func (r *journalRepo) HasReversal(_ context.Context, id string) (bool, error) {
	for _, t := range r.s.journal {
		if t.ReversalOf != nil && *t.ReversalOf == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *journalRepo) SumForPair(_ context.Context, productID, locationID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.s.journal {
		if t.ProductID == productID && t.LocationID == locationID {
			sum = sum.Add(t.Quantity)
		}
	}
	return sum, nil
}

package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/domain"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

// UseCase answers balance questions from the materialized stock table.
type UseCase struct {
	stockRepo    repository.StockRepository
	locationRepo repository.LocationRepository
}

// NewUseCase builds the ledger use case.
func NewUseCase(stockRepo repository.StockRepository, locationRepo repository.LocationRepository) *UseCase {
	return &UseCase{stockRepo: stockRepo, locationRepo: locationRepo}
}

// Balance returns the current on-hand quantity for one pair (zero when the
// pair has never moved).
func (uc *UseCase) Balance(ctx context.Context, productID, locationID string) (*dto.StockBalanceResponse, error) {
	if productID == "" || locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	balance, err := uc.stockRepo.Get(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	return &dto.StockBalanceResponse{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   balance.Quantity,
	}, nil
}

// BalancesAtLocation returns what is actually present at a location (positive
// balances only, ordered by product name) for the booking pick-list.
func (uc *UseCase) BalancesAtLocation(ctx context.Context, locationID string) ([]dto.LocationStockResponse, error) {
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.stockRepo.ListAtLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationStockResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LocationStockResponse{
			ProductID:   it.ProductID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			Category:    it.Category,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
		})
	}
	return out, nil
}

// ListBelowMinimum returns the products under their minimum stock threshold.
// Empty locationID aggregates over all locations.
func (uc *UseCase) ListBelowMinimum(ctx context.Context, locationID string) ([]dto.LowStockResponse, error) {
	items, err := uc.stockRepo.ListBelowMinimum(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockResponse, 0, len(items))
	for _, it := range items {
		deficit := it.MinimumStock.Sub(it.CurrentStock)
		if deficit.LessThan(decimal.Zero) {
			deficit = decimal.Zero
		}
		out = append(out, dto.LowStockResponse{
			ProductID:    it.ProductID,
			SKU:          it.SKU,
			ProductName:  it.ProductName,
			Unit:         it.Unit,
			CurrentStock: it.CurrentStock,
			MinimumStock: it.MinimumStock,
			Deficit:      deficit,
		})
	}
	return out, nil
}

// VerifyConservation cross-checks every materialized balance against the
// journal sum. A non-empty result is a data-integrity bug, never healed here.
func (uc *UseCase) VerifyConservation(ctx context.Context) ([]repository.ConservationMismatch, error) {
	return uc.stockRepo.VerifyConservation(ctx)
}

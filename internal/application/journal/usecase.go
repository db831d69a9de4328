package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/domain"
	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

// TxRunner executes fn inside one SQL transaction (same contract as the
// booking package; one postgres runner satisfies both).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
	) error) error
}

// UseCase reads the journal and handles administrative corrections. A
// correction never mutates or removes a committed row: it appends a
// compensating entry with the opposite sign and adjusts the balance in the
// same transaction, so conservation keeps holding.
type UseCase struct {
	txRunner TxRunner
	txRepo   repository.TransactionRepository
}

// NewUseCase builds the journal use case. txRepo is pool-bound, for reads.
func NewUseCase(txRunner TxRunner, txRepo repository.TransactionRepository) *UseCase {
	return &UseCase{txRunner: txRunner, txRepo: txRepo}
}

// Query returns journal entries matching the filter, newest first.
func (uc *UseCase) Query(ctx context.Context, filter repository.TransactionFilter) ([]dto.TransactionResponse, error) {
	rows, err := uc.txRepo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toResponse(r))
	}
	return out, nil
}

// Delete reverses the given entries. For every id one compensating entry is
// appended and the affected balance is adjusted; the whole set commits or
// rolls back together. Reversing an in entry is refused when the quantity has
// already left the location, and an entry can only be reversed once.
func (uc *UseCase) Delete(ctx context.Context, in dto.DeleteTransactionsRequest) (*dto.DeleteTransactionsResult, error) {
	if len(in.IDs) == 0 || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	batchID := uuid.New().String()
	reversalIDs := make([]string, 0, len(in.IDs))

	err := uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
	) error {
		for _, id := range in.IDs {
			original, err := txRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if original == nil {
				return domain.ErrNotFound
			}
			if original.ReversalOf != nil {
				// A reversal is itself immutable; undo it by reversing the
				// underlying entry again, not by stacking corrections.
				return domain.ErrConflict
			}
			reversed, err := txRepo.HasReversal(ctx, id)
			if err != nil {
				return err
			}
			if reversed {
				return domain.ErrConflict
			}

			compensation := original.Quantity.Neg()
			if compensation.GreaterThan(decimal.Zero) {
				if err := stockRepo.AddQuantity(ctx, original.ProductID, original.LocationID, compensation); err != nil {
					return err
				}
			} else {
				withdraw := compensation.Neg()
				ok, err := stockRepo.WithdrawIfAvailable(ctx, original.ProductID, original.LocationID, withdraw)
				if err != nil {
					return err
				}
				if !ok {
					balance, err := stockRepo.Get(ctx, original.ProductID, original.LocationID)
					if err != nil {
						return err
					}
					return &domain.InsufficientStockError{Lines: []domain.ShortLine{{
						ProductID:  original.ProductID,
						LocationID: original.LocationID,
						Available:  balance.Quantity,
						Requested:  withdraw,
					}}}
				}
			}

			reversalType := entity.TransactionTypeIn
			if compensation.IsNegative() {
				reversalType = entity.TransactionTypeOut
			}
			reversal := &entity.Transaction{
				ID:         uuid.New().String(),
				BatchID:    batchID,
				ProductID:  original.ProductID,
				LocationID: original.LocationID,
				ProjectID:  original.ProjectID,
				UserID:     in.ActorID,
				Type:       reversalType,
				Quantity:   compensation,
				Notes:      fmt.Sprintf("reversal of %s", original.ID),
				ReversalOf: &original.ID,
				Date:       now,
				CreatedAt:  now,
			}
			if err := txRepo.Create(ctx, reversal); err != nil {
				return err
			}
			reversalIDs = append(reversalIDs, reversal.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.DeleteTransactionsResult{ReversalIDs: reversalIDs}, nil
}

func toResponse(r repository.JournalRow) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:           r.ID,
		BatchID:      r.BatchID,
		ProductID:    r.ProductID,
		ProductSKU:   r.ProductSKU,
		ProductName:  r.ProductName,
		LocationID:   r.LocationID,
		LocationName: r.LocationName,
		ProjectID:    r.ProjectID,
		ProjectName:  r.ProjectName,
		UserID:       r.UserID,
		UserName:     r.UserName,
		Type:         r.Type,
		Quantity:     r.Quantity,
		Notes:        r.Notes,
		ReversalOf:   r.ReversalOf,
		Date:         r.Date,
		CreatedAt:    r.CreatedAt,
	}
}

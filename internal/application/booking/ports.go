package booking

import (
	"context"

	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

// TxRunner executes fn inside one SQL transaction with the journal and stock
// repos bound to it. fn returning an error rolls everything back; a
// serialization failure surfaces as domain.ErrConcurrencyConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
	) error) error
}

package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/domain"
	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

// UseCase books material out against projects, registers receipts and moves
// stock between locations. Every commit writes the journal entries and the
// balance rows in one SQL transaction; the non-negativity guard is the
// conditional decrement in the store, not a client-side compare.
type UseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	projectRepo  repository.ProjectRepository
	userRepo     repository.UserRepository
}

// NewUseCase builds the booking use case.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		projectRepo:  projectRepo,
		userRepo:     userRepo,
	}
}

// resolvedLine is a validated line with its catalog references loaded.
type resolvedLine struct {
	product  *entity.Product
	location *entity.Location
	quantity decimal.Decimal
}

// Book validates every line against the current balances and, only when all
// pass, writes one out entry per line sharing a batch id and timestamp.
// Any shortfall aborts the whole booking and is reported per line; nothing is
// partially applied.
func (uc *UseCase) Book(ctx context.Context, in dto.BookingRequest) (*dto.BookingResult, error) {
	if len(in.Lines) == 0 || in.ProjectID == "" || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || l.LocationID == "" || !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	project, err := uc.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.resolveActor(ctx, in.ActorID); err != nil {
		return nil, err
	}

	lines, err := uc.resolveLines(ctx, mergeLines(in.Lines))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := now
	if in.OccurredAt != nil {
		date = *in.OccurredAt
	}
	batchID := uuid.New().String()
	txIDs := make([]string, 0, len(lines))

	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
	) error {
		// First pass: read every balance so a failed booking reports all
		// shortfalls at once, not just the first one.
		var short []domain.ShortLine
		for _, l := range lines {
			balance, err := stockRepo.Get(ctx, l.product.ID, l.location.ID)
			if err != nil {
				return err
			}
			if balance.Quantity.LessThan(l.quantity) {
				short = append(short, shortLine(l, balance.Quantity))
			}
		}
		if len(short) > 0 {
			return &domain.InsufficientStockError{Lines: short}
		}

		// Second pass: the store-level conditional decrement is the actual
		// guard. A decrement that fails here lost a race after the read
		// above; re-read and abort with the fresh availability.
		for _, l := range lines {
			ok, err := stockRepo.WithdrawIfAvailable(ctx, l.product.ID, l.location.ID, l.quantity)
			if err != nil {
				return err
			}
			if !ok {
				balance, err := stockRepo.Get(ctx, l.product.ID, l.location.ID)
				if err != nil {
					return err
				}
				return &domain.InsufficientStockError{Lines: []domain.ShortLine{shortLine(l, balance.Quantity)}}
			}
		}

		for _, l := range lines {
			tx := &entity.Transaction{
				ID:         uuid.New().String(),
				BatchID:    batchID,
				ProductID:  l.product.ID,
				LocationID: l.location.ID,
				ProjectID:  &in.ProjectID,
				UserID:     in.ActorID,
				Type:       entity.TransactionTypeOut,
				Quantity:   l.quantity.Neg(),
				Notes:      in.Notes,
				Date:       date,
				CreatedAt:  now,
			}
			if err := txRepo.Create(ctx, tx); err != nil {
				return err
			}
			txIDs = append(txIDs, tx.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.BookingResult{BatchID: batchID, TransactionIDs: txIDs, CreatedAt: now}, nil
}

// Receive registers a goods receipt (in) for one pair.
func (uc *UseCase) Receive(ctx context.Context, in dto.ReceiptRequest) (*dto.BookingResult, error) {
	if in.ProductID == "" || in.LocationID == "" || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, location, err := uc.resolvePair(ctx, in.ProductID, in.LocationID)
	if err != nil {
		return nil, err
	}
	if err := uc.resolveActor(ctx, in.ActorID); err != nil {
		return nil, err
	}
	var projectID *string
	if in.ProjectID != "" {
		project, err := uc.projectRepo.GetByID(ctx, in.ProjectID)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, domain.ErrNotFound
		}
		projectID = &in.ProjectID
	}

	now := time.Now()
	batchID := uuid.New().String()
	txID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
	) error {
		if err := stockRepo.AddQuantity(ctx, product.ID, location.ID, in.Quantity); err != nil {
			return err
		}
		return txRepo.Create(ctx, &entity.Transaction{
			ID:         txID,
			BatchID:    batchID,
			ProductID:  product.ID,
			LocationID: location.ID,
			ProjectID:  projectID,
			UserID:     in.ActorID,
			Type:       entity.TransactionTypeIn,
			Quantity:   in.Quantity,
			Notes:      in.Notes,
			Date:       now,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &dto.BookingResult{BatchID: batchID, TransactionIDs: []string{txID}, CreatedAt: now}, nil
}

// Transfer moves a quantity from one location to another: an out at the
// origin (guarded, same as a booking) and an in at the destination, two
// journal entries in one batch.
func (uc *UseCase) Transfer(ctx context.Context, in dto.TransferRequest) (*dto.BookingResult, error) {
	if in.ProductID == "" || in.FromLocationID == "" || in.ToLocationID == "" || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, origin, err := uc.resolvePair(ctx, in.ProductID, in.FromLocationID)
	if err != nil {
		return nil, err
	}
	if err := uc.resolveActor(ctx, in.ActorID); err != nil {
		return nil, err
	}
	dest, err := uc.locationRepo.GetByID(ctx, in.ToLocationID)
	if err != nil {
		return nil, err
	}
	if dest == nil || !dest.Active {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	batchID := uuid.New().String()
	outID := uuid.New().String()
	inID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
	) error {
		ok, err := stockRepo.WithdrawIfAvailable(ctx, product.ID, origin.ID, in.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			balance, err := stockRepo.Get(ctx, product.ID, origin.ID)
			if err != nil {
				return err
			}
			return &domain.InsufficientStockError{Lines: []domain.ShortLine{{
				ProductID:    product.ID,
				ProductName:  product.Name,
				LocationID:   origin.ID,
				LocationName: origin.Name,
				Available:    balance.Quantity,
				Requested:    in.Quantity,
			}}}
		}
		if err := stockRepo.AddQuantity(ctx, product.ID, dest.ID, in.Quantity); err != nil {
			return err
		}
		outTx := &entity.Transaction{
			ID:         outID,
			BatchID:    batchID,
			ProductID:  product.ID,
			LocationID: origin.ID,
			UserID:     in.ActorID,
			Type:       entity.TransactionTypeOut,
			Quantity:   in.Quantity.Neg(),
			Notes:      in.Notes,
			Date:       now,
			CreatedAt:  now,
		}
		if err := txRepo.Create(ctx, outTx); err != nil {
			return err
		}
		return txRepo.Create(ctx, &entity.Transaction{
			ID:         inID,
			BatchID:    batchID,
			ProductID:  product.ID,
			LocationID: dest.ID,
			UserID:     in.ActorID,
			Type:       entity.TransactionTypeIn,
			Quantity:   in.Quantity,
			Notes:      in.Notes,
			Date:       now,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &dto.BookingResult{BatchID: batchID, TransactionIDs: []string{outID, inID}, CreatedAt: now}, nil
}

// resolveActor checks the actor id against the user reference table: journal
// entries must always attribute to a known user.
func (uc *UseCase) resolveActor(ctx context.Context, actorID string) error {
	user, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *UseCase) resolvePair(ctx context.Context, productID, locationID string) (*entity.Product, *entity.Location, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil || !product.Active {
		return nil, nil, domain.ErrNotFound
	}
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}
	if location == nil || !location.Active {
		return nil, nil, domain.ErrNotFound
	}
	return product, location, nil
}

func (uc *UseCase) resolveLines(ctx context.Context, lines []dto.BookingLineRequest) ([]resolvedLine, error) {
	resolved := make([]resolvedLine, 0, len(lines))
	for _, l := range lines {
		product, location, err := uc.resolvePair(ctx, l.ProductID, l.LocationID)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedLine{product: product, location: location, quantity: l.Quantity})
	}
	return resolved, nil
}

// mergeLines sums duplicate (product, location) lines before validation: two
// lines that each fit individually could jointly oversell. Keeps first-seen order.
func mergeLines(lines []dto.BookingLineRequest) []dto.BookingLineRequest {
	index := make(map[[2]string]int, len(lines))
	merged := make([]dto.BookingLineRequest, 0, len(lines))
	for _, l := range lines {
		key := [2]string{l.ProductID, l.LocationID}
		if i, ok := index[key]; ok {
			merged[i].Quantity = merged[i].Quantity.Add(l.Quantity)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, l)
	}
	return merged
}

func shortLine(l resolvedLine, available decimal.Decimal) domain.ShortLine {
	return domain.ShortLine{
		ProductID:    l.product.ID,
		ProductName:  l.product.Name,
		LocationID:   l.location.ID,
		LocationName: l.location.Name,
		Available:    available,
		Requested:    l.quantity,
	}
}

package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bouwadmin/voorraad-api/internal/application/apptest"
	"github.com/bouwadmin/voorraad-api/internal/application/booking"
	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/domain"
	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
)

const (
	cementID    = "11111111-1111-1111-1111-111111111111"
	sealantID   = "22222222-2222-2222-2222-222222222222"
	warehouseID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	busID       = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	projectID   = "cccccccc-cccc-cccc-cccc-cccccccccccc"
	actorID     = "dddddddd-dddd-dddd-dddd-dddddddddddd"
)

func newFixture(t *testing.T) (*apptest.Store, *booking.UseCase) {
	t.Helper()
	store := apptest.NewStore()
	store.AddProduct(&entity.Product{ID: cementID, SKU: "CEM-25KG", Name: "Cement 25kg", Unit: "zak", Active: true})
	store.AddProduct(&entity.Product{ID: sealantID, SKU: "AFD-FOL-45", Name: "Afdichtingsfolie 45cm", Unit: "rol", Active: true})
	store.AddLocation(&entity.Location{ID: warehouseID, Name: "Magazijn Moordrecht", Type: entity.LocationTypeWarehouse, Active: true})
	store.AddLocation(&entity.Location{ID: busID, Name: "Bus 14", Type: entity.LocationTypeVehicle, Active: true})
	store.AddProject(&entity.Project{ID: projectID, Name: "Renovatie Dorpsstraat", Active: true})
	store.AddUser(&entity.UserRef{ID: actorID, Name: "J. de Vries"})
	uc := booking.NewUseCase(store.TxRunner(), store.Products(), store.Locations(), store.Projects(), store.Users())
	return store, uc
}

// receive seeds stock through the use case so the journal stays consistent
// with the balances.
func receive(t *testing.T, uc *booking.UseCase, productID, locationID string, qty int64) {
	t.Helper()
	_, err := uc.Receive(context.Background(), dto.ReceiptRequest{
		ProductID:  productID,
		LocationID: locationID,
		ActorID:    actorID,
		Quantity:   decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
}

func bookLine(productID, locationID string, qty int64) dto.BookingRequest {
	return dto.BookingRequest{
		ProjectID: projectID,
		ActorID:   actorID,
		Lines: []dto.BookingLineRequest{
			{ProductID: productID, LocationID: locationID, Quantity: decimal.NewFromInt(qty)},
		},
	}
}

func TestBook(t *testing.T) {
	t.Run("happy path decrements balance and appends one out entry", func(t *testing.T) {
		store, uc := newFixture(t)
		receive(t, uc, cementID, warehouseID, 10)

		result, err := uc.Book(context.Background(), bookLine(cementID, warehouseID, 3))
		require.NoError(t, err)
		require.NotEmpty(t, result.BatchID)
		require.Len(t, result.TransactionIDs, 1)

		assert.True(t, store.Balance(cementID, warehouseID).Equal(decimal.NewFromInt(7)))

		journal := store.Journal()
		require.Len(t, journal, 2) // receipt + booking
		out := journal[1]
		assert.Equal(t, entity.TransactionTypeOut, out.Type)
		assert.True(t, out.Quantity.Equal(decimal.NewFromInt(-3)))
		require.NotNil(t, out.ProjectID)
		assert.Equal(t, projectID, *out.ProjectID)
		assert.Equal(t, result.BatchID, out.BatchID)
	})

	t.Run("shortfall reports available and requested", func(t *testing.T) {
		store, uc := newFixture(t)
		receive(t, uc, cementID, warehouseID, 7)

		_, err := uc.Book(context.Background(), bookLine(cementID, warehouseID, 8))
		require.Error(t, err)
		require.True(t, errors.Is(err, domain.ErrInsufficientStock))

		var insufficient *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		require.Len(t, insufficient.Lines, 1)
		line := insufficient.Lines[0]
		assert.Equal(t, "Cement 25kg", line.ProductName)
		assert.Equal(t, "Magazijn Moordrecht", line.LocationName)
		assert.True(t, line.Available.Equal(decimal.NewFromInt(7)))
		assert.True(t, line.Requested.Equal(decimal.NewFromInt(8)))

		// Nothing committed.
		assert.True(t, store.Balance(cementID, warehouseID).Equal(decimal.NewFromInt(7)))
		assert.Len(t, store.Journal(), 1)
	})

	t.Run("multi line booking is atomic", func(t *testing.T) {
		store, uc := newFixture(t)
		receive(t, uc, cementID, warehouseID, 10)
		receive(t, uc, sealantID, warehouseID, 2)

		_, err := uc.Book(context.Background(), dto.BookingRequest{
			ProjectID: projectID,
			ActorID:   actorID,
			Lines: []dto.BookingLineRequest{
				{ProductID: cementID, LocationID: warehouseID, Quantity: decimal.NewFromInt(5)},
				{ProductID: sealantID, LocationID: warehouseID, Quantity: decimal.NewFromInt(3)},
			},
		})
		require.Error(t, err)

		var insufficient *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		require.Len(t, insufficient.Lines, 1)
		assert.Equal(t, "Afdichtingsfolie 45cm", insufficient.Lines[0].ProductName)
		assert.True(t, insufficient.Lines[0].Available.Equal(decimal.NewFromInt(2)))
		assert.True(t, insufficient.Lines[0].Requested.Equal(decimal.NewFromInt(3)))

		// The cement line must not have been applied either.
		assert.True(t, store.Balance(cementID, warehouseID).Equal(decimal.NewFromInt(10)))
		assert.True(t, store.Balance(sealantID, warehouseID).Equal(decimal.NewFromInt(2)))
		assert.Len(t, store.Journal(), 2)
	})

	t.Run("multi line reports every shortfall at once", func(t *testing.T) {
		_, uc := newFixture(t)
		receive(t, uc, cementID, warehouseID, 1)
		receive(t, uc, sealantID, warehouseID, 1)

		_, err := uc.Book(context.Background(), dto.BookingRequest{
			ProjectID: projectID,
			ActorID:   actorID,
			Lines: []dto.BookingLineRequest{
				{ProductID: cementID, LocationID: warehouseID, Quantity: decimal.NewFromInt(4)},
				{ProductID: sealantID, LocationID: warehouseID, Quantity: decimal.NewFromInt(2)},
			},
		})
		var insufficient *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Len(t, insufficient.Lines, 2)
	})

	t.Run("duplicate lines are merged before the stock check", func(t *testing.T) {
		store, uc := newFixture(t)
		receive(t, uc, cementID, warehouseID, 5)

		// Two lines of 3 each fit individually but jointly oversell.
		_, err := uc.Book(context.Background(), dto.BookingRequest{
			ProjectID: projectID,
			ActorID:   actorID,
			Lines: []dto.BookingLineRequest{
				{ProductID: cementID, LocationID: warehouseID, Quantity: decimal.NewFromInt(3)},
				{ProductID: cementID, LocationID: warehouseID, Quantity: decimal.NewFromInt(3)},
			},
		})
		var insufficient *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		require.Len(t, insufficient.Lines, 1)
		assert.True(t, insufficient.Lines[0].Requested.Equal(decimal.NewFromInt(6)))

		// With enough stock the merged pair becomes one journal entry.
		receive(t, uc, cementID, warehouseID, 1)
		result, err := uc.Book(context.Background(), dto.BookingRequest{
			ProjectID: projectID,
			ActorID:   actorID,
			Lines: []dto.BookingLineRequest{
				{ProductID: cementID, LocationID: warehouseID, Quantity: decimal.NewFromInt(3)},
				{ProductID: cementID, LocationID: warehouseID, Quantity: decimal.NewFromInt(3)},
			},
		})
		require.NoError(t, err)
		require.Len(t, result.TransactionIDs, 1)
		assert.True(t, store.Balance(cementID, warehouseID).IsZero())
	})

	t.Run("validation", func(t *testing.T) {
		_, uc := newFixture(t)
		ctx := context.Background()

		cases := map[string]dto.BookingRequest{
			"no lines":         {ProjectID: projectID, ActorID: actorID},
			"missing project":  {ActorID: actorID, Lines: bookLine(cementID, warehouseID, 1).Lines},
			"missing actor":    {ProjectID: projectID, Lines: bookLine(cementID, warehouseID, 1).Lines},
			"zero quantity":    bookLine(cementID, warehouseID, 0),
			"missing location": {ProjectID: projectID, ActorID: actorID, Lines: []dto.BookingLineRequest{{ProductID: cementID, Quantity: decimal.NewFromInt(1)}}},
		}
		for name, req := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := uc.Book(ctx, req)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			})
		}

		negative := bookLine(cementID, warehouseID, 1)
		negative.Lines[0].Quantity = decimal.NewFromInt(-2)
		_, err := uc.Book(ctx, negative)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown references", func(t *testing.T) {
		_, uc := newFixture(t)
		ctx := context.Background()

		req := bookLine(cementID, warehouseID, 1)
		req.ProjectID = "00000000-0000-0000-0000-000000000000"
		_, err := uc.Book(ctx, req)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = uc.Book(ctx, bookLine("00000000-0000-0000-0000-000000000000", warehouseID, 1))
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = uc.Book(ctx, bookLine(cementID, "00000000-0000-0000-0000-000000000000", 1))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown actor is rejected", func(t *testing.T) {
		store, uc := newFixture(t)
		receive(t, uc, cementID, warehouseID, 10)

		req := bookLine(cementID, warehouseID, 1)
		req.ActorID = "00000000-0000-0000-0000-000000000000"
		_, err := uc.Book(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = uc.Receive(context.Background(), dto.ReceiptRequest{
			ProductID:  cementID,
			LocationID: warehouseID,
			ActorID:    "00000000-0000-0000-0000-000000000000",
			Quantity:   decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = uc.Transfer(context.Background(), dto.TransferRequest{
			ProductID:      cementID,
			FromLocationID: warehouseID,
			ToLocationID:   busID,
			ActorID:        "00000000-0000-0000-0000-000000000000",
			Quantity:       decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		// No journal entry was appended for any rejected attribution.
		assert.Len(t, store.Journal(), 1)
		assert.True(t, store.Balance(cementID, warehouseID).Equal(decimal.NewFromInt(10)))
	})

	t.Run("inactive product is rejected", func(t *testing.T) {
		store, uc := newFixture(t)
		receive(t, uc, cementID, warehouseID, 10)
		require.NoError(t, store.Products().SetActive(context.Background(), cementID, false))

		_, err := uc.Book(context.Background(), bookLine(cementID, warehouseID, 1))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// Two bookings racing for the same 10 units: 3 + 8 oversell, so exactly one
// must commit and the loser must see the fresh availability.
func TestBook_ConcurrentOversell(t *testing.T) {
	store, uc := newFixture(t)
	receive(t, uc, cementID, warehouseID, 10)

	quantities := []int64{3, 8}
	errs := make([]error, len(quantities))
	var wg sync.WaitGroup
	for i, qty := range quantities {
		wg.Add(1)
		go func(i int, qty int64) {
			defer wg.Done()
			_, errs[i] = uc.Book(context.Background(), bookLine(cementID, warehouseID, qty))
		}(i, qty)
	}
	wg.Wait()

	var booked int64
	failures := 0
	for i, err := range errs {
		if err == nil {
			booked += quantities[i]
			continue
		}
		failures++
		var insufficient *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		require.Len(t, insufficient.Lines, 1)
		line := insufficient.Lines[0]
		// The reported availability is what the winner left behind.
		assert.True(t, line.Available.Equal(store.Balance(cementID, warehouseID)))
		assert.True(t, line.Requested.Equal(decimal.NewFromInt(quantities[i])))
	}
	require.Equal(t, 1, failures, "exactly one of the two bookings must fail")

	assert.True(t, store.Balance(cementID, warehouseID).Equal(decimal.NewFromInt(10-booked)))
	assert.False(t, store.Balance(cementID, warehouseID).IsNegative())

	mismatches, err := store.Stock().VerifyConservation(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestReceive(t *testing.T) {
	t.Run("upserts the balance and appends an in entry", func(t *testing.T) {
		store, uc := newFixture(t)

		result, err := uc.Receive(context.Background(), dto.ReceiptRequest{
			ProductID:  cementID,
			LocationID: warehouseID,
			ActorID:    actorID,
			Quantity:   decimal.NewFromInt(10),
			Notes:      "levering Bouwmaat",
		})
		require.NoError(t, err)
		require.Len(t, result.TransactionIDs, 1)

		assert.True(t, store.Balance(cementID, warehouseID).Equal(decimal.NewFromInt(10)))
		journal := store.Journal()
		require.Len(t, journal, 1)
		assert.Equal(t, entity.TransactionTypeIn, journal[0].Type)
		assert.True(t, journal[0].Quantity.Equal(decimal.NewFromInt(10)))
		assert.Nil(t, journal[0].ProjectID)
	})

	t.Run("optional project attribution", func(t *testing.T) {
		store, uc := newFixture(t)
		_, err := uc.Receive(context.Background(), dto.ReceiptRequest{
			ProductID:  cementID,
			LocationID: warehouseID,
			ActorID:    actorID,
			Quantity:   decimal.NewFromInt(2),
			ProjectID:  projectID,
		})
		require.NoError(t, err)
		journal := store.Journal()
		require.NotNil(t, journal[0].ProjectID)
		assert.Equal(t, projectID, *journal[0].ProjectID)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, uc := newFixture(t)
		_, err := uc.Receive(context.Background(), dto.ReceiptRequest{
			ProductID:  cementID,
			LocationID: warehouseID,
			ActorID:    actorID,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestTransfer(t *testing.T) {
	t.Run("moves stock and writes two entries in one batch", func(t *testing.T) {
		store, uc := newFixture(t)
		receive(t, uc, cementID, warehouseID, 10)

		result, err := uc.Transfer(context.Background(), dto.TransferRequest{
			ProductID:      cementID,
			FromLocationID: warehouseID,
			ToLocationID:   busID,
			ActorID:        actorID,
			Quantity:       decimal.NewFromInt(4),
		})
		require.NoError(t, err)
		require.Len(t, result.TransactionIDs, 2)

		assert.True(t, store.Balance(cementID, warehouseID).Equal(decimal.NewFromInt(6)))
		assert.True(t, store.Balance(cementID, busID).Equal(decimal.NewFromInt(4)))

		journal := store.Journal()
		require.Len(t, journal, 3)
		out, in := journal[1], journal[2]
		assert.Equal(t, out.BatchID, in.BatchID)
		assert.True(t, out.Quantity.Equal(decimal.NewFromInt(-4)))
		assert.True(t, in.Quantity.Equal(decimal.NewFromInt(4)))
		assert.Equal(t, warehouseID, out.LocationID)
		assert.Equal(t, busID, in.LocationID)
	})

	t.Run("guards the origin balance", func(t *testing.T) {
		store, uc := newFixture(t)
		receive(t, uc, cementID, warehouseID, 2)

		_, err := uc.Transfer(context.Background(), dto.TransferRequest{
			ProductID:      cementID,
			FromLocationID: warehouseID,
			ToLocationID:   busID,
			ActorID:        actorID,
			Quantity:       decimal.NewFromInt(3),
		})
		var insufficient *domain.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.True(t, insufficient.Lines[0].Available.Equal(decimal.NewFromInt(2)))

		assert.True(t, store.Balance(cementID, warehouseID).Equal(decimal.NewFromInt(2)))
		assert.True(t, store.Balance(cementID, busID).IsZero())
	})

	t.Run("rejects same origin and destination", func(t *testing.T) {
		_, uc := newFixture(t)
		_, err := uc.Transfer(context.Background(), dto.TransferRequest{
			ProductID:      cementID,
			FromLocationID: warehouseID,
			ToLocationID:   warehouseID,
			ActorID:        actorID,
			Quantity:       decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// Conservation: after any sequence of receipts, bookings and transfers every
// materialized balance equals the journal sum for its pair.
func TestConservationAfterMixedOperations(t *testing.T) {
	store, uc := newFixture(t)
	ctx := context.Background()

	receive(t, uc, cementID, warehouseID, 20)
	receive(t, uc, sealantID, warehouseID, 5)

	_, err := uc.Book(ctx, bookLine(cementID, warehouseID, 6))
	require.NoError(t, err)
	_, err = uc.Transfer(ctx, dto.TransferRequest{
		ProductID:      cementID,
		FromLocationID: warehouseID,
		ToLocationID:   busID,
		ActorID:        actorID,
		Quantity:       decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	_, err = uc.Book(ctx, bookLine(cementID, busID, 2))
	require.NoError(t, err)
	// A failed booking must not disturb conservation.
	_, err = uc.Book(ctx, bookLine(sealantID, warehouseID, 50))
	require.Error(t, err)

	mismatches, err := store.Stock().VerifyConservation(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)

	sum, err := store.Transactions().SumForPair(ctx, cementID, warehouseID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(store.Balance(cementID, warehouseID)))
	assert.True(t, store.Balance(cementID, warehouseID).Equal(decimal.NewFromInt(9)))
	assert.True(t, store.Balance(cementID, busID).Equal(decimal.NewFromInt(3)))
}

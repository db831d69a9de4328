package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bouwadmin/voorraad-api/internal/application/apptest"
	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/application/export"
	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
	apihttp "github.com/bouwadmin/voorraad-api/internal/interfaces/http"
)

// failingJournal fails the read path, standing in for a database outage.
type failingJournal struct{}

func (failingJournal) Create(context.Context, *entity.Transaction) error { return nil }

func (failingJournal) GetByID(context.Context, string) (*entity.Transaction, error) {
	return nil, nil
}

func (failingJournal) Query(context.Context, repository.TransactionFilter) ([]repository.JournalRow, error) {
	return nil, errors.New("connection reset")
}

func (failingJournal) HasReversal(context.Context, string) (bool, error) { return false, nil }

func (failingJournal) SumForPair(context.Context, string, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func newExportApp(uc *export.UseCase) *fiber.App {
	app := fiber.New()
	app.Get("/api/export", apihttp.NewExportHandler(uc).Export)
	return app
}

func TestExportHandler(t *testing.T) {
	t.Run("streams a CSV attachment", func(t *testing.T) {
		store := apptest.NewStore()
		store.AddProduct(&entity.Product{ID: "p1", SKU: "CEM-25KG", Name: "Cement 25kg", Unit: "zak", Active: true})
		store.AddLocation(&entity.Location{ID: "l1", Name: "Magazijn Moordrecht", Active: true})
		store.AddUser(&entity.UserRef{ID: "u1", Name: "J. de Vries"})
		require.NoError(t, store.Transactions().Create(context.Background(), &entity.Transaction{
			ID:         "t1",
			BatchID:    "b1",
			ProductID:  "p1",
			LocationID: "l1",
			UserID:     "u1",
			Type:       entity.TransactionTypeOut,
			Quantity:   decimal.RequireFromString("-2.5"),
			Date:       time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			CreatedAt:  time.Now(),
		}))
		uc := export.NewUseCase(store.Transactions(), export.Options{Separator: ';', DecimalComma: true})
		app := newExportApp(uc)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/export", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "\xef\xbb\xbf"))
		assert.Contains(t, string(body), "-2,5")
	})

	t.Run("a failed query returns a clean JSON error, no partial CSV", func(t *testing.T) {
		uc := export.NewUseCase(failingJournal{}, export.Options{})
		app := newExportApp(uc)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/export", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.NotContains(t, resp.Header.Get(fiber.HeaderContentType), "csv")
		assert.Empty(t, resp.Header.Get(fiber.HeaderContentDisposition))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var payload dto.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &payload), "body must be the JSON error alone")
		assert.Equal(t, "INTERNAL", payload.Code)
	})

	t.Run("invalid date range is rejected before querying", func(t *testing.T) {
		uc := export.NewUseCase(failingJournal{}, export.Options{})
		app := newExportApp(uc)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/export?from=15-03-2025", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

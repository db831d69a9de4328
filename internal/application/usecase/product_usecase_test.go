package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bouwadmin/voorraad-api/internal/application/apptest"
	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/application/usecase"
	"github.com/bouwadmin/voorraad-api/internal/domain"
)

func TestProductCreate(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()

	t.Run("creates an active product", func(t *testing.T) {
		out, err := uc.Create(ctx, dto.CreateProductRequest{
			SKU:          "CEM-25KG",
			Name:         "Cement 25kg",
			Unit:         "zak",
			Category:     "Bouwmaterialen",
			MinimumStock: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, out.ID)
		assert.True(t, out.Active)
		assert.Equal(t, "CEM-25KG", out.SKU)
	})

	t.Run("rejects a duplicate SKU", func(t *testing.T) {
		_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "CEM-25KG", Name: "Ander cement", Unit: "zak"})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("rejects a duplicate EAN", func(t *testing.T) {
		ean := "8711234567890"
		_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "KIT-310", Name: "Kit 310ml", Unit: "koker", EAN: &ean})
		require.NoError(t, err)
		_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "KIT-600", Name: "Kit 600ml", Unit: "worst", EAN: &ean})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Naamloos", Unit: "stuks"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "NEG-1", Name: "Negatief", Unit: "stuks", MinimumStock: decimal.NewFromInt(-1)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestProductUpdate(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "TGL-30x60", Name: "Tegel 30x60", Unit: "m2"})
	require.NoError(t, err)

	t.Run("partial update keeps the rest", func(t *testing.T) {
		name := "Tegel 30x60 antraciet"
		out, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, out.Name)
		assert.Equal(t, "TGL-30x60", out.SKU)
		assert.Equal(t, "m2", out.Unit)
	})

	t.Run("unknown id", func(t *testing.T) {
		name := "x"
		_, err := uc.Update(ctx, "00000000-0000-0000-0000-000000000000", dto.UpdateProductRequest{Name: &name})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("negative minimum is invalid", func(t *testing.T) {
		neg := decimal.NewFromInt(-3)
		_, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{MinimumStock: &neg})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestProductDeactivate(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewProductUseCase(store.Products())
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "ZND-M3", Name: "Zand", Unit: "m3"})
	require.NoError(t, err)
	require.NoError(t, uc.Deactivate(ctx, created.ID))

	out, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, out.Active)
}

package repository

import (
	"context"

	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
)

// ProductRepository persists catalog products. Lookups return (nil, nil) when
// the product does not exist.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	GetByEAN(ctx context.Context, ean string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	SetActive(ctx context.Context, id string, active bool) error
}

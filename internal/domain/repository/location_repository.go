package repository

import (
	"context"

	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
)

// LocationRepository persists stock locations.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	Update(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	// SearchByName matches active locations on a partial, case-insensitive name.
	SearchByName(ctx context.Context, name string) ([]*entity.Location, error)
	ListActive(ctx context.Context) ([]*entity.Location, error)
	SetActive(ctx context.Context, id string, active bool) error
}

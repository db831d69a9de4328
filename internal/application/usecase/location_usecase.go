package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/domain"
	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

// LocationUseCase catalog CRUD for stock locations.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase builds the use case.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create creates a location.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" || in.Type == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Type:         in.Type,
		LicensePlate: in.LicensePlate,
		Description:  in.Description,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID returns a location.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(location), nil
}

// Update edits location attributes.
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		location.Name = *in.Name
	}
	if in.Type != nil {
		location.Type = *in.Type
	}
	if in.LicensePlate != nil {
		location.LicensePlate = in.LicensePlate
	}
	if in.Description != nil {
		location.Description = *in.Description
	}
	location.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// ListActive lists the locations available for booking and browsing.
func (uc *LocationUseCase) ListActive(ctx context.Context) ([]dto.LocationResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return items, nil
}

// Deactivate soft-disables a location.
func (uc *LocationUseCase) Deactivate(ctx context.Context, id string) error {
	return uc.repo.SetActive(ctx, id, false)
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:           l.ID,
		Name:         l.Name,
		Type:         l.Type,
		LicensePlate: l.LicensePlate,
		Description:  l.Description,
		Active:       l.Active,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

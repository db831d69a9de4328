package usecase

import (
	"context"

	"github.com/bouwadmin/voorraad-api/internal/application/dto"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

// ProjectUseCase read-only view on the project references. The projects
// collaborator owns the data; the ledger only lists them for attribution.
type ProjectUseCase struct {
	repo repository.ProjectRepository
}

// NewProjectUseCase builds the use case.
func NewProjectUseCase(repo repository.ProjectRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo}
}

// ListActive lists projects a booking can be attributed to.
func (uc *ProjectUseCase) ListActive(ctx context.Context) ([]dto.ProjectResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ProjectResponse{ID: p.ID, Name: p.Name})
	}
	return items, nil
}

package repository

import (
	"context"

	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
)

// ProjectRepository reads the project references owned by the projects
// collaborator. Read path only.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	// SearchByName matches active projects on a partial, case-insensitive name.
	SearchByName(ctx context.Context, name string) ([]*entity.Project, error)
	ListActive(ctx context.Context) ([]*entity.Project, error)
}

// UserRepository reads actor references owned by user management. Read path only.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.UserRef, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bouwadmin/voorraad-api/internal/domain/entity"
	"github.com/bouwadmin/voorraad-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)
var _ repository.UserRepository = (*UserRepo)(nil)

// ProjectRepo read-only view on the projects reference table (owned by the
// projects collaborator, synced outside this service).
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository builds the adapter.
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	var p entity.Project
	err := r.q.QueryRow(ctx, `SELECT id, name, active FROM projects WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepo) SearchByName(ctx context.Context, name string) ([]*entity.Project, error) {
	query := `
		SELECT id, name, active FROM projects
		WHERE active AND name ILIKE '%' || $1 || '%'
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("search projects: %w", err)
	}
	defer rows.Close()
	var list []*entity.Project
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Active); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *ProjectRepo) ListActive(ctx context.Context) ([]*entity.Project, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, active FROM projects WHERE active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list active projects: %w", err)
	}
	defer rows.Close()
	var list []*entity.Project
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Active); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// UserRepo read-only view on the users reference table.
type UserRepo struct {
	q Querier
}

// NewUserRepository builds the adapter.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.UserRef, error) {
	var u entity.UserRef
	err := r.q.QueryRow(ctx, `SELECT id, name FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

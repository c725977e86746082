package repository

import (
	"context"

	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
)

// Repository is the catalog store. A missing record is reported as a nil
// project with a nil error; errors are reserved for backend failures.
type Repository interface {
	List(ctx context.Context) ([]*catalog.Project, error)
	Get(ctx context.Context, id int64) (*catalog.Project, error)
	ListByCategory(ctx context.Context, category string) ([]*catalog.Project, error)
	Create(ctx context.Context, in catalog.Input) (*catalog.Project, error)
	Update(ctx context.Context, id int64, patch catalog.Patch) (*catalog.Project, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Seeder installs fully formed records, keeping their ids and timestamps.
type Seeder interface {
	Seed(ctx context.Context, projects []*catalog.Project) error
}

// Seed installs projects into an empty repository and reports how many were
// added. Backends that cannot preserve ids fall back to Create.
func Seed(ctx context.Context, repo Repository, projects []*catalog.Project) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	if s, ok := repo.(Seeder); ok {
		if err := s.Seed(ctx, projects); err != nil {
			return 0, err
		}
		return len(projects), nil
	}
	for i, p := range projects {
		if _, err := repo.Create(ctx, catalog.InputOf(p)); err != nil {
			return i, err
		}
	}
	return len(projects), nil
}

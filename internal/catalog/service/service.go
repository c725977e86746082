package service

import (
	"context"
	"fmt"

	"github.com/toyfactory/toyfactory/backend/go-services/internal/assets"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog/repository"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/logger"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/metrics"
)

var log = logger.Named("catalog")

// Service defines the catalog operations used by the handler layer. Lookups
// of a missing project return a nil project and a nil error.
type Service interface {
	List(ctx context.Context) ([]*catalog.Project, error)
	Get(ctx context.Context, id int64) (*catalog.Project, error)
	ListByCategory(ctx context.Context, category string) ([]*catalog.Project, error)
	Query(ctx context.Context, q catalog.Query) ([]*catalog.Project, error)
	Create(ctx context.Context, in catalog.Input, upload *assets.Upload) (*catalog.Project, error)
	Update(ctx context.Context, id int64, patch catalog.Patch) (*catalog.Project, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// New composes a catalog store with an asset sink.
func New(repo repository.Repository, sink assets.Sink) Service {
	return &catalogService{repo: repo, sink: sink}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(sink assets.Sink) Service {
	return New(repository.NewMemoryRepo(), sink)
}

type catalogService struct {
	repo repository.Repository
	sink assets.Sink
}

func (s *catalogService) List(ctx context.Context) ([]*catalog.Project, error) {
	return s.repo.List(ctx)
}

func (s *catalogService) Get(ctx context.Context, id int64) (*catalog.Project, error) {
	return s.repo.Get(ctx, id)
}

func (s *catalogService) ListByCategory(ctx context.Context, category string) ([]*catalog.Project, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *catalogService) Query(ctx context.Context, q catalog.Query) ([]*catalog.Project, error) {
	var (
		list []*catalog.Project
		err  error
	)
	if q.HasCategory() {
		list, err = s.repo.ListByCategory(ctx, q.Category)
	} else {
		list, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	return q.Apply(list), nil
}

// Create validates the metadata, stores the upload (if any) as the
// thumbnail, then inserts the record. Nothing is stored when validation
// fails and nothing is created when the asset write fails.
func (s *catalogService) Create(ctx context.Context, in catalog.Input, upload *assets.Upload) (*catalog.Project, error) {
	if err := in.ValidateMetadata(); err != nil {
		return nil, err
	}
	if upload != nil {
		ref, err := s.sink.Store(ctx, upload.Data, upload.Filename)
		if err != nil {
			log.Errorf("store thumbnail %q: %v", upload.Filename, err)
			return nil, err
		}
		in.Thumbnail = ref
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, in)
	if err != nil {
		if upload != nil {
			log.Warnf("thumbnail %s orphaned by failed create", in.Thumbnail)
		}
		return nil, fmt.Errorf("create project: %w", err)
	}
	metrics.ProjectMutations.WithLabelValues("create").Inc()
	log.Infof("created project %d (%s)", p.ID, p.Category)
	return p, nil
}

func (s *catalogService) Update(ctx context.Context, id int64, patch catalog.Patch) (*catalog.Project, error) {
	if verr := patch.Validate(); verr != nil {
		// A missing id wins over a bad payload.
		cur, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			return nil, nil
		}
		return nil, verr
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		log.Errorf("update project %d: %v", id, err)
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	metrics.ProjectMutations.WithLabelValues("update").Inc()
	log.Infof("updated project %d", id)
	return p, nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Errorf("delete project %d: %v", id, err)
		return false, err
	}
	if ok {
		metrics.ProjectMutations.WithLabelValues("delete").Inc()
		log.Infof("deleted project %d", id)
	}
	return ok, nil
}

package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/metrics"
)

// CachedRepo fronts a remote backend with an expiring LRU for single-record
// lookups. Every mutation drops the affected id. Listings always go to the
// backend.
type CachedRepo struct {
	inner Repository
	cache *expirable.LRU[int64, *catalog.Project]

	// gen is bumped by every mutation of an id. A miss only fills the
	// cache if the generation it started with is still current.
	mu  sync.Mutex
	gen map[int64]uint64
}

var _ Repository = (*CachedRepo)(nil)

func NewCachedRepo(inner Repository, size int, ttl time.Duration) *CachedRepo {
	return &CachedRepo{
		inner: inner,
		cache: expirable.NewLRU[int64, *catalog.Project](size, nil, ttl),
		gen:   make(map[int64]uint64),
	}
}

func (c *CachedRepo) List(ctx context.Context) ([]*catalog.Project, error) {
	return c.inner.List(ctx)
}

func (c *CachedRepo) ListByCategory(ctx context.Context, category string) ([]*catalog.Project, error) {
	return c.inner.ListByCategory(ctx, category)
}

func (c *CachedRepo) Get(ctx context.Context, id int64) (*catalog.Project, error) {
	if p, ok := c.cache.Get(id); ok {
		metrics.CacheHits.Inc()
		return p.Clone(), nil
	}
	metrics.CacheMisses.Inc()
	c.mu.Lock()
	start := c.gen[id]
	c.mu.Unlock()

	p, err := c.inner.Get(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	c.mu.Lock()
	if c.gen[id] == start {
		c.cache.Add(id, p.Clone())
	}
	c.mu.Unlock()
	return p, nil
}

func (c *CachedRepo) invalidate(id int64) {
	c.mu.Lock()
	c.gen[id]++
	c.cache.Remove(id)
	c.mu.Unlock()
}

func (c *CachedRepo) Create(ctx context.Context, in catalog.Input) (*catalog.Project, error) {
	return c.inner.Create(ctx, in)
}

func (c *CachedRepo) Update(ctx context.Context, id int64, patch catalog.Patch) (*catalog.Project, error) {
	c.invalidate(id)
	p, err := c.inner.Update(ctx, id, patch)
	c.invalidate(id)
	return p, err
}

func (c *CachedRepo) Delete(ctx context.Context, id int64) (bool, error) {
	c.invalidate(id)
	ok, err := c.inner.Delete(ctx, id)
	c.invalidate(id)
	return ok, err
}

// Seed forwards to the backend when it can preserve ids.
func (c *CachedRepo) Seed(ctx context.Context, projects []*catalog.Project) error {
	if s, ok := c.inner.(Seeder); ok {
		c.mu.Lock()
		for _, p := range projects {
			c.gen[p.ID]++
		}
		c.cache.Purge()
		c.mu.Unlock()
		return s.Seed(ctx, projects)
	}
	for _, p := range projects {
		if _, err := c.inner.Create(ctx, catalog.InputOf(p)); err != nil {
			return err
		}
	}
	return nil
}

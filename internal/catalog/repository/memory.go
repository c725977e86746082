package repository

import (
	"context"
	"sync"
	"time"

	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog"
)

// MemoryRepo keeps the catalog in process memory. Records are returned as
// copies, and ids come from a counter that only moves forward.
type MemoryRepo struct {
	mu     sync.RWMutex
	store  map[int64]*catalog.Project
	order  []int64
	nextID int64
	now    func() time.Time
}

var (
	_ Repository = (*MemoryRepo)(nil)
	_ Seeder     = (*MemoryRepo)(nil)
)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		store:  make(map[int64]*catalog.Project),
		nextID: 1,
		now:    time.Now,
	}
}

func (m *MemoryRepo) List(_ context.Context) ([]*catalog.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*catalog.Project, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.store[id].Clone())
	}
	return out, nil
}

func (m *MemoryRepo) Get(_ context.Context, id int64) (*catalog.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		return p.Clone(), nil
	}
	return nil, nil
}

func (m *MemoryRepo) ListByCategory(_ context.Context, category string) ([]*catalog.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*catalog.Project{}
	for _, id := range m.order {
		if p := m.store[id]; p.Category == category {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (m *MemoryRepo) Create(_ context.Context, in catalog.Input) (*catalog.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	p := catalog.NewProject(id, in, m.now())
	m.store[id] = p
	m.order = append(m.order, id)
	return p.Clone(), nil
}

func (m *MemoryRepo) Update(_ context.Context, id int64, patch catalog.Patch) (*catalog.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	next := patch.Apply(cur, m.now())
	m.store[id] = next
	return next.Clone(), nil
}

func (m *MemoryRepo) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return false, nil
	}
	delete(m.store, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Seed installs records with their own ids and timestamps, replacing any with
// the same id, and moves the counter past the highest id seen.
func (m *MemoryRepo) Seed(_ context.Context, projects []*catalog.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range projects {
		if _, exists := m.store[p.ID]; !exists {
			m.order = append(m.order, p.ID)
		}
		m.store[p.ID] = p.Clone()
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return nil
}

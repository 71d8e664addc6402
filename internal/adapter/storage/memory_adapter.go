package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

// MemoryAdapter keeps shirts in process. Used by tests, the stress tool and
// STORE_DRIVER=memory.
type MemoryAdapter struct {
	mu          sync.RWMutex
	shirts      map[string]domain.Shirt
	idempotency map[string]time.Time
	ttl         time.Duration
	now         func() time.Time
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		shirts:      make(map[string]domain.Shirt),
		idempotency: make(map[string]time.Time),
		ttl:         idempotencyKeyTTL,
		now:         time.Now,
	}
}

func (m *MemoryAdapter) WithIdempotencyTTL(ttl time.Duration) *MemoryAdapter {
	if ttl > 0 {
		m.ttl = ttl
	}
	return m
}

func (m *MemoryAdapter) Get(ctx context.Context, id string) (*domain.Shirt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shirts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneShirt(s), nil
}

func (m *MemoryAdapter) List(ctx context.Context, filter domain.Filter) ([]domain.Shirt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Shirt, 0, len(m.shirts))
	for _, s := range m.shirts {
		if filter.Match(s) {
			out = append(out, *cloneShirt(s))
		}
	}
	sortShirts(out)
	return out, nil
}

func (m *MemoryAdapter) Insert(ctx context.Context, shirt domain.Shirt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shirts[shirt.ID] = *cloneShirt(shirt)
	return nil
}

func (m *MemoryAdapter) Replace(ctx context.Context, id string, patch domain.ShirtPatch) (*domain.Shirt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shirts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	patch.Apply(&s)
	s.UpdatedAt = m.now().UTC()
	m.shirts[id] = s
	return cloneShirt(s), nil
}

func (m *MemoryAdapter) AdjustStock(ctx context.Context, id string, delta int) (*domain.Shirt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.shirts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !domain.CanAdjust(s.Stock, delta) {
		return nil, domain.ErrInsufficientStock
	}
	s.Stock += delta
	s.UpdatedAt = m.now().UTC()
	m.shirts[id] = s
	return cloneShirt(s), nil
}

func (m *MemoryAdapter) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shirts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.shirts, id)
	return nil
}

func (m *MemoryAdapter) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if exp, ok := m.idempotency[key]; ok && now.Before(exp) {
		return false, nil
	}
	m.idempotency[key] = now.Add(m.ttl)
	return true, nil
}

func (m *MemoryAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.idempotency, key)
	return nil
}

func cloneShirt(s domain.Shirt) *domain.Shirt {
	if s.Name != nil {
		name := *s.Name
		s.Name = &name
	}
	return &s
}

// sortShirts orders by creation time, id breaking ties, so every store lists
// in the same order.
func sortShirts(shirts []domain.Shirt) {
	sort.Slice(shirts, func(i, j int) bool {
		if !shirts[i].CreatedAt.Equal(shirts[j].CreatedAt) {
			return shirts[i].CreatedAt.Before(shirts[j].CreatedAt)
		}
		return shirts[i].ID < shirts[j].ID
	})
}

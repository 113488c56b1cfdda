package insight

import (
	"context"
	"time"

	"github.com/oshpulse/atlas/internal/domain"
)

// CachedStore layers the bounded in-memory cache over an insight
// store. Only completed records enter the cache, and every lifecycle
// write invalidates its key, so readers never see content a
// regeneration has superseded. It implements domain.InsightStore.
type CachedStore struct {
	inner domain.InsightStore
	cache *Cache
}

// NewCachedStore wraps a store with the bounded cache.
func NewCachedStore(inner domain.InsightStore, cache *Cache) *CachedStore {
	return &CachedStore{inner: inner, cache: cache}
}

// Get returns one insight record, serving completed records from the
// cache when possible.
func (s *CachedStore) Get(ctx context.Context, iso string, category domain.Category) (*domain.Insight, error) {
	if ins, ok := s.cache.Get(iso, category); ok {
		return ins, nil
	}

	ins, err := s.inner.Get(ctx, iso, category)
	if err != nil || ins == nil {
		return ins, err
	}
	if ins.Status == domain.StatusCompleted {
		s.cache.Put(ins)
	}
	return ins, nil
}

// ListByCountry passes through to the underlying store.
func (s *CachedStore) ListByCountry(ctx context.Context, iso string) ([]domain.Insight, error) {
	return s.inner.ListByCountry(ctx, iso)
}

// ListStale passes through to the underlying store.
func (s *CachedStore) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]domain.Insight, error) {
	return s.inner.ListStale(ctx, olderThan, limit)
}

// Claim forwards the claim and invalidates the cached entry so a
// record under regeneration is read fresh.
func (s *CachedStore) Claim(ctx context.Context, iso string, category domain.Category) (bool, error) {
	claimed, err := s.inner.Claim(ctx, iso, category)
	if claimed {
		s.cache.Invalidate(iso, category)
	}
	return claimed, err
}

// Complete forwards the write and invalidates the key; the next read
// refills the cache with the stored row.
func (s *CachedStore) Complete(ctx context.Context, ins *domain.Insight) error {
	if err := s.inner.Complete(ctx, ins); err != nil {
		return err
	}
	s.cache.Invalidate(ins.ISOCode, ins.Category)
	return nil
}

// Fail forwards the write and invalidates the key.
func (s *CachedStore) Fail(ctx context.Context, iso string, category domain.Category) error {
	if err := s.inner.Fail(ctx, iso, category); err != nil {
		return err
	}
	s.cache.Invalidate(iso, category)
	return nil
}

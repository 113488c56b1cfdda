package country

import (
	"context"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/pkg/redis"
)

// Store serves country reads through the cache-aside layer. It
// implements domain.CountryStore. Absent countries are cached as null
// for the same TTL, so a burst of lookups for an unknown code stays
// cheap.
type Store struct {
	repo  *Repository
	cache *redis.Cache
}

// NewStore creates a cached country store.
func NewStore(repo *Repository, cache *redis.Cache) *Store {
	return &Store{repo: repo, cache: cache}
}

// List returns all countries, cached briefly to keep the map layer fast.
func (s *Store) List(ctx context.Context) ([]domain.Country, error) {
	var countries []domain.Country
	err := s.cache.GetOrSet(ctx, redis.CountryListKey(), &countries, redis.TTLShort, func() (interface{}, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return countries, nil
}

// Get returns one country, or nil when the code is unknown.
func (s *Store) Get(ctx context.Context, iso string) (*domain.Country, error) {
	var c *domain.Country
	err := s.cache.GetOrSet(ctx, redis.CountryKey(iso), &c, redis.TTLShort, func() (interface{}, error) {
		return s.repo.Get(ctx, iso)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SnapshotStore serves economic snapshots through the cache-aside
// layer. It implements domain.IntelligenceStore.
type SnapshotStore struct {
	repo  *Repository
	cache *redis.Cache
}

// NewSnapshotStore creates a cached snapshot store.
func NewSnapshotStore(repo *Repository, cache *redis.Cache) *SnapshotStore {
	return &SnapshotStore{repo: repo, cache: cache}
}

// Get returns the economic snapshot for a country, or nil when none
// has been ingested.
func (s *SnapshotStore) Get(ctx context.Context, iso string) (*domain.CountryIntelligence, error) {
	var ci *domain.CountryIntelligence
	err := s.cache.GetOrSet(ctx, redis.IntelligenceKey(iso), &ci, redis.TTLMedium, func() (interface{}, error) {
		return s.repo.GetIntelligence(ctx, iso)
	})
	if err != nil {
		return nil, err
	}
	return ci, nil
}

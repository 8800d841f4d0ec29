package basket

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

// MemStore keeps baskets in process memory. A basket untouched for idleTTL
// is dropped.
type MemStore struct {
	cache *ttlcache.Cache[string, *Basket]
}

func NewMemStore(idleTTL time.Duration) *MemStore {
	return &MemStore{
		cache: ttlcache.New[string, *Basket](
			ttlcache.WithTTL[string, *Basket](idleTTL),
		),
	}
}

// Start runs the expiry janitor until Stop is called. It blocks.
func (s *MemStore) Start() { s.cache.Start() }

func (s *MemStore) Stop() { s.cache.Stop() }

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Add(ctx context.Context, sessionID string, productID uuid.UUID) error {
	item, _ := s.cache.GetOrSet(sessionID, New())
	item.Value().Add(productID)
	return nil
}

func (s *MemStore) Clear(ctx context.Context, sessionID string) error {
	if item := s.cache.Get(sessionID); item != nil {
		item.Value().Clear()
	}
	return nil
}

func (s *MemStore) Entries(ctx context.Context, sessionID string) ([]Entry, error) {
	item := s.cache.Get(sessionID)
	if item == nil {
		return nil, nil
	}
	return item.Value().Entries(), nil
}

// Sessions reports how many baskets are currently held.
func (s *MemStore) Sessions() int {
	return s.cache.Len()
}

package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/pkg/errors"
	"github.com/qubic/go-transfers-trigger/entities"
)

const statusKey = "status"

type StatusFetcher interface {
	GetStatus(ctx context.Context) (*entities.Status, error)
}

// StatusCache shares one status response between polls of different identities within the cache ttl.
// The returned status must not be modified.
type StatusCache struct {
	fetcher     StatusFetcher
	statusCache *ttlcache.Cache[string, *entities.Status]
	statusLock  sync.Mutex
}

func NewStatusCache(fetcher StatusFetcher, statusCache *ttlcache.Cache[string, *entities.Status]) *StatusCache {
	return &StatusCache{
		fetcher:     fetcher,
		statusCache: statusCache,
	}
}

func NewStatusTtlCache(ttl time.Duration) *ttlcache.Cache[string, *entities.Status] {
	return ttlcache.New[string, *entities.Status](
		ttlcache.WithTTL[string, *entities.Status](ttl),
		ttlcache.WithDisableTouchOnHit[string, *entities.Status](), // don't refresh ttl upon getting the item from cache
	)
}

func (s *StatusCache) GetStatus(ctx context.Context) (*entities.Status, error) {
	s.statusLock.Lock() // lock so that we do not get multiple threads inside the `if`
	defer s.statusLock.Unlock()

	item := s.statusCache.Get(statusKey)
	if item != nil {
		return item.Value(), nil
	}

	status, err := s.fetcher.GetStatus(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching status")
	}
	s.statusCache.Set(statusKey, status, ttlcache.DefaultTTL)
	return status, nil
}

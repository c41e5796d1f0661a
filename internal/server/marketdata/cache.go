package marketdata

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Source is anything that can produce raw market data.
type Source interface {
	Markets(ctx context.Context, q MarketQuery) ([]byte, error)
	Coin(ctx context.Context, id string) ([]byte, error)
}

// CachedSource wraps a Source with a bounded TTL cache. Concurrent misses
// for the same key share one upstream call; errors are never cached.
type CachedSource struct {
	next    Source
	markets *expirable.LRU[string, []byte]
	coins   *expirable.LRU[string, []byte]
	group   singleflight.Group
}

func NewCachedSource(next Source, size int, ttl time.Duration) *CachedSource {
	return &CachedSource{
		next:    next,
		markets: expirable.NewLRU[string, []byte](size, nil, ttl),
		coins:   expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

func (c *CachedSource) Markets(ctx context.Context, q MarketQuery) ([]byte, error) {
	return c.load(c.markets, "markets:"+q.Key(), q.Key(), func() ([]byte, error) {
		return c.next.Markets(context.WithoutCancel(ctx), q)
	})
}

func (c *CachedSource) Coin(ctx context.Context, id string) ([]byte, error) {
	return c.load(c.coins, "coin:"+id, id, func() ([]byte, error) {
		return c.next.Coin(context.WithoutCancel(ctx), id)
	})
}

func (c *CachedSource) load(cache *expirable.LRU[string, []byte], flightKey, key string, fetch func() ([]byte, error)) ([]byte, error) {
	if body, ok := cache.Get(key); ok {
		return body, nil
	}

	v, err, _ := c.group.Do(flightKey, func() (any, error) {
		if body, ok := cache.Get(key); ok {
			return body, nil
		}
		body, err := fetch()
		if err != nil {
			return nil, err
		}
		cache.Add(key, body)
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

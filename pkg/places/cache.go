package places

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"MaxBot/pkg/redis"
)

type cached struct {
	inner    IPlaces
	cache    redis.IRedis
	location string
	ttl      time.Duration
	log      *logrus.Logger
}

// NewCached serves repeated queries from cache. Cache failures fall through
// to the wrapped client.
func NewCached(inner IPlaces, cache redis.IRedis, location string, ttl time.Duration, log *logrus.Logger) IPlaces {
	return &cached{inner: inner, cache: cache, location: location, ttl: ttl, log: log}
}

func (c *cached) Search(ctx context.Context, query string) ([]Place, error) {
	key := CacheKey(c.location, query)

	var hit []Place
	found, err := c.cache.GetJSON(ctx, key, &hit)
	if err == nil && found {
		return hit, nil
	}

	result, err := c.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetJSON(ctx, key, result, c.ttl); err != nil {
		c.log.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Warn("Failed to cache places result")
	}

	return result, nil
}

package countries

import (
	"context"
	"time"

	"github.com/joefazee/globeguide/internal/cache"
	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/internal/restcountries"
)

type repository struct {
	source Source
	cache  cache.Cache[[]byte]
	ttl    time.Duration
	log    logger.Logger
}

// NewRepository creates a caching repository over source. Failed upstream
// calls are never cached.
func NewRepository(source Source, c cache.Cache[[]byte], ttl time.Duration, log logger.Logger) Repository {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &repository{source: source, cache: c, ttl: ttl, log: log}
}

func (r *repository) Fetch(ctx context.Context, req restcountries.Request) (*Payload, error) {
	key := cacheKey(req)
	body, hit, err := cache.Fetch(ctx, r.cache, key, r.ttl, func(ctx context.Context) ([]byte, error) {
		return r.source.Fetch(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		r.log.Debug("country cache hit", map[string]interface{}{"key": key})
	}
	return &Payload{Body: body, Cached: hit}, nil
}

// cacheKey is the request path plus its query in sorted key order.
func cacheKey(req restcountries.Request) string {
	if len(req.Query) == 0 {
		return req.Path
	}
	return req.Path + "?" + req.Query.Encode()
}

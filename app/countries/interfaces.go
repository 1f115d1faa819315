package countries

import (
	"context"

	"github.com/joefazee/globeguide/internal/restcountries"
)

// Source is the upstream country API.
type Source interface {
	Fetch(ctx context.Context, req restcountries.Request) ([]byte, error)
}

// Repository returns upstream responses, served from cache when possible.
type Repository interface {
	Fetch(ctx context.Context, req restcountries.Request) (*Payload, error)
}

// Service defines the interface for country business logic
type Service interface {
	All(ctx context.Context, fields []string) (*Payload, error)
	ByRegion(ctx context.Context, region string) (*Payload, error)
	ByName(ctx context.Context, name string) (*Payload, error)
	ByCode(ctx context.Context, code string) (*Payload, error)
	ByCodes(ctx context.Context, codes []string, fields []string) (*Payload, error)
	RegionStats(ctx context.Context) ([]RegionStatsResponse, error)
}

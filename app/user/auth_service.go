package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/joefazee/globeguide/internal/cache"
	"github.com/joefazee/globeguide/internal/security"
)

var revokedMarker = []byte{1}

type authService struct {
	cache cache.Cache[[]byte]
}

// NewAuthService tracks revoked tokens in c. Entries expire together with
// the token they block.
func NewAuthService(c cache.Cache[[]byte]) AuthService {
	return &authService{cache: c}
}

func (s *authService) Revoke(ctx context.Context, payload *security.Payload) error {
	ttl := payload.Remaining()
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, payload.ID.String(), revokedMarker, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *authService) IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	_, err := s.cache.Get(ctx, tokenID.String())
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return true, nil
}

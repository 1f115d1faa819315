package backend

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/joefazee/globeguide/internal/favorites"
)

// TokenSource yields the bearer token of the signed-in user.
type TokenSource interface {
	Token() string
}

// ProfileStore reads and writes favorite codes through the profile document.
type ProfileStore struct {
	client *Client
	tokens TokenSource
}

var _ favorites.Repository = (*ProfileStore)(nil)

func NewProfileStore(client *Client, tokens TokenSource) *ProfileStore {
	return &ProfileStore{client: client, tokens: tokens}
}

// ReadFavorites returns nil when the document has no favorite list yet.
func (s *ProfileStore) ReadFavorites(ctx context.Context, userID uuid.UUID) ([]string, error) {
	p, err := s.client.GetProfile(ctx, s.tokens.Token(), userID)
	if err != nil {
		return nil, err
	}
	return p.FavoriteCountries, nil
}

// WriteFavorites replaces the stored list; an empty codes slice is stored as
// an empty list, not as absent.
func (s *ProfileStore) WriteFavorites(ctx context.Context, userID uuid.UUID, codes []string) error {
	list := slices.Clone(codes)
	if list == nil {
		list = []string{}
	}
	_, err := s.client.UpdateProfile(ctx, s.tokens.Token(), userID, ProfilePatch{FavoriteCountries: &list})
	return err
}

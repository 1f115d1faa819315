package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/joefazee/globeguide/models"
)

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, callerID, profileID uuid.UUID) (*models.Profile, error) {
	if callerID != profileID {
		return nil, models.ErrForbidden
	}
	user, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// Update expects a request that already passed Validate.
func (s *service) Update(ctx context.Context, callerID, profileID uuid.UUID, req *UpdateProfileRequest) (*models.Profile, error) {
	if callerID != profileID {
		return nil, models.ErrForbidden
	}
	changes := req.Changes()
	if len(changes) == 0 {
		return s.Get(ctx, callerID, profileID)
	}
	user, err := s.repo.Update(ctx, profileID, changes)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/joefazee/globeguide/models"
)

type Repository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Update(ctx context.Context, userID uuid.UUID, changes map[string]interface{}) (*models.User, error)
}

type Service interface {
	Get(ctx context.Context, callerID, profileID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, callerID, profileID uuid.UUID, req *UpdateProfileRequest) (*models.Profile, error)
}

package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/joefazee/globeguide/internal/security"
	"github.com/joefazee/globeguide/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type Service interface {
	Register(ctx context.Context, req *RegisterUserRequest) (*models.Profile, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, payload *security.Payload) error
	Me(ctx context.Context, userID uuid.UUID) (*models.Identity, error)
}

// AuthService keeps track of tokens revoked before their expiry.
type AuthService interface {
	Revoke(ctx context.Context, payload *security.Payload) error
	IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error)
}

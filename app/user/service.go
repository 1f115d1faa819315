package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/globeguide/internal/security"
	"github.com/joefazee/globeguide/models"
)

type service struct {
	repo       Repository
	tokenMaker security.Maker
	auth       AuthService
	tokenTTL   time.Duration
}

// NewService creates a new user service.
func NewService(repo Repository, tokenMaker security.Maker, auth AuthService, tokenTTL time.Duration) Service {
	return &service{
		repo:       repo,
		tokenMaker: tokenMaker,
		auth:       auth,
		tokenTTL:   tokenTTL,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterUserRequest) (*models.Profile, error) {
	user := &models.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Preferences: models.DefaultPreferences(),
	}
	if err := user.SetPassword(req.Password); err != nil {
		if errors.Is(err, models.ErrPasswordTooShort) {
			return nil, models.NewValidationError(map[string]string{"password": err.Error()})
		}
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		return nil, models.ErrInvalidCredentials
	}

	version := user.UpdatedAt.UnixNano()
	if user.UpdatedAt.IsZero() {
		version = 0
	}

	accessToken, payload, err := s.tokenMaker.CreateToken(user.ID, s.tokenTTL, version, security.TokenScopeAccess)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   payload.ExpiredAt,
		User:        *user.Identity(),
	}, nil
}

func (s *service) Logout(ctx context.Context, payload *security.Payload) error {
	return s.auth.Revoke(ctx, payload)
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*models.Identity, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			// the account behind a still valid token is gone
			return nil, models.ErrUnauthorized
		}
		return nil, err
	}
	return user.Identity(), nil
}

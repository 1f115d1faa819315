package profile

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/joefazee/globeguide/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, userID uuid.UUID, changes map[string]interface{}) (*models.User, error) {
	args := m.Called(ctx, userID, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, callerID, profileID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, callerID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, callerID, profileID uuid.UUID, req *UpdateProfileRequest) (*models.Profile, error) {
	args := m.Called(ctx, callerID, profileID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

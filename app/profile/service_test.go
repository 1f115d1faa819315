package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/joefazee/globeguide/models"
)

type ServiceTestSuite struct {
	suite.Suite
	repo    *MockRepository
	service Service
	userID  uuid.UUID
}

func (s *ServiceTestSuite) SetupTest() {
	s.repo = new(MockRepository)
	s.service = NewService(s.repo)
	s.userID = uuid.New()
}

func TestProfileService(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestGet_AbsentFavorites() {
	s.repo.On("GetByID", mock.Anything, s.userID).
		Return(&models.User{ID: s.userID, Email: "ada@example.com"}, nil)

	profile, err := s.service.Get(context.Background(), s.userID, s.userID)

	s.Require().NoError(err)
	s.Equal("ada@example.com", profile.Email)
	s.Nil(profile.FavoriteCountries)
}

func (s *ServiceTestSuite) TestGet_OtherUser() {
	_, err := s.service.Get(context.Background(), s.userID, uuid.New())

	s.ErrorIs(err, models.ErrForbidden)
	s.repo.AssertNotCalled(s.T(), "GetByID", mock.Anything, mock.Anything)
}

func (s *ServiceTestSuite) TestGet_NotFound() {
	s.repo.On("GetByID", mock.Anything, s.userID).Return(nil, models.ErrRecordNotFound)

	_, err := s.service.Get(context.Background(), s.userID, s.userID)

	s.ErrorIs(err, models.ErrRecordNotFound)
}

func (s *ServiceTestSuite) TestUpdate_Favorites() {
	list := []string{"JPN", "FRA"}
	s.repo.On("Update", mock.Anything, s.userID, map[string]interface{}{
		"favorite_countries": pq.StringArray{"JPN", "FRA"},
	}).Return(&models.User{ID: s.userID, FavoriteCountries: pq.StringArray{"JPN", "FRA"}}, nil)

	profile, err := s.service.Update(context.Background(), s.userID, s.userID, &UpdateProfileRequest{FavoriteCountries: &list})

	s.Require().NoError(err)
	s.Equal([]string{"JPN", "FRA"}, profile.FavoriteCountries)
	s.repo.AssertExpectations(s.T())
}

func (s *ServiceTestSuite) TestUpdate_OtherUser() {
	name := "Mallory"
	_, err := s.service.Update(context.Background(), s.userID, uuid.New(), &UpdateProfileRequest{DisplayName: &name})

	s.ErrorIs(err, models.ErrForbidden)
	s.repo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceTestSuite) TestUpdate_NothingToChange() {
	s.repo.On("GetByID", mock.Anything, s.userID).Return(&models.User{ID: s.userID}, nil)

	_, err := s.service.Update(context.Background(), s.userID, s.userID, &UpdateProfileRequest{})

	s.NoError(err)
	s.repo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

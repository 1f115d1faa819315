package countries

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/joefazee/globeguide/internal/restcountries"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Fetch(ctx context.Context, req restcountries.Request) (*Payload, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payload), args.Error(1)
}

type MockService struct {
	mock.Mock
}

func (m *MockService) payload(args mock.Arguments) (*Payload, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payload), args.Error(1)
}

func (m *MockService) All(ctx context.Context, fields []string) (*Payload, error) {
	return m.payload(m.Called(ctx, fields))
}

func (m *MockService) ByRegion(ctx context.Context, region string) (*Payload, error) {
	return m.payload(m.Called(ctx, region))
}

func (m *MockService) ByName(ctx context.Context, name string) (*Payload, error) {
	return m.payload(m.Called(ctx, name))
}

func (m *MockService) ByCode(ctx context.Context, code string) (*Payload, error) {
	return m.payload(m.Called(ctx, code))
}

func (m *MockService) ByCodes(ctx context.Context, codes []string, fields []string) (*Payload, error) {
	return m.payload(m.Called(ctx, codes, fields))
}

func (m *MockService) RegionStats(ctx context.Context) ([]RegionStatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RegionStatsResponse), args.Error(1)
}

package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joefazee/globeguide/internal/listing"
	"github.com/joefazee/globeguide/internal/restcountries"
	"github.com/joefazee/globeguide/models"
)

type service struct {
	repo Repository
}

// NewService creates a new country service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) All(ctx context.Context, fields []string) (*Payload, error) {
	req := restcountries.AllRequest()
	if len(fields) > 0 {
		req.Query.Set("fields", strings.Join(fields, ","))
	}
	return s.repo.Fetch(ctx, req)
}

func (s *service) ByRegion(ctx context.Context, region string) (*Payload, error) {
	r, err := models.ParseRegion(region)
	if err != nil {
		return nil, models.NewValidationError(map[string]string{"region": "must be one of " + regionNames()})
	}
	return s.repo.Fetch(ctx, restcountries.RegionRequest(r))
}

func (s *service) ByName(ctx context.Context, name string) (*Payload, error) {
	if strings.TrimSpace(name) == "" {
		return EmptyPayload(), nil
	}
	return s.repo.Fetch(ctx, restcountries.NameRequest(name))
}

func (s *service) ByCode(ctx context.Context, code string) (*Payload, error) {
	code = models.NormalizeCode(code)
	if !isAlphaCode(code) {
		return nil, models.NewValidationError(map[string]string{"code": "must be a 2 or 3 letter country code"})
	}
	return s.repo.Fetch(ctx, restcountries.CodeRequest(code))
}

func (s *service) ByCodes(ctx context.Context, codes []string, fields []string) (*Payload, error) {
	if len(codes) == 0 {
		return EmptyPayload(), nil
	}
	if len(fields) == 0 {
		fields = restcountries.ListFields
	}
	return s.repo.Fetch(ctx, restcountries.CodesRequest(codes, fields))
}

func (s *service) RegionStats(ctx context.Context) ([]RegionStatsResponse, error) {
	payload, err := s.repo.Fetch(ctx, restcountries.AllRequest())
	if err != nil {
		return nil, err
	}
	var countries []models.Country
	if err := json.Unmarshal(payload.Body, &countries); err != nil {
		return nil, &models.NetworkError{Op: "decode countries", Err: fmt.Errorf("decode: %w", err)}
	}
	return ToRegionStatsResponse(listing.RegionStats(countries)), nil
}

func regionNames() string {
	names := make([]string, 0, len(models.Regions))
	for _, r := range models.Regions {
		names = append(names, string(r))
	}
	return strings.Join(names, ", ")
}

package profile

import (
	"strings"

	"github.com/lib/pq"

	"github.com/joefazee/globeguide/internal/sanitizer"
	"github.com/joefazee/globeguide/internal/validator"
	"github.com/joefazee/globeguide/models"
)

const (
	maxDisplayName = 150
	maxFavorites   = 250
)

// UpdateProfileRequest is a partial update; nil fields are left alone.
type UpdateProfileRequest struct {
	DisplayName       *string             `json:"display_name,omitempty"`
	Preferences       *models.Preferences `json:"preferences,omitempty"`
	FavoriteCountries *[]string           `json:"favorite_countries,omitempty"`
}

// Validate normalizes the request in place. Favorite codes are upper-cased
// and de-duplicated, keeping the first occurrence.
func (r *UpdateProfileRequest) Validate(v *validator.Validator, s sanitizer.HTMLStripperer) bool {
	if r.DisplayName == nil && r.Preferences == nil && r.FavoriteCountries == nil {
		v.AddError("body", "at least one field must be provided")
		return false
	}

	if r.DisplayName != nil {
		name := *r.DisplayName
		if s != nil {
			name = s.StripHTML(name)
		}
		name = strings.TrimSpace(name)
		r.DisplayName = &name
		v.Check(validator.MaxRunes(name, maxDisplayName), "display_name", "must not be more than 150 characters long")
	}

	if r.Preferences != nil {
		v.Check(validator.In(r.Preferences.Theme, models.ThemeLight, models.ThemeDark),
			"preferences.theme", "must be light or dark")
		v.Check(validator.In(r.Preferences.DefaultView, models.ViewGrid, models.ViewList),
			"preferences.default_view", "must be grid or list")
	}

	if r.FavoriteCountries != nil {
		codes := *r.FavoriteCountries
		for _, code := range codes {
			if !models.IsCountryCode(strings.TrimSpace(code)) {
				v.AddError("favorite_countries", "must contain 3-letter country codes only")
				break
			}
		}
		v.Check(len(codes) <= maxFavorites, "favorite_countries", "must not contain more than 250 codes")
		normalized := models.NormalizeFavorites(codes)
		r.FavoriteCountries = &normalized
	}

	return v.Valid()
}

// Changes returns the column updates the request describes.
func (r *UpdateProfileRequest) Changes() map[string]interface{} {
	changes := make(map[string]interface{}, 3)
	if r.DisplayName != nil {
		changes["display_name"] = *r.DisplayName
	}
	if r.Preferences != nil {
		changes["preferences"] = *r.Preferences
	}
	if r.FavoriteCountries != nil {
		changes["favorite_countries"] = pq.StringArray(*r.FavoriteCountries)
	}
	return changes
}

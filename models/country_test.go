package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const franceJSON = `{
	"name": {"common": "France", "official": "French Republic"},
	"cca2": "FR",
	"cca3": "FRA",
	"capital": ["Paris"],
	"region": "Europe",
	"subregion": "Western Europe",
	"population": 67391582,
	"area": 551695,
	"languages": {"fra": "French"},
	"currencies": {"EUR": {"name": "Euro", "symbol": "€"}},
	"borders": ["AND", "BEL", "DEU"],
	"flags": {"png": "https://flagcdn.com/w320/fr.png", "svg": "https://flagcdn.com/fr.svg"}
}`

func TestCountry_Decode(t *testing.T) {
	var c Country
	require.NoError(t, json.Unmarshal([]byte(franceJSON), &c))

	assert.Equal(t, "FRA", c.Code())
	assert.Equal(t, "France", c.CommonName())
	assert.Equal(t, RegionEurope, c.Region)
	assert.Equal(t, []string{"Paris"}, c.Capital)
	assert.Equal(t, "€", c.Currencies["EUR"].Symbol)

	pop, ok := c.PopulationValue()
	assert.True(t, ok)
	assert.Equal(t, int64(67391582), pop)

	area, ok := c.AreaValue()
	assert.True(t, ok)
	assert.InDelta(t, 551695.0, area, 0.001)
}

func TestCountry_MissingOptionalFields(t *testing.T) {
	var c Country
	require.NoError(t, json.Unmarshal([]byte(`{"cca3":"ATA","name":{"common":" "}}`), &c))

	_, ok := c.PopulationValue()
	assert.False(t, ok)
	_, ok = c.AreaValue()
	assert.False(t, ok)
	assert.Empty(t, c.CommonName())
	assert.Nil(t, c.Borders)
}

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion(" europe ")
	assert.NoError(t, err)
	assert.Equal(t, RegionEurope, r)

	_, err = ParseRegion("Atlantis")
	assert.ErrorIs(t, err, ErrInvalidRegion)
}

func TestIsCountryCode(t *testing.T) {
	assert.True(t, IsCountryCode("USA"))
	assert.True(t, IsCountryCode("jpn"))
	assert.False(t, IsCountryCode("US"))
	assert.False(t, IsCountryCode("U5A"))
	assert.Equal(t, "USA", NormalizeCode(" usa "))
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&NetworkError{Op: "fetch all", Err: cause})

	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "fetch all: connection refused", err.Error())

	status := &NetworkError{Op: "fetch region", Status: 500}
	assert.Equal(t, "fetch region: unexpected status 500", status.Error())

	var ne *NetworkError
	assert.True(t, errors.As(err, &ne))
	assert.Equal(t, "fetch all", ne.Op)
}

func TestValidationError(t *testing.T) {
	fields := map[string]string{"password": "password is required", "email": "email is invalid"}
	err := NewValidationError(fields)
	fields["email"] = "changed"

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: email: email is invalid; password: password is required", err.Error())
}

package listing

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/globeguide/models"
)

func TestRegionStats(t *testing.T) {
	area := func(c models.Country, a float64) models.Country {
		c.Area = &a
		return c
	}
	countries := []models.Country{
		area(country("FRA", "France", models.RegionEurope, 60), 10),
		area(country("DEU", "Germany", models.RegionEurope, 20), 10),
		area(country("JPN", "Japan", models.RegionAsia, 120), 40),
		{Cca3: "ATA", Name: models.CountryName{Common: "Antarctica"}, Region: models.RegionAntarctic},
		{Cca3: "XXX", Name: models.CountryName{Common: "Nowhere"}},
	}

	stats := RegionStats(countries)
	require.Len(t, stats, len(models.Regions))

	byRegion := map[models.Region]RegionStat{}
	for i, st := range stats {
		assert.Equal(t, models.Regions[i], st.Region)
		byRegion[st.Region] = st
	}

	europe := byRegion[models.RegionEurope]
	assert.Equal(t, 2, europe.Countries)
	assert.Equal(t, int64(80), europe.Population)
	assert.True(t, decimal.NewFromInt(40).Equal(europe.Share), europe.Share.String())
	assert.True(t, decimal.NewFromInt(4).Equal(europe.Density), europe.Density.String())
	assert.Len(t, europe.Members, 2)

	asia := byRegion[models.RegionAsia]
	assert.True(t, decimal.NewFromInt(60).Equal(asia.Share))
	assert.True(t, decimal.NewFromInt(3).Equal(asia.Density))

	antarctic := byRegion[models.RegionAntarctic]
	assert.Equal(t, 1, antarctic.Countries)
	assert.Equal(t, int64(0), antarctic.Population)
	assert.True(t, antarctic.Density.IsZero())

	assert.Equal(t, 0, byRegion[models.RegionOceania].Countries)
}

func TestRegionStats_Empty(t *testing.T) {
	stats := RegionStats(nil)
	require.Len(t, stats, len(models.Regions))
	for _, st := range stats {
		assert.True(t, st.Share.IsZero())
	}
}

func TestFeatured(t *testing.T) {
	countries := fixture(20, 0)
	rng := rand.New(rand.NewPCG(3, 4))

	picked := Featured(countries, 6, rng)
	assert.Len(t, picked, 6)

	seen := map[string]bool{}
	for _, c := range picked {
		assert.False(t, seen[c.Cca3], "duplicate %s", c.Cca3)
		seen[c.Cca3] = true
	}

	assert.Len(t, Featured(countries[:3], 6, rng), 3)
	assert.Nil(t, Featured(nil, 6, rng))
	assert.Nil(t, Featured(countries, 0, rng))
}

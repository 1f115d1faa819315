package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joefazee/globeguide/models"
)

func TestQuery_FilterChangesResetPage(t *testing.T) {
	q := NewQuery()
	q.Page = 3
	q.SetSearch("an")
	assert.Equal(t, 1, q.Page)

	q.Page = 3
	q.SetRegion(models.RegionEurope)
	assert.Equal(t, 1, q.Page)

	q.Page = 3
	q.SetSearch("an")
	q.SetRegion(models.RegionEurope)
	assert.Equal(t, 3, q.Page, "unchanged filters keep the page")
}

func TestQuery_SortChangeKeepsPageAndFiltersKeepSort(t *testing.T) {
	q := NewQuery()
	q.SetSort(SortByPopulation, Descending)
	q.Page = 2
	q.SetSort(SortByRegion, Ascending)
	assert.Equal(t, 2, q.Page)

	q.SetSort(SortByPopulation, Descending)
	q.SetSearch("x")
	q.SetRegion(models.RegionAsia)
	assert.Equal(t, SortByPopulation, q.Sort)
	assert.Equal(t, Descending, q.Direction)
}

func TestQuery_SetPageSize(t *testing.T) {
	q := NewQuery()
	assert.Equal(t, DefaultPageSize, q.PageSize)

	q.Page = 4
	assert.NoError(t, q.SetPageSize(48))
	assert.Equal(t, 48, q.PageSize)
	assert.Equal(t, 1, q.Page)

	assert.Error(t, q.SetPageSize(10))
	assert.Equal(t, 48, q.PageSize)
}

func TestCycles(t *testing.T) {
	assert.Equal(t, SortByPopulation, SortByName.Next())
	assert.Equal(t, SortByName, SortByRegion.Next())
	assert.Equal(t, Descending, Ascending.Flip())
	assert.Equal(t, Ascending, Descending.Flip())
	assert.Equal(t, 24, NextPageSize(12))
	assert.Equal(t, 12, NextPageSize(96))

	r := models.Region("")
	seen := []models.Region{}
	for i := 0; i < len(models.Regions)+1; i++ {
		r = NextRegion(r)
		seen = append(seen, r)
	}
	assert.Equal(t, append(append([]models.Region{}, models.Regions...), ""), seen)
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("Population")
	assert.NoError(t, err)
	assert.Equal(t, SortByPopulation, k)

	_, err = ParseSortKey("area")
	assert.Error(t, err)
}

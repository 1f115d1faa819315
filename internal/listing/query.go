package listing

import (
	"fmt"
	"strings"

	"github.com/joefazee/globeguide/internal/validator"
	"github.com/joefazee/globeguide/models"
)

// SortKey selects the field the list is ordered by.
type SortKey string

const (
	SortByName       SortKey = "name"
	SortByPopulation SortKey = "population"
	SortByRegion     SortKey = "region"
)

// SortKeys lists the keys in the order a UI cycles through them.
var SortKeys = []SortKey{SortByName, SortByPopulation, SortByRegion}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// DefaultPageSize is the page size a fresh query starts with.
const DefaultPageSize = 12

// PageSizes are the only page sizes a query accepts.
var PageSizes = []int{12, 24, 48, 96}

// Query is the full set of user-controlled list parameters.
// Region "" means no region filter. Page is 1-based.
type Query struct {
	Search    string
	Region    models.Region
	Sort      SortKey
	Direction Direction
	Page      int
	PageSize  int
}

// NewQuery returns the initial query: no filters, name ascending, page 1.
func NewQuery() Query {
	return Query{
		Sort:      SortByName,
		Direction: Ascending,
		Page:      1,
		PageSize:  DefaultPageSize,
	}
}

// SetSearch changes the search text. A change resets the page to 1.
func (q *Query) SetSearch(text string) {
	if text == q.Search {
		return
	}
	q.Search = text
	q.Page = 1
}

// SetRegion changes the region filter. A change resets the page to 1.
func (q *Query) SetRegion(region models.Region) {
	if region == q.Region {
		return
	}
	q.Region = region
	q.Page = 1
}

// SetSort changes the ordering. The current page is kept.
func (q *Query) SetSort(key SortKey, dir Direction) {
	q.Sort = key
	q.Direction = dir
}

// SetPageSize changes the page size and resets the page to 1.
func (q *Query) SetPageSize(size int) error {
	if !validator.In(size, PageSizes...) {
		return fmt.Errorf("page size %d not in %v", size, PageSizes)
	}
	q.PageSize = size
	q.Page = 1
	return nil
}

// ParseSortKey parses a sort key name.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if !validator.In(k, SortKeys...) {
		return "", fmt.Errorf("unknown sort key %q", s)
	}
	return k, nil
}

// Next returns the key following k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortByName
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// NextPageSize returns the allowed size following size, wrapping around.
func NextPageSize(size int) int {
	for i, s := range PageSizes {
		if s == size {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return DefaultPageSize
}

// NextRegion cycles none -> each region -> none.
func NextRegion(r models.Region) models.Region {
	if r == "" {
		return models.Regions[0]
	}
	for i, region := range models.Regions {
		if region == r && i+1 < len(models.Regions) {
			return models.Regions[i+1]
		}
	}
	return ""
}

// Package listing turns a fully fetched country list and a Query into the
// filtered, sorted and paginated view a list page displays.
//
// The pipeline performs no I/O and never fails. Records lacking the field a
// filter or sort depends on are excluded from a search match or ordered last.
package listing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/joefazee/globeguide/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Result is the output of one pipeline run.
type Result struct {
	// Items is the complete filtered and sorted list.
	Items []models.Country
	// Page holds the items of CurrentPage.
	Page []models.Country
	// Total is len(Items).
	Total int
	// TotalPages is ceil(Total / PageSize); zero when nothing matched.
	TotalPages int
	// CurrentPage is the requested page clamped to [1, max(1, TotalPages)].
	CurrentPage int
	// From and To are the 1-based inclusive bounds of Page within Items,
	// both zero when Page is empty.
	From, To int
}

// Label renders the "showing X-Y of Z" summary for the page.
func (r Result) Label() string {
	return fmt.Sprintf("showing %d-%d of %d", r.From, r.To, r.Total)
}

type options struct {
	lang language.Tag
}

// Option tunes a pipeline run.
type Option func(*options)

// WithLanguage sets the collation language used for name and region ordering.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) {
		o.lang = tag
	}
}

// Run filters by search text, then by region, sorts stably, and slices out the
// current page. The input slice is not modified.
func Run(countries []models.Country, q Query, opts ...Option) Result {
	o := options{lang: language.English}
	for _, opt := range opts {
		opt(&o)
	}

	items := FilterRegion(FilterSearch(countries, q.Search), q.Region)
	Sort(items, q.Sort, q.Direction, collate.New(o.lang))

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page, totalPages := ClampPage(q.Page, len(items), size)

	start := (page - 1) * size
	end := min(start+size, len(items))

	res := Result{
		Items:       items,
		Page:        items[start:end],
		Total:       len(items),
		TotalPages:  totalPages,
		CurrentPage: page,
	}
	if end > start {
		res.From = start + 1
		res.To = end
	}
	return res
}

// ClampPage bounds page to [1, max(1, ceil(total/size))] and returns it with
// the page count.
func ClampPage(page, total, size int) (clamped, totalPages int) {
	totalPages = (total + size - 1) / size
	last := max(totalPages, 1)
	return min(max(page, 1), last), totalPages
}

// FilterSearch keeps countries whose common name contains text, ignoring
// case. Blank text keeps everything. The result is always a new slice.
func FilterSearch(countries []models.Country, text string) []models.Country {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]models.Country, 0, len(countries))
	for _, c := range countries {
		if needle != "" {
			name := c.CommonName()
			if name == "" || !strings.Contains(strings.ToLower(name), needle) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// FilterRegion keeps countries in region. An empty region keeps everything
// and returns countries unchanged.
func FilterRegion(countries []models.Country, region models.Region) []models.Country {
	if region == "" {
		return countries
	}
	out := countries[:0:0]
	for _, c := range countries {
		if c.Region == region {
			out = append(out, c)
		}
	}
	return out
}

// Sort orders countries in place by key. The sort is stable, direction only
// reverses the comparison of present values, and records missing the key
// always come last.
func Sort(countries []models.Country, key SortKey, dir Direction, col *collate.Collator) {
	if col == nil {
		col = collate.New(language.English)
	}
	slices.SortStableFunc(countries, func(a, b models.Country) int {
		return compare(&a, &b, key, dir, col)
	})
}

func compare(a, b *models.Country, key SortKey, dir Direction, col *collate.Collator) int {
	var (
		c        int
		aOK, bOK bool
	)
	switch key {
	case SortByPopulation:
		var ap, bp int64
		ap, aOK = a.PopulationValue()
		bp, bOK = b.PopulationValue()
		c = cmp.Compare(ap, bp)
	case SortByRegion:
		ar, br := strings.TrimSpace(string(a.Region)), strings.TrimSpace(string(b.Region))
		aOK, bOK = ar != "", br != ""
		c = col.CompareString(ar, br)
	default:
		an, bn := a.CommonName(), b.CommonName()
		aOK, bOK = an != "", bn != ""
		c = col.CompareString(an, bn)
	}

	switch {
	case !aOK && !bOK:
		return 0
	case !aOK:
		return 1
	case !bOK:
		return -1
	}
	if dir == Descending {
		return -c
	}
	return c
}

package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/joefazee/globeguide/internal/listing"
	"github.com/joefazee/globeguide/internal/session"
	"github.com/joefazee/globeguide/models"
)

type listPage struct {
	query    listing.Query
	search   textinput.Model
	debounce *listing.Debouncer
	result   listing.Result
	cursor   int
	featured []models.Country
}

func newListPage() listPage {
	ti := textinput.New()
	ti.Placeholder = "search by name"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return listPage{
		query:    listing.NewQuery(),
		search:   ti,
		debounce: listing.NewDebouncer(listing.SettleDelay),
	}
}

// rerun recomputes the visible page and keeps the query on the clamped page.
func (l listPage) rerun(countries []models.Country, lang language.Tag) listPage {
	l.result = listing.Run(countries, l.query, listing.WithLanguage(lang))
	l.query.Page = l.result.CurrentPage
	l.cursor = min(l.cursor, max(len(l.result.Page)-1, 0))
	return l
}

func pickFeatured(countries []models.Country, rng *rand.Rand) []models.Country {
	return listing.Featured(countries, featuredCount, rng)
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := m.list
	q := &l.query

	switch {
	case key.Matches(msg, keys.Search):
		l.search.Focus()
		m.list = l
		return m, textinput.Blink
	case key.Matches(msg, keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
		m.list = l
		return m, nil
	case key.Matches(msg, keys.Down):
		if l.cursor < len(l.result.Page)-1 {
			l.cursor++
		}
		m.list = l
		return m, nil
	case key.Matches(msg, keys.Open):
		if len(l.result.Page) == 0 {
			return m, nil
		}
		return m.openDetail(l.result.Page[l.cursor].Code())
	case key.Matches(msg, keys.Region):
		q.SetRegion(listing.NextRegion(q.Region))
		l.cursor = 0
	case key.Matches(msg, keys.Sort):
		q.SetSort(q.Sort.Next(), q.Direction)
	case key.Matches(msg, keys.Flip):
		q.SetSort(q.Sort, q.Direction.Flip())
	case key.Matches(msg, keys.Prev):
		if q.Page > 1 {
			q.Page--
			l.cursor = 0
		}
	case key.Matches(msg, keys.Next):
		if q.Page < l.result.TotalPages {
			q.Page++
			l.cursor = 0
		}
	case key.Matches(msg, keys.Size):
		if err := q.SetPageSize(listing.NextPageSize(q.PageSize)); err != nil {
			return m.fail(err), nil
		}
		l.cursor = 0
	default:
		return m, nil
	}

	m.list = l.rerun(m.countries, m.deps.Language)
	return m, nil
}

// updateSearch feeds keystrokes to the search input. Each edit schedules a
// settle check; only the last edit within the delay reaches the query.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.list.search.Blur()
		return m, nil
	}

	before := m.list.search.Value()
	var cmd tea.Cmd
	m.list.search, cmd = m.list.search.Update(msg)
	if m.list.search.Value() == before {
		return m, cmd
	}
	seq := m.list.debounce.Input(m.list.search.Value())
	return m, tea.Batch(cmd, settleAfter(m.list.debounce.Delay(), seq))
}

func (m Model) searchSettled(msg searchSettleMsg) Model {
	text, ok := m.list.debounce.Settle(msg.seq)
	if !ok {
		return m
	}
	m.list.query.SetSearch(text)
	m.list.cursor = 0
	m.list = m.list.rerun(m.countries, m.deps.Language)
	return m
}

func (m Model) openDetail(code string) (tea.Model, tea.Cmd) {
	from := m.page
	next, _ := m.navigate(pageDetail)
	next.detail = detailPage{code: code, from: from}
	next.loading = true

	cmds := []tea.Cmd{loadDetail(next.ctx, next.deps.Countries, code, next.gen)}
	if next.session.Status == session.StatusAuthenticated {
		cmds = append(cmds, loadFavoriteCodes(next.ctx, next.deps.Favorites, next.gen))
	}
	return next, tea.Batch(cmds...)
}

func (m Model) viewList() string {
	l := m.list
	var b strings.Builder

	if len(l.featured) > 0 {
		names := make([]string, 0, len(l.featured))
		for _, c := range l.featured {
			names = append(names, c.CommonName())
		}
		b.WriteString(m.styles.Muted.Render("Featured: " + strings.Join(names, " · ")))
		b.WriteString("\n\n")
	}

	b.WriteString(l.search.View())
	b.WriteString("\n")
	region := "all regions"
	if l.query.Region != "" {
		region = string(l.query.Region)
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s · sort %s %s · %d per page",
		region, l.query.Sort, l.query.Direction, l.query.PageSize)))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading countries…")
		return b.String()
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Could not load countries: " + errorText(m.err)))
		return b.String()
	case l.result.Total == 0:
		b.WriteString("No countries match.")
		return b.String()
	}

	for i, c := range l.result.Page {
		row := fmt.Sprintf("%-4s %-34s %-10s %16s",
			c.Code(), truncate(c.CommonName(), 34), c.Region, m.deps.Formatter.Population(c.Population))
		if i == l.cursor {
			row = m.styles.Selected.Render("› " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s · page %d/%d",
		l.result.Label(), l.result.CurrentPage, max(l.result.TotalPages, 1))))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(helpLine(keys.Search, keys.Region, keys.Sort, keys.Flip, keys.Prev, keys.Next, keys.Size, keys.Open)))
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

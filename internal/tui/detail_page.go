package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joefazee/globeguide/internal/formatter"
	"github.com/joefazee/globeguide/internal/session"
	"github.com/joefazee/globeguide/models"
)

type detailPage struct {
	code       string
	from       page
	country    *models.Country
	borders    []models.Country
	bordersErr error
	toggling   bool
}

func (m Model) detailLoaded(msg detailLoadedMsg) Model {
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		m.deps.Log.Error(msg.err, map[string]interface{}{"op": "load_country", "code": m.detail.code})
		return m
	}
	m.detail.country = msg.country
	m.detail.borders = msg.borders
	m.detail.bordersErr = msg.bordersErr
	if msg.bordersErr != nil {
		m.deps.Log.Error(msg.bordersErr, map[string]interface{}{"op": "resolve_borders", "code": m.detail.code})
	}
	return m
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		return m.navigate(m.detail.from)
	case key.Matches(msg, keys.Toggle):
		if m.detail.country == nil || m.detail.toggling {
			return m, nil
		}
		if m.session.Status != session.StatusAuthenticated {
			return m.inform("Sign in to keep favorites."), nil
		}
		m.detail.toggling = true
		return m, toggleFavorite(m.ctx, m.deps.Favorites, m.detail.country.Code(), m.gen)
	}
	return m, nil
}

func (m Model) favoriteToggled(msg favoriteToggledMsg) Model {
	m.detail.toggling = false
	if msg.err != nil {
		return m.fail(msg.err)
	}
	name := msg.code
	if m.detail.country != nil {
		name = m.detail.country.CommonName()
	}
	if msg.favorite {
		return m.inform(name + " added to favorites.")
	}
	return m.inform(name + " removed from favorites.")
}

func (m Model) viewDetail() string {
	d := m.detail
	switch {
	case m.loading:
		return "Loading " + d.code + "…"
	case m.err != nil:
		return m.styles.Error.Render("Could not load " + d.code + ": " + errorText(m.err))
	case d.country == nil:
		return "No country with code " + d.code + "."
	}

	c := d.country
	f := m.deps.Formatter
	var b strings.Builder

	title := c.CommonName()
	if m.session.Status == session.StatusAuthenticated && m.deps.Favorites.IsFavorite(c.Code()) {
		title += " " + m.styles.Favorite.Render("★")
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			value = formatter.NotAvailable
		}
		b.WriteString(m.styles.Label.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("Official name", c.Name.Official)
	row("Code", c.Code())
	row("Capital", formatter.List(c.Capital))
	row("Region", string(c.Region))
	row("Subregion", c.Subregion)
	row("Population", f.Population(c.Population))
	row("Area", f.Area(c.Area))
	row("Languages", formatter.List(sortedValues(c.Languages)))
	row("Currencies", formatter.List(currencyNames(c.Currencies)))
	row("Dialing code", formatter.DialingCode(c.Cca2))
	row("Borders", m.borderText())

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(helpLine(keys.Toggle, keys.Back)))
	return b.String()
}

func (m Model) borderText() string {
	d := m.detail
	if len(d.country.Borders) == 0 {
		return "none"
	}
	if d.bordersErr != nil {
		return strings.Join(d.country.Borders, ", ")
	}
	names := make([]string, 0, len(d.borders))
	for _, c := range d.borders {
		names = append(names, c.CommonName())
	}
	return formatter.List(names)
}

func sortedValues(m map[string]string) []string {
	return slices.Sorted(maps.Values(m))
}

func currencyNames(currencies map[string]models.Currency) []string {
	out := make([]string, 0, len(currencies))
	for _, code := range slices.Sorted(maps.Keys(currencies)) {
		cur := currencies[code]
		switch {
		case cur.Name == "":
			out = append(out, code)
		case cur.Symbol != "":
			out = append(out, fmt.Sprintf("%s (%s)", cur.Name, cur.Symbol))
		default:
			out = append(out, cur.Name)
		}
	}
	return out
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joefazee/globeguide/internal/session"
	"github.com/joefazee/globeguide/models"
)

type favoritesPage struct {
	countries []models.Country
	items     []models.Country
	cursor    int
	removing  bool
}

func (m Model) favoritesLoaded(msg favoritesLoadedMsg) Model {
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		m.deps.Log.Error(msg.err, map[string]interface{}{"op": "load_favorites"})
		return m
	}
	if m.countries == nil {
		m.setCountries(msg.view.Countries)
	}
	m.favs.countries = msg.view.Countries
	m.favs.items = msg.view.Favorites
	m.favs.cursor = 0
	return m
}

func (m Model) updateFavorites(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.favs
	switch {
	case key.Matches(msg, keys.Back):
		return m.navigate(pageList)
	case key.Matches(msg, keys.Up):
		if f.cursor > 0 {
			m.favs.cursor--
		}
	case key.Matches(msg, keys.Down):
		if f.cursor < len(f.items)-1 {
			m.favs.cursor++
		}
	case key.Matches(msg, keys.Open):
		if len(f.items) > 0 {
			return m.openDetail(f.items[f.cursor].Code())
		}
	case key.Matches(msg, keys.Remove):
		if len(f.items) == 0 || f.removing {
			return m, nil
		}
		m.favs.removing = true
		return m, removeFavorite(m.ctx, m.deps.Favorites, f.items[f.cursor].Code(), m.gen)
	}
	return m, nil
}

func (m Model) favoriteRemoved(msg favoriteRemovedMsg) Model {
	m.favs.removing = false
	if msg.err != nil {
		return m.fail(msg.err)
	}
	m.favs.items = m.deps.Favorites.Favorites(m.favs.countries)
	m.favs.cursor = min(m.favs.cursor, max(len(m.favs.items)-1, 0))
	return m.inform(msg.code + " removed from favorites.")
}

func (m Model) viewFavorites() string {
	switch {
	case m.session.Status != session.StatusAuthenticated:
		return "Sign in to see your favorites (press l)."
	case m.loading:
		return "Loading favorites…"
	case m.err != nil:
		return m.styles.Error.Render("Could not load favorites: " + errorText(m.err))
	}

	f := m.favs
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Favorites (%d)", len(f.items))))
	b.WriteString("\n")
	if len(f.items) == 0 {
		b.WriteString("No favorites yet. Open a country and press f.")
		return b.String()
	}
	for i, c := range f.items {
		row := fmt.Sprintf("%-4s %-34s %-10s", c.Code(), truncate(c.CommonName(), 34), c.Region)
		if i == f.cursor {
			row = m.styles.Selected.Render("› " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(helpLine(keys.Open, keys.Remove, keys.Back)))
	return b.String()
}

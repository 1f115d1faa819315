package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joefazee/globeguide/internal/favorites"
	"github.com/joefazee/globeguide/internal/session"
	"github.com/joefazee/globeguide/models"
)

// SessionChanged carries a session state change into the program. Send it
// from a session.Synchronizer watcher.
type SessionChanged struct {
	State session.State
}

// Every async result carries the generation of the page visit that asked
// for it; results from an earlier visit are dropped.
type (
	countriesLoadedMsg struct {
		gen       uint64
		countries []models.Country
		err       error
	}

	detailLoadedMsg struct {
		gen        uint64
		country    *models.Country
		borders    []models.Country
		bordersErr error
		err        error
	}

	favoritesLoadedMsg struct {
		gen  uint64
		view favorites.View
		err  error
	}

	favoriteCodesMsg struct {
		gen uint64
		err error
	}

	favoriteToggledMsg struct {
		gen      uint64
		code     string
		favorite bool
		err      error
	}

	favoriteRemovedMsg struct {
		gen  uint64
		code string
		err  error
	}

	signedInMsg struct {
		gen      uint64
		identity *models.Identity
		err      error
	}

	signedOutMsg struct {
		err error
	}

	searchSettleMsg struct {
		seq uint64
	}
)

// staticSource serves an already fetched country list.
type staticSource []models.Country

func (s staticSource) All(context.Context) ([]models.Country, error) {
	return s, nil
}

func loadCountries(ctx context.Context, src Countries, gen uint64) tea.Cmd {
	return func() tea.Msg {
		countries, err := src.All(ctx)
		return countriesLoadedMsg{gen: gen, countries: countries, err: err}
	}
}

// loadDetail fetches the full record, then resolves its border codes. A
// failed border lookup still shows the country.
func loadDetail(ctx context.Context, src Countries, code string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		country, err := src.ByCode(ctx, code)
		if err != nil || country == nil {
			return detailLoadedMsg{gen: gen, country: country, err: err}
		}
		msg := detailLoadedMsg{gen: gen, country: country}
		if len(country.Borders) > 0 {
			found, err := src.ByCodes(ctx, country.Borders)
			msg.borders = favorites.Resolve(country.Borders, found)
			msg.bordersErr = err
		}
		return msg
	}
}

func loadFavorites(ctx context.Context, fav Favorites, src favorites.CountrySource, gen uint64) tea.Cmd {
	return func() tea.Msg {
		view, err := fav.Refresh(ctx, src)
		return favoritesLoadedMsg{gen: gen, view: view, err: err}
	}
}

func loadFavoriteCodes(ctx context.Context, fav Favorites, gen uint64) tea.Cmd {
	return func() tea.Msg {
		_, err := fav.Load(ctx)
		return favoriteCodesMsg{gen: gen, err: err}
	}
}

func toggleFavorite(ctx context.Context, fav Favorites, code string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		on, err := fav.Toggle(ctx, code)
		return favoriteToggledMsg{gen: gen, code: code, favorite: on, err: err}
	}
}

func removeFavorite(ctx context.Context, fav Favorites, code string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		err := fav.Remove(ctx, code)
		return favoriteRemovedMsg{gen: gen, code: code, err: err}
	}
}

func signIn(ctx context.Context, auth Authenticator, email, password string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		id, err := auth.SignIn(ctx, email, password)
		return signedInMsg{gen: gen, identity: id, err: err}
	}
}

func signOut(ctx context.Context, s Session) tea.Cmd {
	return func() tea.Msg {
		return signedOutMsg{err: s.SignOut(ctx)}
	}
}

func settleAfter(delay time.Duration, seq uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchSettleMsg{seq: seq}
	})
}

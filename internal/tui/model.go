// Package tui is the interactive terminal client: a country list with
// search and filters, a detail page, the signed-in user's favorites, region
// statistics and a sign-in form.
//
// Each page visit gets a new generation number. Async results are tagged
// with the generation that requested them, so a late response for a page the
// user already left never overwrites the page now on screen.
package tui

import (
	"context"
	"errors"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/joefazee/globeguide/internal/favorites"
	"github.com/joefazee/globeguide/internal/formatter"
	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/internal/session"
	"github.com/joefazee/globeguide/models"
)

// Countries is the country data boundary.
type Countries interface {
	All(ctx context.Context) ([]models.Country, error)
	ByCode(ctx context.Context, code string) (*models.Country, error)
	ByCodes(ctx context.Context, codes []string) ([]models.Country, error)
}

// Session is the synchronized session state.
type Session interface {
	State() session.State
	SignOut(ctx context.Context) error
}

// Authenticator signs a user in.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)
}

// Favorites is the signed-in user's favorite set.
type Favorites interface {
	SetUser(id *models.Identity)
	Load(ctx context.Context) ([]string, error)
	Refresh(ctx context.Context, src favorites.CountrySource) (favorites.View, error)
	IsFavorite(code string) bool
	Toggle(ctx context.Context, code string) (bool, error)
	Remove(ctx context.Context, code string) error
	Favorites(countries []models.Country) []models.Country
}

// Deps are the collaborators of the program. Log, Formatter, Rand and
// Language are optional.
type Deps struct {
	Countries Countries
	Session   Session
	Auth      Authenticator
	Favorites Favorites
	Log       logger.Logger
	Formatter *formatter.Formatter
	Rand      *rand.Rand
	Language  language.Tag
}

type page int

const (
	pageList page = iota
	pageDetail
	pageFavorites
	pageRegions
	pageLogin
)

func (p page) String() string {
	switch p {
	case pageDetail:
		return "detail"
	case pageFavorites:
		return "favorites"
	case pageRegions:
		return "regions"
	case pageLogin:
		return "login"
	default:
		return "list"
	}
}

const featuredCount = 3

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	deps   Deps
	styles Styles
	width  int

	page page
	gen  uint64

	session session.State
	notice  string
	failed  bool

	// countries is the bulk list shared by the list and regions pages.
	countries []models.Country
	loading   bool
	err       error

	list    listPage
	detail  detailPage
	favs    favoritesPage
	regions regionsPage
	login   loginPage
}

// New builds the root model. ctx bounds every call the program makes.
func New(ctx context.Context, deps Deps) Model {
	if deps.Log == nil {
		deps.Log = logger.NewNullLogger()
	}
	if deps.Language == language.Und {
		deps.Language = language.English
	}
	if deps.Formatter == nil {
		deps.Formatter = formatter.New(deps.Language)
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return Model{
		ctx:     ctx,
		deps:    deps,
		styles:  NewStyles(),
		session: deps.Session.State(),
		gen:     1,
		loading: true,
		list:    newListPage(),
	}
}

// Init loads the bulk list for the first visit of the list page.
func (m Model) Init() tea.Cmd {
	return loadCountries(m.ctx, m.deps.Countries, m.gen)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case SessionChanged:
		return m.applySession(msg.State)

	case countriesLoadedMsg:
		if m.stale(msg.gen, "countries") {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.deps.Log.Error(msg.err, map[string]interface{}{"op": "load_countries"})
			return m, nil
		}
		m.setCountries(msg.countries)
		return m, nil

	case detailLoadedMsg:
		if m.stale(msg.gen, "detail") {
			return m, nil
		}
		return m.detailLoaded(msg), nil

	case favoritesLoadedMsg:
		if m.stale(msg.gen, "favorites") {
			return m, nil
		}
		return m.favoritesLoaded(msg), nil

	case favoriteCodesMsg:
		if m.stale(msg.gen, "favorite_codes") {
			return m, nil
		}
		if msg.err != nil && !errors.Is(msg.err, favorites.ErrNoUser) {
			m = m.fail(msg.err)
		}
		return m, nil

	case favoriteToggledMsg:
		if m.stale(msg.gen, "toggle") {
			return m, nil
		}
		return m.favoriteToggled(msg), nil

	case favoriteRemovedMsg:
		if m.stale(msg.gen, "remove") {
			return m, nil
		}
		return m.favoriteRemoved(msg), nil

	case signedInMsg:
		if m.stale(msg.gen, "sign_in") {
			return m, nil
		}
		return m.signedIn(msg)

	case signedOutMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		return m.inform("Signed out."), nil

	case searchSettleMsg:
		return m.searchSettled(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) stale(gen uint64, kind string) bool {
	if gen == m.gen {
		return false
	}
	m.deps.Log.Debug("stale result dropped", map[string]interface{}{
		"kind": kind, "page": m.page.String(),
	})
	return true
}

func (m *Model) setCountries(countries []models.Country) {
	m.countries = countries
	m.list.featured = pickFeatured(countries, m.deps.Rand)
	m.list = m.list.rerun(m.countries, m.deps.Language)
}

// navigate starts a new visit of p and issues whatever the page needs.
func (m Model) navigate(p page) (Model, tea.Cmd) {
	m.gen++
	m.page = p
	m.err = nil
	m.loading = false
	m.notice = ""

	switch p {
	case pageList, pageRegions:
		if m.countries == nil {
			m.loading = true
			return m, loadCountries(m.ctx, m.deps.Countries, m.gen)
		}
	case pageFavorites:
		m.favs = favoritesPage{}
		if m.session.Status != session.StatusAuthenticated {
			return m, nil
		}
		m.loading = true
		var src favorites.CountrySource = m.deps.Countries
		if m.countries != nil {
			src = staticSource(m.countries)
		}
		return m, loadFavorites(m.ctx, m.deps.Favorites, src, m.gen)
	case pageLogin:
		m.login = newLoginPage()
		return m, m.login.focusCmd()
	}
	return m, nil
}

func (m Model) applySession(st session.State) (tea.Model, tea.Cmd) {
	prev := m.session
	m.session = st
	if st.Loading {
		return m, nil
	}
	m.deps.Favorites.SetUser(st.Identity)
	if prev.Identity.Equal(st.Identity) && prev.Status == st.Status {
		return m, nil
	}

	switch m.page {
	case pageFavorites:
		return m.navigate(pageFavorites)
	case pageDetail:
		if st.Status == session.StatusAuthenticated {
			return m, loadFavoriteCodes(m.ctx, m.deps.Favorites, m.gen)
		}
	case pageLogin:
		if st.Status == session.StatusAuthenticated {
			return m.navigate(pageList)
		}
	}
	return m, nil
}

func (m Model) signedIn(msg signedInMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if msg.err != nil {
		m.login = m.login.withError(msg.err)
		return m, nil
	}
	next, cmd := m.navigate(pageList)
	return next.inform("Signed in as " + displayName(msg.identity) + "."), cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	// text inputs own the keyboard while focused
	if m.page == pageLogin {
		return m.updateLogin(msg)
	}
	if m.page == pageList && m.list.search.Focused() {
		return m.updateSearch(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.List):
		return m.navigate(pageList)
	case key.Matches(msg, keys.Favorites):
		return m.navigate(pageFavorites)
	case key.Matches(msg, keys.Regions):
		return m.navigate(pageRegions)
	case key.Matches(msg, keys.Login):
		if m.session.Status == session.StatusAuthenticated {
			return m.inform("Already signed in."), nil
		}
		return m.navigate(pageLogin)
	case key.Matches(msg, keys.SignOut):
		if m.session.Status != session.StatusAuthenticated {
			return m.inform("Not signed in."), nil
		}
		return m, signOut(m.ctx, m.deps.Session)
	}

	switch m.page {
	case pageList:
		return m.updateList(msg)
	case pageDetail:
		return m.updateDetail(msg)
	case pageFavorites:
		return m.updateFavorites(msg)
	case pageRegions:
		return m.updateRegions(msg)
	}
	return m, nil
}

// updateInputs forwards non-key messages, such as cursor blinks, to the
// focused text input.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.page {
	case pageList:
		m.list.search, cmd = m.list.search.Update(msg)
	case pageLogin:
		m.login, cmd = m.login.update(msg)
	}
	return m, cmd
}

func (m Model) inform(text string) Model {
	m.notice = text
	m.failed = false
	return m
}

func (m Model) fail(err error) Model {
	m.notice = errorText(err)
	m.failed = true
	return m
}

func (m Model) View() string {
	var body string
	switch m.page {
	case pageDetail:
		body = m.viewDetail()
	case pageFavorites:
		body = m.viewFavorites()
	case pageRegions:
		body = m.viewRegions()
	case pageLogin:
		body = m.viewLogin()
	default:
		body = m.viewList()
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.styles.Content.Render(body))
	b.WriteString("\n")
	if m.notice != "" {
		style := m.styles.Success
		if m.failed {
			style = m.styles.Error
		}
		b.WriteString(m.styles.Footer.Render(style.Render(m.notice)))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Footer.Render(helpLine(keys.List, keys.Favorites, keys.Regions, m.sessionKey(), keys.Quit)))
	return b.String()
}

func (m Model) sessionKey() key.Binding {
	if m.session.Status == session.StatusAuthenticated {
		return keys.SignOut
	}
	return keys.Login
}

func (m Model) viewHeader() string {
	tabs := []struct {
		p     page
		label string
	}{
		{pageList, "Countries"},
		{pageFavorites, "Favorites"},
		{pageRegions, "Regions"},
	}
	parts := []string{m.styles.Header.Render("GlobeGuide")}
	for _, t := range tabs {
		style := m.styles.Tab
		if m.page == t.p || (m.page == pageDetail && t.p == pageList) {
			style = m.styles.ActiveTab
		}
		parts = append(parts, style.Render(t.label))
	}
	parts = append(parts, m.styles.Session.Render(m.sessionText()))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) sessionText() string {
	switch {
	case m.session.Loading || m.session.Status == session.StatusUnknown:
		return "checking session…"
	case m.session.Status == session.StatusAuthenticated:
		return "signed in as " + displayName(m.session.Identity)
	default:
		return "signed out"
	}
}

func displayName(id *models.Identity) string {
	if id == nil {
		return ""
	}
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return id.Email
}

func errorText(err error) string {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		msgs := make([]string, 0, len(ve.Fields))
		for _, f := range slices.Sorted(maps.Keys(ve.Fields)) {
			msgs = append(msgs, f+" "+ve.Fields[f])
		}
		return strings.Join(msgs, "; ")
	case errors.Is(err, session.ErrSignOutInProgress):
		return "Sign-out already in progress."
	case errors.Is(err, models.ErrUnauthorized):
		return "Your session is no longer valid. Sign in again."
	case errors.Is(err, models.ErrNetwork):
		return "Network error: " + err.Error()
	case errors.Is(err, favorites.ErrNoUser):
		return "Sign in to keep favorites."
	case errors.Is(err, favorites.ErrUserChanged):
		return "The signed-in user changed; nothing was saved."
	default:
		return err.Error()
	}
}

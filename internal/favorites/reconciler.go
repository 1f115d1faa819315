// Package favorites keeps a user's favorite country codes in step with the
// profile store and resolves them against bulk country data for display.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/models"
)

var (
	ErrClosed = errors.New("favorites: reconciler closed")
	ErrNoUser = errors.New("favorites: no signed-in user")
	// ErrUserChanged is returned when the user switched while a call was in
	// flight; nothing was written.
	ErrUserChanged = errors.New("favorites: user changed")
)

// Repository is the profile store as far as favorites are concerned.
type Repository interface {
	// ReadFavorites returns the stored codes, nil when never written.
	ReadFavorites(ctx context.Context, userID uuid.UUID) ([]string, error)
	// WriteFavorites replaces the stored codes.
	WriteFavorites(ctx context.Context, userID uuid.UUID, codes []string) error
}

// CountrySource provides the bulk country list.
type CountrySource interface {
	All(ctx context.Context) ([]models.Country, error)
}

// Resolve returns the countries whose code is in codes, in the order of
// codes. Repeated codes appear once and codes with no matching country are
// omitted.
func Resolve(codes []string, countries []models.Country) []models.Country {
	byCode := make(map[string]models.Country, len(countries))
	for _, c := range countries {
		if c.Cca3 == "" {
			continue
		}
		if _, dup := byCode[c.Cca3]; !dup {
			byCode[c.Cca3] = c
		}
	}

	out := make([]models.Country, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = models.NormalizeCode(code)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		if c, ok := byCode[code]; ok {
			out = append(out, c)
		}
	}
	return out
}

// View is a loaded favorites page.
type View struct {
	Countries []models.Country
	Favorites []models.Country
}

// Reconciler owns the local copy of one user's favorite set. Every mutation
// goes through Toggle, which writes the new set to the repository before the
// local copy changes.
type Reconciler struct {
	repo Repository
	log  logger.Logger

	// toggleMu serializes read-modify-write cycles.
	toggleMu sync.Mutex

	mu     sync.RWMutex
	user   *models.Identity
	codes  []string
	loaded bool
	gen    uint64
	closed bool
}

// New creates a reconciler with no user.
func New(repo Repository, log logger.Logger) *Reconciler {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Reconciler{repo: repo, log: log}
}

// SetUser switches the reconciler to id (nil for signed out), discarding the
// previous user's local set. Results of calls started for the previous user
// are dropped.
func (r *Reconciler) SetUser(id *models.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.user.Equal(id) {
		return
	}
	r.gen++
	r.codes = nil
	r.loaded = false
	r.user = nil
	if id != nil {
		cp := *id
		r.user = &cp
	}
}

// Close stops the reconciler. Later calls fail with ErrClosed and results of
// in-flight calls are discarded.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.gen++
}

// Load reads the favorite set from the repository.
func (r *Reconciler) Load(ctx context.Context) ([]string, error) {
	user, gen, err := r.current()
	if err != nil {
		return nil, err
	}
	return r.load(ctx, user, gen)
}

// load reads the set for user and installs it only while gen is current.
func (r *Reconciler) load(ctx context.Context, user *models.Identity, gen uint64) ([]string, error) {
	codes, err := r.repo.ReadFavorites(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("favorites: read: %w", err)
	}
	codes = models.NormalizeFavorites(codes)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if r.gen != gen {
		return nil, ErrUserChanged
	}
	r.codes = codes
	r.loaded = true
	return slices.Clone(codes), nil
}

// Refresh loads the favorite set and the bulk country list concurrently and
// resolves one against the other.
func (r *Reconciler) Refresh(ctx context.Context, src CountrySource) (View, error) {
	var (
		countries []models.Country
		codes     []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		countries, err = src.All(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		codes, err = r.Load(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return View{}, err
	}
	return View{Countries: countries, Favorites: Resolve(codes, countries)}, nil
}

// Codes returns a copy of the local favorite set.
func (r *Reconciler) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.codes)
}

// IsFavorite reports whether code is in the local set.
func (r *Reconciler) IsFavorite(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.codes, models.NormalizeCode(code))
}

// Favorites resolves the local set against countries.
func (r *Reconciler) Favorites(countries []models.Country) []models.Country {
	return Resolve(r.Codes(), countries)
}

// Toggle adds code when absent and removes it when present. The new set is
// written first; the local set changes only if the write succeeds. It
// reports whether code is a favorite afterwards.
func (r *Reconciler) Toggle(ctx context.Context, code string) (bool, error) {
	r.toggleMu.Lock()
	defer r.toggleMu.Unlock()
	return r.toggle(ctx, code)
}

// Remove drops code from the set if present, through the same path as Toggle.
func (r *Reconciler) Remove(ctx context.Context, code string) error {
	r.toggleMu.Lock()
	defer r.toggleMu.Unlock()

	user, gen, err := r.current()
	if err != nil {
		return err
	}
	current, err := r.snapshot(ctx, user, gen)
	if err != nil {
		return err
	}
	if !slices.Contains(current, models.NormalizeCode(code)) {
		return nil
	}
	_, err = r.toggle(ctx, code)
	return err
}

// toggle pins the user and generation once; the set it changes is the one
// stored for that user.
func (r *Reconciler) toggle(ctx context.Context, code string) (bool, error) {
	code = models.NormalizeCode(code)
	if !models.IsCountryCode(code) {
		return false, models.NewValidationError(map[string]string{"code": "must be a 3-letter country code"})
	}
	user, gen, err := r.current()
	if err != nil {
		return false, err
	}
	current, err := r.snapshot(ctx, user, gen)
	if err != nil {
		return false, err
	}

	next, added := toggled(current, code)
	if err := r.repo.WriteFavorites(ctx, user.ID, next); err != nil {
		r.log.Error(err, map[string]interface{}{"op": "write_favorites", "code": code})
		return !added, fmt.Errorf("favorites: write: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return added, ErrClosed
	}
	if r.gen == gen {
		r.codes = next
	}
	return added, nil
}

// snapshot returns the loaded set of user, loading it first if needed. It
// fails with ErrUserChanged once gen is no longer current.
func (r *Reconciler) snapshot(ctx context.Context, user *models.Identity, gen uint64) ([]string, error) {
	r.mu.RLock()
	loaded := r.loaded && r.gen == gen
	r.mu.RUnlock()
	if !loaded {
		if _, err := r.load(ctx, user, gen); err != nil {
			return nil, err
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	if r.gen != gen || !r.loaded {
		return nil, ErrUserChanged
	}
	return slices.Clone(r.codes), nil
}

func (r *Reconciler) current() (*models.Identity, uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, 0, ErrClosed
	}
	if r.user == nil {
		return nil, 0, ErrNoUser
	}
	return r.user, r.gen, nil
}

func toggled(codes []string, code string) ([]string, bool) {
	if i := slices.Index(codes, code); i >= 0 {
		return slices.Delete(slices.Clone(codes), i, i+1), false
	}
	return append(slices.Clone(codes), code), true
}

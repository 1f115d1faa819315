// Package session mirrors a push-based identity provider into a single
// observable, loading-aware session state.
//
// State machine:
//
//	mount                          -> (Unknown, loading)
//	notification(nil)              -> (Unauthenticated, settled)
//	notification(identity)         -> (Authenticated, settled)
//	SignOut succeeded              -> (Unauthenticated, settled)
//	unmount                        -> (Unknown, loading), late notifications ignored
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/models"
)

var (
	ErrAlreadyMounted    = errors.New("session: already mounted")
	ErrNotMounted        = errors.New("session: not mounted")
	ErrSignOutInProgress = errors.New("session: sign-out already in progress")
)

// Status is the three-valued session lifecycle.
type Status int

const (
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// State is the pair exposed to consumers. Identity is set only when
// Status is StatusAuthenticated.
type State struct {
	Status   Status
	Identity *models.Identity
	Loading  bool
}

func (s State) equal(o State) bool {
	return s.Status == o.Status && s.Loading == o.Loading && s.Identity.Equal(o.Identity)
}

func initialState() State {
	return State{Status: StatusUnknown, Loading: true}
}

func stateFor(id *models.Identity) State {
	if id == nil {
		return State{Status: StatusUnauthenticated}
	}
	cp := *id
	return State{Status: StatusAuthenticated, Identity: &cp}
}

// Provider is the external identity notifier.
type Provider interface {
	// Subscribe registers fn for every identity change and returns the
	// function that releases the registration.
	Subscribe(fn func(*models.Identity)) (unsubscribe func())
	// SignOut ends the provider's session.
	SignOut(ctx context.Context) error
}

// Synchronizer holds one provider subscription while mounted and fans state
// changes out to watchers in notification order.
type Synchronizer struct {
	provider Provider
	log      logger.Logger

	// emitMu serializes apply+fan-out so watchers see states in order.
	emitMu sync.Mutex

	mu          sync.Mutex
	state       State
	mounted     bool
	gen         uint64
	unsubscribe func()
	signingOut  bool
	ready       chan struct{}
	watchers    map[uint64]func(State)
	nextWatch   uint64
}

// New creates an unmounted synchronizer for provider.
func New(provider Provider, log logger.Logger) *Synchronizer {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Synchronizer{
		provider: provider,
		log:      log,
		state:    initialState(),
		ready:    make(chan struct{}),
		watchers: make(map[uint64]func(State)),
	}
}

// State returns the current state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Watch registers fn to receive every state change and returns a function
// that removes it. fn runs on the notifying goroutine and must not call
// SignOut synchronously.
func (s *Synchronizer) Watch(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextWatch
	s.nextWatch++
	s.watchers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
}

// Mount subscribes to the provider. A mounted synchronizer holds exactly
// one subscription.
func (s *Synchronizer) Mount() error {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.mounted = true
	s.gen++
	gen := s.gen
	s.state = initialState()
	s.ready = make(chan struct{})
	s.mu.Unlock()

	unsubscribe := s.provider.Subscribe(func(id *models.Identity) {
		s.apply(gen, stateFor(id), "notification")
	})

	s.mu.Lock()
	if s.gen != gen {
		// unmounted while subscribing
		s.mu.Unlock()
		unsubscribe()
		return nil
	}
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	s.log.Debug("session mounted", map[string]interface{}{"generation": gen})
	return nil
}

// Unmount releases the subscription and returns the state to
// (Unknown, loading). Notifications arriving afterwards are dropped.
func (s *Synchronizer) Unmount() error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return ErrNotMounted
	}
	s.mounted = false
	s.gen++
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.state = initialState()
	s.ready = make(chan struct{})
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.log.Debug("session unmounted", nil)
	return nil
}

// SignOut asks the provider to end the session. On success the state becomes
// Unauthenticated without waiting for the provider's notification. On failure
// the state is untouched and the error is returned. A call made while another
// is pending returns ErrSignOutInProgress without reaching the provider.
func (s *Synchronizer) SignOut(ctx context.Context) error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return ErrNotMounted
	}
	if s.signingOut {
		s.mu.Unlock()
		return ErrSignOutInProgress
	}
	s.signingOut = true
	gen := s.gen
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.signingOut = false
		s.mu.Unlock()
	}()

	if err := s.provider.SignOut(ctx); err != nil {
		s.log.Error(err, map[string]interface{}{"op": "sign_out"})
		return fmt.Errorf("session: sign out: %w", err)
	}

	s.apply(gen, stateFor(nil), "sign_out")
	return nil
}

// Await blocks until the first notification after mount has been applied
// or ctx is done.
func (s *Synchronizer) Await(ctx context.Context) (State, error) {
	s.mu.Lock()
	ready := s.ready
	s.mu.Unlock()

	select {
	case <-ready:
		return s.State(), nil
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

func (s *Synchronizer) apply(gen uint64, next State, source string) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if !s.mounted || s.gen != gen {
		s.mu.Unlock()
		s.log.Debug("stale session update dropped", map[string]interface{}{"source": source})
		return
	}
	changed := !s.state.equal(next)
	s.state = next
	select {
	case <-s.ready:
	default:
		close(s.ready)
	}
	watchers := make([]func(State), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	s.log.Info("session state changed", map[string]interface{}{
		"status": next.Status.String(),
		"source": source,
	})
	for _, fn := range watchers {
		fn(next)
	}
}

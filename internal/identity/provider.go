// Package identity is the client-side auth provider. It signs users in
// against the API, persists the session to a file and notifies subscribers
// of every identity change, including changes made to the file by another
// process.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joefazee/globeguide/internal/backend"
	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/internal/session"
	"github.com/joefazee/globeguide/internal/validator"
	"github.com/joefazee/globeguide/models"
)

// Authenticator is the remote side of sign-in and sign-out.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*backend.Session, error)
	Logout(ctx context.Context, token string) error
}

type delivery struct {
	sub      uint64
	identity *models.Identity
}

// Provider notifies subscribers of identity changes on a single dispatcher
// goroutine, so each subscriber sees changes in the order they happened.
type Provider struct {
	auth  Authenticator
	store *FileStore
	log   logger.Logger
	now   func() time.Time

	// fileMu pairs each session file change with the state update it implies.
	fileMu sync.Mutex

	mu      sync.Mutex
	current *backend.Session
	// notified is the identity subscribers were last told about.
	notified *models.Identity
	// expiry re-evaluates the session when its token expires.
	expiry  *time.Timer
	subs    map[uint64]func(*models.Identity)
	nextSub uint64
	queue   []delivery
	started bool

	wake   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var (
	_ session.Provider    = (*Provider)(nil)
	_ backend.TokenSource = (*Provider)(nil)
)

func NewProvider(auth Authenticator, store *FileStore, log logger.Logger) *Provider {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Provider{
		auth:  auth,
		store: store,
		log:   log,
		now:   time.Now,
		subs:  make(map[uint64]func(*models.Identity)),
		wake:  make(chan struct{}, 1),
	}
}

// Start restores the stored session and begins delivering notifications and
// watching the session file. Close stops both.
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	watchDone, err := p.store.Watch(ctx, p.log, p.reload)
	if err != nil {
		// signing in still works; changes made elsewhere go unnoticed
		p.log.Error(err, map[string]interface{}{"op": "watch_session"})
	}
	p.reload()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.dispatch(ctx)
	}()
	if watchDone != nil {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			<-watchDone
		}()
	}
	return nil
}

// Close stops the provider and waits for its goroutines.
func (p *Provider) Close() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.mu.Lock()
	if p.expiry != nil {
		p.expiry.Stop()
		p.expiry = nil
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Subscribe registers fn and queues the current identity for it.
func (p *Provider) Subscribe(fn func(*models.Identity)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.queue = append(p.queue, delivery{sub: id, identity: p.identityLocked()})
	p.mu.Unlock()
	p.signal()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

// Current returns the signed-in identity, or nil.
func (p *Provider) Current() *models.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.identityLocked()
}

// Token returns the access token of the signed-in user, or "" when signed
// out or expired.
func (p *Provider) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil || p.current.Expired(p.now()) {
		return ""
	}
	return p.current.AccessToken
}

// SignIn validates the credentials locally, then exchanges them for a session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	v := validator.New()
	v.Check(validator.NotBlank(email), "email", "must be provided")
	v.Check(validator.IsEmail(email), "email", "must be a valid email address")
	v.Check(validator.NotBlank(password), "password", "must be provided")
	if err := v.Err(); err != nil {
		return nil, err
	}

	sess, err := p.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("identity: sign in: %w", err)
	}
	p.fileMu.Lock()
	defer p.fileMu.Unlock()
	if err := p.store.Save(sess); err != nil {
		return nil, err
	}
	p.set(sess)

	cp := sess.User
	return &cp, nil
}

// SignOut revokes the token remotely and clears the stored session. A token
// the server no longer accepts still counts as signed out.
func (p *Provider) SignOut(ctx context.Context) error {
	token := p.Token()
	if token != "" {
		if err := p.auth.Logout(ctx, token); err != nil && !errors.Is(err, models.ErrUnauthorized) {
			return fmt.Errorf("identity: sign out: %w", err)
		}
	}
	p.fileMu.Lock()
	defer p.fileMu.Unlock()
	if err := p.store.Clear(); err != nil {
		return err
	}
	p.set(nil)
	return nil
}

func (p *Provider) identityLocked() *models.Identity {
	if p.current == nil || p.current.Expired(p.now()) {
		return nil
	}
	cp := p.current.User
	return &cp
}

func (p *Provider) reload() {
	p.fileMu.Lock()
	defer p.fileMu.Unlock()

	sess, err := p.store.Load()
	if err != nil {
		p.log.Error(err, map[string]interface{}{"op": "load_session", "path": p.store.Path()})
		sess = nil
	}
	p.set(sess)
}

// set replaces the current session and notifies every subscriber when the
// identity it represents changed.
func (p *Provider) set(sess *backend.Session) {
	p.mu.Lock()
	p.current = sess
	p.armExpiryLocked()
	after, changed := p.announceLocked()
	p.mu.Unlock()

	if changed {
		p.changed(after, "")
	}
}

// expire runs when the token of the current session expires. Expiry only
// shows in identityLocked, so it is announced from here.
func (p *Provider) expire() {
	p.mu.Lock()
	after, changed := p.announceLocked()
	p.mu.Unlock()

	if changed {
		p.changed(after, "session_expired")
	}
}

func (p *Provider) armExpiryLocked() {
	if p.expiry != nil {
		p.expiry.Stop()
		p.expiry = nil
	}
	if p.current == nil || p.current.ExpiresAt.IsZero() {
		return
	}
	if d := p.current.ExpiresAt.Sub(p.now()); d > 0 {
		p.expiry = time.AfterFunc(d, p.expire)
	}
}

// announceLocked queues the current identity for every subscriber unless
// they were already told about it.
func (p *Provider) announceLocked() (*models.Identity, bool) {
	after := p.identityLocked()
	if p.notified.Equal(after) {
		return nil, false
	}
	p.notified = after
	for id := range p.subs {
		var cp *models.Identity
		if after != nil {
			v := *after
			cp = &v
		}
		p.queue = append(p.queue, delivery{sub: id, identity: cp})
	}
	return after, true
}

func (p *Provider) changed(after *models.Identity, reason string) {
	fields := map[string]interface{}{"status": "signed_out"}
	if after != nil {
		fields["status"] = "signed_in"
	}
	if reason != "" {
		fields["reason"] = reason
	}
	p.log.Info("identity changed", fields)
	p.signal()
}

func (p *Provider) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Provider) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.wake:
		}

		for {
			p.mu.Lock()
			if len(p.queue) == 0 {
				p.mu.Unlock()
				break
			}
			d := p.queue[0]
			p.queue = p.queue[1:]
			fn := p.subs[d.sub]
			p.mu.Unlock()

			if fn != nil {
				fn(d.identity)
			}
		}
	}
}

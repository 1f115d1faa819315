package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"github.com/joefazee/globeguide/internal/logger"
	"github.com/joefazee/globeguide/models"
)

type fakeProvider struct {
	mu          sync.Mutex
	subscribers map[int]func(*models.Identity)
	next        int
	subscribes  int
	released    int

	signOutCalls atomic.Int32
	signOutErr   error
	signOutGate  chan struct{}
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{subscribers: map[int]func(*models.Identity){}}
}

func (p *fakeProvider) Subscribe(fn func(*models.Identity)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next
	p.next++
	p.subscribers[id] = fn
	p.subscribes++
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.subscribers[id]; ok {
			delete(p.subscribers, id)
			p.released++
		}
	}
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.signOutCalls.Add(1)
	if p.signOutGate != nil {
		select {
		case <-p.signOutGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.signOutErr
}

func (p *fakeProvider) active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subscribers)
}

// notify calls every current subscriber, like the provider's event loop.
func (p *fakeProvider) notify(id *models.Identity) {
	p.mu.Lock()
	fns := make([]func(*models.Identity), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}

type SynchronizerTestSuite struct {
	suite.Suite
	provider *fakeProvider
	sync     *Synchronizer
}

func (s *SynchronizerTestSuite) SetupTest() {
	s.provider = newFakeProvider()
	s.sync = New(s.provider, logger.NewNullLogger())
}

func (s *SynchronizerTestSuite) TearDownTest() {
	goleak.VerifyNone(s.T())
}

func TestSynchronizer(t *testing.T) {
	suite.Run(t, new(SynchronizerTestSuite))
}

func (s *SynchronizerTestSuite) TestInitialStateIsUnknownAndLoading() {
	s.Require().NoError(s.sync.Mount())
	st := s.sync.State()
	s.Equal(StatusUnknown, st.Status)
	s.True(st.Loading)
	s.Nil(st.Identity)
}

func (s *SynchronizerTestSuite) TestFirstNullNotification() {
	s.Require().NoError(s.sync.Mount())
	s.provider.notify(nil)

	st := s.sync.State()
	s.Equal(StatusUnauthenticated, st.Status)
	s.False(st.Loading)
}

func (s *SynchronizerTestSuite) TestFirstIdentityNotification() {
	s.Require().NoError(s.sync.Mount())
	s.provider.notify(&models.Identity{ID: uuid.New(), Email: "a@b.com"})

	st := s.sync.State()
	s.Equal(StatusAuthenticated, st.Status)
	s.False(st.Loading)
	s.Require().NotNil(st.Identity)
	s.Equal("a@b.com", st.Identity.Email)
}

func (s *SynchronizerTestSuite) TestSubsequentNotificationsKeepLoadingFalse() {
	s.Require().NoError(s.sync.Mount())
	id := &models.Identity{ID: uuid.New(), Email: "a@b.com"}

	var seen []State
	cancel := s.sync.Watch(func(st State) { seen = append(seen, st) })
	defer cancel()

	s.provider.notify(id)
	s.provider.notify(nil)
	s.provider.notify(id)

	s.Require().Len(seen, 3)
	s.Equal([]Status{StatusAuthenticated, StatusUnauthenticated, StatusAuthenticated},
		[]Status{seen[0].Status, seen[1].Status, seen[2].Status})
	for _, st := range seen {
		s.False(st.Loading)
	}
}

func (s *SynchronizerTestSuite) TestIdentityIsCopied() {
	s.Require().NoError(s.sync.Mount())
	id := &models.Identity{ID: uuid.New(), Email: "a@b.com"}
	s.provider.notify(id)
	id.Email = "mutated@b.com"

	s.Equal("a@b.com", s.sync.State().Identity.Email)
}

func (s *SynchronizerTestSuite) TestSingleSubscriptionAcrossMountCycles() {
	for i := 0; i < 2; i++ {
		s.Require().NoError(s.sync.Mount())
		s.Equal(1, s.provider.active())
		s.ErrorIs(s.sync.Mount(), ErrAlreadyMounted)
		s.Equal(1, s.provider.active())

		s.Require().NoError(s.sync.Unmount())
		s.Equal(0, s.provider.active())
		s.ErrorIs(s.sync.Unmount(), ErrNotMounted)
	}
	s.Equal(2, s.provider.subscribes)
	s.Equal(2, s.provider.released)
}

func (s *SynchronizerTestSuite) TestLateNotificationAfterUnmountIsIgnored() {
	var captured func(*models.Identity)

	s.Require().NoError(s.sync.Mount())
	s.provider.mu.Lock()
	for _, fn := range s.provider.subscribers {
		captured = fn
	}
	s.provider.mu.Unlock()
	s.Require().NotNil(captured)

	s.Require().NoError(s.sync.Unmount())
	captured(&models.Identity{Email: "late@b.com"})

	st := s.sync.State()
	s.Equal(StatusUnknown, st.Status)
	s.True(st.Loading)

	// a stale callback from the previous mount must not leak into a new one
	s.Require().NoError(s.sync.Mount())
	captured(&models.Identity{Email: "late@b.com"})
	s.Equal(StatusUnknown, s.sync.State().Status)
	s.Require().NoError(s.sync.Unmount())
}

func (s *SynchronizerTestSuite) TestSignOutForcesUnauthenticated() {
	s.Require().NoError(s.sync.Mount())
	s.provider.notify(&models.Identity{ID: uuid.New(), Email: "a@b.com"})

	var emitted []State
	cancel := s.sync.Watch(func(st State) { emitted = append(emitted, st) })
	defer cancel()

	s.Require().NoError(s.sync.SignOut(context.Background()))
	s.Equal(StatusUnauthenticated, s.sync.State().Status)

	// the provider's own confirmation arrives later and changes nothing
	s.provider.notify(nil)
	s.Equal(StatusUnauthenticated, s.sync.State().Status)
	s.Len(emitted, 1)
	s.Equal(int32(1), s.provider.signOutCalls.Load())
}

func (s *SynchronizerTestSuite) TestSignOutFailureLeavesStateAndSurfacesError() {
	s.Require().NoError(s.sync.Mount())
	s.provider.notify(&models.Identity{ID: uuid.New(), Email: "a@b.com"})
	s.provider.signOutErr = errors.New("network down")

	err := s.sync.SignOut(context.Background())
	s.Require().Error(err)
	s.Contains(err.Error(), "network down")
	s.Equal(StatusAuthenticated, s.sync.State().Status)
}

func (s *SynchronizerTestSuite) TestConcurrentSignOutReachesProviderOnce() {
	s.Require().NoError(s.sync.Mount())
	s.provider.notify(&models.Identity{ID: uuid.New(), Email: "a@b.com"})
	s.provider.signOutGate = make(chan struct{})

	firstDone := make(chan error, 1)
	go func() { firstDone <- s.sync.SignOut(context.Background()) }()

	s.Eventually(func() bool { return s.provider.signOutCalls.Load() == 1 }, time.Second, time.Millisecond)

	s.ErrorIs(s.sync.SignOut(context.Background()), ErrSignOutInProgress)
	s.Equal(int32(1), s.provider.signOutCalls.Load())

	close(s.provider.signOutGate)
	s.NoError(<-firstDone)
	s.Equal(StatusUnauthenticated, s.sync.State().Status)

	// once settled, a new sign-out is accepted again
	s.provider.signOutGate = nil
	s.NoError(s.sync.SignOut(context.Background()))
	s.Equal(int32(2), s.provider.signOutCalls.Load())
	s.Require().NoError(s.sync.Unmount())
}

func (s *SynchronizerTestSuite) TestSignOutRequiresMount() {
	s.ErrorIs(s.sync.SignOut(context.Background()), ErrNotMounted)
	s.Equal(int32(0), s.provider.signOutCalls.Load())
}

func (s *SynchronizerTestSuite) TestSignOutResultAfterUnmountIsDropped() {
	s.Require().NoError(s.sync.Mount())
	s.provider.notify(&models.Identity{ID: uuid.New()})
	s.provider.signOutGate = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- s.sync.SignOut(context.Background()) }()
	s.Eventually(func() bool { return s.provider.signOutCalls.Load() == 1 }, time.Second, time.Millisecond)

	s.Require().NoError(s.sync.Unmount())
	close(s.provider.signOutGate)
	s.NoError(<-done)

	st := s.sync.State()
	s.Equal(StatusUnknown, st.Status)
	s.True(st.Loading)
}

func (s *SynchronizerTestSuite) TestAwait() {
	s.Require().NoError(s.sync.Mount())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	st, err := s.sync.Await(ctx)
	s.ErrorIs(err, context.DeadlineExceeded)
	s.True(st.Loading)

	go s.provider.notify(nil)
	st, err = s.sync.Await(context.Background())
	s.NoError(err)
	s.Equal(StatusUnauthenticated, st.Status)
	s.Require().NoError(s.sync.Unmount())
}

func (s *SynchronizerTestSuite) TestWatchCancel() {
	s.Require().NoError(s.sync.Mount())
	var calls int
	cancel := s.sync.Watch(func(State) { calls++ })
	s.provider.notify(nil)
	cancel()
	cancel()
	s.provider.notify(&models.Identity{ID: uuid.New()})
	s.Equal(1, calls)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "unknown", StatusUnknown.String())
	assert.Equal(t, "authenticated", StatusAuthenticated.String())
	assert.Equal(t, "unauthenticated", StatusUnauthenticated.String())
}

func TestNotificationsDeliveredInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := newFakeProvider()
	s := New(p, nil)
	require.NoError(t, s.Mount())
	defer func() { _ = s.Unmount() }()

	var got []string
	s.Watch(func(st State) {
		if st.Identity != nil {
			got = append(got, st.Identity.Email)
		} else {
			got = append(got, "")
		}
	})

	want := []string{"a@x.io", "", "b@x.io", "c@x.io", ""}
	for _, email := range want {
		if email == "" {
			p.notify(nil)
			continue
		}
		p.notify(&models.Identity{Email: email})
	}
	assert.Equal(t, want, got)
}

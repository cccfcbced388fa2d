package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/basso-ws/workspace-backend/internal/identity"
	"github.com/basso-ws/workspace-backend/internal/profiles"
	"github.com/basso-ws/workspace-backend/internal/session/domain"
	"github.com/basso-ws/workspace-backend/internal/session/repository"
)

// DefaultTimeout bounds every remote identity call. A call that has not
// answered by then is treated as failed, never as still pending.
const DefaultTimeout = 10 * time.Second

// IdentityClient is the slice of the identity service the manager needs.
type IdentityClient interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	GetUser(ctx context.Context, accessToken string) (*identity.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProfileStore ensures and resolves the profile behind an identity.
type ProfileStore interface {
	Ensure(ctx context.Context, id, email string) error
	GetByID(ctx context.Context, id string) (*profiles.Profile, error)
}

// Manager owns the lifecycle of the current session: it is the sole mutator
// of auth state, everyone else reads snapshots. States move
// uninitialized → loading → ready/error; a failed bootstrap force-clears
// local state so the system can never sit in loading forever.
type Manager struct {
	identity IdentityClient
	profiles ProfileStore
	store    *repository.Store
	timeout  time.Duration

	mu      sync.Mutex
	gen     uint64
	state   string
	session *domain.Session
	lastErr string
}

func NewManager(idc IdentityClient, ps ProfileStore, store *repository.Store, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		identity: idc,
		profiles: ps,
		store:    store,
		timeout:  timeout,
		state:    domain.StateUninitialized,
	}
}

// Snapshot returns the current auth state for consumers.
func (m *Manager) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := domain.Snapshot{State: m.state, Error: m.lastErr}
	if m.session != nil {
		snap.Authenticated = true
		snap.UserID = m.session.UserID
		snap.Email = m.session.Email
		snap.Role = m.session.Role
	}
	return snap
}

// Bootstrap restores and validates the persisted session. On any failure,
// including timeout, local auth state is forcibly cleared and the manager
// lands in the error state with a recovery path via ResetLocalAuth.
func (m *Manager) Bootstrap(ctx context.Context) domain.Snapshot {
	gen := m.begin()
	if err := m.refresh(ctx, gen); err != nil {
		m.failAndClear(gen, err)
	}
	return m.Snapshot()
}

// SignInWithPassword submits credentials to the identity service. All
// failures are converted to the result variant; nothing is thrown past this
// boundary.
func (m *Manager) SignInWithPassword(ctx context.Context, email, password string) domain.SignInResult {
	gen := m.begin()

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	is, err := m.identity.SignInWithPassword(cctx, email, password)
	if err != nil {
		m.settle(gen, nil, "")
		return domain.SignInResult{OK: false, Error: err.Error()}
	}

	sess := &domain.Session{
		AccessToken:  is.AccessToken,
		RefreshToken: is.RefreshToken,
		UserID:       is.User.ID,
		Email:        is.User.Email,
		CreatedAt:    time.Now(),
	}
	if is.ExpiresIn > 0 {
		sess.ExpiresAt = time.Now().Add(time.Duration(is.ExpiresIn) * time.Second)
	}

	prof, err := m.resolveProfile(cctx, sess.UserID, sess.Email)
	if err != nil {
		m.settle(gen, nil, "")
		return domain.SignInResult{OK: false, Error: err.Error()}
	}
	sess.Role = prof.Role

	if err := m.store.Save(cctx, sess); err != nil {
		m.settle(gen, nil, "")
		return domain.SignInResult{OK: false, Error: err.Error()}
	}

	m.settle(gen, sess, "")
	return domain.SignInResult{OK: true}
}

// SignOut requests remote invalidation, then clears local state no matter
// what the remote call did. Local state always wins.
func (m *Manager) SignOut(ctx context.Context) {
	gen := m.begin()
	token := m.currentToken()

	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.store.Clear(cctx); err != nil {
			log.Printf("[session] clear after sign-out: %v", err)
		}
		m.settle(gen, nil, "")
	}()

	if token == "" {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.identity.SignOut(cctx, token); err != nil {
		log.Printf("[session] remote sign-out failed: %v", err)
	}
}

// ResetLocalAuth is the escape hatch from a stuck error state: wipe all
// locally persisted state, then best-effort remote sign-out with any error
// swallowed.
func (m *Manager) ResetLocalAuth(ctx context.Context) domain.Snapshot {
	gen := m.begin()
	token := m.currentToken()

	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.store.Clear(cctx); err != nil {
		log.Printf("[session] reset: clear local state: %v", err)
	}
	if token != "" {
		if err := m.identity.SignOut(cctx, token); err != nil {
			log.Printf("[session] reset: remote sign-out ignored: %v", err)
		}
	}

	m.settle(gen, nil, "")
	return m.Snapshot()
}

// Watch re-synchronizes session state whenever the store's auth events
// channel signals an external change (token refresh, sign-out elsewhere).
// It blocks until ctx is cancelled; the subscription is released on return.
func (m *Manager) Watch(ctx context.Context) error {
	sub := m.store.SubscribeAuthEvents(ctx)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			log.Printf("[session] auth event: %s", msg.Payload)
			gen := m.begin()
			if err := m.refresh(ctx, gen); err != nil {
				m.failAndClear(gen, err)
			}
		}
	}
}

// refresh is the shared resync path: load the persisted session, validate it
// against the identity service, ensure+fetch the profile and publish ready
// state. A missing session resolves to ready(unauthenticated).
func (m *Manager) refresh(ctx context.Context, gen uint64) error {
	cctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	sess, err := m.store.LoadCurrent(cctx)
	if err == domain.ErrSessionNotFound {
		m.settle(gen, nil, "")
		return nil
	}
	if err != nil {
		return err
	}

	user, err := m.identity.GetUser(cctx, sess.AccessToken)
	if err != nil {
		return err
	}

	prof, err := m.resolveProfile(cctx, user.ID, user.Email)
	if err != nil {
		return err
	}

	sess.UserID = user.ID
	sess.Email = user.Email
	sess.Role = prof.Role
	if err := m.store.Save(cctx, sess); err != nil {
		return err
	}

	m.settle(gen, sess, "")
	return nil
}

// resolveProfile fails the whole refresh if either the ensure or the fetch
// fails.
func (m *Manager) resolveProfile(ctx context.Context, userID, email string) (*profiles.Profile, error) {
	if err := m.profiles.Ensure(ctx, userID, email); err != nil {
		return nil, err
	}
	return m.profiles.GetByID(ctx, userID)
}

// begin starts a new generation and moves the manager to loading. Results
// from older generations are discarded, so a slow response can never
// overwrite state set by a newer attempt.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.state = domain.StateLoading
	m.lastErr = ""
	return m.gen
}

// settle publishes a ready state for the given generation. A nil session
// means ready(unauthenticated).
func (m *Manager) settle(gen uint64, sess *domain.Session, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.state = domain.StateReady
	m.session = sess
	m.lastErr = errMsg
}

// failAndClear force-clears local auth state and lands in the error state.
// Stale generations return without touching anything: a newer attempt may
// already have written fresh state.
func (m *Manager) failAndClear(gen uint64, err error) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.state = domain.StateError
	m.session = nil
	m.lastErr = err.Error()
	m.mu.Unlock()

	cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if clearErr := m.store.Clear(cctx); clearErr != nil {
		log.Printf("[session] clear after failure: %v", clearErr)
	}
}

func (m *Manager) currentToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.AccessToken
}

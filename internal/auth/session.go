package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cardsvc-io/cardctl/pkg/cardapi"
)

// State is the session lifecycle state.
type State string

const (
	StateLoading         State = "loading"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Static errors for err113 compliance.
var (
	ErrSessionExpired = errors.New("session expired")
)

// API is the remote session surface the manager drives. Implementations
// perform the actual network calls (see internal/client).
type API interface {
	Login(ctx context.Context, username, password string) (*Token, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (*Token, error)
}

// OnToken is invoked whenever the session adopts a new access token.
type OnToken func(token string, expiresAt time.Time)

// SessionManager owns the in-memory access credential and recovers
// authenticated calls from credential expiry with exactly one refresh-then-
// retry per failing call. At most one refresh request is ever in flight;
// concurrent 401s join the same pending refresh.
type SessionManager struct {
	api     API
	store   *TokenStore
	onToken OnToken

	mu       sync.Mutex
	state    State
	identity *cardapi.Identity
	inflight *pendingRefresh
}

// pendingRefresh is the single-slot in-progress future shared by concurrent
// callers. done is closed once the refresh settles, whatever the outcome.
type pendingRefresh struct {
	done  chan struct{}
	token *Token
	err   error
}

// NewSessionManager creates a session manager over the given remote API.
// onToken may be nil.
func NewSessionManager(remote API, onToken OnToken) *SessionManager {
	return &SessionManager{
		api:     remote,
		store:   NewTokenStore(),
		onToken: onToken,
		state:   StateLoading,
	}
}

// State returns the current session state.
func (m *SessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Identity returns the decoded identity of the current token. It is non-nil
// exactly when the session is authenticated with a decodable token.
func (m *SessionManager) Identity() *cardapi.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.identity
}

// Authenticated reports whether the session currently holds a credential.
func (m *SessionManager) Authenticated() bool {
	return m.State() == StateAuthenticated
}

// Token returns the current access token, or empty when unauthenticated.
func (m *SessionManager) Token() string {
	if token := m.store.Get(); token != nil {
		return token.AccessToken
	}

	return ""
}

// CurrentToken returns the full held token, or nil.
func (m *SessionManager) CurrentToken() *Token {
	return m.store.Get()
}

// Refresh forces a session refresh, joining any refresh already in flight.
func (m *SessionManager) Refresh(ctx context.Context) (*Token, error) {
	return m.refresh(ctx)
}

// SetToken replaces the in-memory credential and re-derives the identity. An
// empty token clears the session.
func (m *SessionManager) SetToken(token string, expiresAt time.Time) {
	if token == "" {
		m.clear()

		return
	}

	m.adopt(&Token{AccessToken: token, ExpiresAt: expiresAt})
}

// Initialize establishes the initial session state: a held credential means
// authenticated, otherwise a silent refresh is attempted. A failed silent
// refresh is not an error; it simply leaves the session unauthenticated.
func (m *SessionManager) Initialize(ctx context.Context) State {
	if m.store.Get().Valid() {
		m.mu.Lock()
		m.state = StateAuthenticated
		m.mu.Unlock()

		return StateAuthenticated
	}

	_, err := m.refresh(ctx)
	if err != nil {
		return StateUnauthenticated
	}

	return StateAuthenticated
}

// Login exchanges credentials for a new token. The remote failure, if any, is
// propagated untouched for the caller to render.
func (m *SessionManager) Login(ctx context.Context, username, password string) error {
	token, err := m.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	m.adopt(token)

	return nil
}

// Logout invalidates the server-side session on a best-effort basis. Local
// state is always cleared, even when the remote call fails; the returned
// error is informational.
func (m *SessionManager) Logout(ctx context.Context) error {
	err := m.api.Logout(ctx)

	m.clear()

	if err != nil {
		return fmt.Errorf("remote logout: %w", err)
	}

	return nil
}

// Do runs an authenticated call. On a 401 it performs exactly one
// refresh-then-retry: concurrent 401s share a single refresh request, and a
// second 401 on the retried call is surfaced as a session-expired condition
// with the local credential cleared.
func (m *SessionManager) Do(ctx context.Context, call func(ctx context.Context, token string) error) error {
	err := call(ctx, m.Token())
	if !cardapi.IsUnauthorized(err) {
		return err
	}

	token, refreshErr := m.refresh(ctx)
	if refreshErr != nil {
		return fmt.Errorf("%w: %v", ErrSessionExpired, refreshErr)
	}

	err = call(ctx, token.AccessToken)
	if cardapi.IsUnauthorized(err) {
		m.clear()

		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	return err
}

// refresh performs the session refresh, de-duplicating concurrent callers
// onto a single in-flight request. The slot is cleared once the refresh
// settles regardless of outcome, so the next 401 can trigger a fresh attempt.
func (m *SessionManager) refresh(ctx context.Context) (*Token, error) {
	m.mu.Lock()

	pending := m.inflight
	if pending == nil {
		pending = &pendingRefresh{done: make(chan struct{})}
		m.inflight = pending

		// The refresh is shared: one joiner's cancellation must not abort
		// it for the others.
		go m.runRefresh(context.WithoutCancel(ctx), pending)
	}

	m.mu.Unlock()

	select {
	case <-pending.done:
		return pending.token, pending.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *SessionManager) runRefresh(ctx context.Context, pending *pendingRefresh) {
	token, err := m.api.Refresh(ctx)
	if err != nil {
		m.clear()

		pending.err = err
	} else {
		m.adopt(token)

		pending.token = token
	}

	close(pending.done)

	m.mu.Lock()
	m.inflight = nil
	m.mu.Unlock()
}

func (m *SessionManager) adopt(token *Token) {
	m.store.Set(token)

	m.mu.Lock()
	m.state = StateAuthenticated
	m.identity = DecodeIdentity(token.AccessToken)
	m.mu.Unlock()

	if m.onToken != nil {
		m.onToken(token.AccessToken, token.ExpiresAt)
	}
}

func (m *SessionManager) clear() {
	m.store.Clear()

	m.mu.Lock()
	m.state = StateUnauthenticated
	m.identity = nil
	m.mu.Unlock()
}

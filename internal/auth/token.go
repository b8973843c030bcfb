// Package auth holds the in-memory access credential and makes authenticated
// calls resilient to credential expiry.
package auth

import (
	"sync"
	"time"

	"github.com/cardsvc-io/cardctl/internal/constants"
)

// Token is a short-lived bearer credential. The renewable refresh credential
// never appears here; it lives in an httpOnly cookie owned by the transport.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	ExpiresAt   time.Time
}

// Valid reports whether the token can still be sent. A token inside the
// expiry skew window counts as invalid so it is replaced before it lapses
// mid-call. A zero ExpiresAt means the expiry is unknown and the token is
// trusted until the server rejects it.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Until(t.ExpiresAt) > constants.TokenExpirySkew
}

// TokenStore holds the current token behind a mutex. It is the single owner
// of the in-memory credential.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token, or nil when none is held.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the current token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear drops the current token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}

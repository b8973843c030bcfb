package cardapi

import (
	"context"
	"time"
)

// PublicClient provides the unauthenticated status lookup.
type PublicClient interface {
	// Lookup finds the status of a card request by its identifying fields.
	// An unknown combination fails with a NOT_FOUND APIError.
	Lookup(ctx context.Context, request *StatusLookupRequest) (*CardStatus, error)
}

// AuthClient manages the administrator session lifecycle.
type AuthClient interface {
	// Login exchanges credentials for an access token and establishes the
	// refresh cookie.
	Login(ctx context.Context, username, password string) (*TokenResponse, error)
	// Logout invalidates the server-side session. Local state is cleared by
	// the session manager regardless of the outcome.
	Logout(ctx context.Context) error
	// Refresh exchanges the session cookie for a fresh access token.
	Refresh(ctx context.Context) (*TokenResponse, error)
}

// RequestsClient provides the authenticated card-request operations.
type RequestsClient interface {
	List(ctx context.Context, query *ListQuery) (*CardRequestPage, error)
	Update(ctx context.Context, id int64, request *UpdateCardRequest) (*CardRequest, error)
}

// SessionInfo exposes the client's authentication state.
type SessionInfo interface {
	// Authenticated reports whether the client currently holds an access token.
	Authenticated() bool
	// Identity returns the decoded identity claims of the current token, or
	// nil when unauthenticated or when the token payload cannot be decoded.
	Identity() *Identity
	// SetToken replaces the in-memory access token, re-deriving the identity.
	// An empty token clears the session.
	SetToken(token string, expiresAt time.Time)
}

// Client is the full card API surface.
type Client interface {
	Public() PublicClient
	Auth() AuthClient
	Requests() RequestsClient
	SessionInfo

	// GetInfo fetches the API deployment banner.
	GetInfo(ctx context.Context) (*Info, error)
}

// Identity holds the display claims decoded from an access token. The client
// never verifies the token signature; verification is the server's job.
type Identity struct {
	ID       int64  `json:"id"       yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Role     string `json:"role"     yaml:"role"`
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a cardapi.Client.
//
// # Authentication
//
// Admin operations carry a short-lived bearer token held only in process
// memory. The token is obtained by Login or restored by a silent Refresh
// against the httpOnly session cookie; a 401 on any admin call triggers
// exactly one refresh-and-retry before the failure is surfaced.
//
// Providing AccessToken pre-seeds the session (useful when a previous token
// was persisted by a CLI); an expired seed is recovered through the same
// refresh path.
//
// # Retries
//
// Transport-level retries are disabled by default: the only built-in recovery
// is the single 401 refresh-retry. Operators may opt idempotent calls into
// retries via RetryMax/RetryWaitMin/RetryWaitMax.
type Config struct {
	// APIEndpoint is the base URL of the card API, without the /v1 prefix.
	APIEndpoint string

	// AccessToken pre-seeds the in-memory session token.
	AccessToken string
	// AccessTokenExpiresAt qualifies AccessToken; zero means unknown.
	AccessTokenExpiresAt time.Time

	// OnTokenRefresh is invoked whenever the session obtains a new access
	// token (login or refresh), e.g. to persist it to a CLI config file.
	OnTokenRefresh func(token string, expiresAt time.Time)

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Logger receives structured debug/error output. Nil disables logging.
	Logger Logger
	// Debug enables request/response logging through Logger.
	Debug bool

	// Interceptors are run around every request, e.g. for metrics collection
	// or extra headers.
	Interceptors *InterceptorChain

	// Transport retry tuning. RetryMax 0 disables transport retries.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// SkipTLSVerify disables certificate verification. Only honored when the
	// CARDCTL_DEV_MODE environment variable is set.
	SkipTLSVerify bool
}

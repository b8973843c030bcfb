package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry tuning for the transport. Transport retries are off by default; these
// only apply when a caller opts in via Config.RetryMax.
const (
	// DefaultRetryWaitMin is the minimum wait between transport retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between transport retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Rate limiting.
const (
	// DefaultRetryAfterSeconds is the countdown used when a 429 response
	// carries no retry hint.
	DefaultRetryAfterSeconds = 30

	// RateLimitResetSlack tells an absolute epoch timestamp apart from a
	// delta-seconds value in a rate-limit-reset header. Values greater than
	// now plus this slack are treated as epochs.
	RateLimitResetSlack = 5 * time.Second
)

// Token lifecycle.
const (
	// TokenExpirySkew is subtracted from a token's expiry when judging
	// validity, so a token is refreshed before it lapses mid-call.
	TokenExpirySkew = 30 * time.Second
)

// APIVersionPrefix is prepended to every request path.
const APIVersionPrefix = "/v1"

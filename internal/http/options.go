package http

import (
	"net/http"
	"time"

	"github.com/cardsvc-io/cardctl/internal/constants"
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
)

// Option configures a Client.
type Option func(*settings)

type settings struct {
	logger       Logger
	debug        bool
	userAgent    string
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	transport    http.RoundTripper
	httpClient   *http.Client
	interceptors *cardapi.InterceptorChain
}

func defaultSettings() *settings {
	return &settings{
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
	}
}

func applySettings(client *Client, s *settings) {
	client.logger = s.logger
	client.debug = s.debug
	client.interceptors = s.interceptors

	if s.userAgent != "" {
		client.userAgent = s.userAgent
	}

	if s.httpClient != nil {
		client.httpClient = s.httpClient
		client.cookieClient = s.httpClient
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(s *settings) {
		s.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(s *settings) {
		s.userAgent = userAgent
	}
}

// WithRetryConfig enables transport-level retries for idempotent failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(s *settings) {
		s.retryMax = retryMax
		s.retryWaitMin = waitMin
		s.retryWaitMax = waitMax
	}
}

// WithTransport overrides the underlying round tripper, e.g. for TLS tuning.
func WithTransport(transport http.RoundTripper) Option {
	return func(s *settings) {
		s.transport = transport
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely. Cookie
// handling follows the provided client's jar.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *settings) {
		s.httpClient = httpClient
	}
}

// WithInterceptors attaches an interceptor chain to the client.
func WithInterceptors(chain *cardapi.InterceptorChain) Option {
	return func(s *settings) {
		s.interceptors = chain
	}
}

// Package http implements the request primitive for the card API: URL
// construction, header handling, response classification, and rate-limit
// hint extraction.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cardsvc-io/cardctl/internal/constants"
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
	"github.com/hashicorp/go-retryablehttp"
)

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes a single card API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is serialized as JSON when non-nil.
	Body interface{}
	// Token is the bearer credential. Empty sends no Authorization header.
	Token string
	// Credentials routes the call through the cookie-carrying client so the
	// httpOnly refresh-session cookie is sent and stored. The client never
	// reads the cookie's value.
	Credentials bool
}

// Response is a classified 2xx result. Body is nil for 204 responses and for
// responses that do not declare a JSON content type.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes card API requests against a base URL.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	cookieClient *http.Client
	userAgent    string
	logger       Logger
	debug        bool
	interceptors *cardapi.InterceptorChain
}

// NewClient creates an HTTP client for the given base URL. The API version
// prefix is appended to every request path.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: "cardctl/1.0",
	}

	settings := defaultSettings()
	for _, opt := range opts {
		opt(settings)
	}

	applySettings(client, settings)

	if client.httpClient == nil {
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = settings.retryMax
		retryClient.RetryWaitMin = settings.retryWaitMin
		retryClient.RetryWaitMax = settings.retryWaitMax
		retryClient.Logger = nil
		retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

		if settings.transport != nil {
			retryClient.HTTPClient.Transport = settings.transport
		}

		standard := retryClient.StandardClient()
		client.httpClient = standard

		// The cookie client shares the transport; only the jar differs.
		// Jar errors only occur for nil PublicSuffixList options.
		jar, _ := cookiejar.New(nil)
		client.cookieClient = &http.Client{
			Transport: standard.Transport,
			Timeout:   standard.Timeout,
			Jar:       jar,
		}
	}

	return client
}

// Do executes a request and classifies the response. Non-2xx responses fail
// with a *cardapi.APIError; transport failures are returned as-is.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	targetURL := c.buildURL(req.Path, req.Query)

	var bodyBytes []byte

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		bodyBytes = data
	}

	interceptReq := &cardapi.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
		Body:    bodyBytes,
	}

	if c.interceptors != nil {
		err := c.interceptors.ExecuteRequestInterceptors(ctx, interceptReq)
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, targetURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.setHeaders(httpReq, req, bodyBytes, interceptReq.Headers)

	if c.debug && c.logger != nil {
		c.logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"url":    targetURL,
		})
	}

	httpResp, err := c.pick(req).Do(httpReq)
	if err != nil {
		c.notifyFailure(ctx, interceptReq, err)

		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("API Response", map[string]interface{}{
			"method":      req.Method,
			"url":         targetURL,
			"status_code": httpResp.StatusCode,
		})
	}

	if c.interceptors != nil {
		interceptResp := &cardapi.Response{
			StatusCode: httpResp.StatusCode,
			Headers:    httpResp.Header,
			Body:       data,
		}

		err = c.interceptors.ExecuteResponseInterceptors(ctx, interceptReq, interceptResp)
		if err != nil {
			return nil, err
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, classifyError(httpResp.StatusCode, httpResp.Header, data)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       successBody(httpResp.StatusCode, httpResp.Header, data),
	}, nil
}

// Get executes a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post executes a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Patch executes a PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete executes a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// buildURL joins the base URL, version prefix, path, and non-empty query
// entries.
func (c *Client) buildURL(path string, query url.Values) string {
	targetURL := c.baseURL + constants.APIVersionPrefix + path

	if len(query) == 0 {
		return targetURL
	}

	filtered := url.Values{}

	for key, values := range query {
		for _, value := range values {
			if value != "" {
				filtered.Add(key, value)
			}
		}
	}

	if len(filtered) == 0 {
		return targetURL
	}

	return targetURL + "?" + filtered.Encode()
}

func (c *Client) setHeaders(httpReq *http.Request, req *Request, bodyBytes []byte, extra http.Header) {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	if bodyBytes != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, values := range extra {
		for _, value := range values {
			httpReq.Header.Set(key, value)
		}
	}
}

// pick selects the cookie-carrying client for credentialed calls.
func (c *Client) pick(req *Request) *http.Client {
	if req.Credentials && c.cookieClient != nil {
		return c.cookieClient
	}

	return c.httpClient
}

func (c *Client) notifyFailure(ctx context.Context, req *cardapi.Request, err error) {
	if c.interceptors == nil {
		return
	}

	_ = c.interceptors.ExecuteResponseInterceptors(ctx, req, &cardapi.Response{Error: err})
}

// successBody returns the response body for a 2xx response, or nil when the
// response carries no value (204, or a non-JSON content type).
func successBody(status int, headers http.Header, data []byte) []byte {
	if status == http.StatusNoContent || len(data) == 0 {
		return nil
	}

	if !isJSONContentType(headers.Get("Content-Type")) {
		return nil
	}

	return data
}

func isJSONContentType(contentType string) bool {
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])

	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// classifyError converts a non-2xx response into a *cardapi.APIError. A 429
// additionally carries the server's retry hint.
func classifyError(status int, headers http.Header, body []byte) error {
	apiErr := cardapi.NewAPIError(status, body)

	if status == http.StatusTooManyRequests {
		apiErr.RetryAfter = retryAfterSeconds(headers, time.Now())
	}

	return apiErr
}

// retryAfterSeconds extracts the rate-limit retry hint. It prefers the
// Retry-After header (numeric seconds or an HTTP date), then falls back to a
// rate-limit-reset header whose value may be either an absolute epoch
// timestamp or a delta in seconds. The two are told apart by comparing
// against the current epoch plus a small slack; servers reporting deltas
// close to that boundary are misread, a known trade-off.
func retryAfterSeconds(headers http.Header, now time.Time) int {
	if value := strings.TrimSpace(headers.Get("Retry-After")); value != "" {
		if secs, err := strconv.Atoi(value); err == nil {
			return max(secs, 0)
		}

		if when, err := http.ParseTime(value); err == nil {
			return max(int(math.Round(when.Sub(now).Seconds())), 0)
		}
	}

	// Header lookup is canonicalized, so this covers both RateLimit-Reset
	// and ratelimit-reset spellings.
	value := strings.TrimSpace(headers.Get("RateLimit-Reset"))
	if value == "" {
		return 0
	}

	reset, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}

	slack := int64(constants.RateLimitResetSlack.Seconds())
	if reset > now.Unix()+slack {
		reset -= now.Unix()
	}

	return max(int(reset), 0)
}

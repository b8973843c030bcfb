package cardapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a classified failure from the card API.
//
// Code is the machine-readable error code from the server's error envelope,
// or "HTTP_<status>" when the response carried no envelope. RetryAfter is the
// suggested wait in seconds and is only set for HTTP 429 responses.
type APIError struct {
	HTTPStatus int    `json:"httpStatus"           yaml:"http_status"`
	Code       string `json:"code"                 yaml:"code"`
	Message    string `json:"message"              yaml:"message"`
	RequestID  string `json:"requestId,omitempty"  yaml:"request_id,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty" yaml:"retry_after,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s: %s (status: %d, request: %s)", e.Code, e.Message, e.HTTPStatus, e.RequestID)
	}

	return fmt.Sprintf("%s: %s (status: %d)", e.Code, e.Message, e.HTTPStatus)
}

// errorEnvelope is the wire shape of a card API failure.
type errorEnvelope struct {
	Error *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

// NewAPIError builds an APIError from a response body, synthesizing the code
// and message from the HTTP status when the body is not a well-formed error
// envelope.
func NewAPIError(status int, body []byte) *APIError {
	var envelope errorEnvelope

	if len(body) > 0 && json.Unmarshal(body, &envelope) == nil && envelope.Error != nil && envelope.Error.Code != "" {
		return &APIError{
			HTTPStatus: status,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
			RequestID:  envelope.Error.RequestID,
		}
	}

	return &APIError{
		HTTPStatus: status,
		Code:       fmt.Sprintf("HTTP_%d", status),
		Message:    http.StatusText(status),
	}
}

// Well-known error codes returned by the card API.
const (
	ErrorCodeNotFound           = "NOT_FOUND"
	ErrorCodeInvalidInput       = "INVALID_INPUT"
	ErrorCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrorCodeSessionExpired     = "SESSION_EXPIRED"
	ErrorCodeRateLimited        = "RATE_LIMITED"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrAPIEndpointRequired = errors.New("API endpoint is required")
	ErrNothingToUpdate     = errors.New("update must change at least one of status, pickup establishment, or pickup address")
	ErrInvalidStatus       = errors.New("invalid card request status")
	ErrInvalidPage         = errors.New("page must be 1 or greater")
	ErrInvalidPageSize     = errors.New("page size must be one of 10, 20, 50, 100")
	ErrInvalidSortKey      = errors.New("invalid sort key")
	ErrInvalidSortDir      = errors.New("sort direction must be asc or desc")
	ErrNotAuthenticated    = errors.New("not authenticated")
)

// IsNotFound reports whether err is a not-found failure, either by machine
// code or by bare HTTP 404.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeNotFound || apiErr.HTTPStatus == http.StatusNotFound
	}

	return false
}

// IsUnauthorized reports whether err is an HTTP 401 failure.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus == http.StatusUnauthorized
	}

	return false
}

// IsRateLimited reports whether err is an HTTP 429 failure.
func IsRateLimited(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus == http.StatusTooManyRequests
	}

	return false
}

// RetryAfterSeconds returns the server's suggested wait for a rate-limited
// error, or fallback when the error carried no hint or is not a 429.
func RetryAfterSeconds(err error, fallback int) int {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusTooManyRequests && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}

	return fallback
}

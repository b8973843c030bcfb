package cardapi_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/cardsvc-io/cardctl/pkg/cardapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAPIError(t *testing.T) {
	t.Parallel()

	t.Run("decodes the error envelope", func(t *testing.T) {
		t.Parallel()

		body := []byte(`{"error":{"code":"INVALID_INPUT","message":"postal code is malformed","requestId":"req-7"}}`)

		apiErr := cardapi.NewAPIError(http.StatusBadRequest, body)
		assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
		assert.Equal(t, cardapi.ErrorCodeInvalidInput, apiErr.Code)
		assert.Equal(t, "postal code is malformed", apiErr.Message)
		assert.Equal(t, "req-7", apiErr.RequestID)
	})

	t.Run("synthesizes a code from the status", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			body []byte
		}{
			{name: "empty body", body: nil},
			{name: "plain text body", body: []byte("service unavailable")},
			{name: "json without envelope", body: []byte(`{"detail":"nope"}`)},
			{name: "envelope without code", body: []byte(`{"error":{"message":"nope"}}`)},
		}

		for _, testCase := range tests {
			t.Run(testCase.name, func(t *testing.T) {
				t.Parallel()

				apiErr := cardapi.NewAPIError(http.StatusServiceUnavailable, testCase.body)
				assert.Equal(t, "HTTP_503", apiErr.Code)
				assert.Equal(t, "Service Unavailable", apiErr.Message)
			})
		}
	})

	t.Run("error string includes the request id when present", func(t *testing.T) {
		t.Parallel()

		withID := &cardapi.APIError{HTTPStatus: 404, Code: "NOT_FOUND", Message: "gone", RequestID: "req-9"}
		assert.Contains(t, withID.Error(), "req-9")

		withoutID := &cardapi.APIError{HTTPStatus: 404, Code: "NOT_FOUND", Message: "gone"}
		assert.NotContains(t, withoutID.Error(), "request:")
	})
}

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()

	notFoundByCode := &cardapi.APIError{HTTPStatus: http.StatusGone, Code: cardapi.ErrorCodeNotFound}
	notFoundByStatus := &cardapi.APIError{HTTPStatus: http.StatusNotFound, Code: "HTTP_404"}
	unauthorized := &cardapi.APIError{HTTPStatus: http.StatusUnauthorized, Code: cardapi.ErrorCodeSessionExpired}
	rateLimited := &cardapi.APIError{HTTPStatus: http.StatusTooManyRequests, Code: cardapi.ErrorCodeRateLimited, RetryAfter: 12}

	t.Run("IsNotFound", func(t *testing.T) {
		t.Parallel()

		assert.True(t, cardapi.IsNotFound(notFoundByCode))
		assert.True(t, cardapi.IsNotFound(notFoundByStatus))
		assert.False(t, cardapi.IsNotFound(unauthorized))
		assert.False(t, cardapi.IsNotFound(errors.New("plain")))
		assert.False(t, cardapi.IsNotFound(nil))
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		t.Parallel()

		assert.True(t, cardapi.IsUnauthorized(unauthorized))
		assert.False(t, cardapi.IsUnauthorized(notFoundByStatus))
		assert.False(t, cardapi.IsUnauthorized(nil))
	})

	t.Run("IsRateLimited", func(t *testing.T) {
		t.Parallel()

		assert.True(t, cardapi.IsRateLimited(rateLimited))
		assert.False(t, cardapi.IsRateLimited(unauthorized))
	})

	t.Run("classifiers see through wrapping", func(t *testing.T) {
		t.Parallel()

		wrapped := fmt.Errorf("listing card requests: %w", unauthorized)
		assert.True(t, cardapi.IsUnauthorized(wrapped))
	})

	t.Run("RetryAfterSeconds", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 12, cardapi.RetryAfterSeconds(rateLimited, 30))
		require.Equal(t, 30, cardapi.RetryAfterSeconds(unauthorized, 30))

		hintless := &cardapi.APIError{HTTPStatus: http.StatusTooManyRequests}
		assert.Equal(t, 30, cardapi.RetryAfterSeconds(hintless, 30))
		assert.Equal(t, 30, cardapi.RetryAfterSeconds(nil, 30))
	})
}

package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	cardhttp "github.com/cardsvc-io/cardctl/internal/http"
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/public/info", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			writer.Header().Set("Content-Type", "application/json")

			response := map[string]string{"name": "card-api", "version": "1.4.2"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		req := &cardhttp.Request{
			Method: "GET",
			Path:   "/public/info",
			Token:  "test-token",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "card-api", result["name"])
		assert.Equal(t, "1.4.2", result["version"])
	})

	t.Run("no authorization header without token", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Empty(t, request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		_, err := client.Get(context.Background(), "/public/info", nil)
		require.NoError(t, err)
	})

	t.Run("query parameters drop empty values", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v1/admin/card-requests", request.URL.Path)
			assert.Equal(t, "page=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		req := &cardhttp.Request{
			Method: "GET",
			Path:   "/admin/card-requests",
			Query:  url.Values{"page": []string{"2"}, "cin": []string{""}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			data, err := io.ReadAll(request.Body)
			require.NoError(t, err)

			var payload map[string]string

			require.NoError(t, json.Unmarshal(data, &payload))
			assert.Equal(t, "DUPONT", payload["lastName"])

			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusOK)
			_, _ = writer.Write([]byte(`{"status":"READY"}`))
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		resp, err := client.Post(context.Background(), "/public/card-status", map[string]string{"lastName": "DUPONT"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"READY"}`, string(resp.Body))
	})

	t.Run("204 yields nil body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		resp, err := client.Delete(context.Background(), "/admin/auth/logout")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Nil(t, resp.Body)
	})

	t.Run("non-JSON success body is discarded", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "text/html")
			_, _ = writer.Write([]byte("<html>gateway placeholder</html>"))
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		resp, err := client.Get(context.Background(), "/public/info", nil)
		require.NoError(t, err)
		assert.Nil(t, resp.Body)
	})

	t.Run("error envelope is decoded", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"no matching card request","requestId":"req-42"}}`))
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		_, err := client.Get(context.Background(), "/public/info", nil)
		require.Error(t, err)

		apiErr := &cardapi.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.HTTPStatus)
		assert.Equal(t, cardapi.ErrorCodeNotFound, apiErr.Code)
		assert.Equal(t, "no matching card request", apiErr.Message)
		assert.Equal(t, "req-42", apiErr.RequestID)
	})

	t.Run("unparseable error body synthesizes a code", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			_, _ = writer.Write([]byte("upstream down"))
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		_, err := client.Get(context.Background(), "/public/info", nil)
		require.Error(t, err)

		apiErr := &cardapi.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "HTTP_502", apiErr.Code)
		assert.Equal(t, "Bad Gateway", apiErr.Message)
	})

	t.Run("context cancellation aborts the call", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			close(started)
			<-request.Context().Done()
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			<-started
			cancel()
		}()

		_, err := client.Get(ctx, "/public/info", nil)
		require.Error(t, err)
		require.ErrorIs(t, err, context.Canceled)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RateLimitHints(t *testing.T) {
	t.Parallel()

	rateLimited := func(t *testing.T, headers map[string]string) *cardapi.APIError {
		t.Helper()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			for key, value := range headers {
				writer.Header().Set(key, value)
			}

			writer.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		_, err := client.Get(context.Background(), "/public/card-status", nil)
		require.Error(t, err)

		apiErr := &cardapi.APIError{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.HTTPStatus)

		return apiErr
	}

	t.Run("retry-after in seconds", func(t *testing.T) {
		t.Parallel()

		apiErr := rateLimited(t, map[string]string{"Retry-After": "17"})
		assert.Equal(t, 17, apiErr.RetryAfter)
	})

	t.Run("retry-after as http date", func(t *testing.T) {
		t.Parallel()

		when := time.Now().Add(45 * time.Second).UTC().Format(http.TimeFormat)
		apiErr := rateLimited(t, map[string]string{"Retry-After": when})
		assert.InDelta(t, 45, apiErr.RetryAfter, 2)
	})

	t.Run("retry-after date in the past floors at zero", func(t *testing.T) {
		t.Parallel()

		when := time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat)
		apiErr := rateLimited(t, map[string]string{"Retry-After": when})
		assert.Equal(t, 0, apiErr.RetryAfter)
	})

	t.Run("ratelimit-reset as delta seconds", func(t *testing.T) {
		t.Parallel()

		apiErr := rateLimited(t, map[string]string{"RateLimit-Reset": "3"})
		assert.Equal(t, 3, apiErr.RetryAfter)
	})

	t.Run("ratelimit-reset as epoch timestamp", func(t *testing.T) {
		t.Parallel()

		reset := time.Now().Add(90 * time.Second).Unix()
		apiErr := rateLimited(t, map[string]string{"RateLimit-Reset": strconv.FormatInt(reset, 10)})
		assert.InDelta(t, 90, apiErr.RetryAfter, 2)
	})

	t.Run("retry-after wins over ratelimit-reset", func(t *testing.T) {
		t.Parallel()

		apiErr := rateLimited(t, map[string]string{
			"Retry-After":     "5",
			"RateLimit-Reset": "120",
		})
		assert.Equal(t, 5, apiErr.RetryAfter)
	})

	t.Run("no headers yields zero hint", func(t *testing.T) {
		t.Parallel()

		apiErr := rateLimited(t, nil)
		assert.Equal(t, 0, apiErr.RetryAfter)
	})

	t.Run("garbage headers yield zero hint", func(t *testing.T) {
		t.Parallel()

		apiErr := rateLimited(t, map[string]string{
			"Retry-After":     "soon",
			"RateLimit-Reset": "later",
		})
		assert.Equal(t, 0, apiErr.RetryAfter)
	})
}

func TestClient_Cookies(t *testing.T) {
	t.Parallel()

	t.Run("credentialed calls carry the session cookie", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			switch request.URL.Path {
			case "/v1/admin/auth/login":
				http.SetCookie(writer, &http.Cookie{Name: "session", Value: "opaque", HttpOnly: true, Path: "/"})
				writer.WriteHeader(http.StatusOK)
			case "/v1/admin/auth/refresh":
				cookie, err := request.Cookie("session")
				require.NoError(t, err)
				assert.Equal(t, "opaque", cookie.Value)
				writer.WriteHeader(http.StatusOK)
			default:
				writer.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		_, err := client.Do(context.Background(), &cardhttp.Request{
			Method:      "POST",
			Path:        "/admin/auth/login",
			Credentials: true,
		})
		require.NoError(t, err)

		_, err = client.Do(context.Background(), &cardhttp.Request{
			Method:      "POST",
			Path:        "/admin/auth/refresh",
			Credentials: true,
		})
		require.NoError(t, err)
	})

	t.Run("uncredentialed calls skip the cookie jar", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			switch request.URL.Path {
			case "/v1/admin/auth/login":
				http.SetCookie(writer, &http.Cookie{Name: "session", Value: "opaque", HttpOnly: true, Path: "/"})
				writer.WriteHeader(http.StatusOK)
			default:
				_, err := request.Cookie("session")
				assert.ErrorIs(t, err, http.ErrNoCookie)
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL)

		_, err := client.Do(context.Background(), &cardhttp.Request{
			Method:      "POST",
			Path:        "/admin/auth/login",
			Credentials: true,
		})
		require.NoError(t, err)

		_, err = client.Get(context.Background(), "/public/info", nil)
		require.NoError(t, err)
	})
}

func TestClient_Options(t *testing.T) {
	t.Parallel()

	t.Run("custom user agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "cardctl/9.9.9", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := cardhttp.NewClient(server.URL, cardhttp.WithUserAgent("cardctl/9.9.9"))

		_, err := client.Get(context.Background(), "/public/info", nil)
		require.NoError(t, err)
	})

	t.Run("debug logging goes through the logger", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := cardhttp.NewClient(server.URL, cardhttp.WithLogger(logger), cardhttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/public/info", nil)
		require.NoError(t, err)
		require.Len(t, logger.logs, 2)
		assert.Equal(t, "API Request", logger.logs[0]["msg"])
		assert.Equal(t, "API Response", logger.logs[1]["msg"])
	})

	t.Run("header interceptor reaches the wire", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "cardctl", request.Header.Get("X-Client-Name"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		chain := cardapi.NewInterceptorChain()
		chain.AddRequestInterceptor(cardapi.HeaderInterceptor(map[string]string{"X-Client-Name": "cardctl"}))

		client := cardhttp.NewClient(server.URL, cardhttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/public/info", nil)
		require.NoError(t, err)
	})

	t.Run("request interceptor failure short-circuits", func(t *testing.T) {
		t.Parallel()

		called := false
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			called = true
		}))
		defer server.Close()

		errBlocked := errors.New("blocked")
		chain := cardapi.NewInterceptorChain()
		chain.AddRequestInterceptor(func(ctx context.Context, req *cardapi.Request) error {
			return errBlocked
		})

		client := cardhttp.NewClient(server.URL, cardhttp.WithInterceptors(chain))

		_, err := client.Get(context.Background(), "/public/info", nil)
		require.ErrorIs(t, err, errBlocked)
		assert.False(t, called)
	})
}

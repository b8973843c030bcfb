package cardclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardsvc-io/cardctl/pkg/cardapi"
	"github.com/cardsvc-io/cardctl/pkg/cardclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := cardclient.New(nil)
		require.ErrorIs(t, err, cardapi.ErrConfigRequired)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		_, err := cardclient.New(&cardapi.Config{})
		require.ErrorIs(t, err, cardapi.ErrAPIEndpointRequired)
	})

	t.Run("bare host defaults to https", func(t *testing.T) {
		config := &cardapi.Config{APIEndpoint: "cards.example.test/"}

		_, err := cardclient.New(config)
		require.NoError(t, err)
		assert.Equal(t, "https://cards.example.test", config.APIEndpoint)
	})

	t.Run("explicit scheme and trailing slash", func(t *testing.T) {
		config := &cardapi.Config{APIEndpoint: "http://localhost:8080/"}

		_, err := cardclient.New(config)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", config.APIEndpoint)
	})

	t.Run("skip TLS verify requires dev mode", func(t *testing.T) {
		_, err := cardclient.New(&cardapi.Config{
			APIEndpoint:   "https://cards.example.test",
			SkipTLSVerify: true,
		})
		require.ErrorIs(t, err, cardclient.ErrSkipTLSOnlyInDev)
	})

	t.Run("skip TLS verify allowed in dev mode", func(t *testing.T) {
		t.Setenv("CARDCTL_DEV_MODE", "true")

		client, err := cardclient.New(&cardapi.Config{
			APIEndpoint:   "https://localhost:8443",
			SkipTLSVerify: true,
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestNew_EndToEnd(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/v1/public/info", request.URL.Path)
		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]string{"name": "card-api", "version": "2.1.0"})
	}))
	defer server.Close()

	client, err := cardclient.New(&cardapi.Config{APIEndpoint: server.URL})
	require.NoError(t, err)

	info, err := client.GetInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "card-api", info.Name)
}

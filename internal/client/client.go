// Package client implements the typed endpoint bindings of the card API on
// top of the HTTP request primitive and the session manager.
package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/cardsvc-io/cardctl/internal/auth"
	"github.com/cardsvc-io/cardctl/internal/constants"
	"github.com/cardsvc-io/cardctl/internal/http"
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
)

// Client implements the cardapi.Client interface.
type Client struct {
	httpClient *http.Client
	session    *auth.SessionManager

	public   *PublicClient
	authAPI  *AuthClient
	requests *RequestsClient
}

// New creates a card API client. The config must name an API endpoint.
func New(config *cardapi.Config) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, cardapi.ErrAPIEndpointRequired
	}

	httpClient := http.NewClient(config.APIEndpoint, httpOptions(config)...)

	client := &Client{httpClient: httpClient}
	client.authAPI = NewAuthClient(httpClient)
	client.session = auth.NewSessionManager(client.authAPI.sessionAPI(), onToken(config))
	client.authAPI.session = client.session
	client.public = NewPublicClient(httpClient)
	client.requests = NewRequestsClient(httpClient, client.session)

	if config.AccessToken != "" {
		client.session.SetToken(config.AccessToken, config.AccessTokenExpiresAt)
	}

	return client, nil
}

// httpOptions builds transport options from config.
func httpOptions(config *cardapi.Config) []http.Option {
	var opts []http.Option

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		opts = append(opts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.Interceptors != nil {
		opts = append(opts, http.WithInterceptors(config.Interceptors))
	}

	if config.SkipTLSVerify {
		// Gated behind the dev-mode check in pkg/cardclient.
		opts = append(opts, http.WithTransport(&stdhttp.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 -- dev mode only
		}))
	}

	return opts
}

func onToken(config *cardapi.Config) auth.OnToken {
	if config.OnTokenRefresh == nil {
		return nil
	}

	return auth.OnToken(config.OnTokenRefresh)
}

// Public implements cardapi.Client.Public.
func (c *Client) Public() cardapi.PublicClient {
	return c.public
}

// Auth implements cardapi.Client.Auth.
func (c *Client) Auth() cardapi.AuthClient {
	return c.authAPI
}

// Requests implements cardapi.Client.Requests.
func (c *Client) Requests() cardapi.RequestsClient {
	return c.requests
}

// Authenticated implements cardapi.SessionInfo.
func (c *Client) Authenticated() bool {
	return c.session.Authenticated()
}

// Identity implements cardapi.SessionInfo.
func (c *Client) Identity() *cardapi.Identity {
	return c.session.Identity()
}

// SetToken implements cardapi.SessionInfo.
func (c *Client) SetToken(token string, expiresAt time.Time) {
	c.session.SetToken(token, expiresAt)
}

// Session exposes the session manager, e.g. for silent session
// establishment before entering admin surfaces.
func (c *Client) Session() *auth.SessionManager {
	return c.session
}

// GetInfo implements cardapi.Client.GetInfo.
func (c *Client) GetInfo(ctx context.Context) (*cardapi.Info, error) {
	resp, err := c.httpClient.Get(ctx, "/public/info", nil)
	if err != nil {
		return nil, fmt.Errorf("getting info: %w", err)
	}

	var info cardapi.Info

	err = json.Unmarshal(resp.Body, &info)
	if err != nil {
		return nil, fmt.Errorf("parsing info response: %w", err)
	}

	return &info, nil
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cardsvc-io/cardctl/internal/auth"
	cardhttp "github.com/cardsvc-io/cardctl/internal/http"
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
)

// AuthClient implements cardapi.AuthClient. The exported operations keep the
// session manager's state in step with the remote session; the raw exchanges
// underneath are also wired into the session manager as its auth.API, which
// drives the silent-refresh and 401-recovery paths.
type AuthClient struct {
	httpClient *cardhttp.Client
	session    *auth.SessionManager
}

// NewAuthClient creates a new auth client. The session is attached by the
// aggregate client after the session manager exists.
func NewAuthClient(httpClient *cardhttp.Client) *AuthClient {
	return &AuthClient{
		httpClient: httpClient,
	}
}

// Login implements cardapi.AuthClient.Login.
func (c *AuthClient) Login(ctx context.Context, username, password string) (*cardapi.TokenResponse, error) {
	err := c.session.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	return toTokenResponse(c.session.CurrentToken()), nil
}

// Logout implements cardapi.AuthClient.Logout.
func (c *AuthClient) Logout(ctx context.Context) error {
	return c.session.Logout(ctx)
}

// Refresh implements cardapi.AuthClient.Refresh.
func (c *AuthClient) Refresh(ctx context.Context) (*cardapi.TokenResponse, error) {
	token, err := c.session.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	return toTokenResponse(token), nil
}

// sessionAPI exposes the raw wire exchanges to the session manager.
func (c *AuthClient) sessionAPI() auth.API {
	return &sessionAPI{client: c}
}

type sessionAPI struct {
	client *AuthClient
}

func (s *sessionAPI) Login(ctx context.Context, username, password string) (*auth.Token, error) {
	resp, err := s.client.exchange(ctx, "/admin/auth/login", &cardapi.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return toToken(resp), nil
}

func (s *sessionAPI) Logout(ctx context.Context) error {
	_, err := s.client.httpClient.Do(ctx, &cardhttp.Request{
		Method:      http.MethodPost,
		Path:        "/admin/auth/logout",
		Credentials: true,
	})
	if err != nil {
		return fmt.Errorf("logging out: %w", err)
	}

	return nil
}

func (s *sessionAPI) Refresh(ctx context.Context) (*auth.Token, error) {
	resp, err := s.client.exchange(ctx, "/admin/auth/refresh", nil)
	if err != nil {
		return nil, err
	}

	return toToken(resp), nil
}

// exchange posts to a session endpoint with the cookie jar engaged and
// parses the token response.
func (c *AuthClient) exchange(ctx context.Context, path string, body interface{}) (*cardapi.TokenResponse, error) {
	resp, err := c.httpClient.Do(ctx, &cardhttp.Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        body,
		Credentials: true,
	})
	if err != nil {
		return nil, err
	}

	var tokenResp cardapi.TokenResponse

	err = json.Unmarshal(resp.Body, &tokenResp)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	return &tokenResp, nil
}

func toToken(resp *cardapi.TokenResponse) *auth.Token {
	token := &auth.Token{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresIn:   resp.ExpiresIn,
	}

	if resp.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	return token
}

func toTokenResponse(token *auth.Token) *cardapi.TokenResponse {
	if token == nil {
		return nil
	}

	return &cardapi.TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	}
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	cardhttp "github.com/cardsvc-io/cardctl/internal/http"
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
)

// PublicClient implements cardapi.PublicClient.
type PublicClient struct {
	httpClient *cardhttp.Client
}

// NewPublicClient creates a new public lookup client.
func NewPublicClient(httpClient *cardhttp.Client) *PublicClient {
	return &PublicClient{
		httpClient: httpClient,
	}
}

// Lookup implements cardapi.PublicClient.Lookup. The call opts into the
// session cookie so an anonymous lookup on a browser-equivalent deployment
// behaves identically to the admin surface.
func (c *PublicClient) Lookup(ctx context.Context, request *cardapi.StatusLookupRequest) (*cardapi.CardStatus, error) {
	resp, err := c.httpClient.Do(ctx, &cardhttp.Request{
		Method:      http.MethodPost,
		Path:        "/public/card-status",
		Body:        request,
		Credentials: true,
	})
	if err != nil {
		return nil, fmt.Errorf("looking up card status: %w", err)
	}

	var status cardapi.CardStatus

	err = json.Unmarshal(resp.Body, &status)
	if err != nil {
		return nil, fmt.Errorf("parsing card status: %w", err)
	}

	return &status, nil
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cardsvc-io/cardctl/internal/auth"
	cardhttp "github.com/cardsvc-io/cardctl/internal/http"
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
)

// RequestsClient implements cardapi.RequestsClient. Every call routes through
// the session manager's 401-recovery wrapper.
type RequestsClient struct {
	httpClient *cardhttp.Client
	session    *auth.SessionManager
}

// NewRequestsClient creates a new card-requests client.
func NewRequestsClient(httpClient *cardhttp.Client, session *auth.SessionManager) *RequestsClient {
	return &RequestsClient{
		httpClient: httpClient,
		session:    session,
	}
}

// List implements cardapi.RequestsClient.List. A nil query lists the first
// page with defaults.
func (c *RequestsClient) List(ctx context.Context, query *cardapi.ListQuery) (*cardapi.CardRequestPage, error) {
	if query == nil {
		query = cardapi.NewListQuery()
	}

	err := query.Validate()
	if err != nil {
		return nil, err
	}

	var resp *cardhttp.Response

	err = c.session.Do(ctx, func(ctx context.Context, token string) error {
		var callErr error

		resp, callErr = c.httpClient.Do(ctx, &cardhttp.Request{
			Method: http.MethodGet,
			Path:   "/admin/card-requests",
			Query:  query.ToValues(),
			Token:  token,
		})

		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("listing card requests: %w", err)
	}

	var page cardapi.CardRequestPage

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing card requests list: %w", err)
	}

	return &page, nil
}

// Update implements cardapi.RequestsClient.Update. A no-op update is
// rejected before any network call.
func (c *RequestsClient) Update(ctx context.Context, id int64, request *cardapi.UpdateCardRequest) (*cardapi.CardRequest, error) {
	err := request.Validate()
	if err != nil {
		return nil, err
	}

	var resp *cardhttp.Response

	err = c.session.Do(ctx, func(ctx context.Context, token string) error {
		var callErr error

		resp, callErr = c.httpClient.Do(ctx, &cardhttp.Request{
			Method: http.MethodPatch,
			Path:   "/admin/card-requests/" + strconv.FormatInt(id, 10),
			Body:   request,
			Token:  token,
		})

		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("updating card request: %w", err)
	}

	var updated cardapi.CardRequest

	err = json.Unmarshal(resp.Body, &updated)
	if err != nil {
		return nil, fmt.Errorf("parsing card request: %w", err)
	}

	return &updated, nil
}

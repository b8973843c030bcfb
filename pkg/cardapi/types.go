package cardapi

import (
	"time"
)

// Status is the lifecycle state of a card request. The set is closed; the
// server rejects transitions outside of it.
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists all valid card request statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusCreated, StatusInProgress, StatusReady, StatusDelivered, StatusCancelled}
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}

	return false
}

// CardRequest is the admin projection of a citizen's card request.
type CardRequest struct {
	ID                  int64     `json:"id"                            yaml:"id"`
	FirstName           string    `json:"firstName"                     yaml:"first_name"`
	LastName            string    `json:"lastName"                      yaml:"last_name"`
	CIN                 string    `json:"cin"                           yaml:"cin"`
	PostalCode          string    `json:"postalCode"                    yaml:"postal_code"`
	Region              string    `json:"region"                        yaml:"region"`
	Status              Status    `json:"status"                        yaml:"status"`
	PickupEstablishment string    `json:"pickupEstablishment,omitempty" yaml:"pickup_establishment,omitempty"`
	PickupAddress       string    `json:"pickupAddress,omitempty"       yaml:"pickup_address,omitempty"`
	CreatedAt           time.Time `json:"createdAt"                     yaml:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt"                     yaml:"updated_at"`
}

// CardStatus is the public projection returned by the status lookup. It
// deliberately omits identity fields beyond what the caller already supplied.
type CardStatus struct {
	Status              Status    `json:"status"                        yaml:"status"`
	PickupEstablishment string    `json:"pickupEstablishment,omitempty" yaml:"pickup_establishment,omitempty"`
	PickupAddress       string    `json:"pickupAddress,omitempty"       yaml:"pickup_address,omitempty"`
	UpdatedAt           time.Time `json:"updatedAt"                     yaml:"updated_at"`
}

// StatusLookupRequest identifies a card request for the public status lookup.
// All fields are matched server-side; a partial match is a not-found.
type StatusLookupRequest struct {
	FirstName  string `json:"firstName,omitempty" yaml:"first_name,omitempty"`
	LastName   string `json:"lastName"            yaml:"last_name"`
	CIN        string `json:"cin"                 yaml:"cin"`
	PostalCode string `json:"postalCode"          yaml:"postal_code"`
	Region     string `json:"region"              yaml:"region"`
}

// UpdateCardRequest carries the mutable fields of a card request. Nil fields
// are left untouched by the server.
type UpdateCardRequest struct {
	Status              *Status `json:"status,omitempty"              yaml:"status,omitempty"`
	PickupEstablishment *string `json:"pickupEstablishment,omitempty" yaml:"pickup_establishment,omitempty"`
	PickupAddress       *string `json:"pickupAddress,omitempty"       yaml:"pickup_address,omitempty"`
}

// Validate rejects an update that would change nothing. The server would
// accept it, but issuing a no-op PATCH is always a caller bug.
func (r *UpdateCardRequest) Validate() error {
	if r == nil || (r.Status == nil && r.PickupEstablishment == nil && r.PickupAddress == nil) {
		return ErrNothingToUpdate
	}

	if r.Status != nil && !r.Status.Valid() {
		return ErrInvalidStatus
	}

	return nil
}

// Page is a single page of a list response.
type Page[T any] struct {
	Page     int `json:"page"     yaml:"page"`
	PageSize int `json:"pageSize" yaml:"page_size"`
	Total    int `json:"total"    yaml:"total"`
	Items    []T `json:"items"    yaml:"items"`
}

// TotalPages derives the page count from Total and PageSize.
func (p *Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}

	return (p.Total + p.PageSize - 1) / p.PageSize
}

// CardRequestPage is a paginated list of CardRequest resources.
type CardRequestPage = Page[CardRequest]

// LoginRequest carries admin credentials for session establishment.
type LoginRequest struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// TokenResponse is returned by login and refresh. The refresh credential
// itself travels in an httpOnly cookie and never appears in the body.
type TokenResponse struct {
	AccessToken string `json:"accessToken" yaml:"access_token"`
	TokenType   string `json:"tokenType"   yaml:"token_type"`
	ExpiresIn   int64  `json:"expiresIn"   yaml:"expires_in"`
}

// Info describes the remote API deployment.
type Info struct {
	Name    string `json:"name"    yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

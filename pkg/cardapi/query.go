package cardapi

import (
	"net/url"
	"strconv"
)

// Sort keys accepted by the list endpoint.
const (
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByStatus    = "status"
	SortByLastName  = "lastName"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageSizes lists the page sizes the API accepts.
var PageSizes = []int{10, 20, 50, 100}

// DefaultPageSize is used when a query leaves PageSize unset.
const DefaultPageSize = 20

// ListQuery describes pagination, sorting, and filters for listing card
// requests. The zero value is not valid; use NewListQuery.
type ListQuery struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string

	// Optional filters. Empty fields are omitted from the query string.
	Status     Status
	CIN        string
	LastName   string
	Region     string
	PostalCode string
}

// NewListQuery creates a query with default pagination and sorting.
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:     1,
		PageSize: DefaultPageSize,
		SortBy:   SortByCreatedAt,
		SortDir:  SortDesc,
	}
}

// Validate checks the query against the API's closed parameter sets.
func (q *ListQuery) Validate() error {
	if q.Page < 1 {
		return ErrInvalidPage
	}

	validSize := false

	for _, size := range PageSizes {
		if q.PageSize == size {
			validSize = true

			break
		}
	}

	if !validSize {
		return ErrInvalidPageSize
	}

	switch q.SortBy {
	case SortByCreatedAt, SortByUpdatedAt, SortByStatus, SortByLastName:
	default:
		return ErrInvalidSortKey
	}

	if q.SortDir != SortAsc && q.SortDir != SortDesc {
		return ErrInvalidSortDir
	}

	if q.Status != "" && !q.Status.Valid() {
		return ErrInvalidStatus
	}

	return nil
}

// ToValues converts the query to URL query parameters, omitting empty filters.
func (q *ListQuery) ToValues() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("pageSize", strconv.Itoa(q.PageSize))
	values.Set("sortBy", q.SortBy)
	values.Set("sortDir", q.SortDir)

	if q.Status != "" {
		values.Set("status", string(q.Status))
	}

	if q.CIN != "" {
		values.Set("cin", q.CIN)
	}

	if q.LastName != "" {
		values.Set("lastName", q.LastName)
	}

	if q.Region != "" {
		values.Set("region", q.Region)
	}

	if q.PostalCode != "" {
		values.Set("postalCode", q.PostalCode)
	}

	return values
}

package cardapi_test

import (
	"testing"

	"github.com/cardsvc-io/cardctl/pkg/cardapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery_Validate(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, cardapi.NewListQuery().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*cardapi.ListQuery)
		wantErr error
	}{
		{
			name:    "zero page",
			mutate:  func(q *cardapi.ListQuery) { q.Page = 0 },
			wantErr: cardapi.ErrInvalidPage,
		},
		{
			name:    "negative page",
			mutate:  func(q *cardapi.ListQuery) { q.Page = -3 },
			wantErr: cardapi.ErrInvalidPage,
		},
		{
			name:    "page size outside the closed set",
			mutate:  func(q *cardapi.ListQuery) { q.PageSize = 25 },
			wantErr: cardapi.ErrInvalidPageSize,
		},
		{
			name:    "unknown sort key",
			mutate:  func(q *cardapi.ListQuery) { q.SortBy = "firstName" },
			wantErr: cardapi.ErrInvalidSortKey,
		},
		{
			name:    "unknown sort direction",
			mutate:  func(q *cardapi.ListQuery) { q.SortDir = "descending" },
			wantErr: cardapi.ErrInvalidSortDir,
		},
		{
			name:    "unknown status filter",
			mutate:  func(q *cardapi.ListQuery) { q.Status = "SHIPPED" },
			wantErr: cardapi.ErrInvalidStatus,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			query := cardapi.NewListQuery()
			testCase.mutate(query)
			require.ErrorIs(t, query.Validate(), testCase.wantErr)
		})
	}

	t.Run("every allowed page size is accepted", func(t *testing.T) {
		t.Parallel()

		for _, size := range cardapi.PageSizes {
			query := cardapi.NewListQuery()
			query.PageSize = size
			assert.NoError(t, query.Validate())
		}
	})
}

func TestListQuery_ToValues(t *testing.T) {
	t.Parallel()

	t.Run("defaults carry only pagination and sorting", func(t *testing.T) {
		t.Parallel()

		values := cardapi.NewListQuery().ToValues()
		assert.Equal(t, "1", values.Get("page"))
		assert.Equal(t, "20", values.Get("pageSize"))
		assert.Equal(t, "createdAt", values.Get("sortBy"))
		assert.Equal(t, "desc", values.Get("sortDir"))
		assert.Len(t, values, 4)
	})

	t.Run("filters are included only when set", func(t *testing.T) {
		t.Parallel()

		query := cardapi.NewListQuery()
		query.Status = cardapi.StatusInProgress
		query.CIN = "AB123456"
		query.Region = "Centre"

		values := query.ToValues()
		assert.Equal(t, "IN_PROGRESS", values.Get("status"))
		assert.Equal(t, "AB123456", values.Get("cin"))
		assert.Equal(t, "Centre", values.Get("region"))
		assert.False(t, values.Has("lastName"))
		assert.False(t, values.Has("postalCode"))
	})
}

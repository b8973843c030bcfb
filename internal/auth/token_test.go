package auth_test

import (
	"sync"
	"testing"
	"time"

	"github.com/cardsvc-io/cardctl/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestToken_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token *auth.Token
		want  bool
	}{
		{
			name:  "nil token",
			token: nil,
			want:  false,
		},
		{
			name:  "empty access token",
			token: &auth.Token{ExpiresAt: time.Now().Add(time.Hour)},
			want:  false,
		},
		{
			name:  "unknown expiry is trusted",
			token: &auth.Token{AccessToken: "opaque"},
			want:  true,
		},
		{
			name:  "comfortably before expiry",
			token: &auth.Token{AccessToken: "opaque", ExpiresAt: time.Now().Add(time.Hour)},
			want:  true,
		},
		{
			name:  "already expired",
			token: &auth.Token{AccessToken: "opaque", ExpiresAt: time.Now().Add(-time.Minute)},
			want:  false,
		},
		{
			name:  "inside the expiry skew window",
			token: &auth.Token{AccessToken: "opaque", ExpiresAt: time.Now().Add(10 * time.Second)},
			want:  false,
		},
		{
			name:  "just outside the expiry skew window",
			token: &auth.Token{AccessToken: "opaque", ExpiresAt: time.Now().Add(45 * time.Second)},
			want:  true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, testCase.token.Valid())
		})
	}
}

func TestTokenStore(t *testing.T) {
	t.Parallel()

	t.Run("get set clear", func(t *testing.T) {
		t.Parallel()

		store := auth.NewTokenStore()
		assert.Nil(t, store.Get())

		token := &auth.Token{AccessToken: "first"}
		store.Set(token)
		assert.Equal(t, token, store.Get())

		store.Clear()
		assert.Nil(t, store.Get())
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()

		store := auth.NewTokenStore()

		var wg sync.WaitGroup

		for i := 0; i < 50; i++ {
			wg.Add(2)

			go func() {
				defer wg.Done()
				store.Set(&auth.Token{AccessToken: "rotating"})
			}()

			go func() {
				defer wg.Done()

				if token := store.Get(); token != nil {
					assert.Equal(t, "rotating", token.AccessToken)
				}
			}()
		}

		wg.Wait()
	})
}

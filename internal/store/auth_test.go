package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/service"
	"github.com/artisania/storefront/pkg/credentials"
	"github.com/artisania/storefront/pkg/events"
)

func testToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "5",
		"exp": time.Now().Add(expiresIn).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func testCredStore(t *testing.T) *credentials.FileStore {
	t.Helper()
	return credentials.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
}

func authStack(t *testing.T, handler http.Handler) (*AuthStore, *credentials.FileStore) {
	t.Helper()
	creds := testCredStore(t)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.New(api.Config{BaseURL: srv.URL}, creds, zap.NewNop())
	auth := service.NewAuthService(client, creds, zap.NewNop())
	return NewAuthStore(auth, creds, events.Nop{}, zap.NewNop()), creds
}

func TestSessionRestore(t *testing.T) {
	creds := testCredStore(t)
	require.NoError(t, creds.Save(credentials.Credentials{
		AccessToken: testToken(t, time.Hour),
		User:        &credentials.User{ID: 5, Email: "b@example.com", Role: "CUSTOMER"},
	}))

	s := NewAuthStore(nil, creds, events.Nop{}, zap.NewNop())

	user := s.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, int64(5), user.ID)
	assert.True(t, s.IsAuthenticated())
}

func TestSessionRestoreDropsExpiredToken(t *testing.T) {
	creds := testCredStore(t)
	require.NoError(t, creds.Save(credentials.Credentials{
		AccessToken: testToken(t, -time.Minute),
		User:        &credentials.User{ID: 5, Email: "b@example.com", Role: "CUSTOMER"},
	}))

	s := NewAuthStore(nil, creds, events.Nop{}, zap.NewNop())

	assert.Nil(t, s.CurrentUser())
	assert.False(t, s.IsAuthenticated())

	stored, err := creds.Load()
	require.NoError(t, err)
	assert.Empty(t, stored.AccessToken)
}

func TestLoginNotifiesObservers(t *testing.T) {
	s, _ := authStack(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"jwt-abc","userId":5,"email":"b@example.com","role":"CUSTOMER"}`))
	}))

	var seen []*credentials.User
	s.Subscribe(func(user *credentials.User) {
		seen = append(seen, user)
	})

	_, err := s.Login(context.Background(), "b@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, s.Logout())

	require.Len(t, seen, 2)
	require.NotNil(t, seen[0])
	assert.Equal(t, "b@example.com", seen[0].Email)
	assert.Nil(t, seen[1])
}

func TestRoleHelpers(t *testing.T) {
	creds := testCredStore(t)
	require.NoError(t, creds.Save(credentials.Credentials{
		AccessToken: testToken(t, time.Hour),
		User:        &credentials.User{ID: 7, Email: "m@example.com", Role: "ARTISAN"},
	}))

	s := NewAuthStore(nil, creds, events.Nop{}, zap.NewNop())

	assert.True(t, s.IsArtisan())
	assert.False(t, s.IsAdmin())
	assert.True(t, s.HasRole("ARTISAN"))
}

func TestLoginLoadsCart(t *testing.T) {
	s, _ := authStack(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"jwt-abc","userId":5,"email":"b@example.com","role":"CUSTOMER"}`))
	}))

	fake := newFakeCart(map[int64]decimal.Decimal{1: decimal.RequireFromString("10.00")})
	fake.quantities[1] = 2
	cart := NewCartStore(fake, s, zap.NewNop())

	_, err := s.Login(context.Background(), "b@example.com", "pw")
	require.NoError(t, err)

	state := cart.State()
	assert.Equal(t, 2, state.ItemCount)
	assert.Equal(t, 1, fake.itemsCalls)

	require.NoError(t, s.Logout())
	assert.Empty(t, cart.State().Items)
	assert.Zero(t, cart.State().ItemCount)
}

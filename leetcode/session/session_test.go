package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"leetcode_stats/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeIdentityServer(signedIn bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"data":{"userStatus":{"isSignedIn":%t,"username":"gopher"}}}`, signedIn)
	}))
}

func TestInitWithoutToken(t *testing.T) {
	m := NewManager(&config.LeetCodeConfig{})
	assert.False(t, m.Init(context.Background()))

	_, err := m.AuthHeaders(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestInitRejectedToken(t *testing.T) {
	srv := fakeIdentityServer(false)
	defer srv.Close()

	m := NewManager(&config.LeetCodeConfig{
		SessionToken: "expired",
		BaseURL:      srv.URL,
	})
	assert.False(t, m.Init(context.Background()))
}

func TestInitValidToken(t *testing.T) {
	srv := fakeIdentityServer(true)
	defer srv.Close()

	m := NewManager(&config.LeetCodeConfig{
		SessionToken: "valid",
		CSRFToken:    "csrf",
		BaseURL:      srv.URL,
	})
	ctx := context.Background()
	require.True(t, m.Init(ctx))

	// EnsureValid assumes validity once a client is open
	assert.True(t, m.EnsureValid(ctx))

	headers, err := m.AuthHeaders(ctx)
	require.NoError(t, err)
	assert.Equal(t, "LEETCODE_SESSION=valid", headers["Cookie"])
	assert.Equal(t, "csrf", headers["x-csrftoken"])

	username, err := m.Username(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gopher", username)
}

func TestCloseIsIdempotent(t *testing.T) {
	srv := fakeIdentityServer(true)
	defer srv.Close()

	m := NewManager(&config.LeetCodeConfig{
		SessionToken: "valid",
		BaseURL:      srv.URL,
	})
	require.True(t, m.Init(context.Background()))

	m.Close()
	m.Close()
}

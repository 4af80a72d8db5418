package directline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody tokenRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	}))
	defer srv.Close()

	c, err := New("secret-1", WithEndpoint(srv.URL))
	require.NoError(t, err)

	cfg, err := c.GenerateToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-1", gotAuth)
	assert.Equal(t, "/v3/directline/tokens/generate", gotPath)
	assert.Equal(t, "tok-123", cfg.Token)
	assert.Equal(t, cfg.UserID, gotBody.User.ID, "token must be bound to the generated user")
	assert.True(t, strings.HasPrefix(cfg.UserID, "dl_"))
}

func TestGenerateToken_FreshUserPerCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	}))
	defer srv.Close()

	c, err := New("secret-1", WithEndpoint(srv.URL))
	require.NoError(t, err)

	first, err := c.GenerateToken(context.Background())
	require.NoError(t, err)
	second, err := c.GenerateToken(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.UserID, second.UserID)
}

func TestGenerateToken_ServiceRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := New("bad-secret", WithEndpoint(srv.URL))
	require.NoError(t, err)

	cfg, err := c.GenerateToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cfg.Token)
	assert.NotEmpty(t, cfg.UserID)
}

func TestGenerateToken_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately: connections will be refused

	c, err := New("secret-1", WithEndpoint(srv.URL))
	require.NoError(t, err)

	_, err = c.GenerateToken(context.Background())
	require.Error(t, err)
}

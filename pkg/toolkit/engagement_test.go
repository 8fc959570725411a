package toolkit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

func newSelfClient(t *testing.T, srv *httptest.Server) *toolkit.HTTPSocialClient {
	t.Helper()
	c, err := toolkit.NewHTTPSocialClient(toolkit.HTTPSocialClientConfig{
		BaseURL:     srv.URL,
		BearerToken: "test-bearer",
		UserID:      "123",
		Logger:      testLogger(),
	}, 1000, time.Minute)
	require.NoError(t, err)
	return c
}

func TestLikeRequiresUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach the server")
	}))
	defer srv.Close()

	c := newTestClient(t, srv) // no UserID configured
	err := c.Like(context.Background(), "1")
	require.Error(t, err)
}

func TestLikeHitsSelfScopedPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/123/likes", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"data":{"liked":true}}`))
	}))
	defer srv.Close()

	c := newSelfClient(t, srv)
	require.NoError(t, c.Like(context.Background(), "1"))
}

func TestFollowAndUnfollow(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.Write([]byte(`{"data":{"following":true}}`))
	}))
	defer srv.Close()

	c := newSelfClient(t, srv)
	require.NoError(t, c.Follow(context.Background(), "42"))
	assert.Equal(t, http.MethodPost, gotMethod)

	require.NoError(t, c.Unfollow(context.Background(), "42"))
	assert.Equal(t, http.MethodDelete, gotMethod)
}

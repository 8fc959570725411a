package toolkit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func newTestClient(t *testing.T, srv *httptest.Server) *toolkit.HTTPSocialClient {
	t.Helper()
	c, err := toolkit.NewHTTPSocialClient(toolkit.HTTPSocialClientConfig{
		BaseURL:     srv.URL,
		BearerToken: "test-bearer",
		Logger:      testLogger(),
	}, 1000, time.Minute)
	require.NoError(t, err)
	return c
}

func TestSearchTweets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets/search/recent", r.URL.Path)
		assert.Equal(t, "Bearer test-bearer", r.Header.Get("Authorization"))
		assert.Equal(t, "golang", r.URL.Query().Get("query"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"id":         "1",
					"text":       "hello golang",
					"author_id": "42",
					"created_at": "2026-01-01T00:00:00Z",
					"public_metrics": map[string]interface{}{
						"like_count": 3,
					},
				},
			},
			"meta": map[string]interface{}{"next_token": "abc"},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	page, err := c.SearchTweets(context.Background(), "golang", 10, "", "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "hello golang", page.Items[0].Text)
	assert.Equal(t, 3, page.Items[0].LikeCount)
	assert.Equal(t, "abc", page.NextToken)
}

func TestSearchTweetsRejectsEmptyQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach the server")
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.SearchTweets(context.Background(), "", 10, "", "")
	require.Error(t, err)
}

func TestPostTweet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tweets", r.URL.Path)
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "hi there", body["text"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"id": "99", "text": "hi there"},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	tweet, err := c.PostTweet(context.Background(), "hi there", toolkit.PostOptions{})
	require.NoError(t, err)
	assert.Equal(t, "99", tweet.ID)
}

func TestPostTweetRejectsOverLongText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach the server")
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}
	_, err := c.PostTweet(context.Background(), string(long), toolkit.PostOptions{})
	require.Error(t, err)
}

func TestPostThreadStopsOnFailureAndReportsPartial(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"title":"boom"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"id": "tweet-1"},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.PostThread(context.Background(), []string{"first", "second", "third"})
	require.Error(t, err)

	var partial *toolkit.ThreadPartialFailure
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.FailedIndex)
	assert.Equal(t, []string{"tweet-1"}, partial.PostedIDs)
}

func TestDeleteTweet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"deleted": true},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	require.NoError(t, c.DeleteTweet(context.Background(), "1"))
}

func TestRateLimitRetryAfter(t *testing.T) {
	reset := time.Now().Add(5 * time.Second).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-rate-limit-reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.GetTweet(context.Background(), "1")
	require.Error(t, err)

	var tkErr *toolkit.ToolkitError
	require.ErrorAs(t, err, &tkErr)
	assert.True(t, tkErr.Retryable)
	assert.Greater(t, tkErr.RetryAfter, 0)
}

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

func TestUploadMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		err := r.ParseMultipartForm(10 << 20)
		require.NoError(t, err)
		_, _, err = r.FormFile("media")
		require.NoError(t, err)
		w.Write([]byte(`{"media_id_string":"media-1"}`))
	}))
	defer srv.Close()

	c, err := toolkit.NewHTTPSocialClient(toolkit.HTTPSocialClientConfig{
		BaseURL:       srv.URL,
		UploadBaseURL: srv.URL,
		BearerToken:   "test-bearer",
		Logger:        testLogger(),
	}, 1000, time.Minute)
	require.NoError(t, err)

	id, err := c.UploadMedia(context.Background(), []byte{0xFF, 0xD8, 0xFF}, toolkit.MediaImageJPEG)
	require.NoError(t, err)
	assert.Equal(t, "media-1", id)
}

func TestUploadMediaRejectsOversize(t *testing.T) {
	c, err := toolkit.NewHTTPSocialClient(toolkit.HTTPSocialClientConfig{
		BaseURL:     "http://unused.example",
		BearerToken: "test-bearer",
		Logger:      testLogger(),
	}, 1000, time.Minute)
	require.NoError(t, err)

	oversized := make([]byte, 6*1024*1024)
	_, err = c.UploadMedia(context.Background(), oversized, toolkit.MediaImageJPEG)
	require.Error(t, err)
}

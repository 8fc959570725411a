package toolsurface_test

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitbot/tuitbot/internal/config"
	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/gateway"
	"github.com/tuitbot/tuitbot/pkg/llmprovider"
	"github.com/tuitbot/tuitbot/pkg/store"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
	"github.com/tuitbot/tuitbot/pkg/toolsurface"
	"github.com/tuitbot/tuitbot/pkg/workflow"
)

// fakeClient embeds a nil SocialApiClient so it satisfies the full
// interface; only the methods a test actually exercises are overridden.
type fakeClient struct {
	toolkit.SocialApiClient

	tweet  toolkit.Tweet
	liked  []string
	posted []string
}

func (f *fakeClient) GetTweet(ctx context.Context, id string) (toolkit.Tweet, error) {
	return f.tweet, nil
}

func (f *fakeClient) SearchTweets(ctx context.Context, query string, max int, sinceID, paginationToken string) (toolkit.Page[toolkit.Tweet], error) {
	return toolkit.Page[toolkit.Tweet]{Items: []toolkit.Tweet{f.tweet}}, nil
}

func (f *fakeClient) Like(ctx context.Context, tweetID string) error {
	f.liked = append(f.liked, tweetID)
	return nil
}

func (f *fakeClient) PostTweet(ctx context.Context, text string, opts toolkit.PostOptions) (toolkit.Tweet, error) {
	f.posted = append(f.posted, text)
	return toolkit.Tweet{ID: "posted-1"}, nil
}

type fakeProvider struct{ text string }

func (f *fakeProvider) Complete(context.Context, string, string, llmprovider.CompleteParams) (llmprovider.Response, error) {
	return llmprovider.Response{Text: f.text, Model: "fake-model"}, nil
}
func (f *fakeProvider) HealthCheck(context.Context) error { return nil }
func (f *fakeProvider) Name() string                      { return "fake" }

func testProfile() content.BusinessProfile {
	return content.BusinessProfile{
		ProductName: "Tuitbot",
		Description: "an autonomous social growth assistant",
		Keywords:    []string{"automation"},
		Topics:      []string{"automation"},
		Pillars:     []string{"automation"},
	}
}

func newTestDeps(t *testing.T, client *fakeClient, provider *fakeProvider, mutate func(*config.Config)) *toolsurface.Dependencies {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	dbPath := filepath.Join(t.TempDir(), "tuitbot.db")
	st, err := store.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	gw := gateway.New(st, cfg, logger)
	gen := content.NewGenerator(provider, testProfile())
	wf := workflow.New(client, st, gen, gw, testProfile(), cfg, logger)

	return &toolsurface.Dependencies{API: client, Gateway: gw, Store: st, Workflow: wf, Logger: logger}
}

func TestFilterReadonlyExcludesEngageAndWorkflow(t *testing.T) {
	specs := toolsurface.Filter(toolsurface.Catalog(), toolsurface.ProfileReadonly)
	names := make(map[string]bool, len(specs))
	for _, s := range specs {
		names[s.Name] = true
	}
	assert.True(t, names["search_tweets"])
	assert.False(t, names["like_tweet"])
	assert.False(t, names["orchestrate"])
}

func TestFilterUtilityWriteHasNoReadSurface(t *testing.T) {
	specs := toolsurface.Filter(toolsurface.Catalog(), toolsurface.ProfileUtilityWrite)
	for _, s := range specs {
		assert.NotEqual(t, "search_tweets", s.Name)
	}
	names := make(map[string]bool, len(specs))
	for _, s := range specs {
		names[s.Name] = true
	}
	assert.True(t, names["like_tweet"])
}

func TestFilterAdminHasRawRequestTools(t *testing.T) {
	specs := toolsurface.Filter(toolsurface.Catalog(), toolsurface.ProfileAdmin)
	names := make(map[string]bool, len(specs))
	for _, s := range specs {
		names[s.Name] = true
	}
	assert.True(t, names["x_get"])
	assert.True(t, names["x_post"])
}

func TestDispatcherCallUnknownTool(t *testing.T) {
	deps := newTestDeps(t, &fakeClient{}, &fakeProvider{}, nil)
	d := toolsurface.NewDispatcher(toolsurface.ProfileReadonly, deps, deps.Logger)

	resp := d.Call(context.Background(), toolsurface.CallRequest{ID: "1", Tool: "does_not_exist"})
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, toolsurface.ErrInvalidInput, resp.Error.Code)
}

func TestDispatcherCallReadToolSucceeds(t *testing.T) {
	client := &fakeClient{tweet: toolkit.Tweet{ID: "t1", Text: "hello world"}}
	deps := newTestDeps(t, client, &fakeProvider{}, nil)
	d := toolsurface.NewDispatcher(toolsurface.ProfileReadonly, deps, deps.Logger)

	params, err := json.Marshal(map[string]string{"id": "t1"})
	require.NoError(t, err)

	resp := d.Call(context.Background(), toolsurface.CallRequest{ID: "2", Tool: "get_tweet", Params: params})
	require.True(t, resp.Success)
	assert.Equal(t, "2", resp.ID)
	assert.Equal(t, toolsurface.ToolVersion, resp.Meta.ToolVersion)
}

func TestDispatcherCallEngageToolExecutesAndSurfacesRollback(t *testing.T) {
	client := &fakeClient{}
	deps := newTestDeps(t, client, &fakeProvider{}, func(c *config.Config) {
		c.Mode = config.ModeAutopilot
	})
	d := toolsurface.NewDispatcher(toolsurface.ProfileWrite, deps, deps.Logger)

	params, err := json.Marshal(map[string]string{"tweet_id": "t1"})
	require.NoError(t, err)

	resp := d.Call(context.Background(), toolsurface.CallRequest{ID: "3", Tool: "like_tweet", Params: params})
	require.True(t, resp.Success)
	assert.Len(t, client.liked, 1)
	require.NotNil(t, resp.Meta.Rollback)
	assert.Contains(t, resp.Meta.Rollback.Params["hint"], "unlike_tweet")
	assert.NotEmpty(t, resp.Meta.CorrelationID)
}

func TestDispatcherCallEngageToolRequiresApprovalInComposerMode(t *testing.T) {
	client := &fakeClient{}
	deps := newTestDeps(t, client, &fakeProvider{}, func(c *config.Config) {
		c.Mode = config.ModeComposer
	})
	d := toolsurface.NewDispatcher(toolsurface.ProfileWrite, deps, deps.Logger)

	params, err := json.Marshal(map[string]string{"tweet_id": "t1"})
	require.NoError(t, err)

	resp := d.Call(context.Background(), toolsurface.CallRequest{ID: "4", Tool: "like_tweet", Params: params})
	require.True(t, resp.Success)
	assert.Empty(t, client.liked)
}

func TestDispatcherCallWorkflowToolPostsOriginal(t *testing.T) {
	client := &fakeClient{}
	deps := newTestDeps(t, client, &fakeProvider{text: "shipping something new"}, func(c *config.Config) {
		c.Mode = config.ModeAutopilot
	})
	d := toolsurface.NewDispatcher(toolsurface.ProfileWrite, deps, deps.Logger)

	params, err := json.Marshal(map[string]string{"topic": "automation"})
	require.NoError(t, err)

	resp := d.Call(context.Background(), toolsurface.CallRequest{ID: "5", Tool: "publish_tweet", Params: params})
	require.True(t, resp.Success)
	assert.Len(t, client.posted, 1)
}

func TestDispatcherCallMalformedParamsMapsToInvalidInput(t *testing.T) {
	deps := newTestDeps(t, &fakeClient{}, &fakeProvider{}, nil)
	d := toolsurface.NewDispatcher(toolsurface.ProfileReadonly, deps, deps.Logger)

	resp := d.Call(context.Background(), toolsurface.CallRequest{ID: "6", Tool: "get_tweet", Params: json.RawMessage(`{`)})
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, toolsurface.ErrInvalidInput, resp.Error.Code)
}

func TestDispatcherRunRoundTripsNewlineFramedJSON(t *testing.T) {
	client := &fakeClient{tweet: toolkit.Tweet{ID: "t1", Text: "hello"}}
	deps := newTestDeps(t, client, &fakeProvider{}, nil)
	d := toolsurface.NewDispatcher(toolsurface.ProfileReadonly, deps, deps.Logger)

	reqLine, err := json.Marshal(toolsurface.CallRequest{ID: "r1", Tool: "get_tweet", Params: json.RawMessage(`{"id":"t1"}`)})
	require.NoError(t, err)

	in := newLineReader(string(reqLine) + "\n")
	var out lineWriter

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err = d.Run(ctx, in, &out)
	require.NoError(t, err)

	var resp toolsurface.CallResponse
	require.NoError(t, json.Unmarshal(out.data, &resp))
	assert.Equal(t, "r1", resp.ID)
	assert.True(t, resp.Success)
}

func TestBuildManifestIsSortedAndScopedToProfile(t *testing.T) {
	deps := newTestDeps(t, &fakeClient{}, &fakeProvider{}, nil)
	d := toolsurface.NewDispatcher(toolsurface.ProfileAdmin, deps, deps.Logger)

	manifest := d.BuildManifest()
	assert.Equal(t, toolsurface.ProfileAdmin, manifest.Profile)
	require.NotEmpty(t, manifest.Tools)
	for i := 1; i < len(manifest.Tools); i++ {
		assert.LessOrEqual(t, manifest.Tools[i-1].Name, manifest.Tools[i].Name)
	}
}

type lineReader struct {
	s   string
	pos int
}

func newLineReader(s string) *lineReader { return &lineReader{s: s} }

func (r *lineReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.s) {
		return 0, io.EOF
	}
	n := copy(p, r.s[r.pos:])
	r.pos += n
	return n, nil
}

type lineWriter struct{ data []byte }

func (w *lineWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

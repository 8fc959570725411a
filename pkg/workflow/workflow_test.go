package workflow_test

import (
	"context"
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
	"github.com/tuitbot/tuitbot/pkg/store/models"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
	"github.com/tuitbot/tuitbot/pkg/workflow"
)

// fakeClient embeds a nil SocialApiClient so it satisfies the full
// interface; only the methods workflow actually calls are overridden.
type fakeClient struct {
	toolkit.SocialApiClient

	searchResult toolkit.Page[toolkit.Tweet]
	searchErr    error
	followers    map[string]int

	postedReplies []string
	postedTweets  []string
	repliedErr    error
}

func (f *fakeClient) SearchTweets(ctx context.Context, query string, max int, sinceID, paginationToken string) (toolkit.Page[toolkit.Tweet], error) {
	return f.searchResult, f.searchErr
}

func (f *fakeClient) GetUserByUsername(ctx context.Context, username string) (toolkit.User, error) {
	return toolkit.User{Username: username, FollowersCount: f.followers[username]}, nil
}

func (f *fakeClient) ReplyToTweet(ctx context.Context, text, inReplyToID string, opts toolkit.PostOptions) (toolkit.Tweet, error) {
	if f.repliedErr != nil {
		return toolkit.Tweet{}, f.repliedErr
	}
	f.postedReplies = append(f.postedReplies, text)
	return toolkit.Tweet{ID: "posted-" + inReplyToID}, nil
}

func (f *fakeClient) PostTweet(ctx context.Context, text string, opts toolkit.PostOptions) (toolkit.Tweet, error) {
	f.postedTweets = append(f.postedTweets, text)
	return toolkit.Tweet{ID: "tweet-1"}, nil
}

func (f *fakeClient) PostThread(ctx context.Context, texts []string) ([]toolkit.Tweet, error) {
	tweets := make([]toolkit.Tweet, 0, len(texts))
	for i := range texts {
		tweets = append(tweets, toolkit.Tweet{ID: "thread-tweet"})
		_ = i
	}
	return tweets, nil
}

type fakeProvider struct {
	text string
	err  error
}

func (f *fakeProvider) Complete(context.Context, string, string, llmprovider.CompleteParams) (llmprovider.Response, error) {
	if f.err != nil {
		return llmprovider.Response{}, f.err
	}
	return llmprovider.Response{Text: f.text, Model: "fake-model"}, nil
}

func (f *fakeProvider) HealthCheck(context.Context) error { return nil }
func (f *fakeProvider) Name() string                      { return "fake" }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	dbPath := filepath.Join(t.TempDir(), "tuitbot.db")
	s, err := store.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testProfile() content.BusinessProfile {
	return content.BusinessProfile{
		ProductName: "Tuitbot",
		Description: "an autonomous social growth assistant",
		Keywords:    []string{"automation", "twitter"},
		Topics:      []string{"automation", "indie hacking"},
	}
}

func newTestWorkflow(t *testing.T, client *fakeClient, provider *fakeProvider, mutate func(*config.Config)) (*workflow.Workflow, *store.Store) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	st := newTestStore(t)
	gw := gateway.New(st, cfg, logger)
	gen := content.NewGenerator(provider, testProfile())
	return workflow.New(client, st, gen, gw, testProfile(), cfg, logger), st
}

func seedDiscoveredTweet(ctx context.Context, st *store.Store, id, author, text string) error {
	return st.UpsertDiscoveredTweet(ctx, &models.DiscoveredTweet{
		TweetID:      id,
		AuthorHandle: author,
		Text:         text,
		DiscoveredAt: time.Now().UTC(),
	})
}

func TestDiscoverScoresPersistsAndFilters(t *testing.T) {
	now := time.Now().UTC()
	client := &fakeClient{
		searchResult: toolkit.Page[toolkit.Tweet]{Items: []toolkit.Tweet{
			{ID: "t1", Text: "automation is the future of twitter growth", AuthorUsername: "alice", CreatedAt: now, LikeCount: 50, RetweetCount: 10, ReplyCount: 2},
			{ID: "t2", Text: "unrelated noise", AuthorUsername: "bob", CreatedAt: now.Add(-48 * time.Hour)},
		}},
		followers: map[string]int{"alice": 10000, "bob": 5},
	}
	w, _ := newTestWorkflow(t, client, &fakeProvider{}, func(c *config.Config) { c.Scoring.Threshold = 1 })

	out, err := w.Discover(context.Background(), "", 0, 0, "")
	require.NoError(t, err)
	require.NotEmpty(t, out.Candidates)
	assert.Equal(t, "t1", out.Candidates[0].Tweet.ID)
}

func TestDraftGeneratesReplyAndFlagsBannedPhrase(t *testing.T) {
	client := &fakeClient{}
	w, st := newTestWorkflow(t, client, &fakeProvider{text: "this changes everything, trust me"}, func(c *config.Config) {
		c.Limits.BannedPhrases = []string{"trust me"}
	})

	ctx := context.Background()
	require.NoError(t, seedDiscoveredTweet(ctx, st, "t1", "alice", "hot take"))

	results := w.Draft(ctx, []string{"t1"}, nil, false)
	require.Len(t, results, 1)
	assert.Equal(t, workflow.DraftSuccess, results[0].Kind)
	assert.Contains(t, results[0].Risks, "banned_phrase:trust me")
}

func TestDraftReturnsErrorResultForMissingTweet(t *testing.T) {
	w, _ := newTestWorkflow(t, &fakeClient{}, &fakeProvider{text: "hello"}, nil)

	results := w.Draft(context.Background(), []string{"missing"}, nil, false)
	require.Len(t, results, 1)
	assert.Equal(t, workflow.DraftError, results[0].Kind)
	assert.Error(t, results[0].Err)
}

func TestQueueExecutesUnderAutopilotMode(t *testing.T) {
	client := &fakeClient{}
	w, _ := newTestWorkflow(t, client, &fakeProvider{text: "a fine reply"}, func(c *config.Config) {
		c.Mode = config.ModeAutopilot
	})

	results, err := w.Queue(context.Background(), []workflow.ProposeItem{{TweetID: "t1", Text: "already drafted reply"}}, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, workflow.ProposeExecuted, results[0].Kind)
	assert.Equal(t, []string{"already drafted reply"}, client.postedReplies)
}

func TestQueueRoutesToApprovalUnderComposerMode(t *testing.T) {
	client := &fakeClient{}
	w, _ := newTestWorkflow(t, client, &fakeProvider{text: "a fine reply"}, func(c *config.Config) {
		c.Mode = config.ModeComposer
	})

	results, err := w.Queue(context.Background(), []workflow.ProposeItem{{TweetID: "t1", Text: "already drafted reply"}}, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, workflow.ProposeQueued, results[0].Kind)
	require.NotNil(t, results[0].ApprovalQueueID)
	assert.Empty(t, client.postedReplies)
}

func TestPublishPostsTweetAndRecordsIt(t *testing.T) {
	client := &fakeClient{}
	w, _ := newTestWorkflow(t, client, &fakeProvider{}, func(c *config.Config) { c.Mode = config.ModeAutopilot })

	result, err := w.Publish(context.Background(), "shipping something new today", "launch")
	require.NoError(t, err)
	assert.Equal(t, "executed", result.Outcome)
	assert.Equal(t, []string{"shipping something new today"}, client.postedTweets)
}

func TestThreadPlanClassifiesQuestionHook(t *testing.T) {
	w, _ := newTestWorkflow(t, &fakeClient{}, &fakeProvider{text: "Why do most automations fail?\n---\nBecause they skip the basics."}, nil)

	out, err := w.ThreadPlan(context.Background(), "automation failures", content.StructureAnalysis)
	require.NoError(t, err)
	require.NotEmpty(t, out.Tweets)
	assert.Equal(t, "question", out.Hook)
	assert.Greater(t, out.Relevance, 0.0)
}

func TestOrchestrateChainsDiscoverDraftAndQueue(t *testing.T) {
	now := time.Now().UTC()
	client := &fakeClient{
		searchResult: toolkit.Page[toolkit.Tweet]{Items: []toolkit.Tweet{
			{ID: "t1", Text: "automation is the future of twitter growth", AuthorUsername: "alice", CreatedAt: now, LikeCount: 50, RetweetCount: 10, ReplyCount: 2},
		}},
		followers: map[string]int{"alice": 10000},
	}
	w, _ := newTestWorkflow(t, client, &fakeProvider{text: "great point about automation"}, func(c *config.Config) {
		c.Scoring.Threshold = 1
		c.Mode = config.ModeAutopilot
	})

	summary, err := w.Orchestrate(context.Background(), "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Discovered)
	assert.Equal(t, 1, summary.Drafted)
	assert.Equal(t, 1, summary.Executed)
}


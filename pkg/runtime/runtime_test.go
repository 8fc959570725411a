package runtime_test

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
	"github.com/tuitbot/tuitbot/pkg/runtime"
	"github.com/tuitbot/tuitbot/pkg/store"
	"github.com/tuitbot/tuitbot/pkg/store/models"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
	"github.com/tuitbot/tuitbot/pkg/workflow"
)

// fakeClient embeds a nil SocialApiClient so it satisfies the full
// interface; only the methods a loop actually calls are overridden.
type fakeClient struct {
	toolkit.SocialApiClient

	searchResult toolkit.Page[toolkit.Tweet]
	mentions     toolkit.Page[toolkit.Tweet]
	userTweets   toolkit.Page[toolkit.Tweet]
	users        map[string]toolkit.User
	tweets       map[string]toolkit.Tweet

	postedReplies []string
	postedTweets  []string
}

func (f *fakeClient) SearchTweets(ctx context.Context, query string, max int, sinceID, paginationToken string) (toolkit.Page[toolkit.Tweet], error) {
	return f.searchResult, nil
}

func (f *fakeClient) GetMentions(ctx context.Context, userID, sinceID, paginationToken string) (toolkit.Page[toolkit.Tweet], error) {
	return f.mentions, nil
}

func (f *fakeClient) GetUserTweets(ctx context.Context, userID string, max int, paginationToken string) (toolkit.Page[toolkit.Tweet], error) {
	return f.userTweets, nil
}

func (f *fakeClient) GetUserByUsername(ctx context.Context, username string) (toolkit.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return toolkit.User{Username: username}, nil
}

func (f *fakeClient) GetTweet(ctx context.Context, id string) (toolkit.Tweet, error) {
	if t, ok := f.tweets[id]; ok {
		return t, nil
	}
	return toolkit.Tweet{ID: id}, nil
}

func (f *fakeClient) ReplyToTweet(ctx context.Context, text, inReplyToID string, opts toolkit.PostOptions) (toolkit.Tweet, error) {
	f.postedReplies = append(f.postedReplies, text)
	return toolkit.Tweet{ID: "posted-" + inReplyToID}, nil
}

func (f *fakeClient) PostTweet(ctx context.Context, text string, opts toolkit.PostOptions) (toolkit.Tweet, error) {
	f.postedTweets = append(f.postedTweets, text)
	return toolkit.Tweet{ID: "tweet-1"}, nil
}

func (f *fakeClient) PostThread(ctx context.Context, texts []string) ([]toolkit.Tweet, error) {
	tweets := make([]toolkit.Tweet, 0, len(texts))
	for range texts {
		tweets = append(tweets, toolkit.Tweet{ID: "thread-tweet"})
	}
	return tweets, nil
}

type fakeProvider struct {
	text string
}

func (f *fakeProvider) Complete(context.Context, string, string, llmprovider.CompleteParams) (llmprovider.Response, error) {
	return llmprovider.Response{Text: f.text, Model: "fake-model"}, nil
}

func (f *fakeProvider) HealthCheck(context.Context) error { return nil }
func (f *fakeProvider) Name() string                      { return "fake" }

func testProfile() content.BusinessProfile {
	return content.BusinessProfile{
		ProductName:     "Tuitbot",
		Description:     "an autonomous social growth assistant",
		Keywords:        []string{"automation", "twitter"},
		Topics:          []string{"automation"},
		Pillars:         []string{"automation"},
		TargetUsernames: []string{"founder"},
	}
}

func newTestRuntime(t *testing.T, client *fakeClient, provider *fakeProvider, mutate func(*config.Config)) (*runtime.Runtime, *store.Store) {
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

	rt := runtime.New(wf, client, st, cfg, testProfile(), logger, "self-id", "selfname")
	return rt, st
}

func TestLoopSchedulerJitterBounds(t *testing.T) {
	sched := runtime.NewLoopScheduler(10*time.Second, 1*time.Second, 3*time.Second)
	for i := 0; i < 50; i++ {
		d := sched.Next()
		assert.GreaterOrEqual(t, d, 11*time.Second)
		assert.LessOrEqual(t, d, 13*time.Second)
	}
}

func TestLoopSchedulerSwapsInvertedBounds(t *testing.T) {
	sched := runtime.NewLoopScheduler(5*time.Second, 9*time.Second, 2*time.Second)
	d := sched.Next()
	assert.GreaterOrEqual(t, d, 7*time.Second)
	assert.LessOrEqual(t, d, 14*time.Second)
}

func TestLoopSchedulerWaitReturnsOnCancel(t *testing.T) {
	sched := runtime.NewLoopScheduler(time.Hour, 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sched.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScheduleGateActiveHoursWrapAroundMidnight(t *testing.T) {
	gate := runtime.NewScheduleGate(config.ScheduleConfig{
		Timezone:         "UTC",
		ActiveHoursStart: 22 * 60,
		ActiveHoursEnd:   2 * 60,
	})
	base := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	assert.True(t, gate.Allowed(base.Add(23*time.Hour)))
	assert.True(t, gate.Allowed(base.Add(1*time.Hour)))
	assert.False(t, gate.Allowed(base.Add(12*time.Hour)))
}

func TestScheduleGateActiveDays(t *testing.T) {
	gate := runtime.NewScheduleGate(config.ScheduleConfig{
		Timezone:         "UTC",
		ActiveHoursStart: 0,
		ActiveHoursEnd:   24 * 60,
		ActiveDays:       []time.Weekday{time.Monday},
	})
	monday := time.Date(2026, 7, 27, 10, 0, 0, 0, time.UTC)
	tuesday := monday.Add(24 * time.Hour)
	assert.True(t, gate.Allowed(monday))
	assert.False(t, gate.Allowed(tuesday))
}

func TestCircuitBreakerOpensAfterThresholdAndHalfOpens(t *testing.T) {
	cb := runtime.NewCircuitBreaker(config.CircuitBreakerConfig{
		ErrorThreshold:  2,
		WindowSeconds:   60,
		CooldownSeconds: 0,
	})
	assert.True(t, cb.Allow())
	cb.RecordResult(false)
	assert.Equal(t, "closed", cb.State())
	assert.True(t, cb.Allow())
	cb.RecordResult(false)
	assert.Equal(t, "open", cb.State())
	assert.True(t, cb.Allow()) // cooldown is 0, immediately half-open probe allowed
	assert.False(t, cb.Allow())
	cb.RecordResult(true)
	assert.Equal(t, "closed", cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := runtime.NewCircuitBreaker(config.CircuitBreakerConfig{
		ErrorThreshold:  1,
		WindowSeconds:   60,
		CooldownSeconds: 0,
	})
	cb.Allow()
	cb.RecordResult(false)
	require.Equal(t, "open", cb.State())
	cb.Allow() // probe
	cb.RecordResult(false)
	assert.Equal(t, "open", cb.State())
}

func TestTickDiscoveryExecutesReply(t *testing.T) {
	now := time.Now().UTC()
	client := &fakeClient{
		searchResult: toolkit.Page[toolkit.Tweet]{Items: []toolkit.Tweet{
			{ID: "t1", Text: "automation is the future of twitter growth", AuthorUsername: "alice", CreatedAt: now, LikeCount: 20, RetweetCount: 5},
		}},
		users: map[string]toolkit.User{"alice": {Username: "alice", FollowersCount: 5000}},
	}
	rt, _ := newTestRuntime(t, client, &fakeProvider{text: "great point about automation"}, func(c *config.Config) {
		c.Scoring.Threshold = 1
		c.Mode = config.ModeAutopilot
	})

	err := rt.Tick(context.Background(), runtime.TickDiscovery)
	require.NoError(t, err)
	assert.Len(t, client.postedReplies, 1)
}

func TestTickMentionsPersistsCursorAndReplies(t *testing.T) {
	client := &fakeClient{
		mentions: toolkit.Page[toolkit.Tweet]{Items: []toolkit.Tweet{
			{ID: "m1", Text: "hey @tuitbot what do you think?", AuthorID: "a1", AuthorUsername: "carol"},
		}},
	}
	rt, st := newTestRuntime(t, client, &fakeProvider{text: "thanks for asking!"}, func(c *config.Config) {
		c.Mode = config.ModeAutopilot
	})

	err := rt.Tick(context.Background(), runtime.TickMentions)
	require.NoError(t, err)
	assert.Len(t, client.postedReplies, 1)

	cursor, err := st.GetCursor(context.Background(), "mentions_since_id")
	require.NoError(t, err)
	assert.Equal(t, "m1", cursor)
}

func TestTickContentPostsOriginalTweet(t *testing.T) {
	client := &fakeClient{}
	rt, _ := newTestRuntime(t, client, &fakeProvider{text: "shipping something new today"}, func(c *config.Config) {
		c.Mode = config.ModeAutopilot
	})

	err := rt.Tick(context.Background(), runtime.TickContent)
	require.NoError(t, err)
	assert.Len(t, client.postedTweets, 1)
}

func TestTickTargetQueuesRelationshipReply(t *testing.T) {
	client := &fakeClient{
		users: map[string]toolkit.User{"founder": {ID: "founder-id", Username: "founder", FollowersCount: 9000}},
		userTweets: toolkit.Page[toolkit.Tweet]{Items: []toolkit.Tweet{
			{ID: "f1", Text: "building in public today", AuthorID: "founder-id", AuthorUsername: "founder", CreatedAt: time.Now().UTC()},
		}},
	}
	rt, _ := newTestRuntime(t, client, &fakeProvider{text: "love seeing this progress"}, func(c *config.Config) {
		c.Mode = config.ModeAutopilot
		c.Scoring.Threshold = 1
	})

	err := rt.Tick(context.Background(), runtime.TickTarget)
	require.NoError(t, err)
	assert.Len(t, client.postedReplies, 1)
}

func TestTickAnalyticsSnapshotsFollowers(t *testing.T) {
	client := &fakeClient{
		users: map[string]toolkit.User{"selfname": {Username: "selfname", FollowersCount: 100, FollowingCount: 50, TweetCount: 10}},
	}
	rt, st := newTestRuntime(t, client, &fakeProvider{}, nil)

	err := rt.Tick(context.Background(), runtime.TickAnalytics)
	require.NoError(t, err)

	snaps, err := st.FollowerSnapshotsSince(context.Background(), time.Now().UTC().AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 100, snaps[0].Followers)
}

func TestTickApprovalPostsApprovedReply(t *testing.T) {
	client := &fakeClient{}
	rt, st := newTestRuntime(t, client, &fakeProvider{}, func(c *config.Config) {
		c.Mode = config.ModeComposer
	})
	ctx := context.Background()

	item := &models.ApprovalItem{
		ActionKind: "reply_to_tweet",
		DraftText:  "approved reply text",
		Status:     models.ApprovalApproved,
	}
	require.NoError(t, st.CreateApprovalItem(ctx, item, []string{"target-1"}, nil, nil))
	require.NoError(t, st.SetApprovalStatus(ctx, item.ID, models.ApprovalApproved, "", ""))

	err := rt.Tick(ctx, runtime.TickApproval)
	require.NoError(t, err)
	assert.Equal(t, []string{"approved reply text"}, client.postedReplies)

	got, err := st.GetApprovalItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPosted, got.Status)
}

func TestTickCleanupExpiresStalePending(t *testing.T) {
	rt, st := newTestRuntime(t, &fakeClient{}, &fakeProvider{}, nil)
	ctx := context.Background()

	// backdate the item so ExpireStalePending treats it as stale
	old := time.Now().UTC().Add(-48 * time.Hour)
	item := &models.ApprovalItem{ActionKind: "reply_to_tweet", DraftText: "old", Status: models.ApprovalPending, CreatedAt: old}
	require.NoError(t, st.CreateApprovalItem(ctx, item, nil, nil, nil))
	require.NoError(t, st.SetCursor(ctx, "noop", "noop")) // keep cursors table warm for the sweep

	err := rt.Tick(ctx, runtime.TickCleanup)
	require.NoError(t, err)

	got, err := st.GetApprovalItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalExpired, got.Status)
}

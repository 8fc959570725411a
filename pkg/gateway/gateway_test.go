package gateway_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitbot/tuitbot/internal/config"
	"github.com/tuitbot/tuitbot/pkg/gateway"
	"github.com/tuitbot/tuitbot/pkg/store"
)

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

func testGateway(t *testing.T, mutate func(*config.Config)) *gateway.Gateway {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return gateway.New(newTestStore(t), cfg, logger)
}

func TestDispatchAllowsAndExecutes(t *testing.T) {
	g := testGateway(t, nil)
	executed := false

	result, err := g.Dispatch(context.Background(), gateway.Request{
		ToolName: "like_tweet",
		Category: "engagement",
		Params:   map[string]any{"tweet_id": "1"},
		Execute: func(ctx context.Context) (string, string, error) {
			executed = true
			return "liked tweet 1", "call unlike_tweet with the same id", nil
		},
	})
	require.NoError(t, err)
	assert.True(t, executed)
	assert.Equal(t, gateway.OutcomeExecuted, result.Outcome)
	assert.Equal(t, "liked tweet 1", result.ResultSummary)
	assert.NotEmpty(t, result.CorrelationID)
}

func TestDispatchSurfacesExecutionFailure(t *testing.T) {
	g := testGateway(t, nil)

	result, err := g.Dispatch(context.Background(), gateway.Request{
		ToolName: "like_tweet",
		Category: "engagement",
		Params:   map[string]any{"tweet_id": "2"},
		Execute: func(ctx context.Context) (string, string, error) {
			return "", "", errors.New("x network error")
		},
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeFailed, result.Outcome)
	assert.Error(t, result.Err)
}

func TestDispatchDeleteToolAlwaysRequiresApproval(t *testing.T) {
	g := testGateway(t, nil)

	result, err := g.Dispatch(context.Background(), gateway.Request{
		ToolName: "delete_tweet",
		Category: "write",
		Params:   map[string]any{"tweet_id": "3"},
		Execute: func(ctx context.Context) (string, string, error) {
			t.Fatal("execute should not run when policy requires approval")
			return "", "", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeQueued, result.Outcome)
	require.NotNil(t, result.ApprovalQueueID)
}

func TestDispatchComposerModeForcesApprovalOnEveryMutation(t *testing.T) {
	g := testGateway(t, func(c *config.Config) { c.Mode = config.ModeComposer })

	result, err := g.Dispatch(context.Background(), gateway.Request{
		ToolName: "post_tweet",
		Category: "write",
		Params:   map[string]any{"text": "hello"},
		Execute: func(ctx context.Context) (string, string, error) {
			t.Fatal("execute should not run under composer mode")
			return "", "", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeQueued, result.Outcome)
}

func TestDispatchApprovalModeForcesApprovalOnEveryMutation(t *testing.T) {
	g := testGateway(t, func(c *config.Config) { c.ApprovalMode = true })

	result, err := g.Dispatch(context.Background(), gateway.Request{
		ToolName: "post_tweet",
		Category: "write",
		Params:   map[string]any{"text": "hello"},
		Execute: func(ctx context.Context) (string, string, error) {
			t.Fatal("execute should not run under approval_mode")
			return "", "", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeQueued, result.Outcome)
	require.NotNil(t, result.ApprovalQueueID)
}

func TestDispatchBlockedToolDeniesAndClosesAuditAsFailure(t *testing.T) {
	g := testGateway(t, func(c *config.Config) {
		c.Policy.BlockedTools = []string{"follow_user"}
	})

	result, err := g.Dispatch(context.Background(), gateway.Request{
		ToolName: "follow_user",
		Category: "engagement",
		Params:   map[string]any{"user_id": "u1"},
		Execute: func(ctx context.Context) (string, string, error) {
			t.Fatal("execute should not run when a tool is blocked")
			return "", "", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeBlocked, result.Outcome)
}

func TestDispatchDryRunDoesNotExecute(t *testing.T) {
	g := testGateway(t, func(c *config.Config) {
		c.Policy.DryRunMutations = []string{"post_tweet"}
	})

	result, err := g.Dispatch(context.Background(), gateway.Request{
		ToolName: "post_tweet",
		Category: "write",
		Params:   map[string]any{"text": "hello"},
		Execute: func(ctx context.Context) (string, string, error) {
			t.Fatal("execute should not run on a dry run")
			return "", "", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeDryRun, result.Outcome)
	assert.Equal(t, "post_tweet", result.WouldExecute)
}

func TestDispatchInMemoryDuplicateWithinWindow(t *testing.T) {
	g := testGateway(t, nil)
	params := map[string]any{"tweet_id": "dup"}

	first, err := g.Dispatch(context.Background(), gateway.Request{
		ToolName: "like_tweet", Category: "engagement", Params: params,
		Execute: func(ctx context.Context) (string, string, error) { return "ok", "", nil },
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeExecuted, first.Outcome)

	second, err := g.Dispatch(context.Background(), gateway.Request{
		ToolName: "like_tweet", Category: "engagement", Params: params,
		Execute: func(ctx context.Context) (string, string, error) {
			t.Fatal("execute should not run for a duplicate within the idempotency window")
			return "", "", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeDuplicate, second.Outcome)
	assert.Equal(t, "duplicate", second.Reason)
}

func TestDispatchMaxMutationsPerHourRateLimits(t *testing.T) {
	g := testGateway(t, func(c *config.Config) { c.Policy.MaxMutationsPerHour = 1 })
	ctx := context.Background()

	first, err := g.Dispatch(ctx, gateway.Request{
		ToolName: "like_tweet", Category: "engagement", Params: map[string]any{"tweet_id": "a"},
		Execute: func(ctx context.Context) (string, string, error) { return "ok", "", nil },
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeExecuted, first.Outcome)

	second, err := g.Dispatch(ctx, gateway.Request{
		ToolName: "like_tweet", Category: "engagement", Params: map[string]any{"tweet_id": "b"},
		Execute: func(ctx context.Context) (string, string, error) {
			t.Fatal("execute should not run once the hourly mutation cap is hit")
			return "", "", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeRateLimited, second.Outcome)
}

func TestDispatchMaxRepliesPerDayRateLimits(t *testing.T) {
	g := testGateway(t, func(c *config.Config) { c.Limits.MaxRepliesPerDay = 5 })
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := g.Dispatch(ctx, gateway.Request{
			ToolName: "reply_to_tweet", Category: "write",
			Params: map[string]any{"in_reply_to_id": i, "text": "reply"},
			Execute: func(ctx context.Context) (string, string, error) { return "ok", "", nil },
		})
		require.NoError(t, err)
		assert.Equal(t, gateway.OutcomeExecuted, result.Outcome)
	}

	sixth, err := g.Dispatch(ctx, gateway.Request{
		ToolName: "reply_to_tweet", Category: "write",
		Params: map[string]any{"in_reply_to_id": 6, "text": "reply"},
		Execute: func(ctx context.Context) (string, string, error) {
			t.Fatal("execute should not run once the daily reply cap is hit")
			return "", "", nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.OutcomeRateLimited, sixth.Outcome)
}

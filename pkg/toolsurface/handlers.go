package toolsurface

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tuitbot/tuitbot/pkg/content"
	"github.com/tuitbot/tuitbot/pkg/gateway"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
	"github.com/tuitbot/tuitbot/pkg/workflow"
)

func decode(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return newParamsError(err)
	}
	return nil
}

// --- Read / List lane: thin, non-mutating wrappers over toolkit reads ---

func handleSearchTweets(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		Query           string `json:"query"`
		Max             int    `json:"max"`
		SinceID         string `json:"since_id"`
		PaginationToken string `json:"pagination_token"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return deps.API.SearchTweets(ctx, p.Query, p.Max, p.SinceID, p.PaginationToken)
}

func handleGetTweet(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		ID string `json:"id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return deps.API.GetTweet(ctx, p.ID)
}

func handleGetMentions(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID          string `json:"user_id"`
		SinceID         string `json:"since_id"`
		PaginationToken string `json:"pagination_token"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return deps.API.GetMentions(ctx, p.UserID, p.SinceID, p.PaginationToken)
}

func handleGetUserTweets(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID          string `json:"user_id"`
		Max             int    `json:"max"`
		PaginationToken string `json:"pagination_token"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return deps.API.GetUserTweets(ctx, p.UserID, p.Max, p.PaginationToken)
}

func handleGetUserByUsername(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		Username string `json:"username"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return deps.API.GetUserByUsername(ctx, p.Username)
}

func handleGetFollowers(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID          string `json:"user_id"`
		Max             int    `json:"max"`
		PaginationToken string `json:"pagination_token"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return deps.API.GetFollowers(ctx, p.UserID, p.Max, p.PaginationToken)
}

func handleGetFollowing(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID          string `json:"user_id"`
		Max             int    `json:"max"`
		PaginationToken string `json:"pagination_token"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return deps.API.GetFollowing(ctx, p.UserID, p.Max, p.PaginationToken)
}

// --- Engage / Write / Delete lane: low-level mutating primitives,
// dispatched through the gateway directly since they have no workflow
// composition above them. ---

func dispatchSimple(ctx context.Context, deps *Dependencies, toolName string, category Category, paramsSummary string, execute func(ctx context.Context) (string, string, error)) (interface{}, error) {
	result, err := deps.Gateway.Dispatch(ctx, gateway.Request{
		ToolName:      toolName,
		Category:      string(category),
		ParamsSummary: paramsSummary,
		Execute:       execute,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func handleLikeTweet(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		TweetID string `json:"tweet_id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return dispatchSimple(ctx, deps, "like_tweet", CategoryEngage, p.TweetID, func(ctx context.Context) (string, string, error) {
		if err := deps.API.Like(ctx, p.TweetID); err != nil {
			return "", "", err
		}
		return "liked " + p.TweetID, fmt.Sprintf("call unlike_tweet with %s", p.TweetID), nil
	})
}

func handleUnlikeTweet(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		TweetID string `json:"tweet_id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return dispatchSimple(ctx, deps, "unlike_tweet", CategoryEngage, p.TweetID, func(ctx context.Context) (string, string, error) {
		if err := deps.API.Unlike(ctx, p.TweetID); err != nil {
			return "", "", err
		}
		return "unliked " + p.TweetID, "", nil
	})
}

func handleFollowUser(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID string `json:"user_id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return dispatchSimple(ctx, deps, "follow_user", CategoryFollowUnfollow, p.UserID, func(ctx context.Context) (string, string, error) {
		if err := deps.API.Follow(ctx, p.UserID); err != nil {
			return "", "", err
		}
		return "followed " + p.UserID, fmt.Sprintf("call unfollow_user with %s", p.UserID), nil
	})
}

func handleUnfollowUser(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		UserID string `json:"user_id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return dispatchSimple(ctx, deps, "unfollow_user", CategoryFollowUnfollow, p.UserID, func(ctx context.Context) (string, string, error) {
		if err := deps.API.Unfollow(ctx, p.UserID); err != nil {
			return "", "", err
		}
		return "unfollowed " + p.UserID, "", nil
	})
}

func handleRetweet(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		TweetID string `json:"tweet_id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return dispatchSimple(ctx, deps, "retweet", CategoryEngage, p.TweetID, func(ctx context.Context) (string, string, error) {
		if err := deps.API.Retweet(ctx, p.TweetID); err != nil {
			return "", "", err
		}
		return "retweeted " + p.TweetID, fmt.Sprintf("call unretweet with %s", p.TweetID), nil
	})
}

func handleUnretweet(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		TweetID string `json:"tweet_id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return dispatchSimple(ctx, deps, "unretweet", CategoryEngage, p.TweetID, func(ctx context.Context) (string, string, error) {
		if err := deps.API.Unretweet(ctx, p.TweetID); err != nil {
			return "", "", err
		}
		return "unretweeted " + p.TweetID, "", nil
	})
}

func handleBookmarkTweet(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		TweetID string `json:"tweet_id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return dispatchSimple(ctx, deps, "bookmark_tweet", CategoryEngage, p.TweetID, func(ctx context.Context) (string, string, error) {
		if err := deps.API.Bookmark(ctx, p.TweetID); err != nil {
			return "", "", err
		}
		return "bookmarked " + p.TweetID, fmt.Sprintf("call unbookmark_tweet with %s", p.TweetID), nil
	})
}

func handleUnbookmarkTweet(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		TweetID string `json:"tweet_id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return dispatchSimple(ctx, deps, "unbookmark_tweet", CategoryEngage, p.TweetID, func(ctx context.Context) (string, string, error) {
		if err := deps.API.Unbookmark(ctx, p.TweetID); err != nil {
			return "", "", err
		}
		return "unbookmarked " + p.TweetID, "", nil
	})
}

func handleDeleteTweet(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		TweetID string `json:"tweet_id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return dispatchSimple(ctx, deps, "delete_tweet", CategoryDelete, p.TweetID, func(ctx context.Context) (string, string, error) {
		if err := deps.API.DeleteTweet(ctx, p.TweetID); err != nil {
			return "", "", err
		}
		return "deleted " + p.TweetID, "", nil
	})
}

func handleQuoteTweet(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		Text          string   `json:"text"`
		QuotedTweetID string   `json:"quoted_tweet_id"`
		MediaIDs      []string `json:"media_ids"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return dispatchSimple(ctx, deps, "quote_tweet", CategoryWrite, p.Text, func(ctx context.Context) (string, string, error) {
		posted, err := deps.API.QuoteTweet(ctx, p.Text, p.QuotedTweetID, toolkit.PostOptions{MediaIDs: p.MediaIDs})
		if err != nil {
			return "", "", err
		}
		return "posted quote " + posted.ID, fmt.Sprintf("call delete_tweet with %s", posted.ID), nil
	})
}

func handleUploadMedia(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		DataBase64 []byte           `json:"data_base64"`
		Kind       toolkit.MediaKind `json:"kind"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	id, err := deps.API.UploadMedia(ctx, p.DataBase64, p.Kind)
	if err != nil {
		return nil, err
	}
	return map[string]string{"media_id": id}, nil
}

// --- Admin lane: universal raw-request tools ---

func rawRequestHandler(method string) Handler {
	return func(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
		var p struct {
			URL     string            `json:"url"`
			Query   map[string]string `json:"query"`
			Body    []byte            `json:"body"`
			Headers map[string]string `json:"headers"`
		}
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		if method == "GET" {
			status, body, err := deps.API.RawRequest(ctx, method, p.URL, p.Query, nil, p.Headers)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"status": status, "body": json.RawMessage(body)}, nil
		}
		category := CategoryWrite
		if method == "DELETE" {
			category = CategoryDelete
		}
		return dispatchSimple(ctx, deps, "x_"+method, category, p.URL, func(ctx context.Context) (string, string, error) {
			status, _, err := deps.API.RawRequest(ctx, method, p.URL, p.Query, p.Body, p.Headers)
			if err != nil {
				return "", "", err
			}
			return fmt.Sprintf("%s %s -> %d", method, p.URL, status), "", nil
		})
	}
}

// --- Workflow lane: composed operations over pkg/workflow ---

func handleOrchestrate(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		Query          string `json:"query"`
		MentionProduct bool   `json:"mention_product"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return deps.Workflow.Orchestrate(ctx, p.Query, p.MentionProduct)
}

func handleDiscover(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		Query    string  `json:"query"`
		MinScore float64 `json:"min_score"`
		Limit    int     `json:"limit"`
		SinceID  string  `json:"since_id"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return deps.Workflow.Discover(ctx, p.Query, p.MinScore, p.Limit, p.SinceID)
}

func handleDraftReply(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		CandidateIDs   []string `json:"candidate_ids"`
		Archetype      string   `json:"archetype"`
		MentionProduct bool     `json:"mention_product"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	var archetype *content.Archetype
	if p.Archetype != "" {
		a := content.Archetype(p.Archetype)
		archetype = &a
	}
	return deps.Workflow.Draft(ctx, p.CandidateIDs, archetype, p.MentionProduct), nil
}

func handleQueueReply(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		Items []struct {
			TweetID string `json:"tweet_id"`
			Text    string `json:"text"`
		} `json:"items"`
		MentionProduct bool `json:"mention_product"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	items := make([]workflow.ProposeItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, workflow.ProposeItem{TweetID: it.TweetID, Text: it.Text})
	}
	return deps.Workflow.Queue(ctx, items, p.MentionProduct)
}

func handlePublishTweet(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		Text  string `json:"text"`
		Topic string `json:"topic"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Text != "" {
		return deps.Workflow.Publish(ctx, p.Text, p.Topic)
	}
	return deps.Workflow.PublishOriginal(ctx, p.Topic)
}

func handlePublishThread(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		Tweets    []string `json:"tweets"`
		Topic     string   `json:"topic"`
		Structure string   `json:"structure"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if len(p.Tweets) > 0 {
		return deps.Workflow.PublishThread(ctx, p.Tweets, p.Topic, p.Structure)
	}
	return deps.Workflow.PublishPlannedThread(ctx, p.Topic, content.ThreadStructure(p.Structure))
}

func handleThreadPlan(ctx context.Context, deps *Dependencies, params json.RawMessage) (interface{}, error) {
	var p struct {
		Topic     string `json:"topic"`
		Structure string `json:"structure"`
	}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	return deps.Workflow.ThreadPlan(ctx, p.Topic, content.ThreadStructure(p.Structure))
}

package toolkit

import (
	"context"
	"fmt"
)

type wireTweet struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	AuthorID       string `json:"author_id"`
	ConversationID string `json:"conversation_id"`
	CreatedAt      string `json:"created_at"`
	PublicMetrics  struct {
		LikeCount       int `json:"like_count"`
		RetweetCount    int `json:"retweet_count"`
		ReplyCount      int `json:"reply_count"`
		QuoteCount      int `json:"quote_count"`
		ImpressionCount int `json:"impression_count"`
	} `json:"public_metrics"`
	ReferencedTweets []struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"referenced_tweets"`
	Attachments struct {
		MediaKeys []string `json:"media_keys"`
	} `json:"attachments"`
}

func (w wireTweet) toTweet() Tweet {
	t := Tweet{
		ID:              w.ID,
		Text:            w.Text,
		AuthorID:        w.AuthorID,
		ConversationID:  w.ConversationID,
		LikeCount:       w.PublicMetrics.LikeCount,
		RetweetCount:    w.PublicMetrics.RetweetCount,
		ReplyCount:      w.PublicMetrics.ReplyCount,
		QuoteCount:      w.PublicMetrics.QuoteCount,
		ImpressionCount: w.PublicMetrics.ImpressionCount,
		MediaCount:      len(w.Attachments.MediaKeys),
	}
	t.CreatedAt = parseTwitterTime(w.CreatedAt)
	for _, r := range w.ReferencedTweets {
		t.ReferencedTweets = append(t.ReferencedTweets, TweetReference{Type: r.Type, ID: r.ID})
		if r.Type == "quoted" {
			t.IsQuote = true
		}
	}
	return t
}

type wireTweetsResponse struct {
	Data []wireTweet `json:"data"`
	Meta struct {
		NextToken   string `json:"next_token"`
		ResultCount int    `json:"result_count"`
	} `json:"meta"`
}

type wireUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	PublicMetrics struct {
		FollowersCount int `json:"followers_count"`
		FollowingCount int `json:"following_count"`
		TweetCount     int `json:"tweet_count"`
	} `json:"public_metrics"`
}

func (w wireUser) toUser() User {
	return User{
		ID:             w.ID,
		Username:       w.Username,
		Name:           w.Name,
		FollowersCount: w.PublicMetrics.FollowersCount,
		FollowingCount: w.PublicMetrics.FollowingCount,
		TweetCount:     w.PublicMetrics.TweetCount,
	}
}

type wireUsersResponse struct {
	Data []wireUser `json:"data"`
	Meta struct {
		NextToken string `json:"next_token"`
	} `json:"meta"`
}

const tweetFields = "id,text,author_id,conversation_id,created_at,public_metrics,referenced_tweets,attachments"

// SearchTweets runs a recent-search query. Rate limit: 300/15m (app),
// 450/15m (user), enforced client-side by the limiter in http_client.go.
func (c *HTTPSocialClient) SearchTweets(ctx context.Context, query string, max int, sinceID, paginationToken string) (Page[Tweet], error) {
	if err := requireNonEmpty("query", query); err != nil {
		return Page[Tweet]{}, err
	}
	q := map[string]string{
		"query":        query,
		"max_results":  fmt.Sprintf("%d", clampInt(max, 10, 100)),
		"tweet.fields": tweetFields,
	}
	if sinceID != "" {
		q["since_id"] = sinceID
	}
	if paginationToken != "" {
		q["pagination_token"] = paginationToken
	}

	var resp wireTweetsResponse
	if err := c.doJSON(ctx, "GET", "/tweets/search/recent", q, nil, &resp); err != nil {
		return Page[Tweet]{}, err
	}
	return toTweetPage(resp), nil
}

// GetTweet fetches a single tweet by id.
func (c *HTTPSocialClient) GetTweet(ctx context.Context, id string) (Tweet, error) {
	if err := requireNonEmpty("id", id); err != nil {
		return Tweet{}, err
	}
	var resp struct {
		Data wireTweet `json:"data"`
	}
	if err := c.doJSON(ctx, "GET", "/tweets/"+id, map[string]string{"tweet.fields": tweetFields}, nil, &resp); err != nil {
		return Tweet{}, err
	}
	return resp.Data.toTweet(), nil
}

// GetMentions fetches mentions of userID newer than sinceID.
func (c *HTTPSocialClient) GetMentions(ctx context.Context, userID, sinceID, paginationToken string) (Page[Tweet], error) {
	if err := requireNonEmpty("userID", userID); err != nil {
		return Page[Tweet]{}, err
	}
	q := map[string]string{"tweet.fields": tweetFields}
	if sinceID != "" {
		q["since_id"] = sinceID
	}
	if paginationToken != "" {
		q["pagination_token"] = paginationToken
	}
	var resp wireTweetsResponse
	if err := c.doJSON(ctx, "GET", "/users/"+userID+"/mentions", q, nil, &resp); err != nil {
		return Page[Tweet]{}, err
	}
	return toTweetPage(resp), nil
}

// GetUserTweets fetches userID's own timeline.
func (c *HTTPSocialClient) GetUserTweets(ctx context.Context, userID string, max int, paginationToken string) (Page[Tweet], error) {
	if err := requireNonEmpty("userID", userID); err != nil {
		return Page[Tweet]{}, err
	}
	q := map[string]string{
		"max_results":  fmt.Sprintf("%d", clampInt(max, 5, 100)),
		"tweet.fields": tweetFields,
	}
	if paginationToken != "" {
		q["pagination_token"] = paginationToken
	}
	var resp wireTweetsResponse
	if err := c.doJSON(ctx, "GET", "/users/"+userID+"/tweets", q, nil, &resp); err != nil {
		return Page[Tweet]{}, err
	}
	return toTweetPage(resp), nil
}

// GetUserByUsername resolves a handle to a full user object.
func (c *HTTPSocialClient) GetUserByUsername(ctx context.Context, username string) (User, error) {
	if err := requireNonEmpty("username", username); err != nil {
		return User{}, err
	}
	var resp struct {
		Data wireUser `json:"data"`
	}
	q := map[string]string{"user.fields": "public_metrics"}
	if err := c.doJSON(ctx, "GET", "/users/by/username/"+username, q, nil, &resp); err != nil {
		return User{}, err
	}
	return resp.Data.toUser(), nil
}

// GetFollowers lists userID's followers.
func (c *HTTPSocialClient) GetFollowers(ctx context.Context, userID string, max int, paginationToken string) (Page[User], error) {
	return c.listUsers(ctx, "/users/"+userID+"/followers", max, paginationToken)
}

// GetFollowing lists accounts userID follows.
func (c *HTTPSocialClient) GetFollowing(ctx context.Context, userID string, max int, paginationToken string) (Page[User], error) {
	return c.listUsers(ctx, "/users/"+userID+"/following", max, paginationToken)
}

func (c *HTTPSocialClient) listUsers(ctx context.Context, path string, max int, paginationToken string) (Page[User], error) {
	q := map[string]string{
		"max_results": fmt.Sprintf("%d", clampInt(max, 1, 1000)),
		"user.fields": "public_metrics",
	}
	if paginationToken != "" {
		q["pagination_token"] = paginationToken
	}
	var resp wireUsersResponse
	if err := c.doJSON(ctx, "GET", path, q, nil, &resp); err != nil {
		return Page[User]{}, err
	}
	out := Page[User]{NextToken: resp.Meta.NextToken}
	for _, u := range resp.Data {
		out.Items = append(out.Items, u.toUser())
	}
	return out, nil
}

func toTweetPage(resp wireTweetsResponse) Page[Tweet] {
	out := Page[Tweet]{NextToken: resp.Meta.NextToken}
	for _, w := range resp.Data {
		out.Items = append(out.Items, w.toTweet())
	}
	return out
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

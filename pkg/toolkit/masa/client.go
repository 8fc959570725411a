package masa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tuitbot/tuitbot/pkg/toolkit"
)

// Client is a minimal scrape-endpoint HTTP client used as a fallback
// acquisition path when the primary SocialApiClient is rate-limited or
// unavailable. It does not sign requests the way HTTPSocialClient does
// — it targets a self-hosted scrape proxy, authenticated with a single
// static key header.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient builds a Client with a sane request timeout.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type scrapeTweet struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int       `json:"likes"`
	Retweets  int       `json:"retweets"`
	Replies   int       `json:"replies"`
}

type scrapeResponse struct {
	Tweets []scrapeTweet `json:"tweets"`
}

// Search runs a single query against the scrape endpoint and returns at
// most count tweets.
func (c *Client) Search(ctx context.Context, query string, count int) ([]toolkit.Tweet, error) {
	u := c.BaseURL + "/search?" + url.Values{
		"q":     {query},
		"count": {fmt.Sprintf("%d", count)},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("masa: build request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("masa: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("masa: scrape endpoint status %d", resp.StatusCode)
	}

	var out scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("masa: decode response: %w", err)
	}

	tweets := make([]toolkit.Tweet, 0, len(out.Tweets))
	for _, t := range out.Tweets {
		tweets = append(tweets, toolkit.Tweet{
			ID:             t.ID,
			Text:           t.Text,
			AuthorID:       t.AuthorID,
			AuthorUsername: t.Username,
			CreatedAt:      t.CreatedAt,
			LikeCount:      t.Likes,
			RetweetCount:   t.Retweets,
			ReplyCount:     t.Replies,
		})
	}
	return tweets, nil
}

package toolkit

import (
	"context"

	"github.com/sirupsen/logrus"
)

type createTweetRequest struct {
	Text  string           `json:"text"`
	Reply *replySettings   `json:"reply,omitempty"`
	Quote *quoteSettings   `json:"quote_tweet_id,omitempty"`
	Media *mediaAttachRefs `json:"media,omitempty"`
}

type replySettings struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type quoteSettings string

type mediaAttachRefs struct {
	MediaIDs []string `json:"media_ids"`
}

type createTweetResponse struct {
	Data wireTweet `json:"data"`
}

func (c *HTTPSocialClient) postTweetRequest(ctx context.Context, req createTweetRequest) (Tweet, error) {
	var resp createTweetResponse
	if err := c.doJSON(ctx, "POST", "/tweets", nil, req, &resp); err != nil {
		return Tweet{}, err
	}
	return resp.Data.toTweet(), nil
}

// PostTweet publishes a standalone tweet.
func (c *HTTPSocialClient) PostTweet(ctx context.Context, text string, opts PostOptions) (Tweet, error) {
	if verr := ValidateTweetText(text); verr != nil {
		return Tweet{}, verr
	}
	req := createTweetRequest{Text: text}
	if len(opts.MediaIDs) > 0 {
		req.Media = &mediaAttachRefs{MediaIDs: opts.MediaIDs}
	}

	c.logger.WithFields(logrus.Fields{"weighted_len": WeightedLength(text)}).Debug("toolkit: posting tweet")
	return c.postTweetRequest(ctx, req)
}

// ReplyToTweet posts text as a reply in inReplyToID's conversation.
func (c *HTTPSocialClient) ReplyToTweet(ctx context.Context, text, inReplyToID string, opts PostOptions) (Tweet, error) {
	if verr := ValidateTweetText(text); verr != nil {
		return Tweet{}, verr
	}
	if verr := requireNonEmpty("inReplyToID", inReplyToID); verr != nil {
		return Tweet{}, verr
	}
	req := createTweetRequest{
		Text:  text,
		Reply: &replySettings{InReplyToTweetID: inReplyToID},
	}
	if len(opts.MediaIDs) > 0 {
		req.Media = &mediaAttachRefs{MediaIDs: opts.MediaIDs}
	}

	c.logger.WithFields(logrus.Fields{
		"in_reply_to_tweet_id": inReplyToID,
		"weighted_len":         WeightedLength(text),
	}).Debug("toolkit: posting reply")
	return c.postTweetRequest(ctx, req)
}

// QuoteTweet posts text as a quote of quotedTweetID.
func (c *HTTPSocialClient) QuoteTweet(ctx context.Context, text, quotedTweetID string, opts PostOptions) (Tweet, error) {
	if verr := ValidateTweetText(text); verr != nil {
		return Tweet{}, verr
	}
	if verr := requireNonEmpty("quotedTweetID", quotedTweetID); verr != nil {
		return Tweet{}, verr
	}
	qs := quoteSettings(quotedTweetID)
	req := createTweetRequest{Text: text, Quote: &qs}
	if len(opts.MediaIDs) > 0 {
		req.Media = &mediaAttachRefs{MediaIDs: opts.MediaIDs}
	}

	c.logger.WithFields(logrus.Fields{
		"quoted_tweet_id": quotedTweetID,
		"weighted_len":    WeightedLength(text),
	}).Debug("toolkit: posting quote tweet")
	return c.postTweetRequest(ctx, req)
}

// PostThread posts texts as a reply chain, each tweet replying to the
// one before it. On a mid-thread failure it stops and returns a
// ThreadPartialFailure carrying the IDs already posted, so callers can
// decide whether to delete them or leave a truncated thread live.
func (c *HTTPSocialClient) PostThread(ctx context.Context, texts []string) ([]Tweet, error) {
	if len(texts) == 0 {
		return nil, newInvalidInput("thread must have at least one tweet")
	}
	for i, t := range texts {
		if verr := ValidateTweetText(t); verr != nil {
			return nil, newInvalidInput("thread tweet %d: %s", i, verr.Message)
		}
	}

	posted := make([]Tweet, 0, len(texts))
	var replyTo string
	for i, text := range texts {
		req := createTweetRequest{Text: text}
		if replyTo != "" {
			req.Reply = &replySettings{InReplyToTweetID: replyTo}
		}

		tweet, err := c.postTweetRequest(ctx, req)
		if err != nil {
			ids := make([]string, len(posted))
			for j, p := range posted {
				ids[j] = p.ID
			}
			return posted, &ThreadPartialFailure{PostedIDs: ids, FailedIndex: i, Source: err}
		}
		posted = append(posted, tweet)
		replyTo = tweet.ID
	}
	return posted, nil
}

// DeleteTweet removes a tweet the authenticated account owns.
func (c *HTTPSocialClient) DeleteTweet(ctx context.Context, id string) error {
	if verr := requireNonEmpty("id", id); verr != nil {
		return verr
	}
	var resp struct {
		Data struct {
			Deleted bool `json:"deleted"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, "DELETE", "/tweets/"+id, nil, nil, &resp); err != nil {
		return err
	}
	if !resp.Data.Deleted {
		return newXApiError(false, 0, errNotDeleted)
	}
	return nil
}

package toolkit

import "context"

// engagement endpoints all hang off the authenticating account's own
// user id, so every call here first checks cfg.UserID is set.
func (c *HTTPSocialClient) requireSelfID() error {
	if c.cfg.UserID == "" {
		return newInvalidInput("client config has no UserID; engagement calls require the authenticating account's id")
	}
	return nil
}

type boolDataResponse struct {
	Data struct {
		Liked      bool `json:"liked"`
		Following  bool `json:"following"`
		Retweeted  bool `json:"retweeted"`
		Bookmarked bool `json:"bookmarked"`
	} `json:"data"`
}

// Like records a like on tweetID from the authenticating account.
func (c *HTTPSocialClient) Like(ctx context.Context, tweetID string) error {
	if err := c.requireSelfID(); err != nil {
		return err
	}
	if err := requireNonEmpty("tweetID", tweetID); err != nil {
		return err
	}
	var resp boolDataResponse
	return c.doJSON(ctx, "POST", "/users/"+c.cfg.UserID+"/likes", nil, map[string]string{"tweet_id": tweetID}, &resp)
}

// Unlike removes a prior like on tweetID.
func (c *HTTPSocialClient) Unlike(ctx context.Context, tweetID string) error {
	if err := c.requireSelfID(); err != nil {
		return err
	}
	if err := requireNonEmpty("tweetID", tweetID); err != nil {
		return err
	}
	var resp boolDataResponse
	return c.doJSON(ctx, "DELETE", "/users/"+c.cfg.UserID+"/likes/"+tweetID, nil, nil, &resp)
}

// Follow follows userID from the authenticating account.
func (c *HTTPSocialClient) Follow(ctx context.Context, userID string) error {
	if err := c.requireSelfID(); err != nil {
		return err
	}
	if err := requireNonEmpty("userID", userID); err != nil {
		return err
	}
	var resp boolDataResponse
	return c.doJSON(ctx, "POST", "/users/"+c.cfg.UserID+"/following", nil, map[string]string{"target_user_id": userID}, &resp)
}

// Unfollow unfollows userID.
func (c *HTTPSocialClient) Unfollow(ctx context.Context, userID string) error {
	if err := c.requireSelfID(); err != nil {
		return err
	}
	if err := requireNonEmpty("userID", userID); err != nil {
		return err
	}
	var resp boolDataResponse
	return c.doJSON(ctx, "DELETE", "/users/"+c.cfg.UserID+"/following/"+userID, nil, nil, &resp)
}

// Retweet retweets tweetID.
func (c *HTTPSocialClient) Retweet(ctx context.Context, tweetID string) error {
	if err := c.requireSelfID(); err != nil {
		return err
	}
	if err := requireNonEmpty("tweetID", tweetID); err != nil {
		return err
	}
	var resp boolDataResponse
	return c.doJSON(ctx, "POST", "/users/"+c.cfg.UserID+"/retweets", nil, map[string]string{"tweet_id": tweetID}, &resp)
}

// Unretweet undoes a retweet of tweetID.
func (c *HTTPSocialClient) Unretweet(ctx context.Context, tweetID string) error {
	if err := c.requireSelfID(); err != nil {
		return err
	}
	if err := requireNonEmpty("tweetID", tweetID); err != nil {
		return err
	}
	var resp boolDataResponse
	return c.doJSON(ctx, "DELETE", "/users/"+c.cfg.UserID+"/retweets/"+tweetID, nil, nil, &resp)
}

// Bookmark saves tweetID to the authenticating account's bookmarks.
func (c *HTTPSocialClient) Bookmark(ctx context.Context, tweetID string) error {
	if err := c.requireSelfID(); err != nil {
		return err
	}
	if err := requireNonEmpty("tweetID", tweetID); err != nil {
		return err
	}
	var resp boolDataResponse
	return c.doJSON(ctx, "POST", "/users/"+c.cfg.UserID+"/bookmarks", nil, map[string]string{"tweet_id": tweetID}, &resp)
}

// Unbookmark removes tweetID from bookmarks.
func (c *HTTPSocialClient) Unbookmark(ctx context.Context, tweetID string) error {
	if err := c.requireSelfID(); err != nil {
		return err
	}
	if err := requireNonEmpty("tweetID", tweetID); err != nil {
		return err
	}
	var resp boolDataResponse
	return c.doJSON(ctx, "DELETE", "/users/"+c.cfg.UserID+"/bookmarks/"+tweetID, nil, nil, &resp)
}

package toolkit

import (
	"context"
)

// SocialApiClient is the capability set toolkit primitives operate
// over. It is a virtual table of operations, not an inheritance
// hierarchy — tests satisfy it with an independent fake backed by
// nothing but this interface.
type SocialApiClient interface {
	SearchTweets(ctx context.Context, query string, max int, sinceID, paginationToken string) (Page[Tweet], error)
	GetTweet(ctx context.Context, id string) (Tweet, error)
	GetMentions(ctx context.Context, userID, sinceID, paginationToken string) (Page[Tweet], error)
	GetUserTweets(ctx context.Context, userID string, max int, paginationToken string) (Page[Tweet], error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetFollowers(ctx context.Context, userID string, max int, paginationToken string) (Page[User], error)
	GetFollowing(ctx context.Context, userID string, max int, paginationToken string) (Page[User], error)

	PostTweet(ctx context.Context, text string, opts PostOptions) (Tweet, error)
	ReplyToTweet(ctx context.Context, text, inReplyToID string, opts PostOptions) (Tweet, error)
	QuoteTweet(ctx context.Context, text, quotedTweetID string, opts PostOptions) (Tweet, error)
	PostThread(ctx context.Context, texts []string) ([]Tweet, error)
	DeleteTweet(ctx context.Context, id string) error

	Like(ctx context.Context, tweetID string) error
	Unlike(ctx context.Context, tweetID string) error
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
	Retweet(ctx context.Context, tweetID string) error
	Unretweet(ctx context.Context, tweetID string) error
	Bookmark(ctx context.Context, tweetID string) error
	Unbookmark(ctx context.Context, tweetID string) error

	UploadMedia(ctx context.Context, data []byte, kind MediaKind) (string, error)

	RawRequest(ctx context.Context, method, url string, query map[string]string, body []byte, headers map[string]string) (int, []byte, error)
}

// Package toolkit is the layer of stateless API primitives over a
// SocialApiClient capability: search, read, post, reply, like, follow,
// media upload. Functions here do input validation only — no DB access,
// no policy, no audit.
package toolkit

import "time"

// Tweet is the subset of the v2 tweet object the rest of the module
// consumes: only the fields scoring, content, and the store actually read.
type Tweet struct {
	ID               string
	Text             string
	AuthorID         string
	AuthorUsername   string
	ConversationID   string
	CreatedAt        time.Time
	LikeCount        int
	RetweetCount     int
	ReplyCount       int
	QuoteCount       int
	ImpressionCount  int
	IsQuote          bool
	MediaCount       int
	ReferencedTweets []TweetReference
}

// TweetReference names a relationship to another tweet: "replied_to",
// "quoted", or "retweeted".
type TweetReference struct {
	Type string
	ID   string
}

// User is the subset of the v2 user object consumed by scoring and the
// target loop.
type User struct {
	ID             string
	Username       string
	Name           string
	FollowersCount int
	FollowingCount int
	TweetCount     int
}

// Page is a cursor-paginated result: Items plus a token for the next
// page, empty when exhausted.
type Page[T any] struct {
	Items     []T
	NextToken string
}

// MediaKind is a supported upload type; size ceilings are enforced in
// validate.go.
type MediaKind string

const (
	MediaImageJPEG MediaKind = "jpeg"
	MediaImagePNG  MediaKind = "png"
	MediaImageWebP MediaKind = "webp"
	MediaGIF       MediaKind = "gif"
	MediaVideo     MediaKind = "mp4"
)

// PostOptions carries the optional fields a post/reply/quote call may set.
type PostOptions struct {
	MediaIDs []string
}

// parseTwitterTime parses a v2 API created_at timestamp, returning the
// zero time for anything that fails to parse rather than erroring —
// callers treat CreatedAt as advisory ranking input, not a contract.
func parseTwitterTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

package toolkit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mrjones/oauth"
	"github.com/sirupsen/logrus"
)

// Endpoint URLs for X's OAuth 1.0a three-legged flow, used for
// write-capable credentials. Reads can run on a bearer token alone.
const (
	baseAPIURL        = "https://api.twitter.com/2"
	requestTokenURL   = "https://api.twitter.com/oauth/request_token"
	authorizeTokenURL = "https://api.twitter.com/oauth/authorize"
	accessTokenURL    = "https://api.twitter.com/oauth/access_token"
)

// HTTPSocialClientConfig holds the credentials and tuning knobs for an
// HTTPSocialClient, a TwitterConfig-shaped struct trimmed to what a
// stateless toolkit needs. It does not load its own .env — the caller
// owns config sourcing.
type HTTPSocialClientConfig struct {
	BaseURL           string
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       string
	// UserID is the authenticating account's numeric id, required by the
	// self-referential engagement endpoints (like, follow, retweet,
	// bookmark all hang off /users/{UserID}/...).
	UserID string
	// UploadBaseURL overrides the legacy v1.1 media upload host; tests
	// point this at a local server instead of the real API.
	UploadBaseURL  string
	RequestTimeout time.Duration
	Logger         *logrus.Logger
}

func (c *HTTPSocialClientConfig) withDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = baseAPIURL
	}
	if c.UploadBaseURL == "" {
		c.UploadBaseURL = uploadBaseURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
}

func (c *HTTPSocialClientConfig) hasWriteAccess() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" &&
		c.AccessToken != "" && c.AccessTokenSecret != ""
}

func (c *HTTPSocialClientConfig) hasReadAccess() bool {
	return c.hasWriteAccess() || c.BearerToken != ""
}

// buildHTTPClient returns an *http.Client already signing requests with
// OAuth 1.0a when write credentials are present, falling back to a
// plain client that relies on a per-request Bearer header otherwise.
func buildHTTPClient(cfg *HTTPSocialClientConfig) (*http.Client, error) {
	if cfg.hasWriteAccess() {
		consumer := oauth.NewConsumer(cfg.ConsumerKey, cfg.ConsumerSecret, oauth.ServiceProvider{
			RequestTokenUrl:   requestTokenURL,
			AuthorizeTokenUrl: authorizeTokenURL,
			AccessTokenUrl:    accessTokenURL,
		})
		consumer.HttpClient = &http.Client{Timeout: cfg.RequestTimeout}

		token := oauth.AccessToken{Token: cfg.AccessToken, Secret: cfg.AccessTokenSecret}
		client, err := consumer.MakeHttpClient(&token)
		if err != nil {
			return nil, fmt.Errorf("toolkit: build oauth1 client: %w", err)
		}
		return client, nil
	}

	if cfg.BearerToken == "" {
		return nil, fmt.Errorf("toolkit: either OAuth 1.0a credentials or a bearer token are required")
	}
	return &http.Client{Timeout: cfg.RequestTimeout}, nil
}

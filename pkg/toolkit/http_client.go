package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"golang.org/x/time/rate"
)

// HTTPSocialClient is the production SocialApiClient: HTTP/JSON against
// the v2 API, OAuth 1.0a-signed for write-capable credentials, a plain
// bearer header otherwise.
type HTTPSocialClient struct {
	cfg     *HTTPSocialClientConfig
	http    *http.Client
	logger  *logrus.Logger
	limiter *rate.Limiter
}

// NewHTTPSocialClient validates cfg, builds the signing HTTP client and
// a local token-bucket limiter matching the account's documented rate
// limit (requests-per-window), mirroring Davincible-xapi's use of
// golang.org/x/time/rate as a client-side guard in front of the remote
// limiter.
func NewHTTPSocialClient(cfg HTTPSocialClientConfig, requestsPerWindow int, window time.Duration) (*HTTPSocialClient, error) {
	cfg.withDefaults()
	if !cfg.hasReadAccess() {
		return nil, fmt.Errorf("toolkit: client requires at least a bearer token")
	}

	httpClient, err := buildHTTPClient(&cfg)
	if err != nil {
		return nil, err
	}

	if requestsPerWindow <= 0 {
		requestsPerWindow = 1
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	limit := rate.Every(window / time.Duration(requestsPerWindow))

	return &HTTPSocialClient{
		cfg:     &cfg,
		http:    httpClient,
		logger:  cfg.Logger,
		limiter: rate.NewLimiter(limit, requestsPerWindow),
	}, nil
}

type apiErrorBody struct {
	Errors []struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"errors"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// doJSON issues an HTTP request, waits on the client-side limiter first,
// and decodes a JSON response into out (if non-nil).
func (c *HTTPSocialClient) doJSON(ctx context.Context, method, path string, query map[string]string, body interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return newXApiError(true, 0, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return newInvalidInput("encode request body: %v", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bodyReader)
	if err != nil {
		return newXApiError(false, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if !c.cfg.hasWriteAccess() && c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}

	if len(query) > 0 {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
	}).Debug("toolkit: outbound request")

	resp, err := c.http.Do(req)
	if err != nil {
		return newXApiError(true, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfterMs := parseRetryAfterMs(resp.Header.Get("x-rate-limit-reset"))
		return newXApiError(true, retryAfterMs, fmt.Errorf("rate limited by social API"))
	}

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newXApiError(true, 0, err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiErrorBody
		_ = json.Unmarshal(rawBody, &apiErr)
		msg := apiErr.Detail
		if msg == "" && len(apiErr.Errors) > 0 {
			msg = apiErr.Errors[0].Message
		}
		if msg == "" {
			msg = string(rawBody)
		}
		retryable := resp.StatusCode >= 500
		return newXApiError(retryable, 0, fmt.Errorf("social API status %d: %s", resp.StatusCode, msg))
	}

	if out != nil && len(rawBody) > 0 {
		if err := json.Unmarshal(rawBody, out); err != nil {
			return newXApiError(false, 0, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

func parseRetryAfterMs(resetHeader string) int {
	if resetHeader == "" {
		return 0
	}
	resetUnix, err := strconv.ParseInt(resetHeader, 10, 64)
	if err != nil {
		return 0
	}
	wait := time.Until(time.Unix(resetUnix, 0))
	if wait < 0 {
		return 0
	}
	return int(wait.Milliseconds())
}

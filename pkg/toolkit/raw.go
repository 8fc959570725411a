package toolkit

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// RawRequest is the escape hatch the toolsurface's admin profile exposes
// for one-off API calls no typed method covers yet. It still waits on
// the client-side limiter but does no response decoding or error
// mapping beyond the transport itself.
func (c *HTTPSocialClient) RawRequest(ctx context.Context, method, url string, query map[string]string, body []byte, headers map[string]string) (int, []byte, error) {
	if err := requireNonEmpty("method", method); err != nil {
		return 0, nil, err
	}
	if err := requireNonEmpty("url", url); err != nil {
		return 0, nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, newXApiError(true, 0, err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, newXApiError(false, 0, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if len(query) > 0 {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, newXApiError(true, 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, newXApiError(true, 0, err)
	}
	return resp.StatusCode, respBody, nil
}

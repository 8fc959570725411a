package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// uploadBaseURL is the legacy v1.1 host media upload still lives on;
// the v2 surface has no native upload endpoint of its own.
const uploadBaseURL = "https://upload.twitter.com/1.1/media/upload.json"

type mediaUploadResponse struct {
	MediaIDString string `json:"media_id_string"`
}

// UploadMedia uploads data as kind and returns the media id other
// toolkit calls attach via PostOptions.MediaIDs.
func (c *HTTPSocialClient) UploadMedia(ctx context.Context, data []byte, kind MediaKind) (string, error) {
	if verr := ValidateMedia(kind, int64(len(data))); verr != nil {
		return "", verr
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("media", "upload."+string(kind))
	if err != nil {
		return "", newInvalidInput("build multipart upload: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", newInvalidInput("write multipart upload: %v", err)
	}
	if err := w.Close(); err != nil {
		return "", newInvalidInput("close multipart upload: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.UploadBaseURL, &buf)
	if err != nil {
		return "", newXApiError(false, 0, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	c.logger.WithFields(logrus.Fields{
		"kind":       kind,
		"size_bytes": len(data),
	}).Debug("toolkit: uploading media")

	if err := c.limiter.Wait(ctx); err != nil {
		return "", newXApiError(true, 0, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", newXApiError(true, 0, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newXApiError(true, 0, err)
	}
	if resp.StatusCode >= 400 {
		return "", newXApiError(resp.StatusCode >= 500, 0, fmt.Errorf("media upload status %d: %s", resp.StatusCode, string(rawBody)))
	}

	var out mediaUploadResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return "", newXApiError(false, 0, fmt.Errorf("decode media upload response: %w", err))
	}
	if out.MediaIDString == "" {
		return "", newXApiError(false, 0, fmt.Errorf("media upload response missing media_id_string"))
	}
	return out.MediaIDString, nil
}

package walrus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

// publishDirect PUTs the raw bytes to the publisher store endpoint.
// The publisher answers with either a newlyCreated or an alreadyCertified
// shape; anything else is an error.
func (c *Client) publishDirect(ctx context.Context, data []byte, opts StoreOptions) (string, error) {
	target := fmt.Sprintf("%s/v1/store?epochs=%d", c.publisherURL, opts.Epochs)
	if opts.ChosenTierKey != "" {
		target += "&plan=" + url.QueryEscape(opts.ChosenTierKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build publisher request: %w", err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("publisher request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("publisher returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read publisher response: %w", err)
	}

	if result := gjson.GetBytes(body, "newlyCreated.blobObject.blobId"); result.Exists() {
		return result.String(), nil
	}
	if result := gjson.GetBytes(body, "alreadyCertified.blobId"); result.Exists() {
		return result.String(), nil
	}

	return "", fmt.Errorf("unexpected publisher response")
}

// Delete asks the publisher to drop the blob. Best-effort: callers log and
// ignore the error, local removal proceeds regardless.
func (c *Client) Delete(ctx context.Context, blobID string) error {
	if blobID == "" || IsSynthetic(blobID) {
		return nil
	}

	target := fmt.Sprintf("%s/v1/store/%s", c.publisherURL, url.PathEscape(blobID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("publisher returned %d", resp.StatusCode)
	}

	return nil
}

// Fetch streams the blob's bytes from the aggregator. Synthetic ids have no
// remote bytes and fail immediately.
func (c *Client) Fetch(ctx context.Context, blobID string) (io.ReadCloser, string, error) {
	if blobID == "" || IsSynthetic(blobID) {
		return nil, "", fmt.Errorf("blob %q is not stored remotely", blobID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BlobURL(blobID), nil)
	if err != nil {
		return nil, "", fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("aggregator returned %d", resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

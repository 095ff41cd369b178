package walrus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

// relayUploadPaths are the candidate relay endpoints, tried in order
var relayUploadPaths = []string{"/v1/upload", "/v1/store", "/upload"}

// uploadToRelay POSTs the bytes as a multipart submission to each candidate
// relay endpoint and accepts the first response carrying a recognizable blob
// id. Returns ok=false when every candidate is unavailable or unreadable.
func (c *Client) uploadToRelay(ctx context.Context, data []byte, opts StoreOptions) (string, bool) {
	for _, path := range relayUploadPaths {
		url := c.relayURL + path

		blobID, err := c.postRelayForm(ctx, url, data, opts)
		if err != nil {
			c.logger.Debug("relay candidate failed", "url", url, "error", err)
			continue
		}

		return blobID, true
	}

	return "", false
}

func (c *Client) postRelayForm(ctx context.Context, url string, data []byte, opts StoreOptions) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile("file", opts.Identifier)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}

	// All fields but the file itself are optional
	if opts.Epochs > 0 {
		if err := form.WriteField("epochs", strconv.Itoa(opts.Epochs)); err != nil {
			return "", fmt.Errorf("write epochs field: %w", err)
		}
	}
	if opts.Identifier != "" {
		if err := form.WriteField("identifier", opts.Identifier); err != nil {
			return "", fmt.Errorf("write identifier field: %w", err)
		}
	}
	if opts.ChosenTierKey != "" {
		if err := form.WriteField("plan", opts.ChosenTierKey); err != nil {
			return "", fmt.Errorf("write plan field: %w", err)
		}
	}
	if opts.SignerAddress != "" {
		if err := form.WriteField("signerAddress", opts.SignerAddress); err != nil {
			return "", fmt.Errorf("write signerAddress field: %w", err)
		}
	}

	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("relay returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read relay response: %w", err)
	}

	blobID, shape, ok := extractBlobID(body)
	if !ok {
		return "", fmt.Errorf("relay response carried no blob id")
	}

	c.logger.Debug("relay upload accepted", "url", url, "shape", shape)
	return blobID, nil
}

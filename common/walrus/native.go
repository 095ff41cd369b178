package walrus

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/tidwall/gjson"
)

// WriteRequest describes one structured write through the native client
type WriteRequest struct {
	Content       []byte
	Identifier    string
	Epochs        int
	Deletable     bool
	SignerAddress string
}

// NativeWriter performs authenticated structured writes against the chain
// fullnode. Implementations keep connection state that Reset discards.
type NativeWriter interface {
	WriteBlob(ctx context.Context, req WriteRequest) (string, error)
	Reset()
}

// RetryableError marks a failure where the writer's connection state is
// suspect and should be reset before falling through to the next tier.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable native write failure: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err carries the retryable classification
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// rpcWriter is the default NativeWriter. It issues a JSON-RPC style write
// against the fullnode and keeps a cached HTTP client as its connection state.
type rpcWriter struct {
	fullnodeURL string
	logger      Logger

	mu   sync.Mutex
	http *http.Client
	base *http.Client
}

func newRPCWriter(fullnodeURL string, base *http.Client, logger Logger) *rpcWriter {
	return &rpcWriter{
		fullnodeURL: fullnodeURL,
		logger:      logger,
		http:        base,
		base:        base,
	}
}

// WriteBlob performs the structured write. Timeouts, connection errors and
// 5xx responses are classified retryable; everything else is a plain error.
func (w *rpcWriter) WriteBlob(ctx context.Context, req WriteRequest) (string, error) {
	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "walrus_writeBlob",
		"params": map[string]interface{}{
			"content":       base64.StdEncoding.EncodeToString(req.Content),
			"identifier":    req.Identifier,
			"epochs":        req.Epochs,
			"deletable":     req.Deletable,
			"signerAddress": req.SignerAddress,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal write request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.fullnodeURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build write request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	w.mu.Lock()
	client := w.http
	w.mu.Unlock()

	resp, err := client.Do(httpReq)
	if err != nil {
		// Any transport failure (timeout, refused, reset) leaves the
		// connection state suspect
		return "", &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read write response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return "", &RetryableError{Err: fmt.Errorf("fullnode returned %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fullnode returned %d", resp.StatusCode)
	}

	if result := gjson.GetBytes(raw, "result.blobId"); result.Exists() {
		return result.String(), nil
	}
	if result := gjson.GetBytes(raw, "result.0.blobId"); result.Exists() {
		return result.String(), nil
	}

	return "", fmt.Errorf("fullnode response carried no blob id")
}

// Reset drops the cached connection state
func (w *rpcWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.logger.Debug("resetting native writer connection state")
	w.http = &http.Client{Timeout: w.base.Timeout}
}

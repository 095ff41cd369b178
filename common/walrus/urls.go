package walrus

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SyntheticPrefix marks identifiers minted locally when every remote tier
// failed. Consumers must treat such ids as "not yet truly stored".
const SyntheticPrefix = "mock-blob"

// SyntheticID mints a locally unique placeholder identifier
func SyntheticID() string {
	return fmt.Sprintf("%s-%d-%s", SyntheticPrefix, time.Now().UnixMilli(), uuid.New().String()[:9])
}

// IsSynthetic reports whether blobID is a locally minted placeholder
func IsSynthetic(blobID string) bool {
	return strings.HasPrefix(blobID, SyntheticPrefix)
}

// BlobURL returns the aggregator URL serving the blob's bytes.
// Synthetic ids have nothing to serve and yield a placeholder.
func (c *Client) BlobURL(blobID string) string {
	if blobID == "" || IsSynthetic(blobID) {
		return "#"
	}
	return fmt.Sprintf("%s/v1/%s", c.aggregatorURL, blobID)
}

// ExplorerBlobURL returns the explorer page for the blob.
// Synthetic ids link to the explorer home instead.
func (c *Client) ExplorerBlobURL(blobID string) string {
	if blobID == "" || IsSynthetic(blobID) {
		return c.explorerURL
	}
	return fmt.Sprintf("%s?q=%s", c.explorerURL, url.QueryEscape(blobID))
}

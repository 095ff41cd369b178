package walrus

import (
	"context"
)

// StoreOptions configures one pass through the upload fallback chain
type StoreOptions struct {
	Identifier    string
	Epochs        int
	Deletable     bool
	ContentType   string
	ChosenTierKey string

	// SignerAddress enables the authenticated native tier when non-empty
	SignerAddress string
}

// Store places the bytes into the remote store, degrading through tiers:
//
//  1. authenticated native write (only with a signer address)
//  2. relay multipart POST across candidate endpoints
//  3. publisher direct PUT
//  4. synthetic placeholder identifier
//
// Store never fails; the returned identifier is always usable. Callers that
// care whether bytes actually left the process must check IsSynthetic.
func (c *Client) Store(ctx context.Context, data []byte, opts StoreOptions) string {
	if opts.Epochs < 1 {
		opts.Epochs = 1
	}

	// Tier 1: authenticated native write
	if opts.SignerAddress != "" {
		blobID, err := c.native().WriteBlob(ctx, WriteRequest{
			Content:       data,
			Identifier:    opts.Identifier,
			Epochs:        opts.Epochs,
			Deletable:     opts.Deletable,
			SignerAddress: opts.SignerAddress,
		})
		if err == nil && blobID != "" {
			c.logger.Info("stored via native write", "blob_id", blobID)
			return blobID
		}

		c.logger.Warn("native write failed, falling back to relay", "error", err)
		if IsRetryable(err) {
			// Connection state is suspect; reset rather than retry the tier
			c.resetNative()
		}
	}

	// Tier 2: relay candidates
	if blobID, ok := c.uploadToRelay(ctx, data, opts); ok {
		c.logger.Info("stored via relay", "blob_id", blobID)
		return blobID
	}

	// Tier 3: publisher direct PUT
	blobID, err := c.publishDirect(ctx, data, opts)
	if err == nil && blobID != "" {
		c.logger.Info("stored via publisher", "blob_id", blobID)
		return blobID
	}
	c.logger.Warn("publisher unavailable, minting synthetic id", "error", err)

	// Tier 4: synthetic placeholder so the caller always gets an identifier
	synthetic := SyntheticID()
	c.logger.Info("minted synthetic blob id", "blob_id", synthetic)
	return synthetic
}

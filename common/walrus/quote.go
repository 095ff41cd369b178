package walrus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// quotePaths are the candidate quote endpoints on the relay, tried in order
var quotePaths = []string{"/v1/quote", "/v1/price", "/pricing"}

// RemoteTier is one named pricing option from a relay quote
type RemoteTier struct {
	Key         string
	Name        string
	PriceUSD    float64
	Description string
}

// RemoteQuote is the parsed body of a relay quote response: either a list of
// named tiers or a single aggregate price.
type RemoteQuote struct {
	Tiers          []RemoteTier
	AggregatePrice float64
	HasAggregate   bool
}

// Quote tries the relay quote endpoints in order and returns the first well-formed
// body. Returns ok=false when no endpoint produced one; callers fall back to
// heuristic pricing.
func (c *Client) Quote(ctx context.Context, sizeBytes int64, epochs int) (*RemoteQuote, bool) {
	payload, err := json.Marshal(map[string]interface{}{
		"size":   sizeBytes,
		"epochs": epochs,
	})
	if err != nil {
		return nil, false
	}

	for _, path := range quotePaths {
		url := c.relayURL + path

		quote, err := c.postQuote(ctx, url, payload)
		if err != nil {
			c.logger.Debug("quote candidate failed", "url", url, "error", err)
			continue
		}

		return quote, true
	}

	return nil, false
}

func (c *Client) postQuote(ctx context.Context, url string, payload []byte) (*RemoteQuote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("quote endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read quote response: %w", err)
	}

	return parseQuoteBody(body)
}

// parseQuoteBody maps a heterogeneous quote body defensively: structured
// tiers when present, otherwise a simple price/total field.
func parseQuoteBody(body []byte) (*RemoteQuote, error) {
	tiers := gjson.GetBytes(body, "tiers")
	if tiers.IsArray() && len(tiers.Array()) > 0 {
		quote := &RemoteQuote{}
		for _, t := range tiers.Array() {
			key := firstString(t, "name", "id")
			price, hasPrice := firstNumber(t, "price_usd", "price")
			if key == "" && hasPrice {
				key = fmt.Sprintf("%v", price)
			}
			if key == "" {
				continue
			}

			name := t.Get("name").String()
			if name == "" {
				name = "Plan"
			}

			quote.Tiers = append(quote.Tiers, RemoteTier{
				Key:         key,
				Name:        name,
				PriceUSD:    price,
				Description: t.Get("description").String(),
			})
		}
		if len(quote.Tiers) > 0 {
			return quote, nil
		}
	}

	if price, ok := firstNumber(gjson.ParseBytes(body), "price", "total"); ok {
		return &RemoteQuote{AggregatePrice: price, HasAggregate: true}, nil
	}

	return nil, fmt.Errorf("quote body is not well-formed")
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func firstNumber(r gjson.Result, paths ...string) (float64, bool) {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v.Float(), true
		}
	}
	return 0, false
}

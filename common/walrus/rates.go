package walrus

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/anhkhoavan24-art/SuiClouds/common/cache"
	"github.com/anhkhoavan24-art/SuiClouds/common/clients"
)

const rateCacheKey = "rates:sui_usd"

// RateSource serves the USD price of SUI through a single shared cache slot.
// A miss triggers one remote fetch; any failure leaves the caller without a
// rate, never with an error.
type RateSource struct {
	rateURL string
	ttl     time.Duration
	cache   cache.Cache
	http    *clients.HTTPClient
	logger  Logger
}

// NewRateSource creates a rate source backed by the given cache slot
func NewRateSource(rateURL string, ttl time.Duration, c cache.Cache, httpClient *clients.HTTPClient, logger Logger) *RateSource {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	if httpClient == nil {
		httpClient = clients.NewHTTPClient(&http.Client{Timeout: 10 * time.Second}, logger)
	}

	return &RateSource{
		rateURL: rateURL,
		ttl:     ttl,
		cache:   c,
		http:    httpClient,
		logger:  logger,
	}
}

// SuiUSD returns the cached USD-per-SUI rate, fetching it on a stale slot.
// ok=false means no rate is available; callers omit native-currency fields.
func (r *RateSource) SuiUSD(ctx context.Context) (float64, bool) {
	if raw, hit, err := r.cache.Get(ctx, rateCacheKey); err == nil && hit {
		if rate, err := strconv.ParseFloat(string(raw), 64); err == nil && rate > 0 {
			return rate, true
		}
	}

	rate, ok := r.fetch(ctx)
	if !ok {
		return 0, false
	}

	if err := r.cache.Set(ctx, rateCacheKey, []byte(strconv.FormatFloat(rate, 'f', -1, 64)), r.ttl); err != nil {
		r.logger.Warn("failed to cache exchange rate", "error", err)
	}

	return rate, true
}

func (r *RateSource) fetch(ctx context.Context) (float64, bool) {
	resp, err := r.http.DoRequest(ctx, http.MethodGet, r.rateURL, nil)
	if err != nil {
		r.logger.Debug("exchange rate fetch failed", "error", err)
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Debug("exchange rate endpoint returned error", "status", resp.StatusCode)
		return 0, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return 0, false
	}

	rate := gjson.GetBytes(body, "sui.usd")
	if !rate.Exists() || rate.Float() <= 0 {
		return 0, false
	}

	return rate.Float(), true
}

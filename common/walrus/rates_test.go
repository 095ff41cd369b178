package walrus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anhkhoavan24-art/SuiClouds/common/cache"
	"github.com/anhkhoavan24-art/SuiClouds/common/clients"
	"github.com/anhkhoavan24-art/SuiClouds/common/logger"
)

func TestRateSource_FetchesAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"sui":{"usd":1.85}}`)
	}))
	defer srv.Close()

	log := logger.New("error", "text")
	source := NewRateSource(srv.URL, time.Minute, cache.NewMemoryCache(log), clients.NewHTTPClient(srv.Client(), log), log)

	rate, ok := source.SuiUSD(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1.85, rate)

	// Second call is served from the cache slot
	rate, ok = source.SuiUSD(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1.85, rate)
	assert.Equal(t, int64(1), hits.Load())
}

func TestRateSource_FailureMeansNoRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	log := logger.New("error", "text")
	source := NewRateSource(srv.URL, time.Minute, cache.NewMemoryCache(log), clients.NewHTTPClient(srv.Client(), log), log)

	_, ok := source.SuiUSD(context.Background())
	assert.False(t, ok)
}

func TestRateSource_RejectsNonPositiveRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sui":{"usd":0}}`)
	}))
	defer srv.Close()

	log := logger.New("error", "text")
	source := NewRateSource(srv.URL, time.Minute, cache.NewMemoryCache(log), clients.NewHTTPClient(srv.Client(), log), log)

	_, ok := source.SuiUSD(context.Background())
	assert.False(t, ok)
}

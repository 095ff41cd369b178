package walrus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_StructuredTiers(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/quote", r.URL.Path)
		fmt.Fprint(w, `{"tiers":[
			{"name":"basic","price_usd":0.01,"description":"cheap"},
			{"name":"pro","price_usd":0.05}
		]}`)
	}))
	defer relay.Close()

	c := newTestClient(t, Options{RelayURL: relay.URL})

	quote, ok := c.Quote(context.Background(), 1024, 1)
	require.True(t, ok)
	require.Len(t, quote.Tiers, 2)

	assert.Equal(t, "basic", quote.Tiers[0].Key)
	assert.Equal(t, 0.01, quote.Tiers[0].PriceUSD)
	assert.Equal(t, "cheap", quote.Tiers[0].Description)
	assert.Equal(t, "pro", quote.Tiers[1].Key)
	assert.False(t, quote.HasAggregate)
}

func TestQuote_AggregatePriceOnLaterPath(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pricing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"total":1.25}`)
	}))
	defer relay.Close()

	c := newTestClient(t, Options{RelayURL: relay.URL})

	quote, ok := c.Quote(context.Background(), 1024, 1)
	require.True(t, ok)
	assert.True(t, quote.HasAggregate)
	assert.Equal(t, 1.25, quote.AggregatePrice)
	assert.Empty(t, quote.Tiers)
}

func TestQuote_NoEndpointAnswers(t *testing.T) {
	c := newTestClient(t, Options{RelayURL: alwaysFailing(t).URL})

	_, ok := c.Quote(context.Background(), 1024, 1)
	assert.False(t, ok)
}

func TestParseQuoteBody_MalformedBody(t *testing.T) {
	_, err := parseQuoteBody([]byte(`{"tiers":[{"description":"nameless"}]}`))
	assert.Error(t, err)

	_, err = parseQuoteBody([]byte(`{"hello":"world"}`))
	assert.Error(t, err)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anhkhoavan24-art/SuiClouds/common/config"
	"github.com/anhkhoavan24-art/SuiClouds/common/logger"
	"github.com/anhkhoavan24-art/SuiClouds/common/walrus"
)

type fakeQuotes struct {
	quote *walrus.RemoteQuote
}

func (f *fakeQuotes) Quote(ctx context.Context, sizeBytes int64, epochs int) (*walrus.RemoteQuote, bool) {
	return f.quote, f.quote != nil
}

type fakeRates struct {
	rate float64
}

func (f *fakeRates) SuiUSD(ctx context.Context) (float64, bool) {
	return f.rate, f.rate > 0
}

func testPricingConfig() config.PricingConfig {
	return config.PricingConfig{
		BasicPerMB:    0.01,
		StandardPerMB: 0.02,
		ProPerMB:      0.05,
	}
}

func newPricing(quotes QuoteProvider, rates RateProvider) *PricingService {
	return NewPricingService(quotes, rates, testPricingConfig(), logger.New("error", "text"))
}

func TestEstimate_HeuristicTiers(t *testing.T) {
	s := newPricing(&fakeQuotes{}, &fakeRates{})

	// 3 MB, 2 epochs
	quote, err := s.Estimate(context.Background(), 3*1024*1024, 2)
	require.NoError(t, err)

	require.Len(t, quote.Tiers, 3)
	assert.Equal(t, "basic", quote.Tiers[0].Key)
	assert.Equal(t, "standard", quote.Tiers[1].Key)
	assert.Equal(t, "pro", quote.Tiers[2].Key)

	assert.Equal(t, int64(3), quote.SizeMB)
	assert.InDelta(t, 3*0.01*2, quote.Tiers[0].TotalUSD, 1e-9)
	assert.InDelta(t, 3*0.02*2, quote.Tiers[1].TotalUSD, 1e-9)
	assert.InDelta(t, 3*0.05*2, quote.Tiers[2].TotalUSD, 1e-9)

	assert.Equal(t, "standard", quote.RecommendedTierKey)
	assert.InDelta(t, quote.Tiers[1].TotalUSD, quote.TotalEstimatedUSD, 1e-9)
}

func TestEstimate_SizeRoundsUpToWholeMB(t *testing.T) {
	s := newPricing(&fakeQuotes{}, &fakeRates{})

	quote, err := s.Estimate(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), quote.SizeMB)

	quote, err = s.Estimate(context.Background(), 1024*1024+1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), quote.SizeMB)
}

func TestEstimate_RecommendedKeyAlwaysPresentInTiers(t *testing.T) {
	s := newPricing(&fakeQuotes{quote: &walrus.RemoteQuote{
		Tiers: []walrus.RemoteTier{{Key: "turbo", Name: "Turbo", PriceUSD: 0.4}},
	}}, &fakeRates{})

	quote, err := s.Estimate(context.Background(), 1024, 1)
	require.NoError(t, err)
	require.NotEmpty(t, quote.RecommendedTierKey)
	assert.NotNil(t, quote.Tier(quote.RecommendedTierKey))
}

func TestEstimate_RemoteAggregateBecomesSingleTier(t *testing.T) {
	s := newPricing(&fakeQuotes{quote: &walrus.RemoteQuote{
		AggregatePrice: 1.5,
		HasAggregate:   true,
	}}, &fakeRates{})

	quote, err := s.Estimate(context.Background(), 1024, 1)
	require.NoError(t, err)
	require.Len(t, quote.Tiers, 1)
	assert.Equal(t, "relay", quote.Tiers[0].Key)
	assert.InDelta(t, 1.5, quote.Tiers[0].TotalUSD, 1e-9)
}

func TestEstimate_StepsSplitRecommendedTotal(t *testing.T) {
	s := newPricing(&fakeQuotes{}, &fakeRates{})

	quote, err := s.Estimate(context.Background(), 2*1024*1024, 1)
	require.NoError(t, err)
	require.Len(t, quote.Steps, 4)

	assert.Equal(t, "encode", quote.Steps[0].Step)
	assert.Zero(t, quote.Steps[0].FeeUSD)

	total := quote.TotalEstimatedUSD
	assert.InDelta(t, total*0.3, quote.Steps[1].FeeUSD, 1e-3)
	assert.InDelta(t, total*0.6, quote.Steps[2].FeeUSD, 1e-3)
	assert.InDelta(t, total*0.1, quote.Steps[3].FeeUSD, 1e-3)
}

func TestEstimate_SuiOverlayWhenRateAvailable(t *testing.T) {
	s := newPricing(&fakeQuotes{}, &fakeRates{rate: 2.0})

	quote, err := s.Estimate(context.Background(), 1024*1024, 1)
	require.NoError(t, err)

	require.NotNil(t, quote.TotalEstimatedSUI)
	assert.InDelta(t, quote.TotalEstimatedUSD/2.0, *quote.TotalEstimatedSUI, 1e-6)

	for _, tier := range quote.Tiers {
		require.NotNil(t, tier.TotalSUI)
		assert.InDelta(t, tier.TotalUSD/2.0, *tier.TotalSUI, 1e-6)
	}
}

func TestEstimate_NoRateMeansNoSuiFields(t *testing.T) {
	s := newPricing(&fakeQuotes{}, &fakeRates{})

	quote, err := s.Estimate(context.Background(), 1024*1024, 1)
	require.NoError(t, err)

	assert.Nil(t, quote.TotalEstimatedSUI)
	for _, tier := range quote.Tiers {
		assert.Nil(t, tier.TotalSUI)
		assert.Nil(t, tier.PriceSUI)
	}
}

package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/anhkhoavan24-art/SuiClouds/cmd/suiclouds/models"
	"github.com/anhkhoavan24-art/SuiClouds/common/config"
	"github.com/anhkhoavan24-art/SuiClouds/common/logger"
	"github.com/anhkhoavan24-art/SuiClouds/common/walrus"
)

// QuoteProvider probes remote quote endpoints
type QuoteProvider interface {
	Quote(ctx context.Context, sizeBytes int64, epochs int) (*walrus.RemoteQuote, bool)
}

// RateProvider serves the USD-per-SUI exchange rate
type RateProvider interface {
	SuiUSD(ctx context.Context) (float64, bool)
}

// PricingService computes cost tiers for a prospective upload: remote quote
// first, heuristic per-MB rates as fallback, SUI equivalents overlaid when
// the exchange rate is available. Estimate never fails.
type PricingService struct {
	quotes QuoteProvider
	rates  RateProvider
	cfg    config.PricingConfig
	log    *logger.Logger
}

// NewPricingService creates a new pricing service
func NewPricingService(quotes QuoteProvider, rates RateProvider, cfg config.PricingConfig, log *logger.Logger) *PricingService {
	return &PricingService{
		quotes: quotes,
		rates:  rates,
		cfg:    cfg,
		log:    log,
	}
}

// Estimate builds a PriceQuote for the given size and epoch count.
// The error return exists for the orchestrator's contract; the current
// implementation always degrades instead of failing.
func (s *PricingService) Estimate(ctx context.Context, sizeBytes int64, epochs int) (*models.PriceQuote, error) {
	if epochs < 1 {
		epochs = 1
	}

	sizeMB := wholeMB(sizeBytes)
	tiers := s.buildTiers(ctx, sizeBytes, sizeMB, epochs)

	quote := &models.PriceQuote{
		ID:                 fmt.Sprintf("sim-%s", strconv.FormatInt(time.Now().UnixMilli(), 36)),
		CreatedAt:          time.Now(),
		SizeBytes:          sizeBytes,
		SizeMB:             sizeMB,
		Epochs:             epochs,
		Tiers:              tiers,
		RecommendedTierKey: recommendedKey(tiers),
	}

	recommended := quote.Recommended()
	quote.TotalEstimatedUSD = round4(recommended.TotalUSD)
	quote.Steps = buildSteps(recommended.TotalUSD)

	// SUI equivalents are an overlay; a missing rate never fails the quote
	if rate, ok := s.rates.SuiUSD(ctx); ok && rate > 0 {
		overlaySui(quote, rate)
	}

	return quote, nil
}

// buildTiers maps a remote quote when one endpoint answers, otherwise
// computes the three heuristic bundles from configured rates.
func (s *PricingService) buildTiers(ctx context.Context, sizeBytes, sizeMB int64, epochs int) []models.PriceTier {
	if remote, ok := s.quotes.Quote(ctx, sizeBytes, epochs); ok {
		if tiers := mapRemoteTiers(remote); len(tiers) > 0 {
			return tiers
		}
	}

	s.log.Debug("no remote quote available, using heuristic rates", "size_mb", sizeMB, "epochs", epochs)

	heuristics := []struct {
		key, name string
		perMB     float64
	}{
		{"basic", "Basic", s.cfg.BasicPerMB},
		{"standard", "Standard", s.cfg.StandardPerMB},
		{"pro", "Pro", s.cfg.ProPerMB},
	}

	tiers := make([]models.PriceTier, 0, len(heuristics))
	for _, h := range heuristics {
		tiers = append(tiers, models.PriceTier{
			Key:         h.key,
			Name:        h.name,
			PriceUSD:    h.perMB,
			TotalUSD:    round4(float64(sizeMB) * h.perMB * float64(epochs)),
			Description: fmt.Sprintf("Approx $%v/MB/epoch", h.perMB),
		})
	}

	return tiers
}

func mapRemoteTiers(remote *walrus.RemoteQuote) []models.PriceTier {
	if len(remote.Tiers) > 0 {
		tiers := make([]models.PriceTier, 0, len(remote.Tiers))
		for _, t := range remote.Tiers {
			tiers = append(tiers, models.PriceTier{
				Key:         t.Key,
				Name:        t.Name,
				PriceUSD:    t.PriceUSD,
				TotalUSD:    round4(t.PriceUSD),
				Description: t.Description,
			})
		}
		return tiers
	}

	if remote.HasAggregate {
		return []models.PriceTier{{
			Key:         "relay",
			Name:        "Relay Price",
			PriceUSD:    remote.AggregatePrice,
			TotalUSD:    round4(remote.AggregatePrice),
			Description: "Price from relay",
		}}
	}

	return nil
}

// recommendedKey prefers the standard tier, else the first
func recommendedKey(tiers []models.PriceTier) string {
	for _, t := range tiers {
		if t.Key == "standard" {
			return t.Key
		}
	}
	if len(tiers) > 0 {
		return tiers[0].Key
	}
	return ""
}

// buildSteps attaches the fixed four-step cost breakdown for UI narration
func buildSteps(total float64) []models.QuoteStep {
	return []models.QuoteStep{
		{Step: "encode", Description: "Encode file, compute multihash, prepare chunks", FeeUSD: 0},
		{Step: "register", Description: "Register upload intent on relay", FeeUSD: round4(total * 0.3)},
		{Step: "upload", Description: "Upload content to publishers/aggregators", FeeUSD: round4(total * 0.6)},
		{Step: "certify", Description: "Certify the file; finalization step", FeeUSD: round4(total * 0.1)},
	}
}

func overlaySui(quote *models.PriceQuote, rate float64) {
	for i := range quote.Tiers {
		quote.Tiers[i].PriceSUI = ptr(round6(quote.Tiers[i].PriceUSD / rate))
		quote.Tiers[i].TotalSUI = ptr(round6(quote.Tiers[i].TotalUSD / rate))
	}
	for i := range quote.Steps {
		quote.Steps[i].FeeSUI = ptr(round6(quote.Steps[i].FeeUSD / rate))
	}
	quote.TotalEstimatedSUI = ptr(round6(quote.TotalEstimatedUSD / rate))
}

// wholeMB rounds size up to whole megabytes, minimum 1
func wholeMB(sizeBytes int64) int64 {
	mb := (sizeBytes + 1024*1024 - 1) / (1024 * 1024)
	if mb < 1 {
		mb = 1
	}
	return mb
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func ptr[T any](v T) *T {
	return &v
}

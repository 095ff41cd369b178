package models

import "time"

// PriceTier is one named pricing option in a quote
type PriceTier struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	PriceUSD    float64  `json:"priceUsd"`
	TotalUSD    float64  `json:"totalUsd"`
	Description string   `json:"description,omitempty"`
	PriceSUI    *float64 `json:"priceSui,omitempty"`
	TotalSUI    *float64 `json:"totalSui,omitempty"`
}

// QuoteStep is one named sub-cost of the upload flow, for UI narration
type QuoteStep struct {
	Step        string   `json:"step"`
	Description string   `json:"description"`
	FeeUSD      float64  `json:"feeUsd"`
	FeeSUI      *float64 `json:"feeSui,omitempty"`
}

// PriceQuote estimates the cost of a prospective upload. Ephemeral, never
// persisted. RecommendedTierKey always names an entry present in Tiers.
type PriceQuote struct {
	ID                 string      `json:"id"`
	CreatedAt          time.Time   `json:"createdAt"`
	SizeBytes          int64       `json:"sizeBytes"`
	SizeMB             int64       `json:"sizeMb"`
	Epochs             int         `json:"epochs"`
	Tiers              []PriceTier `json:"tiers"`
	RecommendedTierKey string      `json:"recommendedTierKey"`
	Steps              []QuoteStep `json:"steps"`
	TotalEstimatedUSD  float64     `json:"totalEstimatedUsd"`
	TotalEstimatedSUI  *float64    `json:"totalEstimatedSui,omitempty"`
}

// Tier returns the tier with the given key, or nil
func (q *PriceQuote) Tier(key string) *PriceTier {
	for i := range q.Tiers {
		if q.Tiers[i].Key == key {
			return &q.Tiers[i]
		}
	}
	return nil
}

// Recommended returns the recommended tier; quotes always have at least one
func (q *PriceQuote) Recommended() *PriceTier {
	if t := q.Tier(q.RecommendedTierKey); t != nil {
		return t
	}
	if len(q.Tiers) > 0 {
		return &q.Tiers[0]
	}
	return nil
}

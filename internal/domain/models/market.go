package models

import "time"

// PriceTick is a single trade/price observation from the upstream stream.
type PriceTick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}

// PriceBar represents an OHLCV record used by the scoring engines.
type PriceBar struct {
	Bucket time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Token holds the market snapshot for a tracked asset.
type Token struct {
	ID             string
	Symbol         string
	Name           string
	CurrentPrice   float64
	MarketCap      float64
	Volume24h      float64
	PriceChange24h float64 // percent over the last 24h
	UpdatedAt      time.Time
}

// SocialStats is the social-activity snapshot from the upstream social API.
type SocialStats struct {
	Symbol       string
	GalaxyScore  float64 // 0..100
	Sentiment    float64 // -1..1
	SocialVolume float64
	Tweets24h    float64
}

// NeutralSocialStats is the degraded default used when the social
// provider is unavailable.
func NeutralSocialStats(symbol string) SocialStats {
	return SocialStats{Symbol: symbol, GalaxyScore: 50}
}

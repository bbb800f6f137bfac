package models

import "time"

// Direction labels for a prediction.
const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
	DirectionNeutral = "neutral"
)

// PredictionResult is the output of the prediction engine for one token
// and timeframe.
type PredictionResult struct {
	TokenID        string       `json:"tokenId"`
	Symbol         string       `json:"symbol"`
	Timeframe      string       `json:"timeframe"`
	CurrentPrice   float64      `json:"currentPrice"`
	PredictedPrice float64      `json:"predictedPrice"`
	Change         float64      `json:"change"` // absolute price delta
	ChangePercent  float64      `json:"changePercent"`
	Confidence     float64      `json:"confidence"` // 60..95, one decimal
	Direction      string       `json:"direction"`  // "bullish", "bearish", "neutral"
	Factors        []string     `json:"factors"`
	Indicators     IndicatorSet `json:"indicators"`
	ModelVersion   string       `json:"modelVersion"`
	GeneratedAt    time.Time    `json:"generatedAt"`
	ExpiresAt      time.Time    `json:"expiresAt"`
}

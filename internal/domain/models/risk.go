package models

import "time"

// Risk level bands over the overall 0..100 score.
const (
	RiskSafe    = "safe"
	RiskLow     = "low"
	RiskMedium  = "medium"
	RiskHigh    = "high"
	RiskExtreme = "extreme"
)

// RiskComponents holds the five independent component scores, each 0..100
// where higher means riskier.
type RiskComponents struct {
	Liquidity       int `json:"liquidity"`
	Volatility      int `json:"volatility"`
	MarketCap       int `json:"marketCap"`
	Volume          int `json:"volume"`
	SocialSentiment int `json:"socialSentiment"`
}

// RiskAnalysis is the human-readable companion to the numeric score.
type RiskAnalysis struct {
	Summary  string   `json:"summary"`
	Warnings []string `json:"warnings"`
	Insights []string `json:"insights"`
}

// RiskScoreResult is the output of the risk engine for one token.
type RiskScoreResult struct {
	TokenID      string         `json:"tokenId"`
	Symbol       string         `json:"symbol"`
	OverallScore int            `json:"overallScore"`
	RiskLevel    string         `json:"riskLevel"` // "safe".."extreme"
	Components   RiskComponents `json:"components"`
	Analysis     RiskAnalysis   `json:"analysis"`
	GeneratedAt  time.Time      `json:"generatedAt"`
	ExpiresAt    time.Time      `json:"expiresAt"`
}

// RiskLevelFor maps an overall score to its band.
func RiskLevelFor(score int) string {
	switch {
	case score < 20:
		return RiskSafe
	case score < 40:
		return RiskLow
	case score < 60:
		return RiskMedium
	case score < 80:
		return RiskHigh
	default:
		return RiskExtreme
	}
}

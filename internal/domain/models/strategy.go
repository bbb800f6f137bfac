package models

import "time"

// StrategyArchetype describes a researched trading strategy to be scored.
type StrategyArchetype struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Archetype           string   `json:"archetype"` // e.g. "swing_trading", "position_trading"
	Timeframe           string   `json:"timeframe"` // e.g. "1h", "4h", "daily"
	Description         string   `json:"description"`
	ResearchNotes       string   `json:"researchNotes"`
	WinRate             float64  `json:"winRate"` // 0..1
	RiskRewardRatio     float64  `json:"riskRewardRatio"`
	EvidenceCount       int      `json:"evidenceCount"`
	EntryConditions     []string `json:"entryConditions"`
	ExitConditions      []string `json:"exitConditions"`
	TechnicalIndicators []string `json:"technicalIndicators"`
	OnChainMetrics      []string `json:"onChainMetrics"`
	SocialSignals       []string `json:"socialSignals"`
	SourceWallets       []string `json:"sourceWallets"`
}

// StrategyScores is the scored view of a strategy archetype.
type StrategyScores struct {
	StrategyID   string    `json:"strategyId"`
	Name         string    `json:"name"`
	Performance  int       `json:"performance"`  // 0..40
	Practicality int       `json:"practicality"` // 0..30
	Verifiable   int       `json:"verifiable"`   // 0..30
	Total        int       `json:"total"`        // 0..100
	Priority     int       `json:"priority"`     // 1 (best) .. 5
	ScoredAt     time.Time `json:"scoredAt"`
}

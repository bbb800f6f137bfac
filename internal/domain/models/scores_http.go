package models

// Requests for scoring HTTP endpoints. Defined in domain for consistency and reuse.

type PredictionRequest struct {
	Symbol    string `query:"symbol" json:"symbol" validate:"required"`
	Timeframe string `query:"timeframe" json:"timeframe" default:"24h" validate:"oneof=1h 24h 7d 30d"`
}

type RiskRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Fresh  bool   `query:"fresh" json:"fresh"` // skip the cached result
}

type RiskBatchRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=50,dive,required"`
}

type StrategyScoreRequest struct {
	Name                string   `json:"name" validate:"required"`
	Archetype           string   `json:"archetype"`
	Timeframe           string   `json:"timeframe"`
	Description         string   `json:"description"`
	ResearchNotes       string   `json:"researchNotes"`
	WinRate             float64  `json:"winRate" validate:"gte=0,lte=1"`
	RiskRewardRatio     float64  `json:"riskRewardRatio" validate:"gte=0"`
	EvidenceCount       int      `json:"evidenceCount" validate:"gte=0"`
	EntryConditions     []string `json:"entryConditions"`
	ExitConditions      []string `json:"exitConditions"`
	TechnicalIndicators []string `json:"technicalIndicators"`
	OnChainMetrics      []string `json:"onChainMetrics"`
	SocialSignals       []string `json:"socialSignals"`
	SourceWallets       []string `json:"sourceWallets"`
}

// ToArchetype converts the request payload to the domain model.
func (r StrategyScoreRequest) ToArchetype() StrategyArchetype {
	return StrategyArchetype{
		Name:                r.Name,
		Archetype:           r.Archetype,
		Timeframe:           r.Timeframe,
		Description:         r.Description,
		ResearchNotes:       r.ResearchNotes,
		WinRate:             r.WinRate,
		RiskRewardRatio:     r.RiskRewardRatio,
		EvidenceCount:       r.EvidenceCount,
		EntryConditions:     r.EntryConditions,
		ExitConditions:      r.ExitConditions,
		TechnicalIndicators: r.TechnicalIndicators,
		OnChainMetrics:      r.OnChainMetrics,
		SocialSignals:       r.SocialSignals,
		SourceWallets:       r.SourceWallets,
	}
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`   // RFC3339 or unix seconds
	Limit  string `query:"limit" json:"limit"` // max bars, capped server-side
}

type TopStrategiesRequest struct {
	MinScore int `query:"minScore" json:"minScore" default:"60" validate:"gte=0,lte=100"`
	N        int `query:"n" json:"n" default:"5" validate:"gte=1,lte=50"`
}

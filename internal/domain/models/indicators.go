package models

// Signal labels shared by the indicator and trend computations.
const (
	SignalBullish = "bullish"
	SignalBearish = "bearish"
	SignalNeutral = "neutral"

	BandOverbought = "overbought"
	BandOversold   = "oversold"
	BandMiddle     = "middle"

	VolumeIncreasing = "increasing"
	VolumeDecreasing = "decreasing"
	VolumeStable     = "stable"
)

// MACDValue is the MACD line value with its derived signal label.
type MACDValue struct {
	Value  float64 `json:"value"`
	Signal string  `json:"signal"` // "bullish", "bearish", "neutral"
}

// IndicatorSet is the composite technical view over a price series.
type IndicatorSet struct {
	RSI           float64   `json:"rsi"`
	MACD          MACDValue `json:"macd"`
	Trend         string    `json:"trend"`         // "bullish", "bearish", "neutral"
	BollingerBand string    `json:"bollingerBand"` // "overbought", "oversold", "middle"
	VolumeTrend   string    `json:"volumeTrend"`   // "increasing", "decreasing", "stable"
}

// NeutralIndicatorSet is the degraded default for short or missing series.
func NeutralIndicatorSet() IndicatorSet {
	return IndicatorSet{
		RSI:           50,
		MACD:          MACDValue{Value: 0, Signal: SignalNeutral},
		Trend:         SignalNeutral,
		BollingerBand: BandMiddle,
		VolumeTrend:   VolumeStable,
	}
}

package trend

import (
	"math"
	"testing"

	"CoinScope/internal/domain/models"
)

func TestVolatilityPercentShortSeries(t *testing.T) {
	if got := VolatilityPercent([]float64{100}); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestVolatilityPercentFlatSeries(t *testing.T) {
	if got := VolatilityPercent([]float64{100, 100, 100, 100}); got != 0 {
		t.Fatalf("flat series should have zero volatility, got %v", got)
	}
}

func TestVolatilityPercentKnownSeries(t *testing.T) {
	// Returns: +10%, -10% -> mean 0, population stddev 0.10 -> 10%.
	got := VolatilityPercent([]float64{100, 110, 99})
	want := 10.0
	if math.Abs(got-want) > 0.01 {
		t.Fatalf("expected ~%v, got %v", want, got)
	}
}

func TestVolatilityBucket(t *testing.T) {
	cases := []struct {
		name   string
		closes []float64
		want   int
	}{
		{"short series", []float64{100}, 50},
		{"flat series", []float64{100, 100, 100}, 15},
		{"ten percent swings", []float64{100, 110, 99}, 70},
		{"violent swings", []float64{100, 150, 75}, 95},
	}
	for _, tc := range cases {
		if got := VolatilityBucket(tc.closes); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func flatCloses(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestScoreShortSeries(t *testing.T) {
	if got := Score([]float64{100, 101}, models.NeutralIndicatorSet()); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestScoreNeutralFlat(t *testing.T) {
	if got := Score(flatCloses(10, 100), models.NeutralIndicatorSet()); got != 0 {
		t.Fatalf("flat series with neutral indicators should score 0, got %v", got)
	}
}

func TestScoreMomentumClamp(t *testing.T) {
	// +100% change would be +200 raw momentum; it must clamp at +40.
	closes := []float64{100, 120, 140, 160, 180, 200}
	got := Score(closes, models.NeutralIndicatorSet())
	if got != 40 {
		t.Fatalf("expected momentum clamp at 40, got %v", got)
	}
}

func TestScoreIndicatorAdjustments(t *testing.T) {
	closes := flatCloses(10, 100)
	cases := []struct {
		name string
		ind  models.IndicatorSet
		want float64
	}{
		{
			"overbought rsi subtracts",
			func() models.IndicatorSet { s := models.NeutralIndicatorSet(); s.RSI = 80; return s }(),
			-10,
		},
		{
			"oversold rsi adds",
			func() models.IndicatorSet { s := models.NeutralIndicatorSet(); s.RSI = 20; return s }(),
			10,
		},
		{
			"mildly strong rsi scales",
			func() models.IndicatorSet { s := models.NeutralIndicatorSet(); s.RSI = 60; return s }(),
			2,
		},
		{
			"bullish macd adds",
			func() models.IndicatorSet {
				s := models.NeutralIndicatorSet()
				s.MACD = models.MACDValue{Value: 1.5, Signal: models.SignalBullish}
				return s
			}(),
			10,
		},
		{
			"rising volume adds",
			func() models.IndicatorSet { s := models.NeutralIndicatorSet(); s.VolumeTrend = models.VolumeIncreasing; return s }(),
			5,
		},
		{
			"oversold band adds",
			func() models.IndicatorSet { s := models.NeutralIndicatorSet(); s.BollingerBand = models.BandOversold; return s }(),
			5,
		},
	}
	for _, tc := range cases {
		if got := Score(closes, tc.ind); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestScoreFinalClamp(t *testing.T) {
	closes := []float64{100, 120, 140, 160, 180, 200}
	ind := models.IndicatorSet{
		RSI:           20,
		MACD:          models.MACDValue{Value: 2, Signal: models.SignalBullish},
		Trend:         models.SignalBullish,
		BollingerBand: models.BandOversold,
		VolumeTrend:   models.VolumeIncreasing,
	}
	got := Score(closes, ind)
	if got > 100 {
		t.Fatalf("score escaped the [-100,100] clamp: %v", got)
	}
	if got != 70 {
		// 40 momentum + 10 rsi + 10 macd + 5 volume + 5 band
		t.Fatalf("expected 70, got %v", got)
	}
}

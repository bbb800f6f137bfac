package trend

import (
	"math"

	"github.com/shopspring/decimal"

	"CoinScope/internal/domain/models"
)

// VolatilityPercent is the population standard deviation of simple
// period-over-period returns, expressed in percent. Returns are
// accumulated with decimal arithmetic; only the final sqrt runs in
// float. A series shorter than 2 has no returns and reads as 0.
func VolatilityPercent(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	returns := make([]decimal.Decimal, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := decimal.NewFromFloat(closes[i-1])
		if prev.IsZero() {
			returns = append(returns, decimal.Zero)
			continue
		}
		r := decimal.NewFromFloat(closes[i]).Sub(prev).Div(prev)
		returns = append(returns, r)
	}
	n := decimal.NewFromInt(int64(len(returns)))
	sum := decimal.Zero
	for _, r := range returns {
		sum = sum.Add(r)
	}
	mean := sum.Div(n)
	variance := decimal.Zero
	for _, r := range returns {
		d := r.Sub(mean)
		variance = variance.Add(d.Mul(d))
	}
	v, _ := variance.Div(n).Float64()
	return math.Sqrt(v) * 100
}

// VolatilityBucket maps a series to a 0..100 risk bucket. A series too
// short to measure reads as the unknown middle, 50.
func VolatilityBucket(closes []float64) int {
	if len(closes) < 2 {
		return 50
	}
	v := VolatilityPercent(closes)
	switch {
	case v < 2:
		return 15
	case v < 5:
		return 30
	case v < 10:
		return 50
	case v < 20:
		return 70
	case v < 40:
		return 85
	default:
		return 95
	}
}

// Score combines price momentum with indicator adjustments into a
// [-100, 100] trend score. Momentum is the whole-series percent change
// times two, clamped to ±40 before the adjustments apply; the final
// clamp runs last.
func Score(closes []float64, ind models.IndicatorSet) float64 {
	if len(closes) < 5 {
		return 0
	}
	first := closes[0]
	last := closes[len(closes)-1]
	changePct := 0.0
	if first != 0 {
		changePct = (last - first) / first * 100
	}
	score := clamp(changePct*2, -40, 40)

	switch {
	case ind.RSI > 70:
		score -= 10 // overbought, reversion pressure
	case ind.RSI < 30:
		score += 10 // oversold, bounce pressure
	case ind.RSI > 50:
		score += (ind.RSI - 50) / 5
	default:
		score -= (50 - ind.RSI) / 5
	}

	switch ind.MACD.Signal {
	case models.SignalBullish:
		score += 10
	case models.SignalBearish:
		score -= 10
	}

	switch ind.VolumeTrend {
	case models.VolumeIncreasing:
		score += 5
	case models.VolumeDecreasing:
		score -= 5
	}

	switch ind.BollingerBand {
	case models.BandOversold:
		score += 5
	case models.BandOverbought:
		score -= 5
	}

	return clamp(score, -100, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

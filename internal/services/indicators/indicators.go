package indicators

import (
	"math"

	"github.com/shopspring/decimal"

	"CoinScope/internal/domain/models"
)

const (
	DefaultRSIPeriod       = 14
	DefaultBollingerPeriod = 20
)

// RSI computes the relative strength index over the trailing window of
// `period` price changes. Gains and losses are accumulated with decimal
// arithmetic so long stablecoin-like series do not drift. A series shorter
// than period+1 yields the neutral 50; a window with no losses yields 100.
func RSI(prices []float64, period int) float64 {
	if period <= 0 {
		period = DefaultRSIPeriod
	}
	if len(prices) < period+1 {
		return 50
	}
	gains := decimal.Zero
	losses := decimal.Zero
	for i := len(prices) - period; i < len(prices); i++ {
		diff := decimal.NewFromFloat(prices[i]).Sub(decimal.NewFromFloat(prices[i-1]))
		if diff.IsPositive() {
			gains = gains.Add(diff)
		} else {
			losses = losses.Add(diff.Abs())
		}
	}
	n := decimal.NewFromInt(int64(period))
	avgGain := gains.Div(n)
	avgLoss := losses.Div(n)
	if avgLoss.IsZero() {
		return 100
	}
	hundred := decimal.NewFromInt(100)
	rs := avgGain.Div(avgLoss)
	rsi := hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs)))
	out, _ := rsi.Round(2).Float64()
	return out
}

// EMA computes an exponential moving average seeded at the first price,
// smoothing with k = 2/(period+1) over the whole series.
func EMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	k := 2.0 / float64(period+1)
	ema := prices[0]
	for _, p := range prices[1:] {
		ema = p*k + ema*(1-k)
	}
	return ema
}

// MACD is EMA12 - EMA26 with a sign-derived signal label.
// Series shorter than 26 yield the neutral zero value.
func MACD(prices []float64) models.MACDValue {
	if len(prices) < 26 {
		return models.MACDValue{Value: 0, Signal: models.SignalNeutral}
	}
	value := round2(EMA(prices, 12) - EMA(prices, 26))
	signal := models.SignalNeutral
	switch {
	case value > 0:
		signal = models.SignalBullish
	case value < 0:
		signal = models.SignalBearish
	}
	return models.MACDValue{Value: value, Signal: signal}
}

// BollingerPosition places the last price against SMA ± 2 population
// stddev bands over the trailing window. Short series sit in the middle.
func BollingerPosition(prices []float64, period int) string {
	if period <= 0 {
		period = DefaultBollingerPeriod
	}
	if len(prices) < period {
		return models.BandMiddle
	}
	window := prices[len(prices)-period:]
	m := mean(window)
	variance := 0.0
	for _, p := range window {
		d := p - m
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))
	last := prices[len(prices)-1]
	switch {
	case last > m+2*std:
		return models.BandOverbought
	case last < m-2*std:
		return models.BandOversold
	default:
		return models.BandMiddle
	}
}

// VolumeTrend compares the mean of the last 5 volumes against the mean of
// the preceding 5. A swing beyond ±20% flips the label; fewer than 10
// observations or a zero baseline read as stable.
func VolumeTrend(volumes []float64) string {
	if len(volumes) < 10 {
		return models.VolumeStable
	}
	recent := mean(volumes[len(volumes)-5:])
	older := mean(volumes[len(volumes)-10 : len(volumes)-5])
	if older == 0 {
		return models.VolumeStable
	}
	change := (recent - older) / older * 100
	switch {
	case change > 20:
		return models.VolumeIncreasing
	case change < -20:
		return models.VolumeDecreasing
	default:
		return models.VolumeStable
	}
}

// Compute derives the composite indicator set from OHLCV bars. Fewer than
// 14 bars yields the all-neutral set.
func Compute(bars []models.PriceBar) models.IndicatorSet {
	if len(bars) < DefaultRSIPeriod {
		return models.NeutralIndicatorSet()
	}
	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}
	return models.IndicatorSet{
		RSI:           RSI(closes, DefaultRSIPeriod),
		MACD:          MACD(closes),
		Trend:         seriesTrend(closes),
		BollingerBand: BollingerPosition(closes, DefaultBollingerPeriod),
		VolumeTrend:   VolumeTrend(volumes),
	}
}

// seriesTrend labels the whole-series price change: >2% bullish, <-2% bearish.
func seriesTrend(closes []float64) string {
	first := closes[0]
	last := closes[len(closes)-1]
	if first == 0 {
		return models.SignalNeutral
	}
	change := (last - first) / first * 100
	switch {
	case change > 2:
		return models.SignalBullish
	case change < -2:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

package usecase

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"CoinScope/internal/domain/models"
	domrepo "CoinScope/internal/domain/repository"
	"CoinScope/internal/service/metrics"
	"CoinScope/internal/services/indicators"
	"CoinScope/internal/services/trend"
	"CoinScope/pkg/logger"
)

// maxLookbackBars caps how much history a single prediction reads.
const maxLookbackBars = 100

// modelVersion is stamped on every prediction so stored results can be
// compared across engine revisions.
const modelVersion = "v1.0.0-statistical"

// PredictionEngine produces short-horizon price predictions from stored
// history and the technical indicator set.
type PredictionEngine struct {
	tokens  domrepo.TokenStore
	history domrepo.HistoryStore
	scores  domrepo.ScoreStore
	log     *logger.Logger
	rand    func() float64 // uniform [0,1), swappable in tests
	now     func() time.Time
}

func NewPredictionEngine(tokens domrepo.TokenStore, history domrepo.HistoryStore, scores domrepo.ScoreStore, log *logger.Logger) *PredictionEngine {
	return &PredictionEngine{
		tokens:  tokens,
		history: history,
		scores:  scores,
		log:     log,
		rand:    rand.Float64,
		now:     time.Now,
	}
}

// Generate builds a prediction for the token over the given timeframe.
// Missing or unusable history degrades to a random-walk fallback rather
// than an error; an unresolvable token is the only failure that
// propagates. The result is persisted for later accuracy tracking; a
// store failure is logged and swallowed.
func (e *PredictionEngine) Generate(ctx context.Context, tokenID, timeframe string) (models.PredictionResult, error) {
	start := e.now()
	defer func() {
		metrics.EngineLatency.WithLabelValues("prediction").Observe(time.Since(start).Seconds())
	}()

	token, err := e.tokens.Token(ctx, tokenID)
	if err != nil {
		metrics.EngineErrors.WithLabelValues("prediction").Inc()
		return models.PredictionResult{}, fmt.Errorf("resolve token %q: %w", tokenID, err)
	}
	tf := domrepo.NormalizeTimeframe(timeframe)
	now := e.now()

	bars, err := e.history.History(ctx, token.Symbol, now.Add(-tf.Duration()), maxLookbackBars)
	if err != nil {
		e.log.Warn("prediction history unavailable, using fallback",
			logger.String("token", tokenID), logger.Error(err))
	}
	if err != nil || len(bars) == 0 || token.CurrentPrice <= 0 {
		metrics.PredictionsTotal.WithLabelValues(string(tf)).Inc()
		return e.fallback(token, tf, now), nil
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	ind := indicators.Compute(bars)
	trendScore := trend.Score(closes, ind)
	volatility := trend.VolatilityPercent(closes)

	baseChange := trendScore / 100 * 10 * tf.Multiplier()
	randomFactor := (e.rand() - 0.5) * volatility * 0.5
	changePct := baseChange + randomFactor

	predicted := token.CurrentPrice * (1 + changePct/100)
	dir := direction(changePct)

	result := models.PredictionResult{
		TokenID:        token.ID,
		Symbol:         token.Symbol,
		Timeframe:      string(tf),
		CurrentPrice:   token.CurrentPrice,
		PredictedPrice: predicted,
		Change:         predicted - token.CurrentPrice,
		ChangePercent:  changePct,
		Confidence:     round1(clampF(90-volatility*5, 60, 95)),
		Direction:      dir,
		Factors:        predictionFactors(dir, ind, trendScore),
		Indicators:     ind,
		ModelVersion:   modelVersion,
		GeneratedAt:    now,
		ExpiresAt:      now.Add(tf.Duration()),
	}
	if err := e.scores.SavePrediction(ctx, result); err != nil {
		e.log.Warn("failed to store prediction",
			logger.String("token", tokenID), logger.Error(err))
	}
	metrics.PredictionsTotal.WithLabelValues(string(tf)).Inc()
	return result, nil
}

// fallback is the degraded path when no history or live price exists: a
// random walk scaled by the 24h change, with neutral indicators. Not
// persisted, never fails.
func (e *PredictionEngine) fallback(token models.Token, tf domrepo.Timeframe, now time.Time) models.PredictionResult {
	randomChange := (e.rand()*10 - 5) * (token.PriceChange24h / 5)
	predicted := token.CurrentPrice * (1 + randomChange/100)
	dir := models.DirectionNeutral
	if randomChange > 0 {
		dir = models.DirectionBullish
	} else if randomChange < 0 {
		dir = models.DirectionBearish
	}
	return models.PredictionResult{
		TokenID:        token.ID,
		Symbol:         token.Symbol,
		Timeframe:      string(tf),
		CurrentPrice:   token.CurrentPrice,
		PredictedPrice: predicted,
		Change:         predicted - token.CurrentPrice,
		ChangePercent:  randomChange,
		Confidence:     90,
		Direction:      dir,
		Factors:        []string{"Market showing mixed signals, neutral outlook"},
		Indicators:     models.NeutralIndicatorSet(),
		ModelVersion:   modelVersion,
		GeneratedAt:    now,
		ExpiresAt:      now.Add(tf.Duration()),
	}
}

// direction labels a predicted change: beyond ±2% it commits to a side.
func direction(changePct float64) string {
	switch {
	case changePct > 2:
		return models.DirectionBullish
	case changePct < -2:
		return models.DirectionBearish
	default:
		return models.DirectionNeutral
	}
}

// predictionFactors renders at most four human-readable drivers of the
// prediction. RSI speaks first when it has something to say, the MACD,
// volume and Bollinger lines always appear, and a strong trend score
// appends a momentum flag that the cap usually crowds out.
func predictionFactors(direction string, ind models.IndicatorSet, trendScore float64) []string {
	out := make([]string, 0, 6)
	switch {
	case ind.RSI > 70:
		out = append(out, fmt.Sprintf("RSI indicates overbought conditions (%v)", ind.RSI))
	case ind.RSI < 30:
		out = append(out, fmt.Sprintf("RSI indicates oversold conditions (%v)", ind.RSI))
	case direction == models.DirectionBullish:
		out = append(out, fmt.Sprintf("RSI shows bullish momentum (%v)", ind.RSI))
	}
	out = append(out, fmt.Sprintf("MACD signal is %s (%v)", ind.MACD.Signal, ind.MACD.Value))
	out = append(out, fmt.Sprintf("Trading volume is %s", ind.VolumeTrend))
	out = append(out, fmt.Sprintf("Price is %s on Bollinger Bands", ind.BollingerBand))
	if trendScore > 30 {
		out = append(out, "Strong upward price momentum detected")
	} else if trendScore < -30 {
		out = append(out, "Strong downward price momentum detected")
	}
	if len(out) == 0 {
		return []string{"Market showing mixed signals, neutral outlook"}
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

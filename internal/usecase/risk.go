package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"CoinScope/internal/domain/models"
	domrepo "CoinScope/internal/domain/repository"
	domsvc "CoinScope/internal/domain/service"
	"CoinScope/internal/service/metrics"
	"CoinScope/internal/services/trend"
	"CoinScope/pkg/logger"
)

// riskScoreTTL is how long a stored risk score stays servable.
const riskScoreTTL = 24 * time.Hour

// Component weights. Higher component scores mean riskier.
var riskWeights = struct {
	liquidity, volatility, marketCap, volume, social float64
}{0.20, 0.25, 0.25, 0.15, 0.15}

// RiskEngine scores tokens on a 0..100 degen-risk scale from five
// independent components.
type RiskEngine struct {
	tokens  domrepo.TokenStore
	history domrepo.HistoryStore
	scores  domrepo.ScoreStore
	social  domsvc.SocialProvider
	log     *logger.Logger
	now     func() time.Time
}

func NewRiskEngine(tokens domrepo.TokenStore, history domrepo.HistoryStore, scores domrepo.ScoreStore, social domsvc.SocialProvider, log *logger.Logger) *RiskEngine {
	return &RiskEngine{
		tokens:  tokens,
		history: history,
		scores:  scores,
		social:  social,
		log:     log,
		now:     time.Now,
	}
}

// Score computes a fresh risk score for the token and persists it with a
// 24h expiry. A social-provider failure degrades that component to its
// neutral default; only an unresolvable token propagates as an error.
func (e *RiskEngine) Score(ctx context.Context, tokenID string) (models.RiskScoreResult, error) {
	start := e.now()
	defer func() {
		metrics.EngineLatency.WithLabelValues("risk").Observe(time.Since(start).Seconds())
	}()

	token, err := e.tokens.Token(ctx, tokenID)
	if err != nil {
		metrics.EngineErrors.WithLabelValues("risk").Inc()
		return models.RiskScoreResult{}, fmt.Errorf("resolve token %q: %w", tokenID, err)
	}
	return e.scoreToken(ctx, token)
}

// CachedScore returns the latest non-expired stored score, computing a
// fresh one only when nothing servable exists.
func (e *RiskEngine) CachedScore(ctx context.Context, tokenID string) (models.RiskScoreResult, error) {
	cached, ok, err := e.scores.LatestRiskScore(ctx, tokenID, e.now())
	if err != nil {
		e.log.Warn("risk score cache read failed", logger.String("token", tokenID), logger.Error(err))
	}
	if err == nil && ok {
		return cached, nil
	}
	return e.Score(ctx, tokenID)
}

// ScoreBySymbols resolves each symbol and scores it cached-first.
// Unknown or failing symbols are skipped with a warning so one bad entry
// does not sink the batch.
func (e *RiskEngine) ScoreBySymbols(ctx context.Context, symbols []string) []models.RiskScoreResult {
	out := make([]models.RiskScoreResult, 0, len(symbols))
	for _, symbol := range symbols {
		token, err := e.tokens.TokenBySymbol(ctx, symbol)
		if err != nil {
			e.log.Warn("skipping symbol in risk batch", logger.String("symbol", symbol), logger.Error(err))
			continue
		}
		result, err := e.CachedScore(ctx, token.ID)
		if err != nil {
			e.log.Warn("skipping symbol in risk batch", logger.String("symbol", symbol), logger.Error(err))
			continue
		}
		out = append(out, result)
	}
	return out
}

func (e *RiskEngine) scoreToken(ctx context.Context, token models.Token) (models.RiskScoreResult, error) {
	now := e.now()

	social, err := e.social.Stats(ctx, token.Symbol)
	if err != nil {
		e.log.Warn("social stats unavailable, using neutral defaults",
			logger.String("symbol", token.Symbol), logger.Error(err))
		social = models.NeutralSocialStats(token.Symbol)
	}

	components := models.RiskComponents{
		Liquidity:       liquidityScore(token.Volume24h, token.MarketCap),
		Volatility:      e.volatilityScore(ctx, token.Symbol, now),
		MarketCap:       marketCapScore(token.MarketCap),
		Volume:          volumeScore(token.Volume24h, token.MarketCap),
		SocialSentiment: socialScore(social),
	}

	overall := int(math.Round(
		float64(components.Liquidity)*riskWeights.liquidity +
			float64(components.Volatility)*riskWeights.volatility +
			float64(components.MarketCap)*riskWeights.marketCap +
			float64(components.Volume)*riskWeights.volume +
			float64(components.SocialSentiment)*riskWeights.social))

	result := models.RiskScoreResult{
		TokenID:      token.ID,
		Symbol:       token.Symbol,
		OverallScore: overall,
		RiskLevel:    models.RiskLevelFor(overall),
		Components:   components,
		Analysis:     buildAnalysis(token, components, social, overall),
		GeneratedAt:  now,
		ExpiresAt:    now.Add(riskScoreTTL),
	}

	if err := e.scores.SaveRiskScore(ctx, result); err != nil {
		e.log.Warn("failed to store risk score",
			logger.String("token", token.ID), logger.Error(err))
	}
	metrics.RiskScoresTotal.WithLabelValues(result.RiskLevel).Inc()
	return result, nil
}

// volatilityScore buckets 7-day realized volatility. No usable history
// reads as the unknown middle.
func (e *RiskEngine) volatilityScore(ctx context.Context, symbol string, now time.Time) int {
	bars, err := e.history.History(ctx, symbol, now.Add(-7*24*time.Hour), maxLookbackBars)
	if err != nil {
		e.log.Warn("volatility history unavailable", logger.String("symbol", symbol), logger.Error(err))
		return 50
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return trend.VolatilityBucket(closes)
}

// liquidityScore buckets the 24h volume to market cap ratio. Thin books
// relative to size score risky.
func liquidityScore(volume24h, marketCap float64) int {
	ratio := volumeRatio(volume24h, math.Max(marketCap, 1))
	switch {
	case ratio > 0.5:
		return 10
	case ratio > 0.2:
		return 25
	case ratio > 0.1:
		return 40
	case ratio > 0.05:
		return 60
	case ratio > 0.01:
		return 80
	default:
		return 95
	}
}

func marketCapScore(marketCap float64) int {
	switch {
	case marketCap > 100e9:
		return 10
	case marketCap > 10e9:
		return 20
	case marketCap > 1e9:
		return 35
	case marketCap > 100e6:
		return 55
	case marketCap > 10e6:
		return 75
	case marketCap > 1e6:
		return 90
	default:
		return 98
	}
}

func volumeScore(volume24h, marketCap float64) int {
	if marketCap == 0 {
		return 100
	}
	ratio := volumeRatio(volume24h, marketCap)
	switch {
	case ratio > 0.3:
		return 15
	case ratio > 0.15:
		return 25
	case ratio > 0.05:
		return 40
	case ratio > 0.01:
		return 60
	case ratio > 0.001:
		return 80
	default:
		return 95
	}
}

// volumeRatio divides with decimals so tiny caps do not lose precision.
func volumeRatio(volume24h, marketCap float64) float64 {
	ratio, _ := decimal.NewFromFloat(volume24h).Div(decimal.NewFromFloat(marketCap)).Float64()
	return ratio
}

// socialScore starts from the inverted Galaxy Score and piles on
// adjustments for extreme sentiment and thin or manic social activity.
func socialScore(s models.SocialStats) int {
	score := 100 - s.GalaxyScore

	abs := math.Abs(s.Sentiment)
	switch {
	case abs > 0.7:
		score += 15 // euphoria and panic are both risk
	case abs > 0.5:
		score += 10
	}

	switch {
	case s.SocialVolume > 1_000_000:
		score += 20
	case s.SocialVolume > 500_000:
		score += 15
	case s.SocialVolume > 100_000:
		score += 10
	default:
		if s.SocialVolume < 1000 && s.GalaxyScore < 40 {
			score += 25 // nobody is watching this one
		}
	}

	if s.Tweets24h < 10 && s.GalaxyScore < 40 {
		score += 20
	} else if s.Tweets24h < 100 {
		score += 10
	}

	return int(math.Round(clampF(score, 0, 100)))
}

// buildAnalysis renders the human-readable warnings, insights, and
// summary from the component scores.
func buildAnalysis(token models.Token, c models.RiskComponents, social models.SocialStats, overall int) models.RiskAnalysis {
	var warnings, insights []string

	if c.MarketCap > 70 {
		warnings = append(warnings, fmt.Sprintf("Low market cap ($%.1fM) - higher risk of manipulation", token.MarketCap/1e6))
	}
	if c.Volatility > 70 {
		warnings = append(warnings, "High price volatility detected - expect large price swings")
	}
	if c.Liquidity > 70 {
		warnings = append(warnings, "Low liquidity - may be difficult to exit positions quickly")
	}
	if c.Volume > 70 {
		warnings = append(warnings, "Low trading volume - price may not reflect true market value")
	}
	if c.SocialSentiment > 70 {
		// first matching wording wins
		switch {
		case social.GalaxyScore < 40:
			warnings = append(warnings, fmt.Sprintf("Weak social traction (Galaxy Score %.0f) - limited community backing", social.GalaxyScore))
		default:
			warnings = append(warnings, "Extreme social sentiment detected - hype-driven moves are likely")
		}
	}

	if c.MarketCap < 30 {
		insights = append(insights, "Established market cap provides stability")
	}
	if c.Volatility < 30 {
		insights = append(insights, "Price volatility is relatively low")
	}
	if c.Liquidity < 30 {
		insights = append(insights, "Good liquidity supports easy trading")
	}
	if c.SocialSentiment < 30 {
		insights = append(insights, "Healthy social engagement and sentiment")
	}

	if len(warnings) == 0 {
		warnings = append(warnings, "No major warnings detected")
	}
	if len(insights) == 0 {
		insights = append(insights, "Conduct your own research before investing")
	}

	return models.RiskAnalysis{
		Summary:  riskSummary(token.Symbol, overall),
		Warnings: warnings,
		Insights: insights,
	}
}

func riskSummary(symbol string, score int) string {
	switch {
	case score < 20:
		return fmt.Sprintf("%s shows low risk characteristics with strong fundamentals and market presence.", symbol)
	case score < 40:
		return fmt.Sprintf("%s has moderate-low risk. Suitable for balanced portfolios.", symbol)
	case score < 60:
		return fmt.Sprintf("%s carries medium risk. Due diligence recommended before investing.", symbol)
	case score < 80:
		return fmt.Sprintf("%s is high risk. Only invest what you can afford to lose.", symbol)
	default:
		return fmt.Sprintf("%s is EXTREMELY HIGH RISK. This is a highly speculative \"degen\" play.", symbol)
	}
}

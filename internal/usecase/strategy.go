package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"CoinScope/internal/domain/models"
	domrepo "CoinScope/internal/domain/repository"
	"CoinScope/internal/service/metrics"
	"CoinScope/pkg/logger"
)

// StrategyScorer grades strategy archetypes on performance,
// practicality, and verifiability. Scoring itself is pure; the store is
// only touched by the ByID/All/Top paths.
type StrategyScorer struct {
	store domrepo.StrategyStore
	log   *logger.Logger
	now   func() time.Time
}

func NewStrategyScorer(store domrepo.StrategyStore, log *logger.Logger) *StrategyScorer {
	return &StrategyScorer{store: store, log: log, now: time.Now}
}

// Score grades a single archetype. Deterministic and side-effect free.
func (s *StrategyScorer) Score(strategy models.StrategyArchetype) models.StrategyScores {
	performance := performanceScore(strategy)
	practicality := practicalityScore(strategy)
	verifiable := verifiabilityScore(strategy)
	total := performance + practicality + verifiable
	return models.StrategyScores{
		StrategyID:   strategy.ID,
		Name:         strategy.Name,
		Performance:  performance,
		Practicality: practicality,
		Verifiable:   verifiable,
		Total:        total,
		Priority:     priorityFor(total),
		ScoredAt:     s.now(),
	}
}

// ScoreAndSave grades a submitted archetype and records both the
// archetype and its scores. Store failures are logged and swallowed so
// a scoring request always gets its answer.
func (s *StrategyScorer) ScoreAndSave(ctx context.Context, strategy models.StrategyArchetype) models.StrategyScores {
	if strategy.ID == "" {
		strategy.ID = slugify(strategy.Name)
	}
	scores := s.Score(strategy)
	if err := s.store.Save(ctx, strategy); err != nil {
		s.log.Warn("failed to store strategy",
			logger.String("strategy", strategy.ID), logger.Error(err))
	}
	if err := s.store.SaveScores(ctx, scores); err != nil {
		s.log.Warn("failed to store strategy scores",
			logger.String("strategy", strategy.ID), logger.Error(err))
	}
	return scores
}

// slugify turns a display name into a stable id.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return b.String()
}

// ScoreByID resolves a stored strategy, scores it, and persists the
// scores. A store failure on the write is logged and swallowed.
func (s *StrategyScorer) ScoreByID(ctx context.Context, id string) (models.StrategyScores, error) {
	strategy, err := s.store.Strategy(ctx, id)
	if err != nil {
		metrics.EngineErrors.WithLabelValues("strategy").Inc()
		return models.StrategyScores{}, fmt.Errorf("resolve strategy %q: %w", id, err)
	}
	scores := s.Score(strategy)
	if err := s.store.SaveScores(ctx, scores); err != nil {
		s.log.Warn("failed to store strategy scores",
			logger.String("strategy", id), logger.Error(err))
	}
	return scores, nil
}

// ScoreAll grades every stored strategy.
func (s *StrategyScorer) ScoreAll(ctx context.Context) ([]models.StrategyScores, error) {
	strategies, err := s.store.List(ctx)
	if err != nil {
		metrics.EngineErrors.WithLabelValues("strategy").Inc()
		return nil, fmt.Errorf("list strategies: %w", err)
	}
	out := make([]models.StrategyScores, 0, len(strategies))
	for _, strategy := range strategies {
		out = append(out, s.Score(strategy))
	}
	return out, nil
}

// Top returns up to n strategies scoring at least minScore, ordered by
// total desc, performance desc, then name asc so ties are reproducible.
func (s *StrategyScorer) Top(ctx context.Context, minScore, n int) ([]models.StrategyScores, error) {
	scored, err := s.ScoreAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := scored[:0]
	for _, sc := range scored {
		if sc.Total >= minScore {
			filtered = append(filtered, sc)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Total != filtered[j].Total {
			return filtered[i].Total > filtered[j].Total
		}
		if filtered[i].Performance != filtered[j].Performance {
			return filtered[i].Performance > filtered[j].Performance
		}
		return filtered[i].Name < filtered[j].Name
	})
	if len(filtered) > n {
		filtered = filtered[:n]
	}
	return filtered, nil
}

// performanceScore rewards win rate, risk/reward, an estimated Sharpe,
// and the amount of supporting evidence. Capped at 40.
func performanceScore(s models.StrategyArchetype) int {
	score := 0

	switch {
	case s.WinRate >= 0.75:
		score += 15
	case s.WinRate >= 0.70:
		score += 13
	case s.WinRate >= 0.65:
		score += 10
	case s.WinRate >= 0.60:
		score += 7
	default:
		score += 4
	}

	switch {
	case s.RiskRewardRatio >= 2.5:
		score += 10
	case s.RiskRewardRatio >= 2.0:
		score += 8
	case s.RiskRewardRatio >= 1.5:
		score += 5
	default:
		score += 2
	}

	// crude Sharpe proxy from win rate edge and payoff asymmetry
	sharpe := (s.WinRate - 0.5) * s.RiskRewardRatio * 4
	switch {
	case sharpe >= 2.5:
		score += 10
	case sharpe >= 2.0:
		score += 8
	case sharpe >= 1.5:
		score += 6
	default:
		score += 3
	}

	switch {
	case s.EvidenceCount >= 3:
		score += 5
	case s.EvidenceCount == 2:
		score += 3
	default:
		score += 1
	}

	return minInt(score, 40)
}

// practicalityScore rewards strategies we can actually run: available
// data feeds, a manageable rule set, liquid underlyings, and a humane
// timeframe. Capped at 30.
func practicalityScore(s models.StrategyArchetype) int {
	score := 0

	if len(s.TechnicalIndicators) > 0 {
		score += 4
	}
	if len(s.OnChainMetrics) > 0 {
		score += 3
	}
	if len(s.SocialSignals) > 0 {
		score += 3
	}

	conditions := len(s.EntryConditions) + len(s.ExitConditions)
	switch {
	case conditions <= 8:
		score += 10
	case conditions <= 12:
		score += 7
	default:
		score += 4
	}

	desc := strings.ToLower(s.Description)
	switch {
	case strings.Contains(desc, "blue chip") || strings.Contains(desc, "aave") || strings.Contains(desc, "uni"):
		score += 5
	case strings.Contains(desc, "stablecoin"):
		score += 5
	case strings.Contains(desc, "curve") || strings.Contains(desc, "convex"):
		score += 4
	default:
		score += 3
	}

	switch {
	case s.Timeframe == "daily" || s.Archetype == "position_trading":
		score += 5
	case s.Timeframe == "4h" || s.Archetype == "swing_trading":
		score += 4
	case s.Timeframe == "1h" || s.Archetype == "day_trading":
		score += 2
	default:
		score += 1
	}

	return minInt(score, 30)
}

// verifiabilityScore rewards strategies whose claims can be checked:
// source wallets, evidence depth, and concrete rules. Capped at 30.
func verifiabilityScore(s models.StrategyArchetype) int {
	score := 0

	if len(s.SourceWallets) > 0 {
		score += 10
	} else {
		score += 5
	}

	switch {
	case s.EvidenceCount >= 5:
		score += 10
	case s.EvidenceCount >= 3:
		score += 8
	case s.EvidenceCount == 2:
		score += 5
	default:
		score += 3
	}

	if len(s.EntryConditions) >= 4 {
		score += 3
	}
	if len(s.ExitConditions) >= 4 {
		score += 3
	}
	if len(s.TechnicalIndicators) >= 3 {
		score += 2
	}
	if len(s.ResearchNotes) > 50 {
		score += 2
	}

	return minInt(score, 30)
}

func priorityFor(total int) int {
	switch {
	case total >= 85:
		return 1
	case total >= 75:
		return 2
	case total >= 65:
		return 3
	case total >= 55:
		return 4
	default:
		return 5
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

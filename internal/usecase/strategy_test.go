package usecase

import (
	"context"
	"testing"
	"time"

	"CoinScope/internal/domain/models"
	domrepo "CoinScope/internal/domain/repository"
	"CoinScope/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type fakeStrategyStore struct {
	strategies map[string]models.StrategyArchetype
	saved      []models.StrategyScores
	saveErr    error
}

func (f *fakeStrategyStore) Strategy(_ context.Context, id string) (models.StrategyArchetype, error) {
	s, ok := f.strategies[id]
	if !ok {
		return models.StrategyArchetype{}, domrepo.ErrNotFound
	}
	return s, nil
}

func (f *fakeStrategyStore) List(_ context.Context) ([]models.StrategyArchetype, error) {
	out := make([]models.StrategyArchetype, 0, len(f.strategies))
	for _, s := range f.strategies {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStrategyStore) Save(_ context.Context, s models.StrategyArchetype) error {
	if f.strategies == nil {
		f.strategies = map[string]models.StrategyArchetype{}
	}
	f.strategies[s.ID] = s
	return nil
}

func (f *fakeStrategyStore) SaveScores(_ context.Context, s models.StrategyScores) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	return nil
}

func strongStrategy() models.StrategyArchetype {
	return models.StrategyArchetype{
		ID:                  "s1",
		Name:                "Blue Chip Swing",
		Archetype:           "swing_trading",
		Timeframe:           "4h",
		Description:         "Swing entries on blue chip DeFi tokens",
		ResearchNotes:       "Backtested across three market cycles with consistent results.",
		WinRate:             0.76,
		RiskRewardRatio:     2.6,
		EvidenceCount:       5,
		EntryConditions:     []string{"a", "b", "c", "d"},
		ExitConditions:      []string{"a", "b", "c", "d"},
		TechnicalIndicators: []string{"rsi", "macd", "bollinger"},
		OnChainMetrics:      []string{"tvl"},
		SocialSignals:       []string{"galaxy"},
		SourceWallets:       []string{"0xabc"},
	}
}

func TestScoreStrongStrategy(t *testing.T) {
	scorer := NewStrategyScorer(&fakeStrategyStore{}, testLogger(t))
	got := scorer.Score(strongStrategy())

	// performance: 15 + 10 + 10 (sharpe 2.704) + 5 = 40
	if got.Performance != 40 {
		t.Fatalf("performance: expected 40, got %d", got.Performance)
	}
	// practicality: 4+3+3 + 10 (8 conditions) + 5 (blue chip) + 4 (4h) = 29
	if got.Practicality != 29 {
		t.Fatalf("practicality: expected 29, got %d", got.Practicality)
	}
	// verifiability: 10 + 10 + 3 + 3 + 2 + 2 = 30
	if got.Verifiable != 30 {
		t.Fatalf("verifiability: expected 30, got %d", got.Verifiable)
	}
	if got.Total != 99 {
		t.Fatalf("total: expected 99, got %d", got.Total)
	}
	if got.Priority != 1 {
		t.Fatalf("priority: expected 1, got %d", got.Priority)
	}
}

func TestScoreWeakStrategy(t *testing.T) {
	scorer := NewStrategyScorer(&fakeStrategyStore{}, testLogger(t))
	weak := models.StrategyArchetype{
		ID:              "s2",
		Name:            "Vibes Only",
		WinRate:         0.4,
		RiskRewardRatio: 1.0,
	}
	got := scorer.Score(weak)

	// performance: 4 + 2 + 3 (sharpe negative) + 1 = 10
	if got.Performance != 10 {
		t.Fatalf("performance: expected 10, got %d", got.Performance)
	}
	// practicality: 0 data + 10 (0 conditions) + 3 (no keywords) + 1 = 14
	if got.Practicality != 14 {
		t.Fatalf("practicality: expected 14, got %d", got.Practicality)
	}
	// verifiability: 5 + 3 = 8
	if got.Verifiable != 8 {
		t.Fatalf("verifiability: expected 8, got %d", got.Verifiable)
	}
	if got.Priority != 5 {
		t.Fatalf("priority: expected 5, got %d", got.Priority)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	scorer := NewStrategyScorer(&fakeStrategyStore{}, testLogger(t))
	s := strongStrategy()
	a := scorer.Score(s)
	b := scorer.Score(s)
	a.ScoredAt, b.ScoredAt = time.Time{}, time.Time{}
	if a != b {
		t.Fatalf("same input produced different scores: %+v vs %+v", a, b)
	}
}

func TestScoreByIDNotFound(t *testing.T) {
	scorer := NewStrategyScorer(&fakeStrategyStore{strategies: map[string]models.StrategyArchetype{}}, testLogger(t))
	_, err := scorer.ScoreByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error for missing strategy")
	}
}

func TestScoreByIDPersistsAndSwallowsSaveError(t *testing.T) {
	store := &fakeStrategyStore{strategies: map[string]models.StrategyArchetype{"s1": strongStrategy()}}
	scorer := NewStrategyScorer(store, testLogger(t))

	got, err := scorer.ScoreByID(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.saved) != 1 || store.saved[0].StrategyID != "s1" {
		t.Fatalf("expected scores persisted, got %+v", store.saved)
	}

	store.saveErr = context.DeadlineExceeded
	if _, err := scorer.ScoreByID(context.Background(), "s1"); err != nil {
		t.Fatalf("save failure must be swallowed, got %v", err)
	}
	_ = got
}

func TestTopOrderingAndFilter(t *testing.T) {
	strong := strongStrategy()

	mid := strongStrategy()
	mid.ID, mid.Name = "s2", "Aave Carry"
	mid.WinRate = 0.66 // drops performance to 31, total 90

	weak := models.StrategyArchetype{ID: "s3", Name: "Vibes Only", WinRate: 0.4, RiskRewardRatio: 1.0}

	store := &fakeStrategyStore{strategies: map[string]models.StrategyArchetype{
		"s1": strong, "s2": mid, "s3": weak,
	}}
	scorer := NewStrategyScorer(store, testLogger(t))

	top, err := scorer.Top(context.Background(), 60, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected the weak strategy filtered out, got %d results", len(top))
	}
	if top[0].StrategyID != "s1" || top[1].StrategyID != "s2" {
		t.Fatalf("unexpected ordering: %s, %s", top[0].StrategyID, top[1].StrategyID)
	}

	// n truncates
	top, err = scorer.Top(context.Background(), 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("expected 1 result, got %d", len(top))
	}
}

func TestTopTieBreaksByName(t *testing.T) {
	a := strongStrategy()
	a.ID, a.Name = "a", "Zeta"
	b := strongStrategy()
	b.ID, b.Name = "b", "Alpha"

	store := &fakeStrategyStore{strategies: map[string]models.StrategyArchetype{"a": a, "b": b}}
	scorer := NewStrategyScorer(store, testLogger(t))

	top, err := scorer.Top(context.Background(), 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top[0].Name != "Alpha" || top[1].Name != "Zeta" {
		t.Fatalf("tie should break by name asc, got %s then %s", top[0].Name, top[1].Name)
	}
}

func TestPerformanceBoundaryValues(t *testing.T) {
	s := strongStrategy()
	s.WinRate = 0.75
	s.RiskRewardRatio = 2.5
	s.EvidenceCount = 3
	// 15 + 10 + 10 (sharpe 2.5) + 5 = 40
	if got := performanceScore(s); got != 40 {
		t.Fatalf("expected 40 at the exact bucket edges, got %d", got)
	}
}

func TestScoreMaximalStrategy(t *testing.T) {
	s := strongStrategy()
	s.Timeframe = "daily"
	s.Archetype = "position_trading"
	s.WinRate = 1.0
	s.RiskRewardRatio = 10
	s.EvidenceCount = 10
	scorer := NewStrategyScorer(&fakeStrategyStore{}, testLogger(t))

	got := scorer.Score(s)
	if got.Total != 100 || got.Priority != 1 {
		t.Fatalf("expected 100/priority 1, got %d/%d", got.Total, got.Priority)
	}
}

func TestPriorityBoundaries(t *testing.T) {
	cases := []struct {
		total int
		want  int
	}{
		{85, 1},
		{84, 2},
		{75, 2},
		{74, 3},
		{65, 3},
		{64, 4},
		{55, 4},
		{54, 5},
	}
	for _, tc := range cases {
		if got := priorityFor(tc.total); got != tc.want {
			t.Fatalf("total %d: expected priority %d, got %d", tc.total, tc.want, got)
		}
	}
}

package usecase

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"CoinScope/internal/domain/models"
	domrepo "CoinScope/internal/domain/repository"
)

type fakeSocial struct {
	stats models.SocialStats
	err   error
	calls int
}

func (f *fakeSocial) Stats(_ context.Context, symbol string) (models.SocialStats, error) {
	f.calls++
	if f.err != nil {
		return models.SocialStats{}, f.err
	}
	s := f.stats
	s.Symbol = symbol
	return s, nil
}

func newTestRiskEngine(t *testing.T, tokens *fakeTokenStore, history *fakeHistoryStore, scores *fakeScoreStore, social *fakeSocial) *RiskEngine {
	t.Helper()
	e := NewRiskEngine(tokens, history, scores, social, testLogger(t))
	e.now = func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestLiquidityScoreBuckets(t *testing.T) {
	cases := []struct {
		name      string
		volume    float64
		marketCap float64
		want      int
	}{
		{"deep book", 60e9, 100e9, 10},
		{"healthy", 25e9, 100e9, 25},
		{"ok", 11e9, 100e9, 40},
		{"thin", 6e9, 100e9, 60},
		{"very thin", 2e9, 100e9, 80},
		{"illiquid", 1e6, 100e9, 95},
		{"zero cap clamps to one", 10, 0, 10},
	}
	for _, tc := range cases {
		if got := liquidityScore(tc.volume, tc.marketCap); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestMarketCapScoreBuckets(t *testing.T) {
	cases := []struct {
		marketCap float64
		want      int
	}{
		{500e9, 10},
		{50e9, 20},
		{5e9, 35},
		{500e6, 55},
		{50e6, 75},
		{5e6, 90},
		{500e3, 98},
		{0, 98},
	}
	for _, tc := range cases {
		if got := marketCapScore(tc.marketCap); got != tc.want {
			t.Fatalf("marketCap %v: expected %d, got %d", tc.marketCap, tc.want, got)
		}
	}
}

func TestVolumeScoreBuckets(t *testing.T) {
	cases := []struct {
		name      string
		volume    float64
		marketCap float64
		want      int
	}{
		{"zero market cap is max risk", 1e6, 0, 100},
		{"very active", 40e6, 100e6, 15},
		{"active", 20e6, 100e6, 25},
		{"moderate", 10e6, 100e6, 40},
		{"quiet", 2e6, 100e6, 60},
		{"very quiet", 500e3, 100e6, 80},
		{"dead", 10, 100e6, 95},
	}
	for _, tc := range cases {
		if got := volumeScore(tc.volume, tc.marketCap); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestSocialScore(t *testing.T) {
	cases := []struct {
		name  string
		stats models.SocialStats
		want  int
	}{
		{
			"neutral defaults",
			models.NeutralSocialStats("X"), // galaxy 50: base 50, tweets<10 but galaxy>=40 -> +10
			60,
		},
		{
			"strong project",
			models.SocialStats{GalaxyScore: 90, Sentiment: 0.1, SocialVolume: 600_000, Tweets24h: 500},
			25, // base 10 + manic volume 15
		},
		{
			"euphoric mania",
			models.SocialStats{GalaxyScore: 60, Sentiment: 0.9, SocialVolume: 2_000_000, Tweets24h: 5000},
			75, // base 40 + sentiment 15 + volume 20
		},
		{
			"ghost town",
			models.SocialStats{GalaxyScore: 20, Sentiment: 0, SocialVolume: 100, Tweets24h: 2},
			100, // base 80 + dead volume 25 + no tweets 20, capped
		},
		{
			"cap at 100",
			models.SocialStats{GalaxyScore: 5, Sentiment: -0.9, SocialVolume: 50, Tweets24h: 0},
			100,
		},
	}
	for _, tc := range cases {
		if got := socialScore(tc.stats); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestRiskLevelBands(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, models.RiskSafe},
		{19, models.RiskSafe},
		{20, models.RiskLow},
		{39, models.RiskLow},
		{40, models.RiskMedium},
		{59, models.RiskMedium},
		{60, models.RiskHigh},
		{79, models.RiskHigh},
		{80, models.RiskExtreme},
		{100, models.RiskExtreme},
	}
	for _, tc := range cases {
		if got := models.RiskLevelFor(tc.score); got != tc.want {
			t.Fatalf("score %d: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

func TestRiskSummaryBands(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "SOL shows low risk characteristics with strong fundamentals and market presence."},
		{19, "SOL shows low risk characteristics with strong fundamentals and market presence."},
		{20, "SOL has moderate-low risk. Suitable for balanced portfolios."},
		{40, "SOL carries medium risk. Due diligence recommended before investing."},
		{60, "SOL is high risk. Only invest what you can afford to lose."},
		{80, `SOL is EXTREMELY HIGH RISK. This is a highly speculative "degen" play.`},
		{100, `SOL is EXTREMELY HIGH RISK. This is a highly speculative "degen" play.`},
	}
	for _, tc := range cases {
		if got := riskSummary("SOL", tc.score); got != tc.want {
			t.Fatalf("score %d: expected %q, got %q", tc.score, tc.want, got)
		}
	}
}

func TestScoreBlueChipToken(t *testing.T) {
	tokens := &fakeTokenStore{tokens: map[string]models.Token{
		"btc": {ID: "btc", Symbol: "BTC", MarketCap: 200e9, Volume24h: 120e9},
	}}
	history := &fakeHistoryStore{bars: map[string][]models.PriceBar{"BTC": flatBars(30, 100, 10)}}
	scores := &fakeScoreStore{}
	social := &fakeSocial{stats: models.SocialStats{GalaxyScore: 90, Sentiment: 0.1, SocialVolume: 600_000, Tweets24h: 500}}
	e := newTestRiskEngine(t, tokens, history, scores, social)

	got, err := e.Score(context.Background(), "btc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.RiskComponents{Liquidity: 10, Volatility: 15, MarketCap: 10, Volume: 15, SocialSentiment: 25}
	if got.Components != want {
		t.Fatalf("components: expected %+v, got %+v", want, got.Components)
	}
	// 10*.20 + 15*.25 + 10*.25 + 15*.15 + 25*.15 = 14.25 -> 14
	if got.OverallScore != 14 {
		t.Fatalf("overall: expected 14, got %d", got.OverallScore)
	}
	if got.RiskLevel != models.RiskSafe {
		t.Fatalf("expected safe, got %s", got.RiskLevel)
	}
	if len(got.Analysis.Warnings) != 1 || got.Analysis.Warnings[0] != "No major warnings detected" {
		t.Fatalf("expected the no-warnings filler, got %v", got.Analysis.Warnings)
	}
	if got.Analysis.Summary != "BTC shows low risk characteristics with strong fundamentals and market presence." {
		t.Fatalf("unexpected summary: %q", got.Analysis.Summary)
	}
	if len(got.Analysis.Insights) != 4 {
		t.Fatalf("expected four insights, got %v", got.Analysis.Insights)
	}
	if got.ExpiresAt.Sub(got.GeneratedAt) != 24*time.Hour {
		t.Fatalf("expected 24h expiry, got %v", got.ExpiresAt.Sub(got.GeneratedAt))
	}
	if len(scores.risks) != 1 {
		t.Fatalf("expected result persisted")
	}
}

func TestScoreSocialFailureDegrades(t *testing.T) {
	tokens := &fakeTokenStore{tokens: map[string]models.Token{
		"btc": {ID: "btc", Symbol: "BTC", MarketCap: 200e9, Volume24h: 120e9},
	}}
	history := &fakeHistoryStore{bars: map[string][]models.PriceBar{"BTC": flatBars(30, 100, 10)}}
	social := &fakeSocial{err: errors.New("lunarcrush 503")}
	e := newTestRiskEngine(t, tokens, history, &fakeScoreStore{}, social)

	got, err := e.Score(context.Background(), "btc")
	if err != nil {
		t.Fatalf("social outage must degrade, not fail: %v", err)
	}
	// neutral defaults: base 50, tweets 0 < 100 with galaxy >= 40 -> +10
	if got.Components.SocialSentiment != 60 {
		t.Fatalf("expected neutral-default social 60, got %d", got.Components.SocialSentiment)
	}
}

func TestScoreUnknownToken(t *testing.T) {
	e := newTestRiskEngine(t, &fakeTokenStore{tokens: map[string]models.Token{}}, &fakeHistoryStore{}, &fakeScoreStore{}, &fakeSocial{})
	_, err := e.Score(context.Background(), "nope")
	if !errors.Is(err, domrepo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCachedScoreServesStoredResult(t *testing.T) {
	cached := models.RiskScoreResult{
		TokenID:      "btc",
		Symbol:       "BTC",
		OverallScore: 33,
		RiskLevel:    models.RiskLow,
		Components:   models.RiskComponents{Liquidity: 25, Volatility: 30, MarketCap: 35, Volume: 40, SocialSentiment: 35},
		ExpiresAt:    time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
	}
	scores := &fakeScoreStore{cached: &cached}
	social := &fakeSocial{}
	e := newTestRiskEngine(t, &fakeTokenStore{tokens: map[string]models.Token{}}, &fakeHistoryStore{}, scores, social)

	got, err := e.CachedScore(context.Background(), "btc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, cached) {
		t.Fatalf("expected the stored result with all components intact, got %+v", got)
	}
	if social.calls != 0 {
		t.Fatalf("cached read must not hit the social provider")
	}
}

func TestCachedScoreRecomputesWhenExpired(t *testing.T) {
	stale := models.RiskScoreResult{
		TokenID:   "btc",
		ExpiresAt: time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC), // before the fixed now
	}
	tokens := &fakeTokenStore{tokens: map[string]models.Token{
		"btc": {ID: "btc", Symbol: "BTC", MarketCap: 200e9, Volume24h: 120e9},
	}}
	history := &fakeHistoryStore{bars: map[string][]models.PriceBar{"BTC": flatBars(30, 100, 10)}}
	scores := &fakeScoreStore{cached: &stale}
	e := newTestRiskEngine(t, tokens, history, scores, &fakeSocial{stats: models.NeutralSocialStats("BTC")})

	got, err := e.CachedScore(context.Background(), "btc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OverallScore == 0 && got.RiskLevel == "" {
		t.Fatalf("expected a freshly computed score")
	}
	if len(scores.risks) != 1 {
		t.Fatalf("expected the fresh score persisted")
	}
}

func TestScoreBySymbolsSkipsUnknown(t *testing.T) {
	tokens := &fakeTokenStore{tokens: map[string]models.Token{
		"btc": {ID: "btc", Symbol: "BTC", MarketCap: 200e9, Volume24h: 120e9},
	}}
	history := &fakeHistoryStore{bars: map[string][]models.PriceBar{"BTC": flatBars(30, 100, 10)}}
	e := newTestRiskEngine(t, tokens, history, &fakeScoreStore{}, &fakeSocial{stats: models.NeutralSocialStats("")})

	got := e.ScoreBySymbols(context.Background(), []string{"BTC", "NOPE"})
	if len(got) != 1 || got[0].Symbol != "BTC" {
		t.Fatalf("expected one result for BTC, got %+v", got)
	}
}

func TestRiskWeightsSumToOne(t *testing.T) {
	sum := riskWeights.liquidity + riskWeights.volatility + riskWeights.marketCap +
		riskWeights.volume + riskWeights.social
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights must sum to 1.0, got %v", sum)
	}
}

package indicators

import (
	"math"
	"testing"

	"CoinScope/internal/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRSIShortSeries(t *testing.T) {
	prices := []float64{100, 101, 102}
	if got := RSI(prices, 14); got != 50 {
		t.Fatalf("expected neutral 50, got %v", got)
	}
}

func TestRSIAllGains(t *testing.T) {
	prices := make([]float64, 15)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	if got := RSI(prices, 14); got != 100 {
		t.Fatalf("expected 100 with no losses, got %v", got)
	}
}

func TestRSIAllLosses(t *testing.T) {
	prices := make([]float64, 15)
	for i := range prices {
		prices[i] = 100 - float64(i)
	}
	if got := RSI(prices, 14); got != 0 {
		t.Fatalf("expected 0 with no gains, got %v", got)
	}
}

func TestRSIBalanced(t *testing.T) {
	// Alternating +1/-1 over 14 changes: avg gain == avg loss, RSI 50.
	prices := make([]float64, 15)
	prices[0] = 100
	for i := 1; i < len(prices); i++ {
		if i%2 == 1 {
			prices[i] = prices[i-1] + 1
		} else {
			prices[i] = prices[i-1] - 1
		}
	}
	if got := RSI(prices, 14); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
}

func TestEMAConstantSeries(t *testing.T) {
	prices := []float64{42, 42, 42, 42, 42}
	if got := EMA(prices, 12); !almostEqual(got, 42) {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestEMASingleValue(t *testing.T) {
	if got := EMA([]float64{7}, 12); got != 7 {
		t.Fatalf("expected seed value, got %v", got)
	}
}

func TestMACDShortSeries(t *testing.T) {
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 100
	}
	got := MACD(prices)
	if got.Value != 0 || got.Signal != models.SignalNeutral {
		t.Fatalf("expected neutral zero, got %+v", got)
	}
}

func TestMACDSignals(t *testing.T) {
	rising := make([]float64, 30)
	falling := make([]float64, 30)
	for i := range rising {
		rising[i] = 100 + float64(i)*2
		falling[i] = 200 - float64(i)*2
	}
	if got := MACD(rising); got.Signal != models.SignalBullish || got.Value <= 0 {
		t.Fatalf("expected bullish on rising series, got %+v", got)
	}
	if got := MACD(falling); got.Signal != models.SignalBearish || got.Value >= 0 {
		t.Fatalf("expected bearish on falling series, got %+v", got)
	}
}

func TestBollingerPosition(t *testing.T) {
	base := make([]float64, 19)
	for i := range base {
		base[i] = 100
	}
	cases := []struct {
		name string
		last float64
		want string
	}{
		{"spike above upper band", 110, models.BandOverbought},
		{"drop below lower band", 90, models.BandOversold},
		{"inside the bands", 101, models.BandMiddle},
	}
	for _, tc := range cases {
		prices := append(append([]float64{}, base...), tc.last)
		if got := BollingerPosition(prices, 20); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestBollingerPositionShortSeries(t *testing.T) {
	if got := BollingerPosition([]float64{1, 2, 3}, 20); got != models.BandMiddle {
		t.Fatalf("expected middle, got %s", got)
	}
}

func TestVolumeTrend(t *testing.T) {
	cases := []struct {
		name    string
		volumes []float64
		want    string
	}{
		{"too few observations", []float64{1, 2, 3}, models.VolumeStable},
		{"surge", []float64{100, 100, 100, 100, 100, 130, 130, 130, 130, 130}, models.VolumeIncreasing},
		{"dry up", []float64{100, 100, 100, 100, 100, 70, 70, 70, 70, 70}, models.VolumeDecreasing},
		{"mild drift", []float64{100, 100, 100, 100, 100, 110, 110, 110, 110, 110}, models.VolumeStable},
		{"zero baseline", []float64{0, 0, 0, 0, 0, 10, 10, 10, 10, 10}, models.VolumeStable},
	}
	for _, tc := range cases {
		if got := VolumeTrend(tc.volumes); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestComputeShortSeries(t *testing.T) {
	bars := make([]models.PriceBar, 13)
	for i := range bars {
		bars[i] = models.PriceBar{Close: 100, Volume: 10}
	}
	got := Compute(bars)
	want := models.NeutralIndicatorSet()
	if got != want {
		t.Fatalf("expected all-neutral set, got %+v", got)
	}
}

func TestComputeTrendLabel(t *testing.T) {
	up := make([]models.PriceBar, 30)
	down := make([]models.PriceBar, 30)
	for i := range up {
		up[i] = models.PriceBar{Close: 100 + float64(i), Volume: 10}
		down[i] = models.PriceBar{Close: 130 - float64(i), Volume: 10}
	}
	if got := Compute(up); got.Trend != models.SignalBullish {
		t.Fatalf("expected bullish trend, got %s", got.Trend)
	}
	if got := Compute(down); got.Trend != models.SignalBearish {
		t.Fatalf("expected bearish trend, got %s", got.Trend)
	}
}

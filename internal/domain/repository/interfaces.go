package repository

import (
	"context"
	"errors"
	"time"

	"CoinScope/internal/domain/models"
)

// ErrNotFound is returned when a token or strategy does not exist.
var ErrNotFound = errors.New("not found")

type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.PriceTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	Publish(ctx context.Context, t *models.PriceTick) error
	PublishBatch(ctx context.Context, ticks []*models.PriceTick) error
	Close() error
}

type HistoryStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, t *models.PriceTick) error
	StoreBatch(ctx context.Context, ticks []*models.PriceTick) error
	History(ctx context.Context, symbol string, from time.Time, limit int) ([]models.PriceBar, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type TokenStore interface {
	Token(ctx context.Context, id string) (models.Token, error)
	TokenBySymbol(ctx context.Context, symbol string) (models.Token, error)
	Upsert(ctx context.Context, t models.Token) error
}

// ScoreStore persists engine outputs for accuracy tracking and cached reads.
type ScoreStore interface {
	SavePrediction(ctx context.Context, p models.PredictionResult) error
	SaveRiskScore(ctx context.Context, r models.RiskScoreResult) error
	LatestRiskScore(ctx context.Context, tokenID string, now time.Time) (models.RiskScoreResult, bool, error)
}

type StrategyStore interface {
	Strategy(ctx context.Context, id string) (models.StrategyArchetype, error)
	List(ctx context.Context) ([]models.StrategyArchetype, error)
	Save(ctx context.Context, s models.StrategyArchetype) error
	SaveScores(ctx context.Context, s models.StrategyScores) error
}

type Metrics interface {
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}

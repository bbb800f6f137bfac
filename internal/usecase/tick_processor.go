package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CoinScope/internal/domain/models"
	drepo "CoinScope/internal/domain/repository"
)

// tokenRefreshInterval throttles per-symbol token snapshot updates so
// the tokens table is not rewritten on every tick.
const tokenRefreshInterval = time.Minute

// TickProcessor routes price ticks to the configured backend and keeps
// the token snapshots fresh.
type TickProcessor struct {
	pub     drepo.Publisher
	store   drepo.HistoryStore
	tokens  drepo.TokenStore
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration

	mu          sync.Mutex
	lastRefresh map[string]time.Time
}

func NewTickProcessor(
	pub drepo.Publisher,
	store drepo.HistoryStore,
	tokens drepo.TokenStore,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *TickProcessor {
	return &TickProcessor{
		pub:         pub,
		store:       store,
		tokens:      tokens,
		metrics:     metrics,
		backend:     backend,
		batchSz:     batchSz,
		batchTO:     batchTO,
		lastRefresh: make(map[string]time.Time),
	}
}

// Process routes a single tick to the configured backend.
func (p *TickProcessor) Process(ctx context.Context, t *models.PriceTick) error {
	if t == nil {
		return fmt.Errorf("tick is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, t)
	case "clickhouse":
		err = p.store.Store(ctx, t)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process tick: %w", err)
	}

	p.refreshToken(ctx, t)
	p.metrics.RecordMessageSent(p.backend, t.Symbol)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple ticks in one call.
func (p *TickProcessor) ProcessBatch(ctx context.Context, ticks []*models.PriceTick) error {
	if len(ticks) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, ticks)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, ticks)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, t := range ticks {
		p.refreshToken(ctx, t)
		p.metrics.RecordMessageSent(p.backend, t.Symbol)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// refreshToken updates the token's last price, at most once per symbol
// per interval. Best effort; a failed upsert only counts an error.
func (p *TickProcessor) refreshToken(ctx context.Context, t *models.PriceTick) {
	if p.tokens == nil {
		return
	}
	now := time.Now()
	p.mu.Lock()
	if now.Sub(p.lastRefresh[t.Symbol]) < tokenRefreshInterval {
		p.mu.Unlock()
		return
	}
	p.lastRefresh[t.Symbol] = now
	p.mu.Unlock()

	token, err := p.tokens.TokenBySymbol(ctx, t.Symbol)
	if err != nil {
		token = models.Token{ID: t.Symbol, Symbol: t.Symbol}
	}
	token.CurrentPrice = t.Price
	token.UpdatedAt = now
	if err := p.tokens.Upsert(ctx, token); err != nil {
		p.metrics.RecordError("token_refresh")
	}
}

// Close closes underlying resources if available.
func (p *TickProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}

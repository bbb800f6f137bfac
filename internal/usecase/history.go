package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinScope/internal/domain/models"
	domrepo "CoinScope/internal/domain/repository"
	xutil "CoinScope/pkg/util"
)

// HistoryUseCase serves stored price history.
type HistoryUseCase struct {
	store domrepo.HistoryStore
}

func NewHistoryUseCase(store domrepo.HistoryStore) *HistoryUseCase {
	return &HistoryUseCase{store: store}
}

type GetHistoryParams struct {
	Symbol string
	From   time.Time
	Limit  int
}

type GetHistoryResult struct {
	Symbol string
	From   time.Time
	Count  int
	Bars   []models.PriceBar
}

func (uc *HistoryUseCase) GetHistory(ctx context.Context, p GetHistoryParams) (*GetHistoryResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.Limit <= 0 {
		p.Limit = 1000
	}
	if p.Limit > 10000 {
		p.Limit = 10000
	}
	if p.From.IsZero() {
		p.From = time.Now().Add(-24 * time.Hour)
	}
	// bars are hourly buckets, align the window accordingly
	p.From, _ = xutil.AlignFromTo(p.From, time.Now(), "1h")

	bars, err := uc.store.History(ctx, p.Symbol, p.From, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	return &GetHistoryResult{
		Symbol: p.Symbol,
		From:   p.From,
		Count:  len(bars),
		Bars:   bars,
	}, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"CoinScope/internal/domain/models"
	domrepo "CoinScope/internal/domain/repository"
)

// ClickHouseTokens implements TokenStore over a ReplacingMergeTree
// keyed by token id; reads go through FINAL so the latest snapshot wins.
type ClickHouseTokens struct {
	db    *sql.DB
	table string
}

func NewClickHouseTokens(db *sql.DB, table string) domrepo.TokenStore {
	return &ClickHouseTokens{db: db, table: table}
}

const tokenColumns = "id, symbol, name, current_price, market_cap, volume_24h, price_change_24h, updated_at"

func (s *ClickHouseTokens) Token(ctx context.Context, id string) (models.Token, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE id = ? LIMIT 1", tokenColumns, s.table)
	return s.scanOne(s.db.QueryRowContext(ctx, q, id))
}

func (s *ClickHouseTokens) TokenBySymbol(ctx context.Context, symbol string) (models.Token, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE symbol = ? ORDER BY updated_at DESC LIMIT 1", tokenColumns, s.table)
	return s.scanOne(s.db.QueryRowContext(ctx, q, symbol))
}

func (s *ClickHouseTokens) scanOne(row *sql.Row) (models.Token, error) {
	var t models.Token
	err := row.Scan(&t.ID, &t.Symbol, &t.Name, &t.CurrentPrice, &t.MarketCap, &t.Volume24h, &t.PriceChange24h, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Token{}, domrepo.ErrNotFound
	}
	if err != nil {
		return models.Token{}, fmt.Errorf("scan token: %w", err)
	}
	return t, nil
}

func (s *ClickHouseTokens) Upsert(ctx context.Context, t models.Token) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now()
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.table, tokenColumns)
	_, err := s.db.ExecContext(ctx, q,
		t.ID, t.Symbol, t.Name, t.CurrentPrice, t.MarketCap, t.Volume24h, t.PriceChange24h, t.UpdatedAt)
	return err
}

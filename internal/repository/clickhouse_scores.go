package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"CoinScope/internal/domain/models"
	domrepo "CoinScope/internal/domain/repository"
)

// ClickHouseScores implements ScoreStore over the predictions and
// risk_scores tables. Factors, indicators, and analysis are stored as
// JSON strings so the row shape stays stable across template changes.
type ClickHouseScores struct {
	db              *sql.DB
	predictionTable string
	riskTable       string
}

func NewClickHouseScores(db *sql.DB, predictionTable, riskTable string) domrepo.ScoreStore {
	return &ClickHouseScores{db: db, predictionTable: predictionTable, riskTable: riskTable}
}

func (s *ClickHouseScores) SavePrediction(ctx context.Context, p models.PredictionResult) error {
	factors, err := json.Marshal(p.Factors)
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}
	indicators, err := json.Marshal(p.Indicators)
	if err != nil {
		return fmt.Errorf("marshal indicators: %w", err)
	}
	q := fmt.Sprintf(`INSERT INTO %s
		(token_id, symbol, timeframe, current_price, predicted_price, change_percent, confidence, direction, factors, indicators, model_version, generated_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.predictionTable)
	_, err = s.db.ExecContext(ctx, q,
		p.TokenID, p.Symbol, p.Timeframe, p.CurrentPrice, p.PredictedPrice,
		p.ChangePercent, p.Confidence, p.Direction, string(factors), string(indicators),
		p.ModelVersion, p.GeneratedAt, p.ExpiresAt)
	return err
}

func (s *ClickHouseScores) SaveRiskScore(ctx context.Context, r models.RiskScoreResult) error {
	analysis, err := json.Marshal(r.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	q := fmt.Sprintf(`INSERT INTO %s
		(token_id, symbol, overall_score, risk_level, liquidity, volatility, market_cap, volume, social_sentiment, analysis, generated_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.riskTable)
	_, err = s.db.ExecContext(ctx, q,
		r.TokenID, r.Symbol, r.OverallScore, r.RiskLevel,
		r.Components.Liquidity, r.Components.Volatility, r.Components.MarketCap,
		r.Components.Volume, r.Components.SocialSentiment,
		string(analysis), r.GeneratedAt, r.ExpiresAt)
	return err
}

// LatestRiskScore returns the newest stored score still valid at now,
// with every component and the full analysis restored.
func (s *ClickHouseScores) LatestRiskScore(ctx context.Context, tokenID string, now time.Time) (models.RiskScoreResult, bool, error) {
	q := fmt.Sprintf(`SELECT
		token_id, symbol, overall_score, risk_level, liquidity, volatility, market_cap, volume, social_sentiment, analysis, generated_at, expires_at
		FROM %s
		WHERE token_id = ? AND expires_at > ?
		ORDER BY generated_at DESC
		LIMIT 1`, s.riskTable)

	var r models.RiskScoreResult
	var analysis string
	err := s.db.QueryRowContext(ctx, q, tokenID, now).Scan(
		&r.TokenID, &r.Symbol, &r.OverallScore, &r.RiskLevel,
		&r.Components.Liquidity, &r.Components.Volatility, &r.Components.MarketCap,
		&r.Components.Volume, &r.Components.SocialSentiment,
		&analysis, &r.GeneratedAt, &r.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RiskScoreResult{}, false, nil
	}
	if err != nil {
		return models.RiskScoreResult{}, false, fmt.Errorf("scan risk score: %w", err)
	}
	if err := json.Unmarshal([]byte(analysis), &r.Analysis); err != nil {
		return models.RiskScoreResult{}, false, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return r, true, nil
}

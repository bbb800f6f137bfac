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

// ClickHouseStrategies implements StrategyStore over a
// ReplacingMergeTree of archetypes plus an append-only scores table.
type ClickHouseStrategies struct {
	db          *sql.DB
	table       string
	scoresTable string
}

func NewClickHouseStrategies(db *sql.DB, table, scoresTable string) domrepo.StrategyStore {
	return &ClickHouseStrategies{db: db, table: table, scoresTable: scoresTable}
}

const strategyColumns = `id, name, archetype, timeframe, description, research_notes,
	win_rate, risk_reward_ratio, evidence_count,
	entry_conditions, exit_conditions, technical_indicators, onchain_metrics, social_signals, source_wallets,
	updated_at`

func (s *ClickHouseStrategies) Strategy(ctx context.Context, id string) (models.StrategyArchetype, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE id = ? LIMIT 1", strategyColumns, s.table)
	row := s.db.QueryRowContext(ctx, q, id)
	out, err := scanStrategy(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StrategyArchetype{}, domrepo.ErrNotFound
	}
	return out, err
}

func (s *ClickHouseStrategies) List(ctx context.Context) ([]models.StrategyArchetype, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL ORDER BY id", strategyColumns, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list strategies: %w", err)
	}
	defer rows.Close()

	var out []models.StrategyArchetype
	for rows.Next() {
		strategy, err := scanStrategy(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, strategy)
	}
	return out, rows.Err()
}

func scanStrategy(scan func(dest ...any) error) (models.StrategyArchetype, error) {
	var st models.StrategyArchetype
	var updatedAt time.Time
	err := scan(
		&st.ID, &st.Name, &st.Archetype, &st.Timeframe, &st.Description, &st.ResearchNotes,
		&st.WinRate, &st.RiskRewardRatio, &st.EvidenceCount,
		&st.EntryConditions, &st.ExitConditions, &st.TechnicalIndicators,
		&st.OnChainMetrics, &st.SocialSignals, &st.SourceWallets,
		&updatedAt)
	if err != nil {
		return models.StrategyArchetype{}, err
	}
	return st, nil
}

func (s *ClickHouseStrategies) Save(ctx context.Context, st models.StrategyArchetype) error {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table, strategyColumns)
	_, err := s.db.ExecContext(ctx, q,
		st.ID, st.Name, st.Archetype, st.Timeframe, st.Description, st.ResearchNotes,
		st.WinRate, st.RiskRewardRatio, st.EvidenceCount,
		st.EntryConditions, st.ExitConditions, st.TechnicalIndicators,
		st.OnChainMetrics, st.SocialSignals, st.SourceWallets,
		time.Now())
	return err
}

func (s *ClickHouseStrategies) SaveScores(ctx context.Context, sc models.StrategyScores) error {
	q := fmt.Sprintf(`INSERT INTO %s
		(strategy_id, name, performance, practicality, verifiable, total, priority, scored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, s.scoresTable)
	_, err := s.db.ExecContext(ctx, q,
		sc.StrategyID, sc.Name, sc.Performance, sc.Practicality, sc.Verifiable,
		sc.Total, sc.Priority, sc.ScoredAt)
	return err
}

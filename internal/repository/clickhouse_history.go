package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"CoinScope/internal/domain/models"
	domrepo "CoinScope/internal/domain/repository"
)

// ClickHouseHistory implements HistoryStore over the prices table.
type ClickHouseHistory struct {
	db    *sql.DB
	table string
}

func NewClickHouseHistory(db *sql.DB, table string) domrepo.HistoryStore {
	return &ClickHouseHistory{db: db, table: table}
}

func (s *ClickHouseHistory) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseHistory) Store(ctx context.Context, t *models.PriceTick) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, volume) VALUES (?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		time.Unix(t.Timestamp, 0),
		t.Symbol,
		t.Price,
		t.Volume,
	)
	return err
}

func (s *ClickHouseHistory) StoreBatch(ctx context.Context, ticks []*models.PriceTick) error {
	if len(ticks) == 0 {
		return nil
	}
	// Multi-row VALUES to cut round-trips; chunked at 2000 rows.
	const chunkSize = 2000
	for start := 0; start < len(ticks); start += chunkSize {
		end := start + chunkSize
		if end > len(ticks) {
			end = len(ticks)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*4)
		for _, t := range ticks[start:end] {
			if t == nil || t.Symbol == "" || t.Timestamp == 0 {
				continue
			}
			values = append(values, "(?, ?, ?, ?)")
			args = append(args,
				time.Unix(t.Timestamp, 0),
				t.Symbol,
				t.Price,
				t.Volume,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, volume) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

// History aggregates raw ticks into hourly OHLCV bars, oldest first.
func (s *ClickHouseHistory) History(ctx context.Context, symbol string, from time.Time, limit int) ([]models.PriceBar, error) {
	q := fmt.Sprintf(`
		SELECT
			toStartOfHour(ts) AS bucket,
			symbol,
			argMin(price, ts) AS open,
			max(price)        AS high,
			min(price)        AS low,
			argMax(price, ts) AS close,
			sum(volume)       AS vol
		FROM %s
		WHERE symbol = ? AND ts >= ?
		GROUP BY bucket, symbol
		ORDER BY bucket ASC
		LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var bars []models.PriceBar
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Bucket, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *ClickHouseHistory) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseHistory) Close() error {
	return nil // Managed by pkg
}

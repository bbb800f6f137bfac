package repository

// SchemaStatements are the idempotent DDL statements run at startup.
var SchemaStatements = []string{
	`CREATE DATABASE IF NOT EXISTS coinscope`,

	`CREATE TABLE IF NOT EXISTS coinscope.prices (
		ts      DateTime,
		symbol  LowCardinality(String),
		price   Float64,
		volume  Float64
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMMDD(ts)
	ORDER BY (symbol, ts)
	TTL ts + INTERVAL 90 DAY`,

	`CREATE TABLE IF NOT EXISTS coinscope.tokens (
		id               String,
		symbol           LowCardinality(String),
		name             String,
		current_price    Float64,
		market_cap       Float64,
		volume_24h       Float64,
		price_change_24h Float64,
		updated_at       DateTime
	) ENGINE = ReplacingMergeTree(updated_at)
	ORDER BY id`,

	`CREATE TABLE IF NOT EXISTS coinscope.predictions (
		token_id        String,
		symbol          LowCardinality(String),
		timeframe       LowCardinality(String),
		current_price   Float64,
		predicted_price Float64,
		change_percent  Float64,
		confidence      Float64,
		direction       LowCardinality(String),
		factors         String,
		indicators      String,
		model_version   LowCardinality(String),
		generated_at    DateTime,
		expires_at      DateTime
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(generated_at)
	ORDER BY (token_id, generated_at)
	TTL expires_at + INTERVAL 30 DAY`,

	`CREATE TABLE IF NOT EXISTS coinscope.risk_scores (
		token_id         String,
		symbol           LowCardinality(String),
		overall_score    Int32,
		risk_level       LowCardinality(String),
		liquidity        Int32,
		volatility       Int32,
		market_cap       Int32,
		volume           Int32,
		social_sentiment Int32,
		analysis         String,
		generated_at     DateTime,
		expires_at       DateTime
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(generated_at)
	ORDER BY (token_id, generated_at)
	TTL expires_at + INTERVAL 30 DAY`,

	`CREATE TABLE IF NOT EXISTS coinscope.strategies (
		id                   String,
		name                 String,
		archetype            LowCardinality(String),
		timeframe            LowCardinality(String),
		description          String,
		research_notes       String,
		win_rate             Float64,
		risk_reward_ratio    Float64,
		evidence_count       Int32,
		entry_conditions     Array(String),
		exit_conditions      Array(String),
		technical_indicators Array(String),
		onchain_metrics      Array(String),
		social_signals       Array(String),
		source_wallets       Array(String),
		updated_at           DateTime
	) ENGINE = ReplacingMergeTree(updated_at)
	ORDER BY id`,

	`CREATE TABLE IF NOT EXISTS coinscope.strategy_scores (
		strategy_id  String,
		name         String,
		performance  Int32,
		practicality Int32,
		verifiable   Int32,
		total        Int32,
		priority     Int32,
		scored_at    DateTime
	) ENGINE = MergeTree()
	ORDER BY (strategy_id, scored_at)`,
}

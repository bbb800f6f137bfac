package di

import (
	"context"
	"fmt"
	"time"

	"CoinScope/internal/domain/repository"
	domsvc "CoinScope/internal/domain/service"
	"CoinScope/internal/handler/api"
	mid "CoinScope/internal/middleware"
	internalrepo "CoinScope/internal/repository"
	icache "CoinScope/internal/service/cache"
	"CoinScope/internal/service/stream"
	"CoinScope/internal/services/lunarcrush"
	"CoinScope/internal/usecase"
	pkgch "CoinScope/pkg/clickhouse"
	"CoinScope/pkg/config"
	xhttp "CoinScope/pkg/http"
	pkgkafka "CoinScope/pkg/kafka"
	applogger "CoinScope/pkg/logger"
	"CoinScope/pkg/metrics"
	"CoinScope/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and applies the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SchemaStatements); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHistoryStore creates the ClickHouse price history store.
func ProvideHistoryStore(chClient *pkgch.Client, cfg *config.Config) repository.HistoryStore {
	return internalrepo.NewClickHouseHistory(chClient.DB(), cfg.ClickHouse.Database+".prices")
}

// ProvideTokenStore creates the ClickHouse token store.
func ProvideTokenStore(chClient *pkgch.Client, cfg *config.Config) repository.TokenStore {
	return internalrepo.NewClickHouseTokens(chClient.DB(), cfg.ClickHouse.Database+".tokens")
}

// ProvideScoreStore creates the ClickHouse prediction/risk score store.
func ProvideScoreStore(chClient *pkgch.Client, cfg *config.Config) repository.ScoreStore {
	return internalrepo.NewClickHouseScores(
		chClient.DB(),
		cfg.ClickHouse.Database+".predictions",
		cfg.ClickHouse.Database+".risk_scores",
	)
}

// ProvideStrategyStore creates the ClickHouse strategy store.
func ProvideStrategyStore(chClient *pkgch.Client, cfg *config.Config) repository.StrategyStore {
	return internalrepo.NewClickHouseStrategies(
		chClient.DB(),
		cfg.ClickHouse.Database+".strategies",
		cfg.ClickHouse.Database+".strategy_scores",
	)
}

// ProvideTickPublisher creates the Kafka tick publisher.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaTicksHandler registers handler for the ticks topic.
func ProvideKafkaTicksHandler(store repository.HistoryStore, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideMarketStream creates the exchange WebSocket stream.
func ProvideMarketStream(cfg *config.Config) repository.MarketStream {
	return stream.New(
		cfg.Stream.APIKey,
		cfg.Stream.WebSocketURL,
		cfg.Stream.Symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
	)
}

// ProvideBytesCache picks Redis when enabled, in-process TTL cache otherwise.
func ProvideBytesCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideSocialProvider creates the LunarCrush social stats client.
func ProvideSocialProvider(cfg *config.Config, c icache.BytesCache) domsvc.SocialProvider {
	return lunarcrush.New(cfg.Social.BaseURL, cfg.Social.APIKey, cfg.Social.Timeout, c, cfg.Social.CacheTTL)
}

// ProvideTickProcessor creates the tick processor use case.
func ProvideTickProcessor(
	pub repository.Publisher,
	store repository.HistoryStore,
	tokens repository.TokenStore,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(
		pub,
		store,
		tokens,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideTickCollector creates the tick collector use case.
func ProvideTickCollector(
	stream repository.MarketStream,
	processor *usecase.TickProcessor,
	metrics repository.Metrics,
) *usecase.TickCollector {
	// Build middleware pipeline between WebSocket and the backends
	pipe := mid.NewTickPipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, processor, metrics, pipe)
}

// ProvidePredictionEngine creates the price prediction engine.
func ProvidePredictionEngine(
	tokens repository.TokenStore,
	history repository.HistoryStore,
	scores repository.ScoreStore,
	l *applogger.Logger,
) *usecase.PredictionEngine {
	return usecase.NewPredictionEngine(tokens, history, scores, l)
}

// ProvideRiskEngine creates the risk scoring engine.
func ProvideRiskEngine(
	tokens repository.TokenStore,
	history repository.HistoryStore,
	scores repository.ScoreStore,
	social domsvc.SocialProvider,
	l *applogger.Logger,
) *usecase.RiskEngine {
	return usecase.NewRiskEngine(tokens, history, scores, social, l)
}

// ProvideStrategyScorer creates the strategy archetype scorer.
func ProvideStrategyScorer(store repository.StrategyStore, l *applogger.Logger) *usecase.StrategyScorer {
	return usecase.NewStrategyScorer(store, l)
}

// ProvideHistoryUseCase creates the price history read use case.
func ProvideHistoryUseCase(store repository.HistoryStore) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(store)
}

// ProvideScoresHandler creates the HTTP handler for the scoring endpoints.
func ProvideScoresHandler(
	l *applogger.Logger,
	predictions *usecase.PredictionEngine,
	risk *usecase.RiskEngine,
	strategies *usecase.StrategyScorer,
	history *usecase.HistoryUseCase,
	tokens repository.TokenStore,
	c icache.BytesCache,
) xhttp.Handler {
	h := api.NewScoresEchoHandler(l, predictions, risk, strategies, history, tokens)
	h.SetCache(c)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	chClient *pkgch.Client,
	handler xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, kh, chClient)
	app.SetHTTPHandler(handler)
	// attach tick processor to app for closing resources via collector
	if collector != nil {
		app.TickProc = collector.Processor()
	}
	return app
}

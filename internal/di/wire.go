//go:build wireinject
// +build wireinject

package di

import (
	"CoinScope/pkg/config"
	"CoinScope/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Logging and metrics
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideBytesCache,

		// Repositories
		ProvideHistoryStore,
		ProvideTokenStore,
		ProvideScoreStore,
		ProvideStrategyStore,
		ProvideTickPublisher,
		ProvideMarketStream,
		ProvideSocialProvider,

		// Use cases
		ProvideTickProcessor,
		ProvideTickCollector,
		ProvideKafkaTicksHandler,
		ProvidePredictionEngine,
		ProvideRiskEngine,
		ProvideStrategyScorer,
		ProvideHistoryUseCase,

		// HTTP
		ProvideScoresHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

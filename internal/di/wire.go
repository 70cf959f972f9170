//go:build wireinject
// +build wireinject

package di

import (
	"MarketLab/pkg/config"
	"MarketLab/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Simulation core
		ProvideFlags,
		ProvideEngineContext,
		ProvideBook,
		ProvidePriceEngine,

		// News pipeline
		ProvideFeed,
		ProvideHub,
		ProvideNewsPublisher,
		ProvideNewsSink,

		// Archive infrastructure
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideTickRecorder,
		ProvideNewsArchiveHandler,

		// Use cases
		ProvidePhenomena,
		ProvideSimulator,

		// API
		ProvideSnapshotCache,
		ProvideMarketHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/domain/repository"
	"MarketLab/internal/engine"
	"MarketLab/internal/handler/api"
	"MarketLab/internal/handler/ws"
	"MarketLab/internal/middleware"
	"MarketLab/internal/phenomena"
	internalrepo "MarketLab/internal/repository"
	"MarketLab/internal/usecase"
	"MarketLab/pkg/cache"
	pkgch "MarketLab/pkg/clickhouse"
	"MarketLab/pkg/config"
	pkgkafka "MarketLab/pkg/kafka"
	"MarketLab/pkg/logger"
	"MarketLab/pkg/metrics"
	"MarketLab/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return logger.New(&logger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideFlags creates the phenomenon flag set (all enabled).
func ProvideFlags() *engine.FlagSet {
	return engine.NewFlagSet()
}

// ProvideEngineContext builds the shared randomness/flag/observability context.
func ProvideEngineContext(cfg *config.Config, flags *engine.FlagSet, log *logger.Logger, m repository.Metrics) *engine.Context {
	opts := []engine.Option{
		engine.WithFlags(flags.Enabled),
		engine.WithLogger(log),
		engine.WithMetrics(m),
	}
	if cfg.Simulation.Seed != 0 {
		opts = append(opts, engine.WithSeed(cfg.Simulation.Seed))
	}
	return engine.NewContext(opts...)
}

// ProvideBook builds the security universe from config seeds.
func ProvideBook(cfg *config.Config) *engine.Book {
	seeds := make([]models.SecuritySeed, len(cfg.Simulation.Securities))
	for i, s := range cfg.Simulation.Securities {
		seeds[i] = models.SecuritySeed{
			Symbol:     s.Symbol,
			Name:       s.Name,
			Sector:     s.Sector,
			Price:      s.Price,
			Volatility: s.Volatility,
			Trend:      s.Trend,
			Stability:  s.Stability,
		}
	}
	return engine.NewBook(seeds)
}

// ProvidePriceEngine creates the daily price convergence engine.
func ProvidePriceEngine(cfg *config.Config, ctx *engine.Context) *engine.PriceEngine {
	return engine.NewPriceEngine(ctx, cfg.Simulation.NoiseMult)
}

// ProvideFeed creates the in-memory news feed.
func ProvideFeed() *internalrepo.MemoryFeed {
	return internalrepo.NewMemoryFeed()
}

// ProvideHub creates the websocket broadcast hub.
func ProvideHub(log *logger.Logger) *ws.Hub {
	return ws.NewHub(log)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when
// archiving is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	ch := cfg.Archive.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout, ch.WriteTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema(ch.PriceTable, ch.NewsTable)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideTickRecorder creates the ClickHouse archive recorder, or nil.
func ProvideTickRecorder(chClient *pkgch.Client, cfg *config.Config) repository.TickRecorder {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseRecorder(chClient.DB(), cfg.Archive.ClickHouse.PriceTable, cfg.Archive.ClickHouse.NewsTable)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when archiving is
// disabled. When a logs topic is configured, error logs are aggregated and
// shipped through the same producer.
func ProvideKafkaProducer(cfg *config.Config, log *logger.Logger) (*pkgkafka.Producer, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	k := cfg.Archive.Kafka
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithBatchSize(k.Producer.BatchSize),
		pkgkafka.WithBatchBytes(k.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(k.Producer.Linger),
		pkgkafka.WithTimeouts(k.Producer.WriteTimeout, k.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(k.Producer.MaxAttempts),
		pkgkafka.WithAsync(k.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	if k.LogsTopic != "" {
		log.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          k.LogsTopic,
			Publisher:      producerPublisher{producer},
		})
	}
	return producer, nil
}

// producerPublisher adapts the Kafka producer to the log collector's
// Publisher contract.
type producerPublisher struct {
	p *pkgkafka.Producer
}

func (pp producerPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return pp.p.Publish(ctx, topic, nil, payload)
}

// ProvideNewsPublisher creates the Kafka news sink, or nil.
func ProvideNewsPublisher(producer *pkgkafka.Producer, cfg *config.Config, log *logger.Logger, m repository.Metrics) *internalrepo.KafkaNewsPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaNewsPublisher(producer, cfg.Archive.Kafka.NewsTopic, log, m)
}

// ProvideNewsSink fans news out to the feed, the websocket hub and, when
// enabled, Kafka, behind the validation pipeline.
func ProvideNewsSink(feed *internalrepo.MemoryFeed, hub *ws.Hub, pub *internalrepo.KafkaNewsPublisher, m repository.Metrics) repository.NewsSink {
	var fanout repository.NewsSink
	if pub == nil {
		fanout = internalrepo.NewFanout(feed, hub)
	} else {
		fanout = internalrepo.NewFanout(feed, hub, pub)
	}
	return middleware.NewNewsPipeline(fanout, m)
}

// ProvideKafkaConsumer creates the archive consumer, or nil.
func ProvideKafkaConsumer(cfg *config.Config, log *logger.Logger, m repository.Metrics) (*pkgkafka.Consumer, error) {
	if !cfg.Archive.Enabled || !cfg.Archive.Kafka.Consumer.Enabled {
		return nil, nil
	}
	k := cfg.Archive.Kafka
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(k.Brokers),
		pkgkafka.WithConsumerGroupID(k.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(k.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(k.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(k.Consumer.RetryMax, k.Consumer.BackoffMin, k.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(k.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(k.Consumer.MinBytes, k.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.HookFuncs{
		Err: func(_ context.Context, topic string, _ kafka.Message, _ []byte, err error) {
			m.RecordError("consumer_handle")
			log.Warn("archive consumer error",
				logger.String("topic", topic),
				logger.Error(err))
		},
	})
	return consumer, nil
}

// ProvideNewsArchiveHandler registers the archive handler, or nil.
func ProvideNewsArchiveHandler(recorder repository.TickRecorder, m repository.Metrics, cfg *config.Config) *usecase.NewsArchiveHandler {
	if recorder == nil {
		return nil
	}
	return usecase.NewNewsArchiveHandler(cfg.Archive.Kafka.NewsTopic, recorder, m)
}

// ProvidePhenomena builds the full module set in processing order.
func ProvidePhenomena(ctx *engine.Context, sink repository.NewsSink) []phenomena.Phenomenon {
	return phenomena.All(phenomena.Deps{Ctx: ctx, Sink: sink})
}

// ProvideSimulator wires the daily orchestrator.
func ProvideSimulator(
	ctx *engine.Context,
	book *engine.Book,
	price *engine.PriceEngine,
	mods []phenomena.Phenomenon,
	feed *internalrepo.MemoryFeed,
	recorder repository.TickRecorder,
	log *logger.Logger,
) *usecase.Simulator {
	return usecase.NewSimulator(ctx, book, price, mods, feed, recorder, log)
}

// ProvideSnapshotCache backs the API snapshot with Redis when configured,
// an in-process cache otherwise.
func ProvideSnapshotCache(cfg *config.Config) (repository.SnapshotCache, error) {
	var svc cache.Service
	if cfg.Cache.Redis.Enabled {
		host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
		if err != nil {
			return nil, fmt.Errorf("cache redis addr: %w", err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("cache redis port: %w", err)
		}
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(host),
			cache.WithRedisPort(port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix("marketlab"),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		svc = cache.NewLayeredCache(rc)
	} else {
		svc = cache.NewMemoryCache()
	}
	return internalrepo.NewCacheSnapshots(svc, cfg.Cache.SnapshotTTL), nil
}

// ProvideMarketHandler creates the Echo API handler.
func ProvideMarketHandler(
	log *logger.Logger,
	sim *usecase.Simulator,
	feed *internalrepo.MemoryFeed,
	flags *engine.FlagSet,
	snaps repository.SnapshotCache,
) *api.MarketHandler {
	return api.NewMarketHandler(log, sim, feed, flags, snaps)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	sim *usecase.Simulator,
	hub *ws.Hub,
	handler *api.MarketHandler,
	consumer *pkgkafka.Consumer,
	archiver *usecase.NewsArchiveHandler,
	chClient *pkgch.Client,
	newsPub *internalrepo.KafkaNewsPublisher,
) *server.App {
	var kh pkgkafka.MessageHandler
	if archiver != nil {
		kh = archiver
	}
	return server.New(cfg, log, sim, hub, handler, consumer, kh, chClient, newsPub)
}

package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketLab/internal/handler/ws"
	internalrepo "MarketLab/internal/repository"
	"MarketLab/internal/usecase"
	pkgch "MarketLab/pkg/clickhouse"
	"MarketLab/pkg/config"
	xhttp "MarketLab/pkg/http"
	pkgkafka "MarketLab/pkg/kafka"
	applogger "MarketLab/pkg/logger"
)

// App encapsulates the entire application lifecycle: the simulation clock,
// the HTTP API, the websocket hub and the optional archive pipeline.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	sim        *usecase.Simulator
	hub        *ws.Hub
	handler    xhttp.Handler
	consumer   *pkgkafka.Consumer
	archiver   pkgkafka.MessageHandler
	chClient   *pkgch.Client
	newsPub    *internalrepo.KafkaNewsPublisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. consumer, archiver,
// chClient and newsPub may be nil when archiving is disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	sim *usecase.Simulator,
	hub *ws.Hub,
	handler xhttp.Handler,
	consumer *pkgkafka.Consumer,
	archiver pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	newsPub *internalrepo.KafkaNewsPublisher,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		sim:      sim,
		hub:      hub,
		handler:  handler,
		consumer: consumer,
		archiver: archiver,
		chClient: chClient,
		newsPub:  newsPub,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithServerLogger(a.log),
	)
	a.httpServer.Echo().GET("/ws/news", a.hub.Handler)

	// Simulation clock: one day per interval. Interval zero means the
	// simulation only advances on explicit tick requests.
	if a.cfg.Simulation.DayInterval > 0 {
		go a.dayLoop(ctx)
		a.log.Info("simulation clock started",
			applogger.Duration("interval", a.cfg.Simulation.DayInterval))
	} else {
		a.log.Info("simulation clock disabled, advance via /api/tick")
	}

	if a.consumer != nil && a.archiver != nil {
		a.consumer.RegisterHandler(a.archiver)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("news archive consumer started", applogger.String("topic", a.archiver.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

func (a *App) dayLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Simulation.DayInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.sim.AdvanceDay(ctx); err != nil {
				a.log.Error("day advance failed", applogger.Error(err), applogger.Int("day", a.sim.Day()))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.hub.Shutdown()

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.newsPub != nil {
		if err := a.newsPub.Close(); err != nil {
			a.log.Warn("news publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.RemoveCollector()

	a.log.Info("shutdown complete")
	return nil
}

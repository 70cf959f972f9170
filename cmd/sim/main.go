package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/engine"
	"MarketLab/internal/phenomena"
	internalrepo "MarketLab/internal/repository"
	"MarketLab/internal/usecase"
	"MarketLab/pkg/config"
	"MarketLab/pkg/logger"
)

// Headless runner: advances the simulation a fixed number of days and
// prints the resulting tape. Useful for eyeballing phenomenon behavior and
// for long deterministic runs without the HTTP stack.
func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	days := flag.Int("days", 30, "number of days to simulate")
	seed := flag.Int64("seed", 0, "override simulation seed (0 keeps config value)")
	showNews := flag.Bool("news", true, "print the news feed")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	l, err := logger.New(&logger.Config{Level: "warn", Format: "console", Output: "stderr"})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

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

	flags := engine.NewFlagSet()
	ectx := engine.NewContext(
		engine.WithSeed(cfg.Simulation.Seed),
		engine.WithFlags(flags.Enabled),
		engine.WithLogger(l),
	)
	book := engine.NewBook(seeds)
	price := engine.NewPriceEngine(ectx, cfg.Simulation.NoiseMult)
	feed := internalrepo.NewMemoryFeed()
	mods := phenomena.All(phenomena.Deps{Ctx: ectx, Sink: feed})
	sim := usecase.NewSimulator(ectx, book, price, mods, feed, nil, l)

	if err := sim.AdvanceDays(context.Background(), *days); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	fmt.Printf("day %d\n", sim.Day())
	fmt.Println("symbol   price      ytd      events")
	for _, v := range sim.Securities() {
		fmt.Printf("%-8s %-10.0f %+.1f%%   %d\n", v.Symbol, v.Price, v.YTDReturn*100, len(v.Phenomena))
	}

	if *showNews {
		recs := feed.Query(-1, "", 0)
		fmt.Printf("\n%d news records\n", len(recs))
		for i := len(recs) - 1; i >= 0; i-- {
			r := recs[i]
			fmt.Printf("day %3d  %-8s %-28s %s\n", r.Day, r.Symbol, r.Type, r.Headline)
		}
	}

	os.Exit(0)
}

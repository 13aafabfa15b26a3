package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/mpetrenko/flightsched/config"
	"github.com/mpetrenko/flightsched/internal/bootstrap"
	"github.com/mpetrenko/flightsched/internal/repository"
	"github.com/mpetrenko/flightsched/internal/service/flights"
	"github.com/mpetrenko/flightsched/pkg/logger"
	"github.com/mpetrenko/flightsched/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	log := logger.NewLogger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal("load config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics(cfg.Metrics.Namespace)

	var repo repository.FlightRepository
	var ping bootstrap.PingFunc
	switch cfg.Database.Driver {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatal("connect postgres", "error", err)
		}
		defer pool.Close()
		if err := repository.EnsurePGSchema(ctx, pool); err != nil {
			log.Fatal("ensure schema", "error", err)
		}
		repo = repository.NewPGFlightRepository(pool)
		ping = pool.Ping
	case "sqlite":
		db, err := repository.OpenSQLite(cfg.Database.Path)
		if err != nil {
			log.Fatal("open sqlite", "error", err)
		}
		defer db.Close()
		repo = repository.NewSQLiteFlightRepository(db)
		ping = db.PingContext
	default:
		log.Fatal("unknown database driver", "driver", cfg.Database.Driver)
	}

	flightSvc := flights.NewFlightService(repo, log)

	log.Info("starting server", "address", cfg.HTTP.Address, "driver", cfg.Database.Driver)
	if err := bootstrap.Run(ctx, cfg, log, m, flightSvc, ping); err != nil {
		log.Fatal("server error", "error", err)
	}
}

package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/demandcast/internal/cache"
	"github.com/andresuchdata/demandcast/internal/config"
	"github.com/andresuchdata/demandcast/internal/refresh"
	"github.com/andresuchdata/demandcast/internal/repository/postgres"
	"github.com/andresuchdata/demandcast/internal/service"
	"github.com/andresuchdata/demandcast/internal/storage"
	"github.com/andresuchdata/demandcast/pkg/logger"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newWorkersFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "workers",
		Usage:   "Number of concurrent forecast workers",
		Value:   8,
		EnvVars: []string{"FORECAST_WORKERS"},
	}
}

// buildRefresher wires the refresher the same way the server does, but
// through the pgx stdlib driver so the CLI stays independent of lib/pq.
func buildRefresher(c *cli.Context) (*refresh.Refresher, func(), error) {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := sqlx.Connect("pgx", c.String("db-url"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	cleanup := func() { _ = db.Close() }

	repo := postgres.NewForecastRepository(postgres.FromSQLX(db))

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		forecastCache = cache.NewNoopForecastCache()
	}

	var snapshotStore storage.ObjectStorage
	if cfg.Storage.Enabled {
		snapshotStore, err = storage.NewMinioClient(cfg.Storage)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to build snapshot storage: %w", err)
		}
	}

	svc := service.NewForecastService(repo, forecastCache, cfg.Forecast)
	return refresh.NewRefresher(svc, repo, forecastCache, snapshotStore, c.Int("workers")), cleanup, nil
}

func runRefresh(c *cli.Context) error {
	refresher, cleanup, err := buildRefresher(c)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := refresher.Run(c.Context)
	if err != nil {
		return err
	}

	logger.Log.Info().
		Int("total_skus", result.TotalSKUs).
		Int("failed", result.Failed).
		Str("snapshot", result.SnapshotKey).
		Msg("refresh finished")
	return nil
}

func runExport(c *cli.Context) error {
	refresher, cleanup, err := buildRefresher(c)
	if err != nil {
		return err
	}
	defer cleanup()

	key, err := refresher.Export(c.Context)
	if err != nil {
		return err
	}

	logger.Log.Info().Str("key", key).Msg("snapshot exported")
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "forecast",
		Usage: "Batch demand forecasting jobs",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Forecast all active SKUs and persist the results",
				Flags:  []cli.Flag{newDBURLFlag(), newWorkersFlag()},
				Action: runRefresh,
			},
			{
				Name:   "export",
				Usage:  "Re-upload a CSV snapshot of the latest forecast run",
				Flags:  []cli.Flag{newDBURLFlag(), newWorkersFlag()},
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

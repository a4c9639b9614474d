package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/gs-storefront/api"
	"github.com/angelmondragon/gs-storefront/api/controllers"
	"github.com/angelmondragon/gs-storefront/api/routes"
	"github.com/angelmondragon/gs-storefront/internal/records"
	"github.com/angelmondragon/gs-storefront/pkg/config"
	"github.com/angelmondragon/gs-storefront/pkg/db"
	"github.com/angelmondragon/gs-storefront/pkg/db/models"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Environment: cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.DB.AutoMigrate {
		if err := dbClient.AutoMigrate(context.Background(), models.All()...); err != nil {
			logg.Error(context.Background(), "failed to migrate database", err)
			os.Exit(1)
		}
	}

	var gatherer prometheus.Gatherer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if sqlDB, err := dbClient.DB().DB(); err == nil {
			reg.MustRegister(collectors.NewDBStatsCollector(sqlDB, cfg.DB.Driver))
		}
		gatherer = reg
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Gateway.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      addr,
		"db_driver": cfg.DB.Driver,
	})
	logg.Info(ctx, "starting gateway server")

	handler := routes.NewGatewayRouter(cfg, logg, records.NewGateway(dbClient), gatherer,
		map[string]controllers.Pinger{"db": dbClient})
	if err := api.Serve(ctx, api.NewServer(addr, handler), logg); err != nil {
		logg.Error(ctx, "gateway server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "gateway server shutting down gracefully")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/angelmondragon/gs-storefront/api"
	"github.com/angelmondragon/gs-storefront/api/routes"
	"github.com/angelmondragon/gs-storefront/internal/gateway"
	"github.com/angelmondragon/gs-storefront/internal/state"
	"github.com/angelmondragon/gs-storefront/internal/storefront"
	"github.com/angelmondragon/gs-storefront/internal/syncbus"
	"github.com/angelmondragon/gs-storefront/pkg/config"
	"github.com/angelmondragon/gs-storefront/pkg/env"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Environment: cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	contextID := cfg.App.ContextID
	if contextID == "" {
		contextID = env.Instance() + "-" + uuid.NewString()[:8]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithContextID(ctx, contextID)

	rt := &clients{}
	defer func() {
		if err := rt.Close(); err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	reg := newRegistry(cfg)

	store, err := openLocalStore(ctx, cfg, rt, logg)
	if err != nil {
		logg.Error(ctx, "failed to open local store", err)
		os.Exit(1)
	}

	gw, err := gateway.NewHTTPGateway(cfg.Gateway.BaseURL, gateway.HTTPOptions{
		Timeout: cfg.Gateway.Timeout,
		Metrics: metrics.NewGatewayMetrics(registerer(reg)),
	})
	if err != nil {
		logg.Error(ctx, "failed to build gateway client", err)
		os.Exit(1)
	}

	bus, err := openBus(ctx, cfg, rt, contextID, logg)
	if err != nil {
		logg.Error(ctx, "failed to open sync bus", err)
		os.Exit(1)
	}

	syncMetrics := metrics.NewSyncMetrics(registerer(reg))
	ctrl, err := state.NewController(ctx, state.Params{
		Gateway:   gw,
		Store:     store,
		Logger:    logg,
		Metrics:   syncMetrics,
		Clock:     time.Now,
		ContextID: contextID,
	})
	if err != nil {
		logg.Error(ctx, "failed to create state controller", err)
		os.Exit(1)
	}
	defer func() {
		if err := ctrl.Close(); err != nil {
			logg.Error(context.Background(), "error closing state controller", err)
		}
	}()

	if err := ctrl.Attach(ctx, bus, cfg.SyncBus.Topic); err != nil {
		logg.Error(ctx, "failed to attach sync bus", err)
		os.Exit(1)
	}

	// Load never fails the process; an unreachable gateway leaves the collections empty.
	go func() {
		_ = ctrl.Load(ctx)
	}()

	svc, err := storefront.NewService(ctrl, syncbus.NewAnnouncer(bus, cfg.SyncBus.Topic, logg, syncMetrics), logg)
	if err != nil {
		logg.Error(ctx, "failed to create storefront service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"local_store": cfg.LocalStore.Backend,
		"transport":   cfg.SyncBus.Transport,
	})
	logg.Info(ctx, "starting storefront context")

	server := api.NewServer(addr, routes.NewStorefrontRouter(cfg, logg, svc, contextID, gatherer(reg), rt.dependencies()))
	if err := api.Serve(ctx, server, logg); err != nil {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "storefront context shutting down gracefully")
}

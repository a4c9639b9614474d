package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/gs-storefront/api/controllers"
	"github.com/angelmondragon/gs-storefront/internal/localstore"
	"github.com/angelmondragon/gs-storefront/internal/syncbus"
	"github.com/angelmondragon/gs-storefront/pkg/config"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/pubsub"
	"github.com/angelmondragon/gs-storefront/pkg/redis"
)

// clients holds the shared clients one storefront context opens. Clients that were not
// selected by config stay nil.
type clients struct {
	redis   *redis.Client
	pubsub  *pubsub.Client
	closers []io.Closer
}

func (r *clients) track(c io.Closer) {
	r.closers = append(r.closers, c)
}

// Close releases clients in reverse open order.
func (r *clients) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, r.closers[i].Close())
	}
	r.closers = nil
	return err
}

// dependencies lists the clients the readiness probe pings.
func (r *clients) dependencies() map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if r.redis != nil {
		deps["redis"] = r.redis
	}
	if r.pubsub != nil {
		deps["pubsub"] = r.pubsub
	}
	return deps
}

func (r *clients) redisClient(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*redis.Client, error) {
	if r.redis != nil {
		return r.redis, nil
	}
	client, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap redis: %w", err)
	}
	r.redis = client
	r.track(client)
	return client, nil
}

func openLocalStore(ctx context.Context, cfg *config.Config, rt *clients, logg *logger.Logger) (*localstore.Store, error) {
	switch cfg.LocalStore.BackendKind() {
	case enums.LocalStoreMemory:
		return localstore.New(localstore.NewMemoryBackend(), logg), nil
	case enums.LocalStoreFile:
		backend, err := localstore.NewFileBackend(cfg.LocalStore.Path)
		if err != nil {
			return nil, err
		}
		if logg != nil {
			logg.Info(logg.WithField(ctx, "path", backend.Path()), "local store backed by file")
		}
		return localstore.New(backend, logg), nil
	case enums.LocalStoreRedis:
		client, err := rt.redisClient(ctx, cfg, logg)
		if err != nil {
			return nil, err
		}
		return localstore.New(localstore.NewRedisBackend(client, cfg.LocalStore.Profile), logg), nil
	default:
		return nil, fmt.Errorf("unsupported local store backend %q", cfg.LocalStore.Backend)
	}
}

func openBus(ctx context.Context, cfg *config.Config, rt *clients, contextID string, logg *logger.Logger) (syncbus.Bus, error) {
	switch cfg.SyncBus.TransportKind() {
	case enums.SyncTransportMemory:
		return syncbus.NewLocalHub().Bus(contextID), nil
	case enums.SyncTransportRedis:
		client, err := rt.redisClient(ctx, cfg, logg)
		if err != nil {
			return nil, err
		}
		return syncbus.NewRedisBus(client, contextID, logg), nil
	case enums.SyncTransportPubSub:
		client, err := pubsub.NewClient(ctx, cfg.GCP, cfg.SyncBus, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap pubsub: %w", err)
		}
		rt.pubsub = client
		rt.track(client)
		bus, err := syncbus.NewPubSubBus(cfg.SyncBus.Topic, client.SyncPublisher(), client.SyncSubscription(), contextID, logg)
		if err != nil {
			return nil, err
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported sync transport %q", cfg.SyncBus.Transport)
	}
}

// newRegistry returns the process registry, or nil when metrics are disabled.
func newRegistry(cfg *config.Config) *prometheus.Registry {
	if !cfg.Metrics.Enabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// gatherer and registerer keep a disabled registry an untyped nil.
func gatherer(reg *prometheus.Registry) prometheus.Gatherer {
	if reg == nil {
		return nil
	}
	return reg
}

func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}

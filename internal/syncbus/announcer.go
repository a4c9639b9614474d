package syncbus

import (
	"context"

	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/metrics"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

// Announcer is the sending half of the sync protocol: after a context changes shared
// data it posts the full collection so siblings converge without refetching.
type Announcer struct {
	bus     Publisher
	topic   string
	logg    *logger.Logger
	metrics *metrics.SyncMetrics
}

func NewAnnouncer(bus Publisher, topic string, logg *logger.Logger, m *metrics.SyncMetrics) *Announcer {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Announcer{bus: bus, topic: topic, logg: logg, metrics: m}
}

func (a *Announcer) Products(ctx context.Context, products []types.Product) error {
	msg, err := ProductsSnapshot(products)
	if err != nil {
		return err
	}
	return a.publish(ctx, msg)
}

func (a *Announcer) Orders(ctx context.Context, orders []types.Order) error {
	msg, err := OrdersSnapshot(orders)
	if err != nil {
		return err
	}
	return a.publish(ctx, msg)
}

func (a *Announcer) Users(ctx context.Context, users []types.UserAccount) error {
	msg, err := UsersSnapshot(users)
	if err != nil {
		return err
	}
	return a.publish(ctx, msg)
}

func (a *Announcer) publish(ctx context.Context, msg Message) error {
	if a == nil || a.bus == nil {
		return nil
	}
	if err := a.bus.Publish(ctx, a.topic, msg); err != nil {
		a.logg.Error(a.logg.WithField(ctx, "type", msg.Type.String()), "sync broadcast failed", err)
		return err
	}
	a.metrics.IncPublished(msg.Type.String())
	return nil
}

package syncbus

import (
	"context"

	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/redis"
)

type redisPubSub interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (redis.Subscription, error)
	SyncChannel(topic string) string
}

var _ redisPubSub = (*redis.Client)(nil)

// RedisBus carries topics over redis channels, letting contexts in separate processes
// share one topic.
type RedisBus struct {
	client redisPubSub
	origin string
	logg   *logger.Logger
}

var _ Bus = (*RedisBus)(nil)

func NewRedisBus(client redisPubSub, origin string, logg *logger.Logger) *RedisBus {
	if logg == nil {
		logg = logger.Nop()
	}
	return &RedisBus{client: client, origin: origin, logg: logg}
}

func (b *RedisBus) Publish(ctx context.Context, topic string, msg Message) error {
	if topic == "" {
		return errTopicRequired
	}
	raw, err := marshal(stamp(msg, b.origin))
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.client.SyncChannel(topic), raw)
}

func (b *RedisBus) Subscribe(ctx context.Context, topic string, handler Handler) (Subscription, error) {
	if err := checkSubscribe(topic, handler); err != nil {
		return nil, err
	}
	channel := b.client.SyncChannel(topic)
	rs, err := b.client.Subscribe(ctx, channel)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	s := newSubscription(cancel, rs.Close)
	logCtx := b.logg.WithField(subCtx, "channel", channel)

	go func() {
		defer close(s.done)
		incoming := rs.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case m, ok := <-incoming:
				if !ok {
					return
				}
				msg, err := unmarshal([]byte(m.Payload))
				if err != nil {
					b.logg.Error(logCtx, "dropping malformed sync message", err)
					continue
				}
				if isOwn(msg, b.origin) {
					continue
				}
				handler(subCtx, msg)
			}
		}
	}()
	return s, nil
}

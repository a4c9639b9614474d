package syncbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
)

const (
	attrOrigin     = "origin"
	attrType       = "type"
	publishTimeout = 15 * time.Second
)

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

type receiver interface {
	Receive(ctx context.Context, f func(context.Context, *gcppubsub.Message)) error
}

// PubSubBus carries one topic over Cloud Pub/Sub. Every context needs its own subscription
// on that topic so each one sees every snapshot.
type PubSubBus struct {
	topic     string
	publisher publisher
	receiver  receiver
	origin    string
	logg      *logger.Logger
}

var _ Bus = (*PubSubBus)(nil)

func NewPubSubBus(topic string, pub *gcppubsub.Publisher, sub *gcppubsub.Subscriber, origin string, logg *logger.Logger) (*PubSubBus, error) {
	if pub == nil {
		return nil, errors.New("sync publisher is required")
	}
	if sub == nil {
		return nil, errors.New("sync subscriber is required")
	}
	return newPubSubBus(topic, &gcpPublisher{Publisher: pub}, sub, origin, logg), nil
}

func newPubSubBus(topic string, pub publisher, recv receiver, origin string, logg *logger.Logger) *PubSubBus {
	if logg == nil {
		logg = logger.Nop()
	}
	return &PubSubBus{topic: topic, publisher: pub, receiver: recv, origin: origin, logg: logg}
}

func (b *PubSubBus) Publish(ctx context.Context, topic string, msg Message) error {
	if err := b.checkTopic(topic); err != nil {
		return err
	}
	msg = stamp(msg, b.origin)
	raw, err := marshal(msg)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	result := b.publisher.Publish(publishCtx, &gcppubsub.Message{
		Data: raw,
		Attributes: map[string]string{
			attrOrigin: msg.Origin,
			attrType:   string(msg.Type),
		},
	})
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Type, err)
	}
	return nil
}

func (b *PubSubBus) Subscribe(ctx context.Context, topic string, handler Handler) (Subscription, error) {
	if err := checkSubscribe(topic, handler); err != nil {
		return nil, err
	}
	if err := b.checkTopic(topic); err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	s := newSubscription(cancel, nil)
	logCtx := b.logg.WithField(subCtx, "topic", topic)

	go func() {
		defer close(s.done)
		err := b.receiver.Receive(subCtx, func(ctx context.Context, m *gcppubsub.Message) {
			defer m.Ack()
			if b.origin != "" && m.Attributes[attrOrigin] == b.origin {
				return
			}
			msg, err := unmarshal(m.Data)
			if err != nil {
				b.logg.Error(b.logg.WithField(logCtx, "message_id", m.ID), "dropping malformed sync message", err)
				return
			}
			if isOwn(msg, b.origin) {
				return
			}
			handler(ctx, msg)
		})
		if err != nil && subCtx.Err() == nil {
			b.logg.Error(logCtx, "sync subscription stopped", err)
		}
	}()
	return s, nil
}

func (b *PubSubBus) checkTopic(topic string) error {
	if topic == "" {
		return errTopicRequired
	}
	if topic != b.topic {
		return fmt.Errorf("pubsub sync bus is bound to topic %q, not %q", b.topic, topic)
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}

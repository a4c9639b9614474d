package syncbus

import (
	"context"
	"sync"
)

// LocalHub is an in-process topic space. Each context joins with its own origin through
// Bus and never receives its own posts.
type LocalHub struct {
	mu     sync.RWMutex
	topics map[string]map[*localSubscriber]struct{}
}

func NewLocalHub() *LocalHub {
	return &LocalHub{topics: make(map[string]map[*localSubscriber]struct{})}
}

// Bus returns the hub as seen by the context named origin.
func (h *LocalHub) Bus(origin string) *LocalBus {
	return &LocalBus{hub: h, origin: origin}
}

// Subscribers reports how many live subscriptions a topic has.
func (h *LocalHub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

type LocalBus struct {
	hub    *LocalHub
	origin string
}

var _ Bus = (*LocalBus)(nil)

// Publish enqueues msg for every other subscriber of topic. It never blocks on handlers.
func (b *LocalBus) Publish(ctx context.Context, topic string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return errTopicRequired
	}
	msg = stamp(msg, b.origin)

	b.hub.mu.RLock()
	defer b.hub.mu.RUnlock()
	for sub := range b.hub.topics[topic] {
		if isOwn(msg, sub.origin) {
			continue
		}
		sub.push(Message{Type: msg.Type, Payload: append([]byte(nil), msg.Payload...), Origin: msg.Origin})
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context, topic string, handler Handler) (Subscription, error) {
	if err := checkSubscribe(topic, handler); err != nil {
		return nil, err
	}
	subCtx, cancel := context.WithCancel(ctx)
	sub := &localSubscriber{origin: b.origin, wake: make(chan struct{}, 1)}

	b.hub.mu.Lock()
	if b.hub.topics[topic] == nil {
		b.hub.topics[topic] = make(map[*localSubscriber]struct{})
	}
	b.hub.topics[topic][sub] = struct{}{}
	b.hub.mu.Unlock()

	s := newSubscription(cancel, func() error {
		b.hub.mu.Lock()
		defer b.hub.mu.Unlock()
		delete(b.hub.topics[topic], sub)
		if len(b.hub.topics[topic]) == 0 {
			delete(b.hub.topics, topic)
		}
		return nil
	})
	go func() {
		defer close(s.done)
		sub.deliver(subCtx, handler)
	}()
	return s, nil
}

type localSubscriber struct {
	origin string

	mu    sync.Mutex
	queue []Message
	wake  chan struct{}
}

func (s *localSubscriber) push(msg Message) {
	s.mu.Lock()
	s.queue = append(s.queue, msg)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *localSubscriber) drain() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.queue
	s.queue = nil
	return pending
}

func (s *localSubscriber) deliver(ctx context.Context, handler Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
			for _, msg := range s.drain() {
				if ctx.Err() != nil {
					return
				}
				handler(ctx, msg)
			}
		}
	}
}

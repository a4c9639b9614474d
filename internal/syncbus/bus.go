package syncbus

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	errTopicRequired   = errors.New("sync topic is required")
	errHandlerRequired = errors.New("sync handler is required")
)

// Handler receives every message on a topic that did not originate from the subscriber.
// Handlers of one subscription run one at a time, in arrival order.
type Handler func(ctx context.Context, msg Message)

type Publisher interface {
	Publish(ctx context.Context, topic string, msg Message) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) (Subscription, error)
}

// Bus is one context's handle on the shared topic space.
type Bus interface {
	Publisher
	Subscriber
}

// Subscription is released exactly once; Close is safe to call repeatedly and returns
// after the delivery goroutine has stopped.
type Subscription interface {
	Close() error
}

type subscription struct {
	cancel  context.CancelFunc
	done    chan struct{}
	release func() error

	once sync.Once
	err  error
}

func newSubscription(cancel context.CancelFunc, release func() error) *subscription {
	return &subscription{cancel: cancel, done: make(chan struct{}), release: release}
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.cancel()
		if s.release != nil {
			s.err = s.release()
		}
		<-s.done
	})
	return s.err
}

func checkSubscribe(topic string, handler Handler) error {
	if strings.TrimSpace(topic) == "" {
		return errTopicRequired
	}
	if handler == nil {
		return errHandlerRequired
	}
	return nil
}

func stamp(msg Message, origin string) Message {
	if msg.Origin == "" {
		msg.Origin = origin
	}
	return msg
}

func isOwn(msg Message, origin string) bool {
	return origin != "" && msg.Origin == origin
}

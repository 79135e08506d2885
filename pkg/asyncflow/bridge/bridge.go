// Package bridge forwards emitter traffic to an EventBus.
//
// An application that already coordinates components over a shared
// github.com/asaskevich/EventBus bus can mirror an emitter onto it:
//
//	bus := EventBus.New()
//	bus.Subscribe("orders:created", func(id int) { ... })
//
//	sub := bridge.Forward(emitter, bus, bridge.WithTopicPrefix("orders:"))
//	defer sub.Unsubscribe()
//
// Each emission is published as topic prefix+name with the emitted
// arguments passed positionally, so bus handlers must accept exactly the
// arguments the emitter sends for that name.
package bridge

import (
	"log/slog"

	"github.com/asaskevich/EventBus"

	"github.com/randalmurphal/asyncflow/pkg/asyncflow/event"
)

type options struct {
	prefix string
	filter func(name string) bool
	logger *slog.Logger
}

// Option configures Forward.
type Option func(*options)

// WithTopicPrefix prepends prefix to every published topic.
func WithTopicPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithFilter forwards only the names for which keep returns true.
func WithFilter(keep func(name string) bool) Option {
	return func(o *options) {
		o.filter = keep
	}
}

// WithLogger logs each skipped topic at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Forward publishes every emission of e on bus until the returned
// subscription is unsubscribed. Topics nobody subscribed to on the bus are
// skipped.
func Forward(e *event.Emitter, bus EventBus.Bus, opts ...Option) event.Subscription {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return e.SubscribeAll(func(name string, args ...any) error {
		if o.filter != nil && !o.filter(name) {
			return nil
		}
		topic := o.prefix + name
		if !bus.HasCallback(topic) {
			if o.logger != nil {
				o.logger.Debug("no bus subscribers", slog.String("topic", topic))
			}
			return nil
		}
		bus.Publish(topic, args...)
		return nil
	})
}

package event

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// Handler processes a delivered event.
type Handler func(Event)

// Subscription is an active subscription on a bus.
type Subscription interface {
	// Unsubscribe removes the subscription and stops delivery.
	Unsubscribe()
}

// Bus distributes execution events to subscribers.
type Bus interface {
	// Publish delivers an event to matching subscribers.
	// Publishing never blocks: if a subscriber's buffer is full the event
	// is dropped for that subscriber (and OnDrop invoked, if set).
	Publish(evt Event)

	// Subscribe registers a handler for specific event types.
	Subscribe(types []string, handler Handler) Subscription

	// SubscribeAll registers a handler for every event.
	SubscribeAll(handler Handler) Subscription

	// Close shuts down the bus and all subscriptions, waiting for
	// buffered events to drain.
	Close() error
}

// BusConfig configures bus behavior.
type BusConfig struct {
	// BufferSize is the per-subscription channel buffer. Default: 256.
	BufferSize int

	// OnDrop is called when a full buffer forces an event to be dropped.
	OnDrop func(evt Event, subscriberID string)
}

// DefaultBusConfig provides reasonable defaults.
var DefaultBusConfig = BusConfig{
	BufferSize: 256,
}

// LocalBus is an in-memory Bus implementation.
type LocalBus struct {
	config BusConfig

	mu            sync.RWMutex
	subscriptions map[string]*subscription

	nextID atomic.Int64
	closed atomic.Bool
}

// NewBus creates a local in-memory event bus.
func NewBus(config BusConfig) *LocalBus {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBusConfig.BufferSize
	}
	return &LocalBus{
		config:        config,
		subscriptions: make(map[string]*subscription),
	}
}

// subscription is the internal subscription state. Each subscription owns
// a goroutine that drains its buffer and calls the handler.
type subscription struct {
	id      string
	types   map[string]bool // nil = all types
	handler Handler
	events  chan Event
	done    chan struct{}
	bus     *LocalBus
}

// Publish implements Bus.
func (b *LocalBus) Publish(evt Event) {
	if b.closed.Load() {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscriptions {
		if sub.types != nil && !sub.types[evt.Type] {
			continue
		}
		select {
		case sub.events <- evt:
		default:
			if b.config.OnDrop != nil {
				b.config.OnDrop(evt, sub.id)
			}
		}
	}
}

// Subscribe implements Bus.
func (b *LocalBus) Subscribe(types []string, handler Handler) Subscription {
	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}
	return b.subscribe(typeSet, handler)
}

// SubscribeAll implements Bus.
func (b *LocalBus) SubscribeAll(handler Handler) Subscription {
	return b.subscribe(nil, handler)
}

func (b *LocalBus) subscribe(types map[string]bool, handler Handler) Subscription {
	sub := &subscription{
		id:      "sub-" + strconv.FormatInt(b.nextID.Add(1), 10),
		types:   types,
		handler: handler,
		events:  make(chan Event, b.config.BufferSize),
		done:    make(chan struct{}),
		bus:     b,
	}

	b.mu.Lock()
	b.subscriptions[sub.id] = sub
	b.mu.Unlock()

	go sub.run()
	return sub
}

// run drains the subscription's buffer until it is removed.
func (s *subscription) run() {
	defer close(s.done)
	for evt := range s.events {
		s.handler(evt)
	}
}

// Unsubscribe implements Subscription.
func (s *subscription) Unsubscribe() {
	s.bus.remove(s.id)
}

// remove detaches and drains a subscription.
func (b *LocalBus) remove(id string) {
	b.mu.Lock()
	sub, ok := b.subscriptions[id]
	if ok {
		delete(b.subscriptions, id)
	}
	b.mu.Unlock()

	if ok {
		close(sub.events)
		<-sub.done
	}
}

// Close implements Bus.
func (b *LocalBus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	subs := make([]*subscription, 0, len(b.subscriptions))
	for _, sub := range b.subscriptions {
		subs = append(subs, sub)
	}
	b.subscriptions = make(map[string]*subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		close(sub.events)
		<-sub.done
	}
	return nil
}

package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/putuyoga/privyr-lead/internal/shared/logger"

	"github.com/google/uuid"
)

// Event represents a generic event
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler defines the event handler function type
type Handler func(ctx context.Context, event Event) error

// EventBusInterface defines the contract for event bus implementations
type EventBusInterface interface {
	Subscribe(eventType string, handler Handler) string
	Unsubscribe(subscriptionID string)
	Publish(ctx context.Context, event Event) error
	PublishAndForget(ctx context.Context, event Event)
	GetSubscriberCount(eventType string) int
}

type subscription struct {
	id      string
	handler Handler
}

// EventBus is an in-memory publish/subscribe bus
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	index    map[string]string // subscription id -> event type
	logger   logger.Logger
	config   BusConfig
}

// BusConfig holds configuration for the event bus
type BusConfig struct {
	AsyncProcessing bool
	MaxRetries      int
	RetryDelay      time.Duration
}

// DefaultBusConfig returns default configuration
func DefaultBusConfig() BusConfig {
	return BusConfig{
		AsyncProcessing: false,
		MaxRetries:      0,
		RetryDelay:      100 * time.Millisecond,
	}
}

// NewEventBus creates a new event bus instance
func NewEventBus(log logger.Logger) *EventBus {
	return NewEventBusWithConfig(log, DefaultBusConfig())
}

// NewEventBusWithConfig creates a new event bus with custom configuration
func NewEventBusWithConfig(log logger.Logger, config BusConfig) *EventBus {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &EventBus{
		handlers: make(map[string][]subscription),
		index:    make(map[string]string),
		logger:   log,
		config:   config,
	}
}

// Subscribe adds a handler for a specific event type and returns its subscription id
func (eb *EventBus) Subscribe(eventType string, handler Handler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := uuid.NewString()
	eb.handlers[eventType] = append(eb.handlers[eventType], subscription{id: id, handler: handler})
	eb.index[id] = eventType
	eb.logger.Debugf("Subscribed handler %s for event type: %s", id, eventType)
	return id
}

// Unsubscribe removes a single subscription. Unknown ids are ignored.
func (eb *EventBus) Unsubscribe(subscriptionID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eventType, ok := eb.index[subscriptionID]
	if !ok {
		return
	}
	delete(eb.index, subscriptionID)

	subs := eb.handlers[eventType]
	kept := subs[:0:0]
	for _, s := range subs {
		if s.id != subscriptionID {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(eb.handlers, eventType)
	} else {
		eb.handlers[eventType] = kept
	}
	eb.logger.Debugf("Unsubscribed handler %s from event type: %s", subscriptionID, eventType)
}

// Publish sends an event to all registered handlers
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	subs := append([]subscription(nil), eb.handlers[event.Type()]...)
	eb.mu.RUnlock()

	if len(subs) == 0 {
		eb.logger.Debugf("No handlers found for event type: %s", event.Type())
		return nil
	}

	eb.logger.Debugf("Publishing event type: %s to %d handlers", event.Type(), len(subs))

	if eb.config.AsyncProcessing {
		return eb.publishAsync(ctx, event, subs)
	}

	return eb.publishSync(ctx, event, subs)
}

// publishSync publishes events synchronously
func (eb *EventBus) publishSync(ctx context.Context, event Event, subs []subscription) error {
	for _, s := range subs {
		if err := eb.executeHandler(ctx, event, s); err != nil {
			return err
		}
	}
	return nil
}

// publishAsync publishes events asynchronously
func (eb *EventBus) publishAsync(ctx context.Context, event Event, subs []subscription) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(subs))

	for _, s := range subs {
		wg.Add(1)
		go func(s subscription) {
			defer wg.Done()
			if err := eb.executeHandler(ctx, event, s); err != nil {
				errCh <- err
			}
		}(s)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}

	return nil
}

// executeHandler executes a handler with retry logic
func (eb *EventBus) executeHandler(ctx context.Context, event Event, s subscription) error {
	var lastErr error

	for attempt := 0; attempt <= eb.config.MaxRetries; attempt++ {
		if attempt > 0 {
			eb.logger.Warnf("Retrying handler %s for event %s (attempt %d/%d)",
				s.id, event.Type(), attempt+1, eb.config.MaxRetries+1)
			time.Sleep(eb.config.RetryDelay)
		}

		if err := s.handler(ctx, event); err != nil {
			lastErr = err
			eb.logger.Errorf("Handler %s failed for event %s: %v", s.id, event.Type(), err)
			continue
		}
		return nil
	}

	return fmt.Errorf("handler failed after %d attempts: %w", eb.config.MaxRetries+1, lastErr)
}

// PublishAndForget publishes an event asynchronously without waiting for completion
func (eb *EventBus) PublishAndForget(ctx context.Context, event Event) {
	go func() {
		if err := eb.Publish(ctx, event); err != nil {
			eb.logger.Errorf("Failed to publish event %s: %v", event.Type(), err)
		}
	}()
}

// GetSubscriberCount returns the number of handlers for an event type
func (eb *EventBus) GetSubscriberCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}

// BasicEvent implements the Event interface
type BasicEvent struct {
	eventType string
	data      interface{}
	timestamp time.Time
	source    string
}

// NewBasicEvent creates a new basic event
func NewBasicEvent(eventType string, data interface{}) Event {
	return NewBasicEventWithSource(eventType, data, "unknown")
}

// NewBasicEventWithSource creates a new basic event with source
func NewBasicEventWithSource(eventType string, data interface{}, source string) Event {
	return &BasicEvent{
		eventType: eventType,
		data:      data,
		timestamp: time.Now(),
		source:    source,
	}
}

func (e *BasicEvent) Type() string {
	return e.eventType
}

func (e *BasicEvent) Data() interface{} {
	return e.data
}

func (e *BasicEvent) Timestamp() time.Time {
	return e.timestamp
}

func (e *BasicEvent) Source() string {
	return e.source
}

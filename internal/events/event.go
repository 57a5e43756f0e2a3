// Package events publishes integration events to a message broker.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	PaymentRecorded         = "payment.recorded"
	PaymentUpdated          = "payment.updated"
	PaymentDeleted          = "payment.deleted"
	InvoicePaid             = "invoice.paid"
	WebhookReceived         = "integration.webhook_received"
	WebhookSubscriptionMade = "integration.webhook_registered"
	TestEvent               = "integration.test_event"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func New(eventType string, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Dispatcher publishes in the background so broker latency never reaches
// the request. Delivery is best effort.
type Dispatcher struct {
	publisher Publisher
	queue     chan Event
	timeout   time.Duration
	wg        sync.WaitGroup
	once      sync.Once
}

func NewDispatcher(publisher Publisher) *Dispatcher {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	d := &Dispatcher{
		publisher: publisher,
		queue:     make(chan Event, 256),
		timeout:   5 * time.Second,
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.publisher.Publish(ctx, ev); err != nil {
			slog.Error("event publish failed", "type", ev.Type, "id", ev.ID, "error", err)
		}
		cancel()
	}
}

func (d *Dispatcher) Emit(ev Event) {
	select {
	case d.queue <- ev:
	default:
		slog.Warn("event queue full, dropping event", "type", ev.Type)
	}
}

func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

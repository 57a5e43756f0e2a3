package events

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingPublisher) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(pub)

	d.Emit(New(PaymentRecorded, map[string]any{"payment_id": 1}))
	d.Emit(New(InvoicePaid, map[string]any{"invoice_id": 2}))
	d.Close()

	if assert.Len(t, pub.events, 2) {
		assert.Equal(t, PaymentRecorded, pub.events[0].Type)
		assert.Equal(t, InvoicePaid, pub.events[1].Type)
		assert.NotEmpty(t, pub.events[0].ID)
		assert.NotEqual(t, pub.events[0].ID, pub.events[1].ID)
	}
}

func TestNilPublisherIsNoop(t *testing.T) {
	d := NewDispatcher(nil)
	d.Emit(New(WebhookReceived, nil))
	d.Close()
}

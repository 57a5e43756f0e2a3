package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
)

type Event struct {
	ActorType string
	ActorID   *uint
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

// ByEmployee fills the actor fields for a staff action.
func ByEmployee(emp auth.Employee, action, entity string, entityID uint, metadata any) Event {
	actorID := emp.ID
	return Event{
		ActorType: string(auth.UserTypeEmployee),
		ActorID:   &actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  &entityID,
		Metadata:  metadata,
	}
}

// Dispatcher writes audit rows off the request path. Events are dropped
// when the queue is full; audit never fails a request.
type Dispatcher struct {
	logger *Logger
	queue  chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			slog.Error("audit write failed", "action", ev.Action, "entity", ev.Entity, "error", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		slog.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains pending events. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

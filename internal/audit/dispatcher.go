package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Event struct {
	TenantID    uint
	PrincipalID string
	Action      string
	Entity      string
	EntityID    *uint
	Metadata    any
	At          time.Time
}

// Sink receives every dispatched event.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	log   *zap.Logger
	sinks []Sink
	queue chan Event

	mu     sync.RWMutex
	closed bool
	once   sync.Once
	done   chan struct{}
}

func NewDispatcher(log *zap.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		log:   log,
		sinks: sinks,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Write(ctx, ev); err != nil {
				d.log.Warn("audit sink failed",
					zap.String("action", ev.Action),
					zap.Uint("tenant_id", ev.TenantID),
					zap.Error(err),
				)
			}
			cancel()
		}
	}
}

// Dispatch never blocks the request path. A full queue drops the event,
// and so does a closed dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("audit dispatcher closed, dropping event", zap.String("action", ev.Action))
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	<-d.done
}

package audit

import (
	"context"
	"sync"
)

// Recorder keeps events in memory. Tests use it as a sink.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Write(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Actions() []string {
	var out []string
	for _, ev := range r.Events() {
		out = append(out, ev.Action)
	}
	return out
}

package event

import (
	"context"
	"sync"
)

type Emitter interface {
	Emit(ctx context.Context, e Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(ctx context.Context, e Event)

func (f EmitterFunc) Emit(ctx context.Context, e Event) {
	f(ctx, e)
}

// Dispatcher delivers each event to all subscribers, synchronously and in the subscription order.
type Dispatcher struct {
	lock        sync.RWMutex
	subscribers []Emitter
}

func NewDispatcher(subscribers ...Emitter) *Dispatcher {
	return &Dispatcher{subscribers: subscribers}
}

func (d *Dispatcher) Subscribe(s Emitter) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.subscribers = append(d.subscribers, s)
}

func (d *Dispatcher) Emit(ctx context.Context, e Event) {
	d.lock.RLock()
	subscribers := d.subscribers
	d.lock.RUnlock()
	for _, s := range subscribers {
		s.Emit(ctx, e)
	}
}

// Recorder stores all events, it is used in tests and for the final summary.
type Recorder struct {
	lock   sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, e Event) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Kinds() []string {
	events := r.Events()
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind())
	}
	return out
}

func (r *Recorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = nil
}

// Filter returns recorded events of the type T.
func Filter[T Event](r *Recorder) []T {
	var out []T
	for _, e := range r.Events() {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

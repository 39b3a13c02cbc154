/*
Package notify provides NotificationPort implementations.

PURPOSE:
  The engine returns events; something still has to deliver them. This
  package holds the delivery-side adapters: a log notifier for dev, a
  fan-out over several ports, and an in-memory recorder for tests.

  Dispatch happens AFTER the engine transaction has committed, so a
  delivery failure never rolls back a state change. The event log inside
  the store keeps the authoritative record for retries.

SEE ALSO:
  - lifecycle/events.go: Event model and the NotificationPort interface
*/
package notify

import (
	"context"
	"log"
	"sync"

	"github.com/rapidhr/lifecycle-engine/lifecycle"
)

// =============================================================================
// LOG NOTIFIER
// =============================================================================

// Logger writes each event to the standard logger. The dev default.
type Logger struct{}

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) Dispatch(_ context.Context, events []lifecycle.Event) error {
	for _, ev := range events {
		log.Printf("[Notify] %s employee=%s payload=%v", ev.Type, ev.EmployeeID, ev.Payload)
	}
	return nil
}

// =============================================================================
// FAN-OUT
// =============================================================================

// FanOut dispatches to every port in order. The first error stops the
// fan-out and is returned; earlier ports have already been notified.
type FanOut struct {
	ports []lifecycle.NotificationPort
}

func NewFanOut(ports ...lifecycle.NotificationPort) *FanOut {
	return &FanOut{ports: ports}
}

func (f *FanOut) Dispatch(ctx context.Context, events []lifecycle.Event) error {
	for _, p := range f.ports {
		if err := p.Dispatch(ctx, events); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// RECORDER - For tests
// =============================================================================

// Recorder keeps every dispatched event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []lifecycle.Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Dispatch(_ context.Context, events []lifecycle.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

// Events returns a copy of everything dispatched so far.
func (r *Recorder) Events() []lifecycle.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]lifecycle.Event{}, r.events...)
}

// OfType filters recorded events by type.
func (r *Recorder) OfType(t lifecycle.EventType) []lifecycle.Event {
	var out []lifecycle.Event
	for _, ev := range r.Events() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// Package events publishes ticket lifecycle events for downstream
// integrations (chat notifications, CRM sync).
package events

import (
	"context"
	"sync"
	"time"
)

// Event types.
const (
	TicketCreated       = "ticket.created"
	TicketStatusChanged = "ticket.status_changed"
	TicketAssigned      = "ticket.assigned"
	TicketDeleted       = "ticket.deleted"
)

// Event is one ticket lifecycle change.
type Event struct {
	Type       string    `json:"type"`
	RequestID  string    `json:"requestId"`
	UserID     string    `json:"userId,omitempty"`
	Status     string    `json:"status,omitempty"`
	Priority   string    `json:"priority,omitempty"`
	Title      string    `json:"request,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Recorder is an in-memory Publisher for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error // returned by Publish when set
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the events published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the type of every published event, in order.
func (r *Recorder) Types() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}

// Package noop provides publishers that don't leave the process.
package noop

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/customer-ledger/internal/interfaces"
)

// Publisher drops every event. Used when no event bus is configured.
type Publisher struct{}

func (Publisher) Publish(ctx context.Context, topic string, event any) error { return nil }

func (Publisher) Close() error { return nil }

// Message is one event seen by a Recorder
type Message struct {
	Topic string
	Event any
}

// Recorder keeps every published event in memory
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error // returned from Publish when set
}

func (r *Recorder) Publish(ctx context.Context, topic string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, Message{Topic: topic, Event: event})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Messages returns a copy of everything recorded so far
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]Message, len(r.messages))
	copy(copied, r.messages)
	return copied
}

var (
	_ interfaces.EventPublisher = Publisher{}
	_ interfaces.EventPublisher = (*Recorder)(nil)
)

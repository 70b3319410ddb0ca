package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/authguard/internal/domain/event"
)

// Publisher records published envelopes in memory. Used by the
// "memory" driver and by tests to assert on emitted events.
type Publisher struct {
	mu     sync.Mutex
	events []event.Envelope
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, env event.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, env)
	return nil
}

// Events returns a snapshot of everything published so far.
func (p *Publisher) Events() []event.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Envelope, len(p.events))
	copy(out, p.events)
	return out
}

// Named returns the envelopes of a single event type, in order.
func (p *Publisher) Named(name string) []event.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Envelope
	for _, env := range p.events {
		if env.EventType == name {
			out = append(out, env)
		}
	}
	return out
}

var _ event.Publisher = (*Publisher)(nil)

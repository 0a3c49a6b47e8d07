package nats

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	interfaces "github.com/sheikh-saqib/customer-ledger/internal/interfaces"
)

// Publisher sends ledger events as NATS messages, the topic is the subject
type Publisher struct {
	nc *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{nc: nc}, nil
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.nc.Publish(topic, data)
}

// Close flushes pending messages before closing the connection
func (p *Publisher) Close() error {
	return p.nc.Drain()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)

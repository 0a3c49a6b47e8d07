package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	interfaces "github.com/sheikh-saqib/customer-ledger/internal/interfaces"
)

// Publisher sends ledger events over Redis pub/sub, the topic is the channel name
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(addr string) *Publisher {
	return &Publisher{
		rdb: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

// Ping checks the connection once at startup
func (p *Publisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.rdb.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)

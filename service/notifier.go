package service

import (
	"context"
	"encoding/json"

	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// Notifier fans order status changes out to pickup-desk screens.
type Notifier interface {
	Publish(ctx context.Context, event model.OrderStatusEvent) error
}

func OrderChannel(orderCode string) string {
	return "order:" + orderCode
}

type RedisNotifier struct {
	client redis.UniversalClient
}

func NewRedisNotifier(client redis.UniversalClient) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Publish(ctx context.Context, event model.OrderStatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encode order event")
	}
	if err := n.client.Publish(ctx, OrderChannel(event.OrderCode), payload).Err(); err != nil {
		return errors.Wrap(err, "publish order event")
	}
	return nil
}

// Subscribe listens on the order's channel; the caller closes the PubSub.
func (n *RedisNotifier) Subscribe(ctx context.Context, orderCode string) *redis.PubSub {
	return n.client.Subscribe(ctx, OrderChannel(orderCode))
}

// Watch subscribes to the order's channel and waits for Redis to confirm the
// subscription, so anything published after it returns is delivered.
func (n *RedisNotifier) Watch(ctx context.Context, orderCode string) (*redis.PubSub, error) {
	pubsub := n.client.Subscribe(ctx, OrderChannel(orderCode))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, errors.Wrap(err, "subscribe order events")
	}
	return pubsub, nil
}

type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, model.OrderStatusEvent) error { return nil }

// Package redisfeed implements the order change feed over Redis pub/sub.
// Every service instance publishes committed order changes to one channel
// and subscribes to the same channel, so sessions connected to any
// instance observe writes made through every other instance.
package redisfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the Redis channel carrying order changes.
const DefaultChannel = "order_changes"

// changeMessage is the wire form of ports.OrderChange.
type changeMessage struct {
	Kind       string `json:"kind"`
	OrderID    string `json:"orderId"`
	SellerID   string `json:"sellerId"`
	CityID     string `json:"cityId"`
	ClientName string `json:"clientName"`
	PrevStatus int    `json:"prevStatus"`
	NewStatus  int    `json:"newStatus"`
	DeliveryID string `json:"deliveryId,omitempty"`
	OccurredAt int64  `json:"occurredAt"`
}

// Feed implements ports.ChangeFeedPublisher and ports.ChangeFeedSubscriber
// over one Redis connection.
type Feed struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewFeed connects to Redis and verifies the connection with a ping.
func NewFeed(addr, password string, db int, logger *slog.Logger) (*Feed, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Feed{
		client:  client,
		channel: DefaultChannel,
		logger:  logger.With("component", "redisfeed"),
	}, nil
}

// Publish serializes the change and publishes it to the feed channel.
func (f *Feed) Publish(ctx context.Context, change ports.OrderChange) error {
	msg := changeMessage{
		Kind:       string(change.Kind),
		OrderID:    change.OrderID.String(),
		SellerID:   change.SellerID.String(),
		CityID:     change.CityID,
		ClientName: change.ClientName,
		PrevStatus: int(change.PrevStatus),
		NewStatus:  int(change.NewStatus),
		OccurredAt: change.OccurredAt.Unix(),
	}
	if change.DeliveryID != nil {
		msg.DeliveryID = change.DeliveryID.String()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal order change: %w", err)
	}

	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish order change: %w", err)
	}

	return nil
}

// Subscribe delivers the stream of order changes. Malformed payloads are
// logged and skipped rather than terminating the stream. The returned
// channel closes when ctx is cancelled.
func (f *Feed) Subscribe(ctx context.Context) (<-chan ports.OrderChange, error) {
	sub := f.client.Subscribe(ctx, f.channel)

	// Force the subscription to be established before returning so callers
	// never miss changes published right after Subscribe.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", f.channel, err)
	}

	out := make(chan ports.OrderChange)
	go func() {
		defer close(out)
		defer func() {
			_ = sub.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				change, err := f.decode(msg.Payload)
				if err != nil {
					f.logger.Warn("dropping malformed change message", "error", err)
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Close closes the Redis connection.
func (f *Feed) Close() error {
	return f.client.Close()
}

func (f *Feed) decode(payload string) (ports.OrderChange, error) {
	var msg changeMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return ports.OrderChange{}, err
	}

	orderID, err := kernel.ParseOrderID(msg.OrderID)
	if err != nil {
		return ports.OrderChange{}, err
	}
	sellerID, err := kernel.UUIDFromString(msg.SellerID)
	if err != nil {
		return ports.OrderChange{}, err
	}

	change := ports.OrderChange{
		Kind:       ports.OrderChangeKind(msg.Kind),
		OrderID:    orderID,
		SellerID:   sellerID,
		CityID:     msg.CityID,
		ClientName: msg.ClientName,
		PrevStatus: order.Status(msg.PrevStatus),
		NewStatus:  order.Status(msg.NewStatus),
		OccurredAt: time.Unix(msg.OccurredAt, 0),
	}
	if msg.DeliveryID != "" {
		id, idErr := kernel.UUIDFromString(msg.DeliveryID)
		if idErr != nil {
			return ports.OrderChange{}, idErr
		}
		change.DeliveryID = &id
	}

	return change, nil
}

// Package service coordinates reference data refreshes: reload the local
// snapshot, drop cached responses, and tell the other instances.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/flight-explorer/internal/queue"
)

// AMQPPublisher publishes refresh events to a fanout exchange.  Each publish
// dials its own connection; refreshes are rare operator actions.
type AMQPPublisher struct {
	URL      string
	Exchange string
}

// PublishRefreshRequested sends ev as a persistent JSON message.
func (p AMQPPublisher) PublishRefreshRequested(ctx context.Context, ev queue.RefreshRequestedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := queue.DeclareExchange(ch, p.Exchange); err != nil {
		return fmt.Errorf("rabbitmq: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, p.Exchange, "", false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

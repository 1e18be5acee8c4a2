package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RefreshHandler applies a refresh event from another instance.
type RefreshHandler func(ctx context.Context, ev RefreshRequestedEvent) error

// ConsumerOptions configures StartRefreshConsumer.
type ConsumerOptions struct {
	URL      string
	Exchange string
	Instance string // this instance's id; events it published are skipped
}

// StartRefreshConsumer binds a private queue to the fanout exchange and
// hands every foreign event to handle.  It reconnects with exponential
// backoff until ctx is cancelled, then returns ctx.Err().
func StartRefreshConsumer(ctx context.Context, o ConsumerOptions, handle RefreshHandler) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(o.URL)
		if err != nil {
			log.Printf("refresh-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, o, handle)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("refresh-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, o ConsumerOptions, handle RefreshHandler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := DeclareExchange(ch, o.Exchange); err != nil {
		return err
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", o.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	msgs, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Printf("refresh-consumer: listening on %s", o.Exchange)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := dispatch(ctx, d.Body, o.Instance, handle); err != nil {
				log.Printf("refresh-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// dispatch decodes body and calls handle unless the event came from self.
func dispatch(ctx context.Context, body []byte, self string, handle RefreshHandler) error {
	ev, err := decodeRefreshRequested(body)
	if err != nil {
		return err
	}
	if ev.Origin == self {
		return nil
	}
	return handle(ctx, ev)
}

// DeclareExchange declares the durable fanout exchange refresh events go
// through.  Publisher and consumer both call it.
func DeclareExchange(ch *amqp.Channel, name string) error {
	if err := ch.ExchangeDeclare(name, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare %s: %w", name, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys for booking events
const (
	BookingCreated = "booking.created"
	BookingUpdated = "booking.updated"
)

// BookingEvent is published after a booking write commits
type BookingEvent struct {
	Key            string    `json:"-"`
	BookingID      int       `json:"bookingId"`
	UserID         int       `json:"userId"`
	RoomID         int       `json:"roomId"`
	PreviousRoomID *int      `json:"previousRoomId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends JSON messages to a topic exchange
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// NewPublisher dials the broker and declares the exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishJSON marshals v and publishes it under the given routing key
func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
	})
}

// PublishBookingEvent publishes a booking event under its own routing key
func (p *Publisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	if event.Key == "" {
		return fmt.Errorf("booking event %d has no routing key", event.BookingID)
	}
	return p.PublishJSON(ctx, event.Key, event)
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

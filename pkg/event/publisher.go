package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dhis2-sre/im-calendar/pkg/model"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type ChangeKind string

const (
	Created ChangeKind = "created"
	Updated ChangeKind = "updated"
	Deleted ChangeKind = "deleted"
)

// RoutingKey is the key a change of this kind is published with.
func (k ChangeKind) RoutingKey() string {
	return "event." + string(k)
}

// Change is published whenever an event is created, updated or deleted. Event is nil for
// deletions.
type Change struct {
	Kind       ChangeKind     `json:"kind"`
	ID         uuid.UUID      `json:"id"`
	Event      *EventResponse `json:"event,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// AMQPPublisher publishes changes as persistent JSON messages to a topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher connects to RabbitMQ at uri and declares the durable topic exchange changes are
// published to.
func NewAMQPPublisher(uri, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %v", err)
	}

	err = channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %v", exchange, err)
	}

	return &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, change Change) error {
	body, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal %s change: %v", change.Kind, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, change.Kind.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    change.ID.String(),
		Timestamp:    change.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s change for event %q: %v", change.Kind, change.ID, err)
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		_ = p.conn.Close()
		return fmt.Errorf("failed to close RabbitMQ channel: %v", err)
	}
	return p.conn.Close()
}

func newChange(kind ChangeKind, id uuid.UUID, event *model.Event) Change {
	change := Change{
		Kind:       kind,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
	if event != nil {
		response := ToResponse(*event)
		change.Event = &response
	}
	return change
}

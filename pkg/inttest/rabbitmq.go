package inttest

import (
	"fmt"
	"testing"

	"github.com/orlangure/gnomock"
	"github.com/orlangure/gnomock/preset/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

// SetupRabbitMQ creates a RabbitMQ container returning an AMQP client ready to send and receive
// messages.
func SetupRabbitMQ(t *testing.T) *AMQPClient {
	t.Helper()

	container, err := gnomock.Start(
		rabbitmq.Preset(
			rabbitmq.WithUser("calendar", "calendar"),
		),
	)
	require.NoError(t, err, "failed to start RabbitMQ")
	t.Cleanup(func() { require.NoError(t, gnomock.Stop(container), "failed to stop RabbitMQ") })

	URI := fmt.Sprintf(
		"amqp://%s:%s@%s",
		"calendar", "calendar",
		container.DefaultAddress(),
	)
	conn, err := amqp.Dial(URI)
	require.NoErrorf(t, err, "failed to connect to RabbitMQ at %q", URI)
	t.Cleanup(func() {
		require.NoError(t, conn.Close(), "failed to close connection to RabbitMQ")
	})

	ch, err := conn.Channel()
	require.NoError(t, err, "failed to open channel to RabbitMQ")

	return &AMQPClient{Channel: ch, URI: URI}
}

// AMQPClient allows making requests to RabbitMQ via the github.com/rabbitmq/amqp091-go library.
type AMQPClient struct {
	Channel *amqp.Channel
	URI     string
}

// Bind declares an exclusive queue bound to the topic exchange with the given routing key and
// returns the deliveries consumed from it. The exchange is declared if it does not exist.
func (a *AMQPClient) Bind(t *testing.T, exchange, key string) <-chan amqp.Delivery {
	t.Helper()

	err := a.Channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	require.NoErrorf(t, err, "failed to declare exchange %q", exchange)

	queue, err := a.Channel.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err, "failed to declare queue")

	err = a.Channel.QueueBind(queue.Name, key, exchange, false, nil)
	require.NoErrorf(t, err, "failed to bind queue to exchange %q with key %q", exchange, key)

	deliveries, err := a.Channel.Consume(queue.Name, "", true, true, false, false, nil)
	require.NoErrorf(t, err, "failed to consume from queue %q", queue.Name)

	return deliveries
}

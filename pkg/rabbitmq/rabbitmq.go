package rabbitmq

import (
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

const (
	// ProductsExchange is the topic exchange product lifecycle events go to.
	ProductsExchange = "products"
	// ProductEventsQueue collects every product.* event for downstream
	// consumers (search indexing, notifications).
	ProductEventsQueue = "product_events"
	// productEventsBinding routes all product lifecycle keys into the queue.
	productEventsBinding = "product.*"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the products
// exchange together with its event queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare the topic exchange lifecycle events are published to.
	err = ch.ExchangeDeclare(
		ProductsExchange, // name
		"topic",          // type
		true,             // durable
		false,            // auto-deleted
		false,            // internal
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s exchange: %w", ProductsExchange, err)
	}

	// Declare the event queue and bind every product.* routing key to it.
	_, err = ch.QueueDeclare(
		ProductEventsQueue, // name
		true,               // durable (persists messages across broker restarts)
		false,              // delete when unused
		false,              // exclusive (only one connection can use it)
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", ProductEventsQueue, err)
	}

	err = ch.QueueBind(
		ProductEventsQueue,   // queue name
		productEventsBinding, // routing key pattern
		ProductsExchange,     // exchange
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind %s queue: %w", ProductEventsQueue, err)
	}

	log.Printf("RabbitMQ client connected, %s exchange and %s queue declared.", ProductsExchange, ProductEventsQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a pre-marshaled JSON event to the given exchange with the
// given routing key. The message is persistent so broker restarts do not
// drop moderation history.
func (c *Client) Publish(exchange, routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err := c.channel.Publish(
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory: if true, returns message if it cannot be routed
		false,      // immediate: if true, returns message if it cannot be delivered to any consumer
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Make message persistent
			Timestamp:    time.Now(),
		})

	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent %s event: %s", routingKey, body)
	return nil
}

// ConsumeProductEvents starts a goroutine that feeds every queued product
// event to messageHandler. Messages are acked only after the handler
// succeeds; failures are nacked back onto the queue.
func (c *Client) ConsumeProductEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		ProductEventsQueue, // queue
		"",                 // consumer tag: unique identifier for the consumer
		false,              // auto-ack: set to false to manually acknowledge messages
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,                // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for product events. To exit press CTRL+C")

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
				// Requeue so a transient failure gets another attempt.
				if requeueErr := msg.Nack(false, true); requeueErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, requeueErr)
				}
			} else {
				if ackErr := msg.Ack(false); ackErr != nil {
					log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
				}
			}
		}
	}()

	return nil
}

// LogProductEvent is the default consumer handler: it records the event in
// the service log. Deployments with a search index or notification fanout
// replace it with their own handler.
func LogProductEvent(msg amqp.Delivery) error {
	log.Printf("Product event %s: %s", msg.RoutingKey, string(msg.Body))
	return nil
}

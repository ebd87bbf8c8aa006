package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/RileyK05/basic-crm/internal/metrics"
)

// LifetimeValueJob asks the worker to recompute one customer's lifetime value
type LifetimeValueJob struct {
	CustomerID int `json:"customer_id"`
}

// Publisher publishes lifetime value jobs to RabbitMQ
type Publisher struct {
	conn      *Connection
	queueName string
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	return nil
}

// NewPublisher declares the queue and returns a publisher for it
func NewPublisher(conn *Connection, queueName string) (*Publisher, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if err := declareQueue(ch, queueName); err != nil {
		return nil, err
	}

	return &Publisher{conn: conn, queueName: queueName}, nil
}

// PublishRecalculation enqueues a persistent lifetime value job for customerID
func (p *Publisher) PublishRecalculation(ctx context.Context, customerID int) (err error) {
	defer func() { metrics.RecordPublish(err) }()

	body, err := json.Marshal(LifetimeValueJob{CustomerID: customerID})
	if err != nil {
		return fmt.Errorf("failed to marshal lifetime value job: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	err = ch.PublishWithContext(
		ctx,
		"",          // default exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish lifetime value job: %w", err)
	}
	return nil
}

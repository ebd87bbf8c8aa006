package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/metrics"
)

// JobHandler processes one lifetime value job. Returning an error requeues it.
type JobHandler func(ctx context.Context, job *LifetimeValueJob) error

type outcome string

const (
	outcomeAck   outcome = "ok"
	outcomeRetry outcome = "retry"
	outcomeDrop  outcome = "malformed"
)

// Consumer consumes lifetime value jobs one at a time
type Consumer struct {
	conn      *Connection
	queueName string
	handler   JobHandler
	logger    *zap.Logger
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewConsumer declares the queue and returns a consumer for it
func NewConsumer(conn *Connection, queueName string, handler JobHandler, logger *zap.Logger) (*Consumer, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if err := declareQueue(ch, queueName); err != nil {
		return nil, err
	}

	return &Consumer{
		conn:      conn,
		queueName: queueName,
		handler:   handler,
		logger:    logger.Named("consumer"),
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}, nil
}

// Start begins consuming in a background goroutine
func (c *Consumer) Start(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		defer close(c.doneChan)

		for {
			select {
			case <-c.stopChan:
				c.logger.Info("Consumer stopping")
				return
			case d, ok := <-msgs:
				if !ok {
					c.logger.Warn("Delivery channel closed")
					return
				}
				c.settle(d, c.process(ctx, d.Body))
			}
		}
	}()

	c.logger.Info("Consumer started", zap.String("queue", c.queueName))
	return nil
}

func (c *Consumer) settle(d amqp.Delivery, result outcome) {
	var err error
	switch result {
	case outcomeAck:
		err = d.Ack(false)
	case outcomeRetry:
		err = d.Nack(false, true)
	case outcomeDrop:
		err = d.Nack(false, false)
	}
	if err != nil {
		c.logger.Error("Failed to settle delivery", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(err))
	}
}

// process decodes and handles one message body. Undecodable bodies are
// dropped since redelivery cannot fix them.
func (c *Consumer) process(ctx context.Context, body []byte) outcome {
	var job LifetimeValueJob
	if err := json.Unmarshal(body, &job); err != nil || job.CustomerID <= 0 {
		c.logger.Error("Dropping malformed lifetime value job", zap.ByteString("body", body), zap.Error(err))
		metrics.RecordJob(string(outcomeDrop))
		return outcomeDrop
	}

	if err := c.handler(ctx, &job); err != nil {
		c.logger.Warn("Lifetime value job failed, requeueing",
			zap.Int("customer_id", job.CustomerID),
			zap.Error(err),
		)
		metrics.RecordJob(string(outcomeRetry))
		return outcomeRetry
	}

	metrics.RecordJob(string(outcomeAck))
	return outcomeAck
}

// Stop stops consuming and waits for the in-flight job to finish
func (c *Consumer) Stop() error {
	close(c.stopChan)
	<-c.doneChan

	c.logger.Info("Consumer stopped")
	return nil
}

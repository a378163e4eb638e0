package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	"jengamart/internal/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher owns a channel on the managed connection and declares queues
// lazily, once each.
type Publisher struct {
	cm       *ConnectionManager
	ctx      context.Context
	mu       sync.Mutex
	channel  *amqp.Channel
	declared map[string]bool
}

func NewPublisher(ctx context.Context, cm *ConnectionManager) (*Publisher, error) {
	p := &Publisher{
		cm:       cm,
		ctx:      ctx,
		declared: make(map[string]bool),
	}

	if err := p.ensureChannel(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Publisher) ensureChannel() error {
	if p.channel != nil && !p.channel.IsClosed() {
		return nil
	}

	conn := p.cm.GetConnection()
	if conn == nil {
		return fmt.Errorf("no rabbitmq connection available")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	p.channel = ch
	return nil
}

func (p *Publisher) ensureQueue(queueName string, cfg *QueueConfig) error {
	if p.declared[queueName] {
		return nil
	}
	if cfg == nil {
		cfg = DefaultQueueConfig()
	}

	_, err := p.channel.QueueDeclare(
		queueName,
		cfg.Durable,
		cfg.AutoDelete,
		cfg.Exclusive,
		cfg.NoWait,
		cfg.Args,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	p.declared[queueName] = true
	return nil
}

// Publish sends an event envelope to the named queue. The pattern tells
// subscribers what kind of event the payload is.
func (p *Publisher) Publish(queueName, pattern string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}
	if err := p.ensureQueue(queueName, nil); err != nil {
		return err
	}

	msg, err := NewMessage(payload, nil)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	err = p.channel.PublishWithContext(
		p.ctx,
		"",
		queueName,
		false,
		false,
		*msg.GeneratePubsubPayload(pattern),
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	logger.Debug.Printf("Published %s to %s (id=%s)", pattern, queueName, msg.ID)
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel.Close()
	}
	return nil
}

package messaging

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

const ExchangeType = "topic"

// AMQPChannel is the part of *amqp.Channel the publisher needs.
type AMQPChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitMQPublisher struct {
	conn     *amqp.Connection
	ch       AMQPChannel
	exchange string
}

// DialRabbitMQ connects to url and declares exchange as a durable topic
// exchange.
func DialRabbitMQ(url, exchange string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	p := NewRabbitMQPublisher(ch, exchange)
	p.conn = conn
	return p, nil
}

func NewRabbitMQPublisher(ch AMQPChannel, exchange string) *RabbitMQPublisher {
	return &RabbitMQPublisher{ch: ch, exchange: exchange}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event domain.StockEvent) error {
	body, err := encodeEvent(event)
	if err != nil {
		return fmt.Errorf("could not marshal stock event: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		p.exchange,        // exchange
		routingKey(event), // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.RequestID,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
}

func (p *RabbitMQPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

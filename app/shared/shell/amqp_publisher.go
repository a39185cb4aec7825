package shell

import (
	"context"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeKindTopic   = "topic"
	contentTypeJSON     = "application/json"
	logMsgAMQPConnected = "amqp publisher connected"
	logAttrExchange     = "exchange"
)

var eventJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// amqpChannel is the subset of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes circulation events as JSON to a durable topic exchange.
// A nil *AMQPPublisher is valid and drops every event.
type AMQPPublisher struct {
	conn             *amqp.Connection
	ch               amqpChannel
	exchange         string
	logger           Logger
	contextualLogger ContextualLogger
}

// AMQPPublisherOption configures an AMQPPublisher.
type AMQPPublisherOption func(*AMQPPublisher)

// WithPublisherLogger sets the logger publish failures are reported to.
func WithPublisherLogger(logger Logger) AMQPPublisherOption {
	return func(p *AMQPPublisher) {
		p.logger = logger
	}
}

// WithPublisherContextualLogger sets the contextual logger publish failures are reported to.
func WithPublisherContextualLogger(logger ContextualLogger) AMQPPublisherOption {
	return func(p *AMQPPublisher) {
		p.contextualLogger = logger
	}
}

// DialAMQPPublisher connects to url and declares the exchange.
func DialAMQPPublisher(url, exchange string, opts ...AMQPPublisherOption) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err = ch.ExchangeDeclare(exchange, exchangeKindTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	p := newAMQPPublisher(ch, exchange, opts...)
	p.conn = conn

	logInfo(context.Background(), p.logger, p.contextualLogger, logMsgAMQPConnected, logAttrExchange, exchange)

	return p, nil
}

func newAMQPPublisher(ch amqpChannel, exchange string, opts ...AMQPPublisherOption) *AMQPPublisher {
	p := &AMQPPublisher{ch: ch, exchange: exchange}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Publish sends every event; a failing event is logged and does not stop the others.
func (p *AMQPPublisher) Publish(ctx context.Context, events ...CirculationEvent) {
	if p == nil || p.ch == nil {
		return
	}

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			logWarn(ctx, p.logger, p.contextualLogger, LogMsgPublishFailed,
				LogAttrRoutingKey, event.RoutingKey,
				LogAttrError, err.Error(),
			)
		}
	}
}

func (p *AMQPPublisher) publish(ctx context.Context, event CirculationEvent) error {
	body, err := eventJSON.Marshal(event)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx, p.exchange, event.RoutingKey, false, false, amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt,
		Type:         event.RoutingKey,
		Body:         body,
	})
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() {
	if p == nil {
		return
	}

	if p.ch != nil {
		_ = p.ch.Close()
	}

	if p.conn != nil {
		_ = p.conn.Close()
	}
}

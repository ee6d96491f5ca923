package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const DefaultExchange = "resume-screener"

// Config enables the AMQP publisher. The URL may embed credentials and is
// resolved through the secrets loader.
type Config struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	URL        string `mapstructure:"url" yaml:"url,omitempty" json:"-"`
	URLFile    string `mapstructure:"url-file" yaml:"url-file,omitempty"`
	URLKeyring string `mapstructure:"url-keyring" yaml:"url-keyring,omitempty"`
	Exchange   string `mapstructure:"exchange" yaml:"exchange"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends events to a durable topic exchange, routed by event type.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *zap.Logger
}

// DialAMQP connects and declares the exchange.
func DialAMQP(url, exchange string, logger *zap.Logger) (*AMQPPublisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("amqp url is required")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening amqp channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}

	logger.Info("publishing events", zap.String("exchange", exchange))

	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		e.Type,     // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    e.ID,
			Timestamp:    e.OccurredAt,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing %s: %w", e.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// Logged wraps a publisher so that failures are logged instead of returned.
type Logged struct {
	Publisher
	logger *zap.Logger
}

func NewLogged(p Publisher, logger *zap.Logger) *Logged {
	return &Logged{Publisher: p, logger: logger}
}

func (l *Logged) Publish(ctx context.Context, e Event) error {
	if err := l.Publisher.Publish(ctx, e); err != nil {
		l.logger.Warn("event publish failed", zap.String("type", e.Type), zap.Error(err))
	}
	return nil
}

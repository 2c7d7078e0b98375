package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"saas_admin/internal/models"
	"saas_admin/internal/platform/logger"
)

// envelope is the message body written to the exchange.
type envelope struct {
	Event        string       `json:"event"`
	ResourceType string       `json:"resourceType"`
	AggregateID  string       `json:"aggregateId"`
	OccurredAt   time.Time    `json:"occurredAt"`
	Payload      models.Event `json:"payload"`
}

// AMQPPublisher writes each event to a durable topic exchange, keyed by event name.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *logger.Logger
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

func NewAMQPPublisher(amqpURL, exchange string, log *logger.Logger) (*AMQPPublisher, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	conn, err := amqp.DialConfig(cleanURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &AMQPPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		log:      log.With("component", "AMQPPublisher", "exchange", exchange),
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, evs []models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range evs {
		body, err := json.Marshal(envelope{
			Event:        e.EventName(),
			ResourceType: models.ResourceType(e),
			AggregateID:  e.AggregateID(),
			OccurredAt:   e.OccurredAt(),
			Payload:      e,
		})
		if err != nil {
			return fmt.Errorf("marshal %s: %w", e.EventName(), err)
		}
		msg := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    e.OccurredAt(),
			Type:         e.EventName(),
			Body:         body,
		}
		if err := p.channel.PublishWithContext(ctx, p.exchange, e.EventName(), false, false, msg); err != nil {
			p.log.Warn("publish failed, reopening channel", "event", e.EventName(), "error", err)
			// one retry on a fresh channel
			ch, chErr := p.conn.Channel()
			if chErr != nil {
				return fmt.Errorf("publish %s: %w", e.EventName(), err)
			}
			p.channel.Close()
			p.channel = ch
			if err := p.channel.PublishWithContext(ctx, p.exchange, e.EventName(), false, false, msg); err != nil {
				return fmt.Errorf("publish %s: %w", e.EventName(), err)
			}
		}
		p.log.Debug("published event", "event", e.EventName(), "aggregate_id", e.AggregateID())
	}
	return nil
}

func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

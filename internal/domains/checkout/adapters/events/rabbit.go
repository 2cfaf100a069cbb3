package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/amushan/portal-storefront/internal/domains/checkout/domain"
	"github.com/amushan/portal-storefront/internal/domains/checkout/ports"
)

const (
	ordersExchange = "storefront.orders"

	routingKeyConfirmed = "order.confirmed"
	routingKeyFailed    = "order.failed"

	eventNameConfirmed = "OrderConfirmed"
	eventNameFailed    = "OrderFailed"
)

var _ ports.EventListener = (*RabbitPublisher)(nil)

// envelope is the broker-level wrapper around submission outcome payloads.
type envelope struct {
	EventID    string          `json:"eventId"`
	EventName  string          `json:"eventName"`
	Producer   string          `json:"producer"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

type confirmedPayload struct {
	SessionKey  string `json:"sessionKey"`
	OrderID     string `json:"orderId"`
	TotalAmount int64  `json:"totalAmount"`
}

type failedPayload struct {
	SessionKey string `json:"sessionKey"`
	Message    string `json:"message"`
}

// RabbitPublisher forwards submission outcomes to a RabbitMQ topic
// exchange. Publish failures are logged, never surfaced to the
// coordinator: downstream consumers are best-effort observers.
type RabbitPublisher struct {
	ch       *amqp.Channel
	producer string
	logger   *slog.Logger
}

// NewRabbitPublisher opens a channel and declares the orders exchange.
func NewRabbitPublisher(conn *amqp.Connection, producer string, logger *slog.Logger) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare orders exchange: %w", err)
	}
	if producer == "" {
		producer = "storefront-api"
	}
	return &RabbitPublisher{ch: ch, producer: producer, logger: logger}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) OrderConfirmed(ctx context.Context, event domain.OrderConfirmed) {
	payload := confirmedPayload{
		SessionKey:  event.SessionKey,
		OrderID:     event.OrderID,
		TotalAmount: event.TotalAmount,
	}
	p.publish(ctx, eventNameConfirmed, routingKeyConfirmed, payload)
}

func (p *RabbitPublisher) OrderFailed(ctx context.Context, event domain.OrderFailed) {
	payload := failedPayload{SessionKey: event.SessionKey, Message: event.Message}
	p.publish(ctx, eventNameFailed, routingKeyFailed, payload)
}

func (p *RabbitPublisher) publish(ctx context.Context, eventName, routingKey string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		p.logPublishError(ctx, eventName, err)
		return
	}
	body, err := json.Marshal(envelope{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		Producer:   p.producer,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
	if err != nil {
		p.logPublishError(ctx, eventName, err)
		return
	}
	err = p.ch.PublishWithContext(ctx, ordersExchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		p.logPublishError(ctx, eventName, err)
	}
}

func (p *RabbitPublisher) logPublishError(ctx context.Context, eventName string, err error) {
	if p.logger == nil {
		return
	}
	p.logger.LogAttrs(ctx, slog.LevelError, "failed to publish order event",
		slog.String("event", eventName),
		slog.String("error", err.Error()),
	)
}

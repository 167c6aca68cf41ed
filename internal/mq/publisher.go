package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/nfa2dfa/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeSessionEvent        MessageType = "session.event"
	MessageTypeConversionCompleted MessageType = "conversion.completed"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// ConversionCompletedPayload — payload для сообщения о сохранённом построении.
type ConversionCompletedPayload struct {
	ConversionID uuid.UUID `json:"conversion_id"`
	AutomatonID  uuid.UUID `json:"automaton_id"`
	Status       string    `json:"status"` // SUCCEEDED или FAILED
	States       int       `json:"states"`
	Steps        int       `json:"steps"`
	Error        string    `json:"error,omitempty"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: deliveryMode(exchange),
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishSessionEvent публикует событие сессии.
// Ключ маршрутизации — тип события, чтобы наблюдатели могли
// подписываться по шаблону ("session.*", "animation.*").
func (p *Publisher) PublishSessionEvent(ctx context.Context, ev domain.SessionEvent) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeSessionEvent,
		Payload:   ev,
		Timestamp: ev.OccurredAt,
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	return p.Publish(ctx, ExchangeSessions, RoutingKey(ev.Type), msg)
}

// PublishConversionCompleted публикует итог сохранённого построения.
func (p *Publisher) PublishConversionCompleted(ctx context.Context, payload ConversionCompletedPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeConversionCompleted,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeConversions, RoutingKeyCompleted, msg)
}

// deliveryMode: события сессий эфемерны, итоги построений должны
// пережить рестарт брокера.
func deliveryMode(exchange Exchange) uint8 {
	if exchange == ExchangeSessions {
		return amqp.Transient
	}
	return amqp.Persistent
}

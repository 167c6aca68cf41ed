package mq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/nfa2dfa/internal/domain"
)

func TestParsePayload_SessionEvent(t *testing.T) {
	ev := domain.SessionEvent{
		Type:        domain.EventStep,
		SessionID:   uuid.New(),
		StepIndex:   3,
		Description: "δ({2}, b) = {3}",
		States:      4,
		Pending:     2,
		OccurredAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	// сообщение проходит через JSON так же, как через брокер
	body, err := json.Marshal(&Message{ID: "m1", Type: MessageTypeSessionEvent, Payload: ev})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, err := ParsePayload[domain.SessionEvent](&msg)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if got.SessionID != ev.SessionID || got.Type != ev.Type || got.StepIndex != 3 {
		t.Errorf("payload = %+v, want %+v", got, ev)
	}
	if !got.OccurredAt.Equal(ev.OccurredAt) {
		t.Errorf("occurred_at = %v, want %v", got.OccurredAt, ev.OccurredAt)
	}
}

func TestDeliveryMode(t *testing.T) {
	if got := deliveryMode(ExchangeSessions); got != amqp.Transient {
		t.Errorf("sessions delivery mode = %d, want transient", got)
	}
	if got := deliveryMode(ExchangeConversions); got != amqp.Persistent {
		t.Errorf("conversions delivery mode = %d, want persistent", got)
	}
}

func TestNewConsumer_Defaults(t *testing.T) {
	c := NewConsumer(nil, ConsumerConfig{Queue: QueueConversionsCompleted})
	if c.prefetch != 1 {
		t.Errorf("prefetch = %d, want 1", c.prefetch)
	}
	if c.logger == nil {
		t.Error("logger should default to slog.Default()")
	}
	if c.requeue {
		t.Error("requeue should be off by default")
	}
}

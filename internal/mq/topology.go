package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeSessions    Exchange = "nfa2dfa.sessions"
	ExchangeConversions Exchange = "nfa2dfa.conversions"
	ExchangeDLQ         Exchange = "nfa2dfa.dlq"
)

// Queues — имена очередей.
const (
	QueueConversionsCompleted Queue = "conversions.completed"
	QueueDLQConversions       Queue = "dlq.conversions"
)

// Routing keys.
const (
	RoutingKeyCompleted      RoutingKey = "completed"
	RoutingKeyDLQConversions RoutingKey = "conversions"

	// RoutingKeyAllSessions — все события сессий (topic).
	RoutingKeyAllSessions RoutingKey = "#"
)

// SetupTopology объявляет обменники, очереди и привязки.
// Повторный вызов безопасен: объявления идемпотентны.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareExchanges(ch); err != nil {
			return err
		}
		if err := declareQueues(ch); err != nil {
			return err
		}
		return bindQueues(ch)
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangeSessions, amqp.ExchangeTopic},
		{ExchangeConversions, amqp.ExchangeDirect},
		{ExchangeDLQ, amqp.ExchangeDirect},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

// declareQueues создаёт долговременные очереди.
// Очереди событий сессий не объявляются: их создаёт каждый наблюдатель
// (DeclareWatchQueue), события без наблюдателей отбрасываются.
func declareQueues(ch *amqp.Channel) error {
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQConversions),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		{QueueConversionsCompleted, dlqArgs},
		{QueueDLQConversions, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueConversionsCompleted, RoutingKeyCompleted, ExchangeConversions},
		{QueueDLQConversions, RoutingKeyDLQConversions, ExchangeDLQ},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}

// DeclareWatchQueue создаёт временную эксклюзивную очередь с именем
// от сервера и привязывает её к событиям сессий по pattern
// (например, "#" или "animation.*").
func DeclareWatchQueue(ctx context.Context, conn *Connection, pattern RoutingKey) (Queue, error) {
	if pattern == "" {
		pattern = RoutingKeyAllSessions
	}

	var name Queue
	err := conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		q, err := ch.QueueDeclare(
			"",    // name (назначит сервер)
			false, // durable
			true,  // delete when unused
			true,  // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare watch queue: %w", err)
		}

		if err := ch.QueueBind(q.Name, string(pattern), string(ExchangeSessions), false, nil); err != nil {
			return fmt.Errorf("bind watch queue %s: %w", q.Name, err)
		}

		name = Queue(q.Name)
		return nil
	})

	return name, err
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  nfa2dfa RabbitMQ Topology:

    nfa2dfa.sessions (topic)
    └── <exclusive watch queue> [routing: session.*, animation.*]
            Consumer: nfa2dfa watch

    nfa2dfa.conversions (direct)
    └── conversions.completed [routing: completed]
            DLQ: dlq.conversions

    nfa2dfa.dlq (direct)
    └── dlq.conversions [routing: conversions]
            Manual processing
  `
}

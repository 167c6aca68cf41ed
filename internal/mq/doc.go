// Package mq публикует события сессий построения в RabbitMQ
// и читает их обратно (команда watch).
//
// Структура:
//   - connection.go — соединение с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий сессий и итогов построения
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - session.event        — событие сессии (шаг, start/stop, complete, ...)
//   - conversion.completed — построение сохранено в БД
//
// Exchanges:
//   - nfa2dfa.sessions    — события сессий (topic, ключ = тип события)
//   - nfa2dfa.conversions — итоги построений
//   - nfa2dfa.dlq         — dead letter queue
package mq

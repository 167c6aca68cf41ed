package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType — тип события сессии построения.
type EventType string

const (
	// EventSessionCreated — сессия создана.
	EventSessionCreated EventType = "session.created"

	// EventStep — выполнен шаг построения.
	EventStep EventType = "session.step"

	// EventAnimationStarted — анимация запущена.
	EventAnimationStarted EventType = "animation.started"

	// EventAnimationStopped — анимация остановлена.
	EventAnimationStopped EventType = "animation.stopped"

	// EventCompleted — frontier пуст, DFA построен.
	EventCompleted EventType = "session.completed"

	// EventFailed — шаг завершился ошибкой.
	EventFailed EventType = "session.failed"

	// EventReset — сессия начата заново.
	EventReset EventType = "session.reset"

	// EventSessionDeleted — сессия удалена.
	EventSessionDeleted EventType = "session.deleted"
)

// SessionEvent — событие жизненного цикла сессии.
// Публикуется в RabbitMQ и читается командой watch.
type SessionEvent struct {
	// Type — тип события.
	Type EventType `json:"type"`

	// SessionID — сессия-источник.
	SessionID uuid.UUID `json:"session_id"`

	// StepIndex — номер шага для session.step.
	StepIndex int `json:"step_index,omitempty"`

	// Description — описание шага или текст ошибки.
	Description string `json:"description,omitempty"`

	// States — число состояний DFA на момент события.
	States int `json:"states"`

	// Pending — размер frontier на момент события.
	Pending int `json:"pending"`

	// OccurredAt — время события.
	OccurredAt time.Time `json:"occurred_at"`
}

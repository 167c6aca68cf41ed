package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Значения по умолчанию для Config.
const (
	DefaultSchedule = "@every 1m"
	DefaultIdleTTL  = 30 * time.Minute
)

// ErrNoSessions — в Config не задан Sessions.
var ErrNoSessions = errors.New("scheduler: sessions are required")

// Evictor удаляет простаивающие сессии. *session.Manager его реализует.
type Evictor interface {
	EvictIdle(idle time.Duration, now time.Time) []uuid.UUID
}

// Config — конфигурация Scheduler.
type Config struct {
	// Sessions — реестр сессий.
	Sessions Evictor

	// Schedule — cron-выражение или дескриптор (default: "@every 1m").
	Schedule string

	// IdleTTL — сколько сессия может простаивать (default: 30m).
	IdleTTL time.Duration

	// Logger (default: slog.Default()).
	Logger *slog.Logger
}

// Scheduler по расписанию удаляет сессии, к которым давно не обращались.
type Scheduler struct {
	sessions Evictor
	schedule cron.Schedule
	idleTTL  time.Duration
	logger   *slog.Logger
}

// New создаёт Scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Sessions == nil {
		return nil, ErrNoSessions
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	schedule, err := ParseSchedule(cfg.Schedule)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		sessions: cfg.Sessions,
		schedule: schedule,
		idleTTL:  cfg.IdleTTL,
		logger:   cfg.Logger,
	}, nil
}

// Tick выполняет одну очистку и возвращает число удалённых сессий.
func (s *Scheduler) Tick(now time.Time) int {
	evicted := s.sessions.EvictIdle(s.idleTTL, now)
	if len(evicted) == 0 {
		return 0
	}

	s.logger.Info("idle sessions evicted",
		"count", len(evicted),
		"idle_ttl", s.idleTTL,
	)
	return len(evicted)
}

// Run выполняет Tick по расписанию до отмены ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("session janitor started", "idle_ttl", s.idleTTL)

	for {
		now := time.Now()
		next := nextAfter(s.schedule, now)
		if next.IsZero() {
			s.logger.Warn("schedule has no further runs, janitor stopped")
			return nil
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case t := <-timer.C:
			s.Tick(t)
		}
	}
}

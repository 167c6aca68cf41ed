package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер расписаний: пять полей или дескриптор (@every 1m, @hourly).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule разбирает расписание очистки.
func ParseSchedule(expr string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", expr, err)
	}
	return schedule, nil
}

// nextAfter возвращает следующий запуск строго позже from.
// Для расписания, которое больше не сработает, возвращает нулевое время.
func nextAfter(schedule cron.Schedule, from time.Time) time.Time {
	next := schedule.Next(from)
	if !next.After(from) {
		return time.Time{}
	}
	return next
}

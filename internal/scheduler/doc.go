// Package scheduler очищает реестр сессий по расписанию.
//
// Сессии живут в памяти API. Scheduler по cron-расписанию удаляет
// те, к которым не обращались дольше IdleTTL; сессии с запущенной
// анимацией не трогаются.
//
// Структура:
//   - scheduler.go — Scheduler (Tick, Run)
//   - cron.go      — разбор расписания
//
// Использование:
//
//	janitor, err := scheduler.New(scheduler.Config{
//	    Sessions: sessions,      // *session.Manager
//	    Schedule: "@every 1m",
//	    IdleTTL:  30 * time.Minute,
//	    Logger:   logger,
//	})
//	if err != nil {
//	    return err
//	}
//	go janitor.Run(ctx)
package scheduler

// Package session хранит сессии пошагового построения DFA в памяти.
//
// Сессия — исходный NFA, Converter, Animator и журнал выполненных шагов.
// Все изменения построения идут через Animator, поэтому ручные шаги,
// complete и анимация по таймеру не выполняются одновременно.
//
// Порядок блокировок: Session.mu → Animator → progress.mu.
//
// События сессий (domain.SessionEvent) отправляются Publisher
// асинхронно: отдельная горутина Manager читает буферизованный канал,
// переполнение буфера отбрасывает событие с предупреждением в логе.
package session

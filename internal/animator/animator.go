package animator

import (
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/nfa2dfa/internal/converter"
	"github.com/shaiso/nfa2dfa/internal/domain"
)

// DefaultInterval — интервал между шагами по умолчанию.
const DefaultInterval = 500 * time.Millisecond

// Stepper — источник шагов построения. *converter.Converter его реализует.
type Stepper interface {
	StepForward() (*converter.Step, error)
}

// Renderer получает каждый выполненный шаг.
type Renderer interface {
	Render(step *converter.Step)
}

// RendererFunc — адаптер функции к Renderer.
type RendererFunc func(step *converter.Step)

// Render вызывает f(step).
func (f RendererFunc) Render(step *converter.Step) {
	f(step)
}

// EventType — тип уведомления аниматора.
type EventType string

const (
	// EventStart — анимация запущена (IDLE → RUNNING).
	EventStart EventType = "start"

	// EventStop — анимация остановлена пользователем (RUNNING → IDLE).
	EventStop EventType = "stop"

	// EventComplete — построение завершено, frontier пуст.
	EventComplete EventType = "complete"

	// EventStep — выполнен шаг (по таймеру или вручную).
	EventStep EventType = "step"

	// EventError — шаг завершился ошибкой, stepper больше не пригоден.
	EventError EventType = "error"
)

// Event — уведомление подписчику.
type Event struct {
	Type EventType

	// Step — выполненный шаг для EventStep.
	Step *converter.Step

	// Err — ошибка для EventError.
	Err error
}

// Listener получает уведомления синхронно и по порядку.
// Вызывается под блокировкой аниматора: вызывать из него
// методы Animator нельзя.
type Listener func(Event)

// Config — конфигурация Animator.
type Config struct {
	// Stepper — источник шагов (обязателен).
	Stepper Stepper

	// Renderer — получатель шагов (optional).
	Renderer Renderer

	// Interval — пауза между шагами (default: DefaultInterval).
	Interval time.Duration

	// Logger (default: slog.Default()).
	Logger *slog.Logger
}

type subscription struct {
	id int
	fn Listener
}

// Animator выполняет шаги построения по таймеру.
//
// В любой момент взведён не более чем один таймер. Каждый таймер
// помечен поколением; Stop увеличивает поколение под той же блокировкой,
// под которой выполняется тик, поэтому после возврата из Stop
// StepForward больше не вызывается.
type Animator struct {
	mu sync.Mutex

	stepper  Stepper
	renderer Renderer
	interval time.Duration
	logger   *slog.Logger

	status     domain.AnimationStatus
	generation uint64
	timer      *time.Timer

	listeners []subscription
	nextID    int
}

// New создаёт Animator в состоянии IDLE.
// Config без Stepper — ошибка программиста: New паникует.
func New(cfg Config) *Animator {
	if cfg.Stepper == nil {
		panic("animator: Config.Stepper is nil")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Renderer == nil {
		cfg.Renderer = RendererFunc(func(*converter.Step) {})
	}

	return &Animator{
		stepper:  cfg.Stepper,
		renderer: cfg.Renderer,
		interval: cfg.Interval,
		logger:   cfg.Logger,
		status:   domain.AnimationStatusIdle,
	}
}

// Subscribe регистрирует слушателя. Возвращает функцию отписки.
func (a *Animator) Subscribe(fn Listener) func() {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.listeners = append(a.listeners, subscription{id: id, fn: fn})

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, sub := range a.listeners {
			if sub.id == id {
				a.listeners = append(a.listeners[:i:i], a.listeners[i+1:]...)
				return
			}
		}
	}
}

// Status возвращает текущее состояние.
func (a *Animator) Status() domain.AnimationStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Interval возвращает паузу между шагами.
func (a *Animator) Interval() time.Duration {
	return a.interval
}

// Play запускает анимацию. Если она уже запущена, ничего не делает.
func (a *Animator) Play() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.start()
}

// Stop останавливает анимацию и отменяет взведённый таймер.
// Если анимация не запущена, ничего не делает.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.halt()
}

// Toggle переключает Play/Stop и возвращает новое состояние.
func (a *Animator) Toggle() domain.AnimationStatus {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status == domain.AnimationStatusRunning {
		a.halt()
	} else {
		a.start()
	}
	return a.status
}

// Step выполняет один шаг вручную. Запущенная анимация сначала
// останавливается. Возвращает (nil, nil), если построение завершено.
func (a *Animator) Step() (*converter.Step, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.halt()

	step, err := a.advance()
	if err != nil {
		a.emit(Event{Type: EventError, Err: err})
	}
	return step, err
}

// Complete выполняет все оставшиеся шаги. Запущенная анимация сначала
// останавливается. После последнего шага уведомляет EventComplete.
func (a *Animator) Complete() ([]*converter.Step, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.halt()

	var steps []*converter.Step
	for {
		step, err := a.advance()
		if err != nil {
			a.emit(Event{Type: EventError, Err: err})
			return steps, err
		}
		if step == nil {
			a.emit(Event{Type: EventComplete})
			return steps, nil
		}
		steps = append(steps, step)
	}
}

// start — Play под уже взятой блокировкой.
func (a *Animator) start() {
	if a.status == domain.AnimationStatusRunning {
		return
	}
	a.status = domain.AnimationStatusRunning
	a.logger.Debug("animation started", "interval", a.interval)
	a.emit(Event{Type: EventStart})
	a.arm()
}

// halt — Stop под уже взятой блокировкой.
func (a *Animator) halt() {
	if a.status != domain.AnimationStatusRunning {
		return
	}
	a.disarm()
	a.status = domain.AnimationStatusIdle
	a.logger.Debug("animation stopped")
	a.emit(Event{Type: EventStop})
}

// advance выполняет один шаг, передаёт его Renderer и слушателям.
// Об ошибке уведомляет вызывающий, после смены состояния.
func (a *Animator) advance() (*converter.Step, error) {
	step, err := a.stepper.StepForward()
	if err != nil {
		a.logger.Error("animation step failed", "error", err)
		return nil, err
	}
	if step == nil {
		return nil, nil
	}

	a.renderer.Render(step)
	a.emit(Event{Type: EventStep, Step: step})
	return step, nil
}

// arm взводит таймер текущего поколения.
func (a *Animator) arm() {
	gen := a.generation
	a.timer = time.AfterFunc(a.interval, func() {
		a.tick(gen)
	})
}

// disarm отменяет таймер и делает устаревшими все уже сработавшие.
func (a *Animator) disarm() {
	a.generation++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Animator) tick(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// таймер мог сработать одновременно со Stop
	if gen != a.generation || a.status != domain.AnimationStatusRunning {
		return
	}
	a.timer = nil

	step, err := a.advance()
	switch {
	case err != nil:
		a.disarm()
		a.status = domain.AnimationStatusIdle
		a.emit(Event{Type: EventError, Err: err})
	case step == nil:
		a.disarm()
		a.status = domain.AnimationStatusIdle
		a.logger.Debug("animation complete")
		a.emit(Event{Type: EventComplete})
	default:
		a.arm()
	}
}

func (a *Animator) emit(ev Event) {
	for _, sub := range a.listeners {
		sub.fn(ev)
	}
}

package session

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/nfa2dfa/internal/animator"
	"github.com/shaiso/nfa2dfa/internal/converter"
	"github.com/shaiso/nfa2dfa/internal/domain"
	"github.com/shaiso/nfa2dfa/internal/fsa"
	"github.com/shaiso/nfa2dfa/internal/telemetry"
)

// View — согласованное состояние сессии на момент вызова.
type View struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name,omitempty"`
	AutomatonID *uuid.UUID             `json:"automaton_id,omitempty"`
	Labels      converter.LabelScheme  `json:"labels"`
	IntervalMs  int64                  `json:"interval_ms"`
	Status      domain.AnimationStatus `json:"status"`
	Complete    bool                   `json:"complete"`
	Error       string                 `json:"error,omitempty"`
	Pending     int                    `json:"pending"`
	StepCount   int                    `json:"step_count"`
	LastStep    *converter.StepSummary `json:"last_step,omitempty"`
	NFA         *fsa.Snapshot          `json:"nfa"`
	DFA         *fsa.Snapshot          `json:"dfa"`
	CreatedAt   time.Time              `json:"created_at"`
}

// progress — то, что видно снаружи, пока построение идёт.
// Обновляется слушателем аниматора, читается View. Хранит только
// сводки шагов и последний DFA.
type progress struct {
	mu       sync.Mutex
	steps    []converter.StepSummary
	dfa      *fsa.FSA
	pending  int
	complete bool
	running  bool
	failure  string
}

// Session — одна сессия построения.
type Session struct {
	ID          uuid.UUID
	Name        string
	AutomatonID *uuid.UUID
	CreatedAt   time.Time

	source   *fsa.Snapshot
	nfa      *fsa.FSA
	labels   converter.LabelScheme
	interval time.Duration
	logger   *slog.Logger
	emit     func(domain.SessionEvent)

	// lastActive — UnixNano последнего обращения или шага.
	lastActive atomic.Int64

	mu          sync.Mutex
	conv        *converter.Converter
	anim        *animator.Animator
	unsubscribe func()
	state       *progress
}

// start создаёт новый Converter и Animator из исходного NFA.
// Вызывается под s.mu (или до публикации сессии).
func (s *Session) start() error {
	conv, err := converter.New(s.nfa, converter.Config{
		Labels: s.labels,
		Logger: s.logger,
	})
	if err != nil {
		return err
	}

	state := &progress{
		dfa:     conv.DFA(),
		pending: conv.Pending(),
	}

	anim := animator.New(animator.Config{
		Stepper:  conv,
		Interval: s.interval,
		Logger:   s.logger,
	})

	s.conv = conv
	s.anim = anim
	s.state = state
	s.unsubscribe = anim.Subscribe(func(ev animator.Event) {
		s.observe(conv, state, ev)
	})

	return nil
}

// observe вызывается под блокировкой аниматора.
func (s *Session) observe(conv *converter.Converter, state *progress, ev animator.Event) {
	state.mu.Lock()
	defer state.mu.Unlock()

	switch ev.Type {
	case animator.EventStart:
		state.running = true
		telemetry.RunningAnimations.Inc()
		s.publish(domain.EventAnimationStarted, state, nil)

	case animator.EventStop:
		s.settle(state)
		s.publish(domain.EventAnimationStopped, state, nil)

	case animator.EventStep:
		s.touch()
		step := ev.Step
		state.steps = append(state.steps, step.Summary())
		state.dfa = step.DFA
		state.pending = conv.Pending()
		telemetry.ConversionSteps.WithLabelValues(telemetry.StepOutcome(step.Dead(), step.Created)).Inc()
		s.publish(domain.EventStep, state, step)
		if conv.IsComplete() {
			s.finish(state)
		}

	case animator.EventComplete:
		s.settle(state)
		s.finish(state)

	case animator.EventError:
		s.settle(state)
		if state.failure == "" {
			state.failure = ev.Err.Error()
			telemetry.ConversionsTotal.WithLabelValues(string(domain.ConversionStatusFailed)).Inc()
			s.logger.Warn("conversion failed", "error", ev.Err)
			s.publish(domain.EventFailed, state, nil)
		}
	}
}

// settle снимает отметку о запущенной анимации.
func (s *Session) settle(state *progress) {
	if state.running {
		state.running = false
		telemetry.RunningAnimations.Dec()
	}
}

// finish отмечает завершение построения один раз.
func (s *Session) finish(state *progress) {
	if state.complete {
		return
	}
	state.complete = true
	telemetry.ConversionsTotal.WithLabelValues(string(domain.ConversionStatusSucceeded)).Inc()
	telemetry.DFAStates.Observe(float64(len(state.dfa.States)))
	s.logger.Info("conversion complete",
		"dfa_states", len(state.dfa.States),
		"steps", len(state.steps),
	)
	s.publish(domain.EventCompleted, state, nil)
}

// announce публикует событие, взяв state.mu.
func (s *Session) announce(kind domain.EventType, state *progress) {
	state.mu.Lock()
	defer state.mu.Unlock()

	s.publish(kind, state, nil)
}

// publish вызывается под state.mu.
func (s *Session) publish(kind domain.EventType, state *progress, step *converter.Step) {
	if s.emit == nil {
		return
	}

	ev := domain.SessionEvent{
		Type:       kind,
		SessionID:  s.ID,
		Pending:    state.pending,
		OccurredAt: time.Now(),
	}
	if state.dfa != nil {
		ev.States = len(state.dfa.States)
	}
	if step != nil {
		ev.StepIndex = step.Index
		ev.Description = step.Description
	}
	if kind == domain.EventFailed {
		ev.Description = state.failure
	}

	s.emit(ev)
}

// Step выполняет один шаг. Запущенная анимация останавливается.
// Возвращает (nil, nil), если построение уже завершено.
func (s *Session) Step() (*converter.Step, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failed(); err != nil {
		return nil, err
	}
	return s.anim.Step()
}

// Complete выполняет все оставшиеся шаги.
func (s *Session) Complete() ([]*converter.Step, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failed(); err != nil {
		return nil, err
	}
	return s.anim.Complete()
}

// Play запускает анимацию. Повторный вызов ничего не делает.
func (s *Session) Play() error {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failed(); err != nil {
		return err
	}
	s.anim.Play()
	return nil
}

// Stop останавливает анимацию.
func (s *Session) Stop() {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.anim.Stop()
}

// Toggle переключает анимацию и возвращает новое состояние.
func (s *Session) Toggle() (domain.AnimationStatus, error) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failed(); err != nil {
		return s.anim.Status(), err
	}
	return s.anim.Toggle(), nil
}

// Reset начинает построение заново из того же NFA.
func (s *Session) Reset() error {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shutdown()
	if err := s.start(); err != nil {
		return err
	}

	s.logger.Info("session reset")
	s.announce(domain.EventReset, s.state)
	return nil
}

// touch отмечает активность сессии.
func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive возвращает время последнего обращения или шага.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// idle сообщает, что сессия простаивает с момента cutoff
// и анимация не запущена.
func (s *Session) idle(cutoff time.Time) bool {
	if s.LastActive().After(cutoff) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anim.Status() != domain.AnimationStatusRunning
}

// failed возвращает ErrSessionFailed, если шаг уже завершился ошибкой.
func (s *Session) failed() error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if s.state.failure != "" {
		return errors.Join(ErrSessionFailed, errors.New(s.state.failure))
	}
	return nil
}

// shutdown останавливает текущий аниматор и отписывается от него.
func (s *Session) shutdown() {
	s.anim.Stop()
	s.unsubscribe()
}

// close вызывается менеджером при удалении сессии.
// Непустой kind публикуется под той же блокировкой.
func (s *Session) close(kind domain.EventType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shutdown()
	if kind != "" {
		s.announce(kind, s.state)
	}
}

// Steps возвращает журнал шагов начиная с offset.
func (s *Session) Steps(offset int) []converter.StepSummary {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	state.mu.Lock()
	defer state.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(state.steps) {
		return []converter.StepSummary{}
	}
	return slices.Clone(state.steps[offset:])
}

// DFA возвращает копию текущего DFA.
func (s *Session) DFA() *fsa.FSA {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	state.mu.Lock()
	defer state.mu.Unlock()
	return state.dfa.Clone()
}

// StepCount возвращает число выполненных шагов.
func (s *Session) StepCount() int {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	state.mu.Lock()
	defer state.mu.Unlock()
	return len(state.steps)
}

// View возвращает состояние сессии.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.anim.Status()

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	v := View{
		ID:          s.ID,
		Name:        s.Name,
		AutomatonID: s.AutomatonID,
		Labels:      s.labels,
		IntervalMs:  s.interval.Milliseconds(),
		Status:      status,
		Complete:    s.state.complete,
		Error:       s.state.failure,
		Pending:     s.state.pending,
		StepCount:   len(s.state.steps),
		NFA:         s.source,
		DFA:         converter.Layout(s.state.dfa),
		CreatedAt:   s.CreatedAt,
	}
	if n := len(s.state.steps); n > 0 {
		last := s.state.steps[n-1]
		v.LastStep = &last
	}
	return v
}

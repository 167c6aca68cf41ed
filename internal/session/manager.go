package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/nfa2dfa/internal/animator"
	"github.com/shaiso/nfa2dfa/internal/converter"
	"github.com/shaiso/nfa2dfa/internal/domain"
	"github.com/shaiso/nfa2dfa/internal/fsa"
	"github.com/shaiso/nfa2dfa/internal/telemetry"
)

// Значения по умолчанию для Config.
const (
	defaultEventBuffer    = 256
	defaultPublishTimeout = 5 * time.Second
)

// Publisher отправляет события сессий. *mq.Publisher его реализует.
type Publisher interface {
	PublishSessionEvent(ctx context.Context, ev domain.SessionEvent) error
}

// Config — конфигурация Manager.
type Config struct {
	// Interval — интервал анимации по умолчанию (default: animator.DefaultInterval).
	Interval time.Duration

	// Labels — схема именования по умолчанию (default: converter.LabelSets).
	Labels converter.LabelScheme

	// Publisher — получатель событий (optional).
	Publisher Publisher

	// EventBuffer — размер очереди событий на отправку (default: 256).
	EventBuffer int

	// PublishTimeout — таймаут одной отправки (default: 5s).
	PublishTimeout time.Duration

	// Logger (default: slog.Default()).
	Logger *slog.Logger
}

// Params — параметры новой сессии.
type Params struct {
	// Name — произвольное имя.
	Name string

	// AutomatonID — сохранённый автомат-источник, если есть.
	AutomatonID *uuid.UUID

	// NFA — исходный автомат с раскладкой узлов.
	NFA *fsa.Snapshot

	// Labels — схема именования (default: Config.Labels).
	Labels converter.LabelScheme

	// Interval — интервал анимации (default: Config.Interval).
	Interval time.Duration
}

// Manager — реестр сессий в памяти.
type Manager struct {
	interval  time.Duration
	labels    converter.LabelScheme
	publisher Publisher
	timeout   time.Duration
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	closed   bool

	events chan domain.SessionEvent
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewManager создаёт Manager. Если задан Publisher, запускает
// горутину отправки событий; её останавливает Close.
func NewManager(cfg Config) (*Manager, error) {
	labels, err := converter.ParseLabelScheme(string(cfg.Labels))
	if err != nil {
		return nil, err
	}
	if cfg.Interval <= 0 {
		cfg.Interval = animator.DefaultInterval
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	m := &Manager{
		interval:  cfg.Interval,
		labels:    labels,
		publisher: cfg.Publisher,
		timeout:   cfg.PublishTimeout,
		logger:    cfg.Logger,
		sessions:  make(map[uuid.UUID]*Session),
		events:    make(chan domain.SessionEvent, cfg.EventBuffer),
		done:      make(chan struct{}),
	}

	if m.publisher != nil {
		m.wg.Add(1)
		go m.dispatch()
	}

	return m, nil
}

// Create создаёт сессию и сразу строит стартовое состояние DFA.
func (m *Manager) Create(p Params) (*Session, error) {
	if p.NFA == nil {
		return nil, fsa.ErrMissingFSA
	}
	nfa, err := p.NFA.Reconstruct()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", converter.ErrInvalidNFA, err)
	}

	if p.Labels == "" {
		p.Labels = m.labels
	}
	labels, err := converter.ParseLabelScheme(string(p.Labels))
	if err != nil {
		return nil, err
	}
	if p.Interval <= 0 {
		p.Interval = m.interval
	}

	id := uuid.New()
	s := &Session{
		ID:          id,
		Name:        p.Name,
		AutomatonID: p.AutomatonID,
		CreatedAt:   time.Now(),
		source:      fsa.Decompose(nfa, p.NFA.Locations()),
		nfa:         nfa,
		labels:      labels,
		interval:    p.Interval,
		logger:      telemetry.WithSessionID(m.logger, id.String()),
		emit:        m.enqueue,
	}
	if err := s.start(); err != nil {
		return nil, err
	}
	s.touch()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		s.close("")
		return nil, ErrManagerClosed
	}
	// событие уходит до того, как сессия станет видна другим запросам
	s.announce(domain.EventSessionCreated, s.state)
	m.sessions[id] = s
	m.mu.Unlock()

	telemetry.ActiveSessions.Inc()
	s.logger.Info("session created",
		"nfa_states", len(nfa.States),
		"labels", labels,
		"interval", p.Interval,
	)

	return s, nil
}

// Get возвращает сессию по ID и отмечает её активность.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.touch()
	return s, nil
}

// List возвращает состояния всех сессий в порядке создания.
func (m *Manager) List() []View {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	slices.SortFunc(sessions, func(a, b *Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})

	views := make([]View, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, s.View())
	}
	return views
}

// Len возвращает число открытых сессий.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Delete останавливает и удаляет сессию.
func (m *Manager) Delete(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	m.remove(s, "session deleted")
	return nil
}

// EvictIdle удаляет сессии без обращений дольше idle.
// Сессии с запущенной анимацией не трогает. Возвращает ID удалённых.
func (m *Manager) EvictIdle(idle time.Duration, now time.Time) []uuid.UUID {
	cutoff := now.Add(-idle)

	m.mu.RLock()
	candidates := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		candidates = append(candidates, s)
	}
	m.mu.RUnlock()

	var evicted []uuid.UUID
	for _, s := range candidates {
		if !s.idle(cutoff) {
			continue
		}

		m.mu.Lock()
		// сессию могли удалить или тронуть, пока блокировка была отпущена
		current, ok := m.sessions[s.ID]
		if ok && current == s && !s.LastActive().After(cutoff) {
			delete(m.sessions, s.ID)
		} else {
			ok = false
		}
		m.mu.Unlock()

		if !ok {
			continue
		}

		m.remove(s, "session evicted")
		telemetry.SessionsEvicted.Inc()
		evicted = append(evicted, s.ID)
	}

	return evicted
}

// remove останавливает уже исключённую из реестра сессию.
func (m *Manager) remove(s *Session, reason string) {
	s.close(domain.EventSessionDeleted)
	telemetry.ActiveSessions.Dec()
	s.logger.Info(reason, "last_active", s.LastActive())
}

// Close останавливает все сессии и дожидается отправки
// накопленных событий (не дольше ctx).
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close("")
		telemetry.ActiveSessions.Dec()
	}
	close(m.done)

	finished := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue ставит событие в очередь отправки без блокировки.
// Вызывается из слушателей аниматора, поэтому ждать здесь нельзя.
func (m *Manager) enqueue(ev domain.SessionEvent) {
	if m.publisher == nil {
		return
	}

	select {
	case <-m.done:
		return
	default:
	}

	select {
	case m.events <- ev:
	default:
		telemetry.EventsPublished.WithLabelValues(string(ev.Type), "dropped").Inc()
		m.logger.Warn("session event dropped, buffer full",
			"type", ev.Type,
			"session_id", ev.SessionID,
		)
	}
}

// dispatch отправляет события до Close, затем досылает остаток буфера.
func (m *Manager) dispatch() {
	defer m.wg.Done()

	for {
		select {
		case ev := <-m.events:
			m.send(ev)
		case <-m.done:
			for {
				select {
				case ev := <-m.events:
					m.send(ev)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) send(ev domain.SessionEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := m.publisher.PublishSessionEvent(ctx, ev); err != nil {
		telemetry.EventsPublished.WithLabelValues(string(ev.Type), "error").Inc()
		m.logger.Warn("failed to publish session event",
			"type", ev.Type,
			"session_id", ev.SessionID,
			"error", err,
		)
		return
	}
	telemetry.EventsPublished.WithLabelValues(string(ev.Type), "ok").Inc()
}

package animator

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shaiso/nfa2dfa/internal/converter"
	"github.com/shaiso/nfa2dfa/internal/domain"
	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// countingStepper отдаёт limit шагов, затем сигнал завершения.
type countingStepper struct {
	calls atomic.Int64
	limit int64
	err   error
}

func (s *countingStepper) StepForward() (*converter.Step, error) {
	n := s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if n > s.limit {
		return nil, nil
	}
	return &converter.Step{Index: int(n - 1)}, nil
}

// recorder собирает события в канал без блокировки аниматора.
type recorder struct {
	mu     sync.Mutex
	events []EventType
	ch     chan EventType
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan EventType, 256)}
}

func (r *recorder) listen(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev.Type)
	r.mu.Unlock()
	select {
	case r.ch <- ev.Type:
	default:
	}
}

func (r *recorder) snapshot() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EventType(nil), r.events...)
}

func (r *recorder) waitFor(t *testing.T, want EventType) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case got := <-r.ch:
			if got == want {
				return
			}
		case <-timeout:
			t.Fatalf("timeout waiting for %q, got %v", want, r.snapshot())
		}
	}
}

func TestPlay_RunsToCompletion(t *testing.T) {
	stepper := &countingStepper{limit: 3}
	var rendered atomic.Int64

	a := New(Config{
		Stepper:  stepper,
		Renderer: RendererFunc(func(*converter.Step) { rendered.Add(1) }),
		Interval: time.Millisecond,
	})
	rec := newRecorder()
	a.Subscribe(rec.listen)

	a.Play()
	rec.waitFor(t, EventComplete)

	if a.Status() != domain.AnimationStatusIdle {
		t.Errorf("status = %s, want IDLE", a.Status())
	}
	if rendered.Load() != 3 {
		t.Errorf("rendered = %d, want 3", rendered.Load())
	}

	want := []EventType{EventStart, EventStep, EventStep, EventStep, EventComplete}
	got := rec.snapshot()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	// после завершения тики не продолжаются
	calls := stepper.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if stepper.calls.Load() != calls {
		t.Errorf("StepForward called after completion: %d -> %d", calls, stepper.calls.Load())
	}
}

func TestPlay_Idempotent(t *testing.T) {
	stepper := &countingStepper{limit: 1000}
	a := New(Config{Stepper: stepper, Interval: time.Hour})
	rec := newRecorder()
	a.Subscribe(rec.listen)

	a.Play()
	a.Play()
	a.Play()

	starts := 0
	for _, ev := range rec.snapshot() {
		if ev == EventStart {
			starts++
		}
	}
	if starts != 1 {
		t.Errorf("start events = %d, want 1", starts)
	}
	if a.Status() != domain.AnimationStatusRunning {
		t.Errorf("status = %s, want RUNNING", a.Status())
	}

	a.Stop()
}

func TestStop_Cancellation(t *testing.T) {
	stepper := &countingStepper{limit: 1000}
	a := New(Config{Stepper: stepper, Interval: 5 * time.Millisecond})
	rec := newRecorder()
	a.Subscribe(rec.listen)

	a.Play()
	rec.waitFor(t, EventStep)

	a.Stop()
	a.Stop()

	calls := stepper.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if got := stepper.calls.Load(); got != calls {
		t.Fatalf("StepForward called after Stop: %d -> %d", calls, got)
	}

	stops := 0
	for _, ev := range rec.snapshot() {
		if ev == EventStop {
			stops++
		}
	}
	if stops != 1 {
		t.Errorf("stop events = %d, want 1", stops)
	}
	if a.Status() != domain.AnimationStatusIdle {
		t.Errorf("status = %s, want IDLE", a.Status())
	}
}

func TestStop_WhenIdle(t *testing.T) {
	a := New(Config{Stepper: &countingStepper{}})
	rec := newRecorder()
	a.Subscribe(rec.listen)

	a.Stop()

	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("events = %v, want none", got)
	}
}

func TestStopThenPlay_NoStaleTick(t *testing.T) {
	stepper := &countingStepper{limit: 1000}
	a := New(Config{Stepper: stepper, Interval: time.Hour})

	// цикл play/stop не должен оставлять взведённых таймеров
	for i := 0; i < 50; i++ {
		a.Play()
		a.Stop()
	}
	time.Sleep(10 * time.Millisecond)

	if got := stepper.calls.Load(); got != 0 {
		t.Errorf("StepForward calls = %d, want 0", got)
	}
}

func TestStaleTickIgnored(t *testing.T) {
	stepper := &countingStepper{limit: 1000}
	a := New(Config{Stepper: stepper, Interval: time.Hour})

	a.Play()
	a.mu.Lock()
	stale := a.generation
	a.mu.Unlock()
	a.Stop()
	a.Play()

	// тик отменённого поколения пришёл после повторного Play
	a.tick(stale)

	if got := stepper.calls.Load(); got != 0 {
		t.Errorf("stale tick called StepForward %d times", got)
	}
	a.Stop()
}

func TestStep_StopsAnimation(t *testing.T) {
	stepper := &countingStepper{limit: 1000}
	a := New(Config{Stepper: stepper, Interval: time.Hour})
	rec := newRecorder()
	a.Subscribe(rec.listen)

	a.Play()
	step, err := a.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if step == nil {
		t.Fatal("Step returned nil")
	}
	if a.Status() != domain.AnimationStatusIdle {
		t.Errorf("status = %s, want IDLE", a.Status())
	}

	want := []EventType{EventStart, EventStop, EventStep}
	got := rec.snapshot()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestComplete(t *testing.T) {
	snap, err := fsa.Preset("sipser")
	if err != nil {
		t.Fatalf("Preset: %v", err)
	}
	conv, err := converter.New(snap.FSA, converter.Config{})
	if err != nil {
		t.Fatalf("converter.New: %v", err)
	}

	var rendered []*converter.Step
	a := New(Config{
		Stepper:  conv,
		Renderer: RendererFunc(func(s *converter.Step) { rendered = append(rendered, s) }),
		Interval: time.Hour,
	})
	rec := newRecorder()
	a.Subscribe(rec.listen)

	a.Play()
	steps, err := a.Complete()
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(steps) != 10 || len(rendered) != 10 {
		t.Errorf("steps = %d, rendered = %d, want 10", len(steps), len(rendered))
	}
	if !conv.IsComplete() {
		t.Error("converter should be complete")
	}

	got := rec.snapshot()
	if got[0] != EventStart || got[1] != EventStop || got[len(got)-1] != EventComplete {
		t.Errorf("events = %v", got)
	}
}

func TestTick_Error(t *testing.T) {
	boom := errors.New("boom")
	stepper := &countingStepper{err: boom}
	a := New(Config{Stepper: stepper, Interval: time.Millisecond})

	var gotErr atomic.Value
	rec := newRecorder()
	a.Subscribe(func(ev Event) {
		if ev.Type == EventError {
			gotErr.Store(ev.Err)
		}
		rec.listen(ev)
	})

	a.Play()
	rec.waitFor(t, EventError)

	if err, _ := gotErr.Load().(error); !errors.Is(err, boom) {
		t.Errorf("event err = %v, want boom", err)
	}
	if a.Status() != domain.AnimationStatusIdle {
		t.Errorf("status = %s, want IDLE", a.Status())
	}

	calls := stepper.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if stepper.calls.Load() != calls {
		t.Error("ticks continued after error")
	}
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	a := New(Config{Stepper: &countingStepper{limit: 10}})

	var first, second int
	unsubscribe := a.Subscribe(func(Event) { first++ })
	a.Subscribe(func(Event) { second++ })

	if _, err := a.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	unsubscribe()
	if _, err := a.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if first != 1 || second != 2 {
		t.Errorf("first = %d, second = %d, want 1 and 2", first, second)
	}
}

func TestToggle(t *testing.T) {
	a := New(Config{Stepper: &countingStepper{limit: 10}, Interval: time.Hour})

	if got := a.Toggle(); got != domain.AnimationStatusRunning {
		t.Errorf("Toggle = %s, want RUNNING", got)
	}
	if got := a.Toggle(); got != domain.AnimationStatusIdle {
		t.Errorf("Toggle = %s, want IDLE", got)
	}
}

func TestToggle_Concurrent(t *testing.T) {
	a := New(Config{Stepper: &countingStepper{limit: 10}, Interval: time.Hour})
	rec := newRecorder()
	a.Subscribe(rec.listen)

	const workers, toggles = 8, 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range toggles {
				a.Toggle()
			}
		}()
	}
	wg.Wait()

	// каждый Toggle меняет состояние, чётное число вызовов возвращает IDLE
	if a.Status() != domain.AnimationStatusIdle {
		t.Errorf("status = %s, want IDLE", a.Status())
	}

	events := rec.snapshot()
	if len(events) != workers*toggles {
		t.Fatalf("got %d events, want %d", len(events), workers*toggles)
	}
	for i, ev := range events {
		want := EventStart
		if i%2 == 1 {
			want = EventStop
		}
		if ev != want {
			t.Fatalf("event %d = %s, want %s", i, ev, want)
		}
	}
}

func TestNew_NilStepperPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New without Stepper did not panic")
		}
	}()
	New(Config{})
}

func TestNew_Defaults(t *testing.T) {
	a := New(Config{Stepper: &countingStepper{}})
	if a.Interval() != DefaultInterval {
		t.Errorf("interval = %v, want %v", a.Interval(), DefaultInterval)
	}
	if a.Status() != domain.AnimationStatusIdle {
		t.Errorf("status = %s, want IDLE", a.Status())
	}
}

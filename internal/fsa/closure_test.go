package fsa

import (
	"errors"
	"slices"
	"testing"
)

func TestEpsilonClosure(t *testing.T) {
	a := newTestFSA(t)

	tests := []struct {
		name string
		seed []string
		want []string
	}{
		{"start", []string{"1"}, []string{"1", "3"}},
		{"no epsilon edges", []string{"2"}, []string{"2"}},
		{"already closed", []string{"3", "1"}, []string{"1", "3"}},
		{"empty", nil, []string{}},
		{"unknown seed", []string{"x"}, []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EpsilonClosure(a, tt.seed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEpsilonClosure_ChainAndCycle(t *testing.T) {
	a := New()
	for _, s := range []string{"p", "q", "r", "s"} {
		_ = a.AddState(s)
	}
	_ = a.SetAlphabet([]string{"x"})
	_ = a.AddTransition("p", "q", Epsilon)
	_ = a.AddTransition("q", "r", Epsilon)
	_ = a.AddTransition("r", "p", Epsilon) // цикл
	_ = a.AddTransition("r", "s", "x")     // не ε — не входит

	got, err := EpsilonClosure(a, []string{"p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"p", "q", "r"}) {
		t.Errorf("expected [p q r], got %v", got)
	}
}

func TestEpsilonClosure_FixedPoint(t *testing.T) {
	a := newTestFSA(t)

	first, err := EpsilonClosure(a, []string{"1", "2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := EpsilonClosure(a, first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(first, second) {
		t.Errorf("closure is not a fixed point: %v != %v", first, second)
	}
}

func TestEpsilonClosure_DanglingEdge(t *testing.T) {
	a := newTestFSA(t)
	// Обходим AddTransition, чтобы получить нарушенный инвариант
	a.Transitions["3"][Epsilon] = []string{"ghost"}

	_, err := EpsilonClosure(a, []string{"1"})
	if !errors.Is(err, ErrStateNotFound) {
		t.Errorf("expected ErrStateNotFound, got %v", err)
	}
}

func TestEpsilonClosure_DoesNotMutate(t *testing.T) {
	a := newTestFSA(t)
	before := a.Clone()
	seed := []string{"2", "1"}

	if _, err := EpsilonClosure(a, seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(seed, []string{"2", "1"}) {
		t.Error("seed slice was modified")
	}
	if a.TransitionCount() != before.TransitionCount() {
		t.Error("automaton was modified")
	}
}

func TestMove(t *testing.T) {
	a := newTestFSA(t)

	got, err := Move(a, []string{"2", "3"}, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("expected [1 2 3], got %v", got)
	}

	if _, err := Move(a, []string{"9"}, "a"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("expected ErrStateNotFound, got %v", err)
	}
}

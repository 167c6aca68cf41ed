package fsa

import (
	"errors"
	"slices"
	"testing"
)

// newTestFSA строит автомат из пресета sipser без координат.
func newTestFSA(t *testing.T) *FSA {
	t.Helper()
	snap, err := Preset("sipser")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return snap.FSA
}

func TestAddState(t *testing.T) {
	a := New()

	if err := a.AddState("q0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.HasState("q0") {
		t.Error("q0 should exist")
	}

	if err := a.AddState("q0"); !errors.Is(err, ErrDuplicateState) {
		t.Errorf("expected ErrDuplicateState, got %v", err)
	}
	if err := a.AddState(""); !errors.Is(err, ErrEmptyLabel) {
		t.Errorf("expected ErrEmptyLabel, got %v", err)
	}
}

func TestAddTransition_DedupAndSort(t *testing.T) {
	a := New()
	for _, s := range []string{"1", "2", "3"} {
		_ = a.AddState(s)
	}
	_ = a.SetAlphabet([]string{"a"})

	// Добавляем в обратном порядке и с повтором
	for _, to := range []string{"3", "2", "3"} {
		if err := a.AddTransition("1", to, "a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := a.Destinations("1", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []string{"2", "3"}) {
		t.Errorf("expected [2 3], got %v", got)
	}
}

func TestAddTransition_UnknownSymbol(t *testing.T) {
	a := New()
	_ = a.AddState("1")
	_ = a.SetAlphabet([]string{"a"})

	err := a.AddTransition("1", "1", "z")
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if vErr.State != "1" || vErr.Field != "transitions" {
		t.Errorf("unexpected validation context: %+v", vErr)
	}

	// ε допустим всегда
	if err := a.AddTransition("1", "1", Epsilon); err != nil {
		t.Errorf("epsilon transition should be allowed: %v", err)
	}
}

func TestAddTransition_UnknownState(t *testing.T) {
	a := New()
	_ = a.AddState("1")
	_ = a.SetAlphabet([]string{"a"})

	if err := a.AddTransition("1", "9", "a"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("expected ErrStateNotFound for destination, got %v", err)
	}
	if err := a.AddTransition("9", "1", "a"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("expected ErrStateNotFound for source, got %v", err)
	}
}

func TestDestinations_UnknownState(t *testing.T) {
	a := newTestFSA(t)

	if _, err := a.Destinations("42", "a"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("expected ErrStateNotFound, got %v", err)
	}

	// Известное состояние без перехода — пустой список, не ошибка
	got, err := a.Destinations("3", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no destinations, got %v", got)
	}
}

func TestRemoveState(t *testing.T) {
	a := newTestFSA(t)

	if err := a.RemoveState("1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.HasState("1") {
		t.Error("1 should be removed from states")
	}
	if a.StartState != "" {
		t.Errorf("start state should be unset, got %q", a.StartState)
	}
	if a.IsAccepting("1") {
		t.Error("1 should be removed from accept states")
	}
	if _, ok := a.Transitions["1"]; ok {
		t.Error("outgoing transitions of 1 should be removed")
	}

	// 3 --a--> 1 был единственным переходом из 3
	if _, ok := a.Transitions["3"]; ok {
		t.Errorf("inbound target 1 should be removed from 3, got %v", a.Transitions["3"])
	}

	if err := a.Validate(); err != nil {
		t.Errorf("automaton should stay valid: %v", err)
	}

	if err := a.RemoveState("1"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("expected ErrStateNotFound, got %v", err)
	}
}

func TestRemoveState_KeepsOtherDestinations(t *testing.T) {
	a := newTestFSA(t)

	if err := a.RemoveState("3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := a.Destinations("2", "a")
	if !slices.Equal(got, []string{"2"}) {
		t.Errorf("expected 2 --a--> [2], got %v", got)
	}
	if _, ok := a.Transitions["2"]["b"]; ok {
		t.Error("2 --b--> 3 should be removed")
	}
	if _, ok := a.Transitions["1"][Epsilon]; ok {
		t.Error("1 --ε--> 3 should be removed")
	}
}

func TestStartAndAcceptStates(t *testing.T) {
	a := New()
	_ = a.AddState("q")

	if err := a.SetStartState("x"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("expected ErrStateNotFound, got %v", err)
	}
	if err := a.SetStartState("q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = a.AddAcceptState("q")
	_ = a.AddAcceptState("q")
	if len(a.AcceptStates) != 1 {
		t.Errorf("accept states should not contain duplicates: %v", a.AcceptStates)
	}

	_ = a.RemoveAcceptState("q")
	if a.IsAccepting("q") {
		t.Error("q should not be accepting")
	}

	a.ClearStartState()
	if a.StartState != "" {
		t.Error("start state should be unset")
	}
}

func TestSetAlphabet(t *testing.T) {
	a := newTestFSA(t)

	if err := a.SetAlphabet([]string{"a", Epsilon}); !errors.Is(err, ErrEpsilonInAlphabet) {
		t.Errorf("expected ErrEpsilonInAlphabet, got %v", err)
	}
	if err := a.SetAlphabet([]string{"a", "a"}); !errors.Is(err, ErrDuplicateSymbol) {
		t.Errorf("expected ErrDuplicateSymbol, got %v", err)
	}
	if err := a.SetAlphabet([]string{"a"}); !errors.Is(err, ErrSymbolInUse) {
		t.Errorf("expected ErrSymbolInUse, got %v", err)
	}
	if err := a.SetAlphabet([]string{"b", "a", "c"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := a.AddSymbol("c"); !errors.Is(err, ErrDuplicateSymbol) {
		t.Errorf("expected ErrDuplicateSymbol, got %v", err)
	}
	if err := a.AddSymbol(""); !errors.Is(err, ErrEmptySymbol) {
		t.Errorf("expected ErrEmptySymbol, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *FSA)
		wantErr error
	}{
		{
			name:    "valid",
			mutate:  func(a *FSA) {},
			wantErr: nil,
		},
		{
			name:    "unknown destination",
			mutate:  func(a *FSA) { a.Transitions["1"]["b"] = []string{"9"} },
			wantErr: ErrStateNotFound,
		},
		{
			name:    "unknown source",
			mutate:  func(a *FSA) { a.Transitions["9"] = map[string][]string{"a": {"1"}} },
			wantErr: ErrStateNotFound,
		},
		{
			name:    "symbol outside alphabet",
			mutate:  func(a *FSA) { a.Transitions["1"]["z"] = []string{"1"} },
			wantErr: ErrUnknownSymbol,
		},
		{
			name:    "unknown start",
			mutate:  func(a *FSA) { a.StartState = "9" },
			wantErr: ErrStateNotFound,
		},
		{
			name:    "unknown accept",
			mutate:  func(a *FSA) { a.AcceptStates = append(a.AcceptStates, "9") },
			wantErr: ErrStateNotFound,
		},
		{
			name:    "duplicate state",
			mutate:  func(a *FSA) { a.States = append(a.States, "1") },
			wantErr: ErrDuplicateState,
		},
		{
			name:    "epsilon in alphabet",
			mutate:  func(a *FSA) { a.Alphabet = append(a.Alphabet, Epsilon) },
			wantErr: ErrEpsilonInAlphabet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestFSA(t)
			tt.mutate(a)

			err := a.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	a := newTestFSA(t)
	c := a.Clone()

	c.Transitions["2"]["a"][0] = "changed"
	c.States[0] = "changed"
	c.AcceptStates = append(c.AcceptStates, "2")

	if a.Transitions["2"]["a"][0] != "2" {
		t.Error("clone shares transition slices with the original")
	}
	if a.States[0] != "1" {
		t.Error("clone shares states with the original")
	}
	if len(a.AcceptStates) != 1 {
		t.Error("clone shares accept states with the original")
	}
}

func TestIsDeterministic(t *testing.T) {
	a := newTestFSA(t)
	if a.IsDeterministic() {
		t.Error("sipser NFA has ε and multi-target transitions")
	}

	d := New()
	_ = d.AddState("A")
	_ = d.SetAlphabet([]string{"a"})
	_ = d.AddTransition("A", "A", "a")
	if !d.IsDeterministic() {
		t.Error("single self loop is deterministic")
	}
}

func TestAccepts(t *testing.T) {
	a := newTestFSA(t)

	tests := []struct {
		word []string
		want bool
	}{
		{nil, true},                 // ε ∈ L, старт принимающий
		{[]string{"a"}, true},       // 1 →ε 3 →a 1
		{[]string{"b"}, false},      // {2}
		{[]string{"b", "a"}, false}, // {2,3}
		{[]string{"b", "a", "a"}, true},
		{[]string{"b", "b", "b"}, false},
	}

	for _, tt := range tests {
		got, err := a.Accepts(tt.word)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", tt.word, err)
		}
		if got != tt.want {
			t.Errorf("Accepts(%v) = %v, want %v", tt.word, got, tt.want)
		}
	}

	if _, err := a.Accepts([]string{"z"}); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestDeltaTable(t *testing.T) {
	a := newTestFSA(t)
	headers, rows := DeltaTable(a)

	if !slices.Equal(headers, []string{"STATE", "a", "b", Epsilon}) {
		t.Errorf("unexpected headers: %v", headers)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if !slices.Equal(rows[0], []string{"→*1", "", "2", "3"}) {
		t.Errorf("unexpected row for 1: %v", rows[0])
	}
	if !slices.Equal(rows[1], []string{"2", "{2,3}", "3", ""}) {
		t.Errorf("unexpected row for 2: %v", rows[1])
	}
}

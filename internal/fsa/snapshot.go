package fsa

import (
	"fmt"
	"slices"
)

// Location — координаты узла на холсте редактора.
type Location struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node — визуальное представление состояния.
type Node struct {
	// Label — метка состояния.
	Label string `json:"label" yaml:"label"`

	// Loc — положение узла.
	Loc Location `json:"loc" yaml:"loc"`

	// TransitionText — назначение → символы переходов в него (отсортированы).
	TransitionText map[string][]string `json:"transitionText" yaml:"transitionText"`

	// AcceptState — дублирует принадлежность к AcceptStates для редактора.
	AcceptState bool `json:"acceptState,omitempty" yaml:"acceptState,omitempty"`
}

// Snapshot — структурный снимок автомата: узлы редактора и сам FSA.
// Это единственный формат обмена с внешним кодом импорта/экспорта.
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	FSA   *FSA   `json:"fsa" yaml:"fsa"`
}

// Decompose раскладывает автомат в снимок.
// Состояния без координат в locs получают нулевую позицию.
func Decompose(a *FSA, locs map[string]Location) *Snapshot {
	snap := &Snapshot{
		Nodes: make([]Node, 0, len(a.States)),
		FSA:   a.Clone(),
	}

	for _, label := range a.States {
		snap.Nodes = append(snap.Nodes, Node{
			Label:          label,
			Loc:            locs[label],
			TransitionText: transitionText(a, label),
			AcceptState:    a.IsAccepting(label),
		})
	}

	return snap
}

// transitionText группирует исходящие переходы состояния по назначению.
func transitionText(a *FSA, from string) map[string][]string {
	text := make(map[string][]string)
	for symbol, dests := range a.Transitions[from] {
		for _, to := range dests {
			text[to] = append(text[to], symbol)
		}
	}
	for to, symbols := range text {
		text[to] = Canonical(symbols)
	}
	return text
}

// Reconstruct восстанавливает автомат из снимка и проверяет,
// что узлы согласованы с FSA: те же метки, тот же текст переходов,
// те же принимающие состояния.
func (s *Snapshot) Reconstruct() (*FSA, error) {
	if s.FSA == nil {
		return nil, ErrMissingFSA
	}

	a := s.FSA.Clone()
	a.Normalize()
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if len(s.Nodes) != len(a.States) {
		return nil, fmt.Errorf("%w: %d nodes for %d states", ErrNodeMismatch, len(s.Nodes), len(a.States))
	}

	for _, node := range s.Nodes {
		if !a.HasState(node.Label) {
			return nil, NewValidationError(node.Label, "nodes",
				"node has no matching state", ErrNodeMismatch)
		}

		want := transitionText(a, node.Label)
		if !sameTransitionText(want, node.TransitionText) {
			return nil, NewValidationError(node.Label, "nodes",
				"node transition text does not match fsa transitions", ErrNodeMismatch)
		}

		if node.AcceptState != a.IsAccepting(node.Label) {
			return nil, NewValidationError(node.Label, "nodes",
				"node accept flag does not match fsa accept states", ErrNodeMismatch)
		}
	}

	return a, nil
}

// Locations возвращает координаты узлов снимка.
func (s *Snapshot) Locations() map[string]Location {
	locs := make(map[string]Location, len(s.Nodes))
	for _, node := range s.Nodes {
		locs[node.Label] = node.Loc
	}
	return locs
}

func sameTransitionText(want, got map[string][]string) bool {
	nonEmpty := 0
	for to, symbols := range got {
		if len(symbols) == 0 {
			continue
		}
		nonEmpty++
		if !slices.Equal(want[to], Canonical(symbols)) {
			return false
		}
	}
	return nonEmpty == len(want)
}

// GridLayout раскладывает метки по сетке в заданном порядке.
// Используется для DFA, узлы которого пользователь не расставлял.
func GridLayout(labels []string, columns int, spacing float64) map[string]Location {
	if columns <= 0 {
		columns = 4
	}
	if spacing <= 0 {
		spacing = 150
	}

	locs := make(map[string]Location, len(labels))
	for i, label := range labels {
		locs[label] = Location{
			X: spacing/2 + float64(i%columns)*spacing,
			Y: spacing/2 + float64(i/columns)*spacing,
		}
	}
	return locs
}

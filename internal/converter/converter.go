package converter

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// Значения по умолчанию для раскладки узлов DFA.
const (
	defaultGridColumns = 4
	defaultGridSpacing = 150
)

// Config — конфигурация Converter.
type Config struct {
	// Labels — схема именования состояний DFA (default: LabelSets).
	Labels LabelScheme

	// Logger (default: slog.Default()).
	Logger *slog.Logger
}

// pending — состояние DFA в frontier и индекс следующего символа.
type pending struct {
	label string
	next  int
}

// Converter — пошаговое построение подмножеств.
//
// Converter владеет своим состоянием единолично и не потокобезопасен:
// вызывать его должен один владелец.
type Converter struct {
	nfa      *fsa.FSA
	dfa      *fsa.FSA
	alphabet []string
	labels   LabelScheme

	// explored — ключ множества состояний NFA → метка DFA.
	explored map[string]string

	// closures — метка DFA → множество состояний NFA.
	closures map[string][]string

	// order — метки DFA в порядке обнаружения.
	order []string

	// frontier — состояния DFA с невычисленными переходами.
	frontier []pending

	steps  int
	broken error
	logger *slog.Logger
}

// ValidateNFA проверяет, что из NFA можно строить DFA.
// Порядок проверок: состояния, старт, алфавит, инварианты модели.
func ValidateNFA(nfa *fsa.FSA) error {
	if nfa == nil {
		return ErrNilNFA
	}
	if len(nfa.States) == 0 {
		return ErrNoStates
	}
	if nfa.StartState == "" {
		return ErrNoStartState
	}
	if len(nfa.Alphabet) == 0 {
		return ErrEmptyAlphabet
	}
	if err := nfa.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNFA, err)
	}
	return nil
}

// New создаёт Converter.
//
// NFA копируется и дальше не изменяется. DFA сразу содержит одно
// состояние — ε-замыкание старта NFA — и оно же стоит в frontier.
func New(nfa *fsa.FSA, cfg Config) (*Converter, error) {
	if err := ValidateNFA(nfa); err != nil {
		return nil, err
	}

	labels, err := ParseLabelScheme(string(cfg.Labels))
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	src := nfa.Clone()
	alphabet := slices.Clone(src.Alphabet)

	dfa := fsa.New()
	if err := dfa.SetAlphabet(alphabet); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNFA, err)
	}

	c := &Converter{
		nfa:      src,
		dfa:      dfa,
		alphabet: alphabet,
		labels:   labels,
		explored: make(map[string]string),
		closures: make(map[string][]string),
		order:    make([]string, 0),
		frontier: make([]pending, 0),
		logger:   logger,
	}

	start, err := fsa.EpsilonClosure(src, []string{src.StartState})
	if err != nil {
		return nil, fmt.Errorf("start closure: %w", err)
	}

	label, err := c.addState(start)
	if err != nil {
		return nil, err
	}
	if err := c.dfa.SetStartState(label); err != nil {
		return nil, err
	}

	c.logger.Debug("converter created",
		"start", label,
		"nfa_states", len(src.States),
		"alphabet", alphabet,
	)

	return c, nil
}

// addState регистрирует новое состояние DFA для множества closure
// и ставит его в конец frontier.
func (c *Converter) addState(closure []string) (string, error) {
	label := labelFor(c.labels, len(c.order), closure, c.dfa.HasState)

	if err := c.dfa.AddState(label); err != nil {
		return "", err
	}
	if fsa.Intersects(closure, c.nfa.AcceptStates) {
		if err := c.dfa.AddAcceptState(label); err != nil {
			return "", err
		}
	}

	c.explored[fsa.Key(closure)] = label
	c.closures[label] = slices.Clone(closure)
	c.order = append(c.order, label)
	c.frontier = append(c.frontier, pending{label: label})

	return label, nil
}

// StepForward выполняет один шаг построения.
//
// Возвращает (nil, nil), когда frontier пуст; повторные вызовы
// после этого безопасны. Ошибка делает конвертер непригодным:
// последующие вызовы возвращают ErrConverterBroken.
func (c *Converter) StepForward() (*Step, error) {
	if c.broken != nil {
		return nil, fmt.Errorf("%w: %v", ErrConverterBroken, c.broken)
	}
	if len(c.frontier) == 0 {
		return nil, nil
	}

	head := c.frontier[0]
	symbol := c.alphabet[head.next]

	step, err := c.resolve(head.label, symbol)
	if err != nil {
		c.broken = err
		c.logger.Error("conversion step failed",
			"from", head.label,
			"symbol", symbol,
			"error", err,
		)
		return nil, err
	}

	// frontier мог вырасти в resolve, поэтому обращаемся по индексу
	if head.next+1 < len(c.alphabet) {
		c.frontier[0].next++
	} else {
		c.frontier = c.frontier[1:]
	}

	step.Index = c.steps
	step.Description = describe(step)
	step.DFA = c.dfa.Clone()
	c.steps++

	c.logger.Debug("conversion step",
		"index", step.Index,
		"from", step.From,
		"symbol", step.Symbol,
		"to", step.To,
		"created", step.Created,
		"pending", len(c.frontier),
	)

	return step, nil
}

// resolve вычисляет переход (from, symbol) и при необходимости
// добавляет новое состояние и ребро в DFA.
func (c *Converter) resolve(from, symbol string) (*Step, error) {
	raw, err := fsa.Move(c.nfa, c.closures[from], symbol)
	if err != nil {
		return nil, fmt.Errorf("move %s on %s: %w", from, symbol, err)
	}

	target, err := fsa.EpsilonClosure(c.nfa, raw)
	if err != nil {
		return nil, fmt.Errorf("closure of %s: %w", fsa.SetLabel(raw), err)
	}

	step := &Step{
		From:   from,
		Symbol: symbol,
		Target: target,
	}

	if len(target) == 0 {
		return step, nil
	}

	to, ok := c.explored[fsa.Key(target)]
	if !ok {
		to, err = c.addState(target)
		if err != nil {
			return nil, err
		}
		step.Created = true
	}

	if err := c.dfa.AddTransition(from, to, symbol); err != nil {
		return nil, err
	}

	step.To = to
	step.Accepting = c.dfa.IsAccepting(to)

	return step, nil
}

// Complete выполняет все оставшиеся шаги и возвращает их по порядку.
// При ошибке возвращает уже выполненные шаги вместе с ошибкой.
func (c *Converter) Complete() ([]*Step, error) {
	steps := make([]*Step, 0, len(c.frontier)*len(c.alphabet))
	for {
		step, err := c.StepForward()
		if err != nil {
			return steps, err
		}
		if step == nil {
			return steps, nil
		}
		steps = append(steps, step)
	}
}

// IsComplete проверяет, что frontier пуст.
func (c *Converter) IsComplete() bool {
	return len(c.frontier) == 0
}

// Pending возвращает число состояний DFA в frontier.
func (c *Converter) Pending() int {
	return len(c.frontier)
}

// StepCount возвращает число выполненных шагов.
func (c *Converter) StepCount() int {
	return c.steps
}

// DFA возвращает копию текущего DFA.
func (c *Converter) DFA() *fsa.FSA {
	return c.dfa.Clone()
}

// NFA возвращает копию исходного NFA.
func (c *Converter) NFA() *fsa.FSA {
	return c.nfa.Clone()
}

// States возвращает метки DFA в порядке обнаружения.
func (c *Converter) States() []string {
	return slices.Clone(c.order)
}

// ClosureOf возвращает множество состояний NFA для метки DFA.
func (c *Converter) ClosureOf(label string) ([]string, bool) {
	closure, ok := c.closures[label]
	if !ok {
		return nil, false
	}
	return slices.Clone(closure), true
}

// Snapshot возвращает снимок текущего DFA с узлами, разложенными
// по сетке в порядке обнаружения.
func (c *Converter) Snapshot() *fsa.Snapshot {
	return Layout(c.dfa)
}

// Layout раскладывает DFA по сетке в порядке его States.
// Состояния DFA добавляются в порядке обнаружения, поэтому
// Layout(step.DFA) совпадает с раскладкой Snapshot на том же шаге.
func Layout(dfa *fsa.FSA) *fsa.Snapshot {
	return fsa.Decompose(dfa, fsa.GridLayout(dfa.States, defaultGridColumns, defaultGridSpacing))
}

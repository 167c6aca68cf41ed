package fsa

import (
	"fmt"
	"sort"
)

// presetBuilders — встроенные примеры NFA (имя → конструктор снимка).
var presetBuilders = map[string]func() *Snapshot{
	"sipser":   sipserPreset,
	"dead-end": deadEndPreset,
}

// PresetNames возвращает имена встроенных примеров в алфавитном порядке.
func PresetNames() []string {
	names := make([]string, 0, len(presetBuilders))
	for name := range presetBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset возвращает новый экземпляр встроенного примера.
func Preset(name string) (*Snapshot, error) {
	build, ok := presetBuilders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return build(), nil
}

// sipserPreset — три состояния с ε-переходом 1 → 3.
func sipserPreset() *Snapshot {
	a := &FSA{
		States:   []string{"1", "2", "3"},
		Alphabet: []string{"a", "b"},
		Transitions: map[string]map[string][]string{
			"1": {"b": {"2"}, Epsilon: {"3"}},
			"2": {"a": {"2", "3"}, "b": {"3"}},
			"3": {"a": {"1"}},
		},
		StartState:   "1",
		AcceptStates: []string{"1"},
	}
	return Decompose(a, map[string]Location{
		"1": {X: 200, Y: 100},
		"2": {X: 600, Y: 100},
		"3": {X: 400, Y: 400},
	})
}

// deadEndPreset — у состояния 2 нет исходящих переходов.
func deadEndPreset() *Snapshot {
	a := &FSA{
		States:   []string{"1", "2", "3"},
		Alphabet: []string{"a", "b"},
		Transitions: map[string]map[string][]string{
			"1": {Epsilon: {"2"}, "a": {"3"}},
			"3": {"a": {"2"}, "b": {"2"}},
		},
		StartState:   "1",
		AcceptStates: []string{"2"},
	}
	return Decompose(a, map[string]Location{
		"1": {X: 154, Y: 108},
		"2": {X: 535, Y: 106},
		"3": {X: 334, Y: 362},
	})
}

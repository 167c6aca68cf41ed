package fsa

import "fmt"

// EpsilonClosure возвращает ε-замыкание множества меток.
//
// Обход в ширину по ε-рёбрам; каждая метка попадает в результат один раз.
// Метки без исходящих рёбер (в том числе неизвестные) дают только себя.
// ε-ребро, ведущее в состояние вне States, нарушает инвариант модели
// и возвращается как ErrStateNotFound.
//
// Результат отсортирован.
func EpsilonClosure(a *FSA, labels []string) ([]string, error) {
	visited := make(map[string]bool, len(labels))
	queue := make([]string, 0, len(labels))

	for _, label := range labels {
		if !visited[label] {
			visited[label] = true
			queue = append(queue, label)
		}
	}

	for len(queue) > 0 {
		label := queue[0]
		queue = queue[1:]

		for _, next := range a.Transitions[label][Epsilon] {
			if visited[next] {
				continue
			}
			if !a.HasState(next) {
				return nil, fmt.Errorf("%w: epsilon edge %s -> %s", ErrStateNotFound, label, next)
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}

	result := make([]string, 0, len(visited))
	for label := range visited {
		result = append(result, label)
	}
	return Canonical(result), nil
}

// Move возвращает объединение назначений по символу из всех меток множества,
// без замыкания. Метка вне States — ошибка вызывающего кода.
func Move(a *FSA, labels []string, symbol string) ([]string, error) {
	var raw []string
	for _, label := range labels {
		dests, err := a.Destinations(label, symbol)
		if err != nil {
			return nil, err
		}
		raw = append(raw, dests...)
	}
	return Canonical(raw), nil
}

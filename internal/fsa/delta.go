package fsa

import "strings"

// DeltaTable возвращает таблицу функции переходов δ:
// заголовок (состояние, символы алфавита, затем ε, если он используется)
// и по строке на каждое состояние в порядке States.
//
// Стартовое состояние помечено "→", принимающие — "*".
// Пустая клетка означает отсутствие перехода.
func DeltaTable(a *FSA) ([]string, [][]string) {
	symbols := append([]string{}, a.Alphabet...)
	if usesEpsilon(a) {
		symbols = append(symbols, Epsilon)
	}

	headers := append([]string{"STATE"}, symbols...)
	rows := make([][]string, 0, len(a.States))

	for _, label := range a.States {
		mark := ""
		if label == a.StartState {
			mark += "→"
		}
		if a.IsAccepting(label) {
			mark += "*"
		}

		row := []string{mark + label}
		for _, symbol := range symbols {
			dests := a.Transitions[label][symbol]
			switch len(dests) {
			case 0:
				row = append(row, "")
			case 1:
				row = append(row, dests[0])
			default:
				row = append(row, "{"+strings.Join(dests, ",")+"}")
			}
		}
		rows = append(rows, row)
	}

	return headers, rows
}

func usesEpsilon(a *FSA) bool {
	for _, bySymbol := range a.Transitions {
		if len(bySymbol[Epsilon]) > 0 {
			return true
		}
	}
	return false
}

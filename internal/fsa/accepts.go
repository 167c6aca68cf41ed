package fsa

import "fmt"

// Accepts прогоняет слово через автомат и сообщает, принято ли оно.
//
// Работает и для NFA: текущее множество состояний замыкается по ε
// после каждого символа. Символ вне алфавита — ErrUnknownSymbol.
func (a *FSA) Accepts(word []string) (bool, error) {
	if a.StartState == "" {
		return false, nil
	}

	current, err := EpsilonClosure(a, []string{a.StartState})
	if err != nil {
		return false, err
	}

	for _, symbol := range word {
		if symbol == Epsilon || !a.HasSymbol(symbol) {
			return false, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
		}

		next, err := Move(a, current, symbol)
		if err != nil {
			return false, err
		}
		current, err = EpsilonClosure(a, next)
		if err != nil {
			return false, err
		}
		if len(current) == 0 {
			return false, nil
		}
	}

	return Intersects(current, a.AcceptStates), nil
}

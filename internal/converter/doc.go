// Package converter реализует пошаговое построение DFA из NFA
// методом подмножеств.
//
// Включает:
//   - converter.go — Converter: frontier, explored, StepForward/Complete
//   - step.go      — Step: описание одного шага для отображения
//   - labels.go    — схемы именования состояний DFA
//
// Один вызов StepForward обрабатывает одну пару (состояние DFA, символ).
// Порядок шагов, имена состояний и итоговый DFA полностью определяются
// исходным NFA и порядком его алфавита.
//
// Использование:
//
//	conv, err := converter.New(nfa, converter.Config{})
//	if err != nil {
//	    return err
//	}
//	for {
//	    step, err := conv.StepForward()
//	    if err != nil {
//	        return err // конвертер больше не пригоден
//	    }
//	    if step == nil {
//	        break // frontier пуст
//	    }
//	    render(step.DFA, step.Description)
//	}
package converter

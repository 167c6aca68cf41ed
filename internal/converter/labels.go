package converter

import (
	"fmt"

	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// LabelScheme — способ именования состояний DFA.
type LabelScheme string

const (
	// LabelSets — метка из множества состояний NFA: "{1,3}".
	LabelSets LabelScheme = "sets"

	// LabelLetters — буквы в порядке обнаружения: A, B, …, Z, AA, AB, …
	LabelLetters LabelScheme = "letters"
)

// ParseLabelScheme парсит имя схемы. Пустая строка — LabelSets.
func ParseLabelScheme(s string) (LabelScheme, error) {
	switch LabelScheme(s) {
	case "", LabelSets:
		return LabelSets, nil
	case LabelLetters:
		return LabelLetters, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownLabelScheme, s)
	}
}

// letters возвращает i-ю (с нуля) букву в биективной 26-ричной записи.
func letters(i int) string {
	var buf []byte
	for i++; i > 0; i = (i - 1) / 26 {
		buf = append([]byte{byte('A' + (i-1)%26)}, buf...)
	}
	return string(buf)
}

// labelFor подбирает метку для нового состояния DFA.
// Если метка уже занята (метки NFA с запятыми могут дать одинаковый
// вид множества), добавляется штрих.
func labelFor(scheme LabelScheme, index int, closure []string, taken func(string) bool) string {
	label := fsa.SetLabel(closure)
	if scheme == LabelLetters {
		label = letters(index)
	}
	for taken(label) {
		label += "'"
	}
	return label
}

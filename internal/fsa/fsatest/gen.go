// Package fsatest содержит генераторы случайных автоматов для property-тестов.
package fsatest

import (
	"fmt"
	"math/rand"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// RandomNFA строит случайный валидный NFA из зерна.
// Старт — q0; ε-переходы встречаются реже обычных.
func RandomNFA(seed int64, maxStates int, alphabet []string) *fsa.FSA {
	r := rand.New(rand.NewSource(seed))
	n := 1 + r.Intn(maxStates)

	a := fsa.New()
	for i := 0; i < n; i++ {
		_ = a.AddState(fmt.Sprintf("q%d", i))
	}
	_ = a.SetAlphabet(alphabet)

	symbols := append(append([]string{}, alphabet...), fsa.Epsilon)
	for _, from := range a.States {
		for _, symbol := range symbols {
			chance := 60
			if symbol == fsa.Epsilon {
				chance = 25
			}
			if r.Intn(100) >= chance {
				continue
			}
			for k := 1 + r.Intn(2); k > 0; k-- {
				_ = a.AddTransition(from, a.States[r.Intn(n)], symbol)
			}
		}
		if r.Intn(3) == 0 {
			_ = a.AddAcceptState(from)
		}
	}
	_ = a.SetStartState(a.States[0])

	return a
}

// GenNFA — генератор случайных NFA над заданным алфавитом.
func GenNFA(maxStates int, alphabet []string) gopter.Gen {
	return gen.Int64().Map(func(seed int64) *fsa.FSA {
		return RandomNFA(seed, maxStates, alphabet)
	})
}

// GenWord — генератор слов над алфавитом длиной до maxLen.
func GenWord(maxLen int, alphabet []string) gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(alphabet)-1)).Map(func(idx []int) []string {
		if len(idx) > maxLen {
			idx = idx[:maxLen]
		}
		word := make([]string, len(idx))
		for i, k := range idx {
			word[i] = alphabet[k]
		}
		return word
	})
}

// GenWords — генератор набора из count слов длиной до maxLen.
func GenWords(count, maxLen int, alphabet []string) gopter.Gen {
	return gen.Int64().Map(func(seed int64) [][]string {
		r := rand.New(rand.NewSource(seed))
		words := make([][]string, count)
		for i := range words {
			word := make([]string, r.Intn(maxLen+1))
			for k := range word {
				word[k] = alphabet[r.Intn(len(alphabet))]
			}
			words[i] = word
		}
		return words
	})
}

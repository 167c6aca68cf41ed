package fsa_test

import (
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/shaiso/nfa2dfa/internal/fsa"
	"github.com/shaiso/nfa2dfa/internal/fsa/fsatest"
)

var alphabet = []string{"a", "b"}

// TestEpsilonClosureFixedPoint — closure(closure(S)) == closure(S).
func TestEpsilonClosureFixedPoint(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("closure is a fixed point", prop.ForAll(
		func(a *fsa.FSA, pick []bool) bool {
			var seed []string
			for i, label := range a.States {
				if i < len(pick) && pick[i] {
					seed = append(seed, label)
				}
			}

			first, err := fsa.EpsilonClosure(a, seed)
			if err != nil {
				return false
			}
			second, err := fsa.EpsilonClosure(a, first)
			if err != nil {
				return false
			}
			return slices.Equal(first, second)
		},
		fsatest.GenNFA(8, alphabet),
		gen.SliceOfN(8, gen.Bool()),
	))

	properties.Property("closure contains its seed", prop.ForAll(
		func(a *fsa.FSA) bool {
			closure, err := fsa.EpsilonClosure(a, a.States)
			if err != nil {
				return false
			}
			return slices.Equal(closure, fsa.Canonical(a.States))
		},
		fsatest.GenNFA(8, alphabet),
	))

	properties.TestingRun(t)
}

// TestKeyProperties — ключ не зависит от порядка и повторов.
func TestKeyProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("key ignores order and duplicates", prop.ForAll(
		func(labels []string) bool {
			shuffled := slices.Clone(labels)
			slices.Reverse(shuffled)
			shuffled = append(shuffled, labels...)
			return fsa.Key(labels) == fsa.Key(shuffled)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("equal keys mean equal sets", prop.ForAll(
		func(x, y []string) bool {
			if fsa.Key(x) != fsa.Key(y) {
				return true
			}
			return slices.Equal(fsa.Canonical(x), fsa.Canonical(y))
		},
		gen.SliceOf(gen.OneConstOf("1", "2", "1,2", ",", "")),
		gen.SliceOf(gen.OneConstOf("1", "2", "1,2", ",", "")),
	))

	properties.TestingRun(t)
}

// TestSnapshotRoundTrip — Decompose → Reconstruct сохраняет автомат.
func TestSnapshotRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("snapshot round trip", prop.ForAll(
		func(a *fsa.FSA) bool {
			got, err := fsa.Decompose(a, nil).Reconstruct()
			if err != nil {
				return false
			}
			return slices.Equal(got.States, a.States) &&
				got.StartState == a.StartState &&
				got.TransitionCount() == a.TransitionCount() &&
				slices.Equal(got.AcceptStates, a.AcceptStates)
		},
		fsatest.GenNFA(8, alphabet),
	))

	properties.TestingRun(t)
}

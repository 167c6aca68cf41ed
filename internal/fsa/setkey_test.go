package fsa

import (
	"slices"
	"testing"
)

func TestCanonical(t *testing.T) {
	in := []string{"3", "1", "3", "2"}
	got := Canonical(in)

	if !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("expected [1 2 3], got %v", got)
	}
	if !slices.Equal(in, []string{"3", "1", "3", "2"}) {
		t.Error("Canonical must not modify its input")
	}
	if got := Canonical(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestKey_OrderIndependent(t *testing.T) {
	if Key([]string{"1", "3"}) != Key([]string{"3", "1", "1"}) {
		t.Error("keys of equal sets must match")
	}
	if Key([]string{"1", "3"}) == Key([]string{"1", "2"}) {
		t.Error("keys of different sets must differ")
	}
	if Key(nil) != Key([]string{}) {
		t.Error("empty set key must be stable")
	}
}

func TestKey_NoSeparatorCollisions(t *testing.T) {
	// Наивное объединение через запятую дало бы одинаковый ключ
	tests := [][2][]string{
		{{"a,b"}, {"a", "b"}},
		{{"1:1"}, {"1", "1:"}},
		{{"{1}"}, {"1"}},
		{{""}, {}},
	}

	for _, tt := range tests {
		if Key(tt[0]) == Key(tt[1]) {
			t.Errorf("sets %q and %q must have different keys", tt[0], tt[1])
		}
	}
}

func TestSetLabel(t *testing.T) {
	if got := SetLabel([]string{"3", "1"}); got != "{1,3}" {
		t.Errorf("expected {1,3}, got %s", got)
	}
	if got := SetLabel(nil); got != "∅" {
		t.Errorf("expected ∅, got %s", got)
	}
}

func TestIntersects(t *testing.T) {
	if !Intersects([]string{"1", "3"}, []string{"3"}) {
		t.Error("sets share 3")
	}
	if Intersects([]string{"2"}, []string{"1", "3"}) {
		t.Error("sets are disjoint")
	}
	if Intersects(nil, []string{"1"}) {
		t.Error("empty set intersects nothing")
	}
}

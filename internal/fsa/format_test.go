package fsa

import (
	"bytes"
	"errors"
	"slices"
	"testing"
)

const sipserJSON = `{
  "nodes": [
    {"label": "1", "loc": {"x": 200, "y": 100}, "transitionText": {"2": ["b"], "3": ["ε"]}, "acceptState": true},
    {"label": "2", "loc": {"x": 600, "y": 100}, "transitionText": {"2": ["a"], "3": ["a", "b"]}},
    {"label": "3", "loc": {"x": 400, "y": 400}, "transitionText": {"1": ["a"]}}
  ],
  "fsa": {
    "states": ["1", "2", "3"],
    "alphabet": ["a", "b"],
    "transitions": {"1": {"b": ["2"], "ε": ["3"]}, "2": {"a": ["3", "2"], "b": ["3"]}, "3": {"a": ["1"]}},
    "startState": "1",
    "acceptStates": ["1"]
  }
}`

const sipserHCL = `
alphabet = ["a", "b"]
start    = "1"

state "1" {
  accept = true
  x      = 200
  y      = 100

  on "b" { to = ["2"] }
  on "epsilon" { to = ["3"] }
}

state "2" {
  on "a" { to = ["2", "3"] }
  on "b" { to = ["3"] }
}

state "3" {
  on "a" { to = ["1"] }
}
`

func TestDecodeSnapshot_JSON(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(sipserJSON), FormatJSON, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Normalize сортирует назначения
	if !slices.Equal(snap.FSA.Transitions["2"]["a"], []string{"2", "3"}) {
		t.Errorf("expected normalized destinations, got %v", snap.FSA.Transitions["2"]["a"])
	}

	a, err := snap.Reconstruct()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.StartState != "1" || !a.IsAccepting("1") {
		t.Errorf("unexpected automaton: %+v", a)
	}
	if snap.Locations()["2"] != (Location{X: 600, Y: 100}) {
		t.Errorf("unexpected location: %+v", snap.Locations()["2"])
	}
}

func TestDecodeSnapshot_MissingFSA(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"nodes": []}`), FormatJSON, "")
	if !errors.Is(err, ErrMissingFSA) {
		t.Errorf("expected ErrMissingFSA, got %v", err)
	}
}

func TestDecodeSnapshot_HCL(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(sipserHCL), FormatHCL, "sipser.hcl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := snap.Reconstruct()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := newTestFSA(t)
	if !slices.Equal(a.States, want.States) || !slices.Equal(a.Alphabet, want.Alphabet) {
		t.Errorf("unexpected states/alphabet: %v %v", a.States, a.Alphabet)
	}
	if !slices.Equal(a.Transitions["1"][Epsilon], []string{"3"}) {
		t.Errorf("epsilon alias not resolved: %v", a.Transitions["1"])
	}
	if a.TransitionCount() != want.TransitionCount() {
		t.Errorf("expected %d transitions, got %d", want.TransitionCount(), a.TransitionCount())
	}
	if snap.Locations()["1"] != (Location{X: 200, Y: 100}) {
		t.Errorf("unexpected location: %+v", snap.Locations()["1"])
	}
}

func TestDecodeSnapshot_HCLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `alphabet = [`},
		{"unknown symbol", "alphabet = [\"a\"]\nstate \"1\" {\n  on \"z\" { to = [\"1\"] }\n}\n"},
		{"unknown start", "alphabet = [\"a\"]\nstart = \"9\"\nstate \"1\" {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSnapshot([]byte(tt.src), FormatHCL, "bad.hcl"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEncodeDecode_AllFormats(t *testing.T) {
	original, err := Preset("sipser")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, format := range []Format{FormatJSON, FormatYAML, FormatHCL} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeSnapshot(&buf, original, format); err != nil {
				t.Fatalf("encode: %v", err)
			}

			decoded, err := DecodeSnapshot(buf.Bytes(), format, "preset."+string(format))
			if err != nil {
				t.Fatalf("decode: %v\n%s", err, buf.String())
			}

			a, err := decoded.Reconstruct()
			if err != nil {
				t.Fatalf("reconstruct: %v", err)
			}
			if !slices.Equal(a.States, original.FSA.States) {
				t.Errorf("states changed: %v", a.States)
			}
			if a.TransitionCount() != original.FSA.TransitionCount() {
				t.Errorf("transitions changed: %v", a.Transitions)
			}
			if decoded.Locations()["3"] != original.Locations()["3"] {
				t.Errorf("locations changed: %+v", decoded.Locations())
			}
		})
	}
}

func TestHCL_EpsilonSymbolInAlphabet(t *testing.T) {
	a := New()
	for _, label := range []string{"1", "2"} {
		if err := a.AddState(label); err != nil {
			t.Fatalf("AddState: %v", err)
		}
	}
	if err := a.SetAlphabet([]string{"epsilon"}); err != nil {
		t.Fatalf("SetAlphabet: %v", err)
	}
	if err := a.AddTransition("1", "2", "epsilon"); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}
	if err := a.AddTransition("2", "1", Epsilon); err != nil {
		t.Fatalf("AddTransition: %v", err)
	}
	if err := a.SetStartState("1"); err != nil {
		t.Fatalf("SetStartState: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, Decompose(a, nil), FormatHCL); err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeSnapshot(buf.Bytes(), FormatHCL, "epsilon.hcl")
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	got, err := decoded.Reconstruct()
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}

	if !slices.Equal(got.Transitions["1"]["epsilon"], []string{"2"}) {
		t.Errorf("symbol \"epsilon\" lost: %v\n%s", got.Transitions["1"], buf.String())
	}
	if _, ok := got.Transitions["1"][Epsilon]; ok {
		t.Errorf("symbol \"epsilon\" decoded as ε: %v", got.Transitions["1"])
	}
	if !slices.Equal(got.Transitions["2"][Epsilon], []string{"1"}) {
		t.Errorf("ε edge lost: %v", got.Transitions["2"])
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"nfa.json", FormatJSON},
		{"nfa.yml", FormatYAML},
		{"dir/nfa.YAML", FormatYAML},
		{"nfa.hcl", FormatHCL},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatFromPath(%s) = %s, %v", tt.path, got, err)
		}
	}

	if _, err := FormatFromPath("nfa.txt"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := FormatFromPath("nfa"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

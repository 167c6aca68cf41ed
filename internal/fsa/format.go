package fsa

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Format — формат файла со снимком автомата.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// ParseFormat парсит имя формата.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// FormatFromPath определяет формат по расширению файла.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// DecodeSnapshot декодирует снимок из данных в указанном формате.
// filename используется только в диагностике HCL.
func DecodeSnapshot(data []byte, format Format, filename string) (*Snapshot, error) {
	var snap Snapshot

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatHCL:
		s, err := decodeHCL(data, filename)
		if err != nil {
			return nil, err
		}
		snap = *s
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if snap.FSA == nil {
		return nil, ErrMissingFSA
	}
	snap.FSA.Normalize()

	return &snap, nil
}

// EncodeSnapshot записывает снимок в указанном формате.
func EncodeSnapshot(w io.Writer, snap *Snapshot, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatHCL:
		_, err := w.Write(encodeHCL(snap))
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// --- HCL ---
//
// Пример файла:
//
//	alphabet = ["a", "b"]
//	start    = "1"
//
//	state "1" {
//	  accept = true
//	  x      = 200
//	  y      = 100
//
//	  on "b" { to = ["2"] }
//	  on "ε" { to = ["3"] }
//	}
//
// Вместо "ε" в метке перехода можно писать "epsilon", если такого
// символа нет в алфавите. Кодировщик всегда пишет "ε".

// hclEpsilonAlias — ASCII-синоним ε в HCL-файлах.
const hclEpsilonAlias = "epsilon"

type hclAutomatonFile struct {
	Alphabet []string    `hcl:"alphabet"`
	Start    string      `hcl:"start,optional"`
	States   []*hclState `hcl:"state,block"`
}

type hclState struct {
	Label       string           `hcl:"label,label"`
	Accept      bool             `hcl:"accept,optional"`
	X           float64          `hcl:"x,optional"`
	Y           float64          `hcl:"y,optional"`
	Transitions []*hclTransition `hcl:"on,block"`
}

type hclTransition struct {
	Symbol string   `hcl:"symbol,label"`
	To     []string `hcl:"to"`
}

func decodeHCL(data []byte, filename string) (*Snapshot, error) {
	if filename == "" {
		filename = "automaton.hcl"
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclAutomatonFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	a := New()
	locs := make(map[string]Location, len(parsed.States))

	for _, st := range parsed.States {
		if err := a.AddState(st.Label); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		locs[st.Label] = Location{X: st.X, Y: st.Y}
	}
	if err := a.SetAlphabet(parsed.Alphabet); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	for _, st := range parsed.States {
		if st.Accept {
			if err := a.AddAcceptState(st.Label); err != nil {
				return nil, fmt.Errorf("%s: %w", filename, err)
			}
		}
		for _, tr := range st.Transitions {
			symbol := tr.Symbol
			if symbol == hclEpsilonAlias && !a.HasSymbol(hclEpsilonAlias) {
				symbol = Epsilon
			}
			for _, to := range tr.To {
				if err := a.AddTransition(st.Label, to, symbol); err != nil {
					return nil, fmt.Errorf("%s: %w", filename, err)
				}
			}
		}
	}

	if parsed.Start != "" {
		if err := a.SetStartState(parsed.Start); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}

	return Decompose(a, locs), nil
}

func encodeHCL(snap *Snapshot) []byte {
	a := snap.FSA
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("alphabet", stringList(a.Alphabet))
	if a.StartState != "" {
		body.SetAttributeValue("start", cty.StringVal(a.StartState))
	}

	locs := snap.Locations()
	for _, label := range a.States {
		body.AppendNewline()
		sb := body.AppendNewBlock("state", []string{label}).Body()
		if a.IsAccepting(label) {
			sb.SetAttributeValue("accept", cty.True)
		}
		loc := locs[label]
		sb.SetAttributeValue("x", cty.NumberFloatVal(loc.X))
		sb.SetAttributeValue("y", cty.NumberFloatVal(loc.Y))

		symbols := make([]string, 0, len(a.Transitions[label]))
		for symbol := range a.Transitions[label] {
			symbols = append(symbols, symbol)
		}
		for _, symbol := range Canonical(symbols) {
			tb := sb.AppendNewBlock("on", []string{symbol}).Body()
			tb.SetAttributeValue("to", stringList(a.Transitions[label][symbol]))
		}
	}

	return bytes.TrimLeft(f.Bytes(), "\n")
}

func stringList(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	return cty.ListVal(vals)
}

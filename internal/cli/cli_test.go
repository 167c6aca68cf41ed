package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaiso/nfa2dfa/internal/domain"
	"github.com/shaiso/nfa2dfa/internal/fsa"
	"github.com/shaiso/nfa2dfa/internal/mq"
)

type captured struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (c *captured) outputFn(jsonMode bool) func() *Output {
	return func() *Output {
		return NewOutputTo(jsonMode, &c.stdout, &c.stderr)
	}
}

func run(t *testing.T, ctx context.Context, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.ExecuteContext(ctx)
}

// Convert Tests

func TestConvertCmd_PresetWithTrace(t *testing.T) {
	var c captured
	err := run(t, context.Background(), NewConvertCmd(c.outputFn(false)), "--preset", "sipser", "--labels", "letters", "--trace")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	out := c.stdout.String()
	for _, want := range []string{
		"  0  δ(A, a) = A",
		"  1  δ(A, b) = B: new state for NFA states {2}",
		"δ(D, b) = ∅: no transition",
		"STATE",
		"→*A",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func TestConvertCmd_JSON(t *testing.T) {
	var c captured
	if err := run(t, context.Background(), NewConvertCmd(c.outputFn(true)), "--preset", "dead-end"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	snap, err := fsa.DecodeSnapshot(c.stdout.Bytes(), fsa.FormatJSON, "")
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(snap.FSA.States) != 3 || snap.FSA.StartState != "{1,2}" {
		t.Errorf("unexpected DFA: %+v", snap.FSA)
	}
	if !snap.FSA.IsDeterministic() {
		t.Error("DFA must be deterministic")
	}
}

func TestConvertCmd_Animate(t *testing.T) {
	var c captured
	err := run(t, context.Background(), NewConvertCmd(c.outputFn(false)), "--preset", "sipser", "--animate", "--interval", "1ms")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	lines := strings.Count(c.stdout.String(), "δ(")
	if lines != 10 {
		t.Errorf("animated steps printed = %d, want 10:\n%s", lines, c.stdout.String())
	}
}

func TestConvertCmd_AnimationInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var c captured
	err := run(t, ctx, NewConvertCmd(c.outputFn(false)), "--preset", "sipser", "--animate", "--interval", "1h")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if !strings.Contains(c.stderr.String(), "Animation stopped after 0 steps, 1 pending") {
		t.Errorf("stderr = %q", c.stderr.String())
	}
	if !strings.Contains(c.stdout.String(), "→*{1,3}") {
		t.Errorf("partial DFA missing start state:\n%s", c.stdout.String())
	}
}

func TestConvertCmd_FileToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sipser.yaml")
	dst := filepath.Join(dir, "dfa.hcl")

	snap, err := fsa.Preset("sipser")
	if err != nil {
		t.Fatalf("Preset: %v", err)
	}
	f, err := os.Create(in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := fsa.EncodeSnapshot(f, snap, fsa.FormatYAML); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	var c captured
	if err := run(t, context.Background(), NewConvertCmd(c.outputFn(false)), in, "--out", dst); err != nil {
		t.Fatalf("convert: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	dfa, err := fsa.DecodeSnapshot(data, fsa.FormatHCL, dst)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(dfa.FSA.States) != 5 {
		t.Errorf("DFA states = %v, want 5", dfa.FSA.States)
	}
}

func TestConvertCmd_SourceErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"nothing", nil, errSource},
		{"file and preset", []string{"x.json", "--preset", "sipser"}, errSource},
		{"unknown preset", []string{"--preset", "nope"}, fsa.ErrPresetNotFound},
		{"unknown format", []string{"x.toml"}, fsa.ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c captured
			err := run(t, context.Background(), NewConvertCmd(c.outputFn(false)), tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// Preset Tests

func TestPresetCmd(t *testing.T) {
	var c captured
	if err := run(t, context.Background(), NewPresetCmd(c.outputFn(false)), "list"); err != nil {
		t.Fatalf("preset list: %v", err)
	}
	for _, name := range fsa.PresetNames() {
		if !strings.Contains(c.stdout.String(), name) {
			t.Errorf("list misses %s", name)
		}
	}

	c = captured{}
	if err := run(t, context.Background(), NewPresetCmd(c.outputFn(false)), "show", "sipser", "--format", "hcl"); err != nil {
		t.Fatalf("preset show: %v", err)
	}
	snap, err := fsa.DecodeSnapshot(c.stdout.Bytes(), fsa.FormatHCL, "sipser.hcl")
	if err != nil {
		t.Fatalf("decode hcl: %v", err)
	}
	if len(snap.FSA.States) != 3 {
		t.Errorf("states = %v", snap.FSA.States)
	}
}

// Client Tests

func TestClient_Session(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/sessions/s1/step":
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Write([]byte(`{"data":{"step":{"index":0,"from":"A","symbol":"a","to":"A","description":"δ(A, a) = A"},"session":{"id":"s1","status":"IDLE","step_count":1,"pending":1}}}`))
		case "/api/v1/sessions/s1/steps":
			if r.URL.Query().Get("offset") != "3" {
				t.Errorf("offset = %q", r.URL.Query().Get("offset"))
			}
			w.Write([]byte(`{"data":[{"index":3}],"total":1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"session not found"}}`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	result, err := client.StepSession("s1")
	if err != nil {
		t.Fatalf("StepSession: %v", err)
	}
	if result.Step == nil || result.Step.Description != "δ(A, a) = A" || result.Session.StepCount != 1 {
		t.Errorf("unexpected result: %+v", result)
	}

	steps, err := client.ListSessionSteps("s1", 3)
	if err != nil {
		t.Fatalf("ListSessionSteps: %v", err)
	}
	if len(steps) != 1 || steps[0].Index != 3 {
		t.Errorf("steps = %+v", steps)
	}

	_, err = client.GetSession("missing")
	if err == nil || err.Error() != "NOT_FOUND: session not found" {
		t.Errorf("err = %v", err)
	}
}

func TestSessionStepCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"step":null,"session":{"id":"s1","complete":true}}}`))
	}))
	defer srv.Close()

	var c captured
	cmd := NewSessionCmd(func() *Client { return NewClient(srv.URL) }, c.outputFn(false))
	if err := run(t, context.Background(), cmd, "step", "s1"); err != nil {
		t.Fatalf("session step: %v", err)
	}
	if !strings.Contains(c.stderr.String(), "already complete") {
		t.Errorf("stderr = %q", c.stderr.String())
	}
}

// Watch Tests

func TestEventPrinter(t *testing.T) {
	var c captured
	target := uuid.New()
	handler := eventPrinter(NewOutputTo(false, &c.stdout, &c.stderr), target.String())

	deliver := func(sessionID uuid.UUID, kind domain.EventType) {
		t.Helper()
		ev := domain.SessionEvent{
			Type:        kind,
			SessionID:   sessionID,
			StepIndex:   4,
			Description: "δ({2}, b) = {3}: new state for NFA states {3}",
			States:      4,
			Pending:     2,
			OccurredAt:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		}
		d := &mq.Delivery{Message: mq.Message{Type: mq.MessageTypeSessionEvent, Payload: ev}}
		if err := handler(context.Background(), d); err != nil {
			t.Fatalf("handler: %v", err)
		}
	}

	deliver(target, domain.EventStep)
	deliver(uuid.New(), domain.EventStep)

	out := c.stdout.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected one line, got:\n%s", out)
	}
	if !strings.Contains(out, "#4 δ({2}, b) = {3}") || !strings.Contains(out, "12:00:00.000") {
		t.Errorf("line = %q", out)
	}

	c = captured{}
	handler = eventPrinter(NewOutputTo(false, &c.stdout, &c.stderr), "")
	d := &mq.Delivery{Message: mq.Message{
		Type: mq.MessageTypeConversionCompleted,
		Payload: mq.ConversionCompletedPayload{
			ConversionID: uuid.New(),
			AutomatonID:  uuid.New(),
			Status:       "FAILED",
			Steps:        3,
			Error:        "state not found",
		},
	}}
	if err := handler(context.Background(), d); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !strings.Contains(c.stdout.String(), "FAILED") || !strings.Contains(c.stdout.String(), ": state not found") {
		t.Errorf("line = %q", c.stdout.String())
	}
}

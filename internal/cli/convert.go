package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/nfa2dfa/internal/animator"
	"github.com/shaiso/nfa2dfa/internal/converter"
	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// NewConvertCmd создаёт команду локального построения DFA.
// Работает без API: NFA читается из файла или встроенного примера.
func NewConvertCmd(outputFn func() *Output) *cobra.Command {
	var (
		src       sourceFlags
		labels    string
		trace     bool
		animate   bool
		interval  time.Duration
		outPath   string
		outFormat string
	)

	cmd := &cobra.Command{
		Use:   "convert [FILE]",
		Short: "Convert an NFA to a DFA by subset construction",
		Long: `Convert reads an NFA from FILE (json, yaml or hcl; "-" for stdin)
or takes a built-in preset, builds the equivalent DFA and prints its
transition table. With --animate the steps are printed one by one
at the given interval; Ctrl+C stops the animation and prints the
partial DFA.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			snap, err := src.snapshot(args)
			if err != nil {
				return err
			}
			nfa, err := snap.Reconstruct()
			if err != nil {
				return err
			}

			scheme, err := converter.ParseLabelScheme(labels)
			if err != nil {
				return err
			}
			conv, err := converter.New(nfa, converter.Config{Labels: scheme})
			if err != nil {
				return err
			}

			if animate {
				err = animateConversion(cmd.Context(), conv, interval, out)
			} else {
				var steps []*converter.Step
				steps, err = conv.Complete()
				if trace {
					printSteps(out, steps)
				}
			}

			switch {
			case errors.Is(err, context.Canceled):
				out.Success(fmt.Sprintf("Animation stopped after %d steps, %d pending", conv.StepCount(), conv.Pending()))
			case err != nil:
				return fmt.Errorf("conversion failed after %d steps: %w", conv.StepCount(), err)
			}

			dfa := conv.Snapshot()
			printAutomaton(out, dfa)

			if outPath != "" {
				if err := writeSnapshot(outPath, outFormat, dfa); err != nil {
					return err
				}
				out.Success(fmt.Sprintf("DFA written to %s", outPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&src.preset, "preset", "", "Use a built-in NFA instead of FILE")
	cmd.Flags().StringVar(&src.format, "format", "", "Input format: json, yaml, hcl (default: by extension)")
	cmd.Flags().StringVar(&labels, "labels", string(converter.LabelSets), "DFA state labels: sets, letters")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print every construction step")
	cmd.Flags().BoolVar(&animate, "animate", false, "Print steps one by one at --interval")
	cmd.Flags().DurationVar(&interval, "interval", animator.DefaultInterval, "Delay between animated steps")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the DFA snapshot to this file")
	cmd.Flags().StringVar(&outFormat, "out-format", "", "Output file format (default: by extension)")

	return cmd
}

// animateConversion выполняет шаги по таймеру до завершения,
// ошибки шага или отмены ctx.
func animateConversion(ctx context.Context, conv *converter.Converter, interval time.Duration, out *Output) error {
	done := make(chan error, 1)

	anim := animator.New(animator.Config{
		Stepper:  conv,
		Interval: interval,
		Renderer: animator.RendererFunc(func(step *converter.Step) {
			out.Line("%3d  %s", step.Index, step.Description)
		}),
	})
	anim.Subscribe(func(ev animator.Event) {
		switch ev.Type {
		case animator.EventComplete:
			done <- nil
		case animator.EventError:
			done <- ev.Err
		}
	})

	anim.Play()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		anim.Stop()
		return ctx.Err()
	}
}

func printSteps(out *Output, steps []*converter.Step) {
	if out.JSONMode() {
		return
	}
	for _, step := range steps {
		out.Line("%3d  %s", step.Index, step.Description)
	}
	out.Line("")
}

// printAutomaton выводит таблицу δ или снимок в JSON.
func printAutomaton(out *Output, snap *fsa.Snapshot) {
	headers, rows := fsa.DeltaTable(snap.FSA)
	out.Print(headers, rows, snap)
}

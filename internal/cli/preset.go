package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/nfa2dfa/internal/fsa"
)

// NewPresetCmd создаёт группу команд для встроенных примеров NFA.
func NewPresetCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Show built-in NFAs",
	}

	cmd.AddCommand(
		newPresetListCmd(outputFn),
		newPresetShowCmd(outputFn),
	)

	return cmd
}

func newPresetListCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in NFAs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			names := fsa.PresetNames()
			headers := []string{"NAME", "STATES", "ALPHABET"}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				snap, err := fsa.Preset(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					name,
					strconv.Itoa(len(snap.FSA.States)),
					strings.Join(snap.FSA.Alphabet, " "),
				})
			}

			out.Print(headers, rows, names)
			return nil
		},
	}
}

func newPresetShowCmd(outputFn func() *Output) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show a built-in NFA",
		Long: `Show prints the transition table of a built-in NFA, or the
whole snapshot in the given --format, ready to be edited and fed
back to convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			snap, err := fsa.Preset(args[0])
			if err != nil {
				return err
			}

			if format == "" {
				printAutomaton(out, snap)
				return nil
			}

			f, err := fsa.ParseFormat(format)
			if err != nil {
				return err
			}
			return fsa.EncodeSnapshot(out.Writer(), snap, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Print the snapshot as json, yaml or hcl")

	return cmd
}

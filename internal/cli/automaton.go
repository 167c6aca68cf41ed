package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/nfa2dfa/internal/fsa"
)

var automatonHeaders = []string{"ID", "NAME", "STATES", "ALPHABET", "UPDATED"}

func automatonRow(a AutomatonResponse) []string {
	return []string{a.ID, a.Name, strconv.Itoa(a.States), strings.Join(a.Alphabet, " "), a.UpdatedAt}
}

var conversionHeaders = []string{"ID", "STATUS", "LABELS", "STATES", "STEPS", "CREATED", "ERROR"}

func conversionRow(c ConversionResponse) []string {
	return []string{c.ID, c.Status, c.Labels, strconv.Itoa(c.States), strconv.Itoa(c.Steps), c.CreatedAt, c.Error}
}

// NewAutomatonCmd создаёт группу команд для сохранённых NFA.
func NewAutomatonCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "automaton",
		Aliases: []string{"nfa"},
		Short:   "Manage stored NFAs",
	}

	cmd.AddCommand(
		newAutomatonListCmd(clientFn, outputFn),
		newAutomatonCreateCmd(clientFn, outputFn),
		newAutomatonShowCmd(clientFn, outputFn),
		newAutomatonUpdateCmd(clientFn, outputFn),
		newAutomatonDeleteCmd(clientFn, outputFn),
		newAutomatonConvertCmd(clientFn, outputFn),
		newAutomatonConversionsCmd(clientFn, outputFn),
	)

	return cmd
}

func newAutomatonListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored NFAs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			automata, err := client.ListAutomata()
			if err != nil {
				return err
			}

			rows := make([][]string, len(automata))
			for i, a := range automata {
				rows[i] = automatonRow(a)
			}

			out.Print(automatonHeaders, rows, automata)
			return nil
		},
	}
}

func newAutomatonCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var (
		src         sourceFlags
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create [FILE]",
		Short: "Store an NFA from a file or a preset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			source, err := src.request(args)
			if err != nil {
				return err
			}

			automaton, err := client.CreateAutomaton(CreateAutomatonRequest{
				Name:          name,
				Description:   description,
				SourceRequest: source,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Automaton created: %s", automaton.ID))
			out.Print(automatonHeaders, [][]string{automatonRow(*automaton)}, automaton)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Automaton name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().StringVar(&src.preset, "preset", "", "Store a built-in NFA instead of FILE")
	cmd.Flags().StringVar(&src.format, "format", "", "Input format: json, yaml, hcl (default: by extension)")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newAutomatonShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a stored NFA and its transition table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			automaton, err := client.GetAutomaton(args[0])
			if err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(automaton)
				return nil
			}

			out.Table(automatonHeaders, [][]string{automatonRow(*automaton)})
			out.Line("")
			return printRawSnapshot(out, automaton.Snapshot)
		},
	}
}

func newAutomatonUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var (
		src         sourceFlags
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update ID [FILE]",
		Short: "Rename a stored NFA or replace it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := UpdateAutomatonRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if len(args) == 2 || src.preset != "" {
				source, err := src.request(args[1:])
				if err != nil {
					return err
				}
				req.SourceRequest = source
			}

			automaton, err := client.UpdateAutomaton(args[0], req)
			if err != nil {
				return err
			}

			out.Success("Automaton updated")
			out.Print(automatonHeaders, [][]string{automatonRow(*automaton)}, automaton)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&src.preset, "preset", "", "Replace with a built-in NFA")
	cmd.Flags().StringVar(&src.format, "format", "", "Input format: json, yaml, hcl (default: by extension)")

	return cmd
}

func newAutomatonDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored NFA and its conversions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteAutomaton(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Automaton deleted: %s", args[0]))
			return nil
		},
	}
}

func newAutomatonConvertCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var (
		labels string
		trace  bool
	)

	cmd := &cobra.Command{
		Use:   "convert ID",
		Short: "Build and store the DFA of a stored NFA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			conversion, err := client.CreateConversion(args[0], CreateConversionRequest{
				Labels: labels,
				Trace:  trace,
			})
			if err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(conversion)
				return nil
			}

			out.Success(fmt.Sprintf("Conversion %s: %s", conversion.ID, conversion.Status))
			for _, step := range conversion.Trace {
				out.Line("%3d  %s", step.Index, step.Description)
			}
			if len(conversion.Trace) > 0 {
				out.Line("")
			}
			if conversion.Error != "" {
				return fmt.Errorf("conversion failed after %d steps: %s", conversion.Steps, conversion.Error)
			}
			return printRawSnapshot(out, conversion.DFA)
		},
	}

	cmd.Flags().StringVar(&labels, "labels", "", "DFA state labels: sets, letters")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print every construction step")

	return cmd
}

func newAutomatonConversionsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var opts ListConversionsOpts

	cmd := &cobra.Command{
		Use:   "conversions ID",
		Short: "List stored conversions of an NFA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			conversions, err := client.ListConversions(args[0], opts)
			if err != nil {
				return err
			}

			rows := make([][]string, len(conversions))
			for i, c := range conversions {
				rows[i] = conversionRow(c)
			}

			out.Print(conversionHeaders, rows, conversions)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status: SUCCEEDED, FAILED")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of conversions")

	return cmd
}

// printRawSnapshot выводит таблицу δ снимка, пришедшего из API.
func printRawSnapshot(out *Output, raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	snap, err := fsa.DecodeSnapshot(raw, fsa.FormatJSON, "")
	if err != nil {
		return err
	}
	printAutomaton(out, snap)
	return nil
}

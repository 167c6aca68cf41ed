package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var sessionHeaders = []string{"ID", "NAME", "STATUS", "STEPS", "PENDING", "COMPLETE", "LAST STEP"}

func sessionRow(s SessionResponse) []string {
	last := ""
	if s.LastStep != nil {
		last = s.LastStep.Description
	}
	if s.Error != "" {
		last = "error: " + s.Error
	}
	return []string{
		s.ID,
		s.Name,
		s.Status,
		strconv.Itoa(s.StepCount),
		strconv.Itoa(s.Pending),
		strconv.FormatBool(s.Complete),
		last,
	}
}

var stepHeaders = []string{"#", "FROM", "SYMBOL", "TO", "NEW", "DESCRIPTION"}

func stepRow(s StepSummary) []string {
	return []string{
		strconv.Itoa(s.Index),
		s.From,
		s.Symbol,
		s.To,
		strconv.FormatBool(s.Created),
		s.Description,
	}
}

// NewSessionCmd создаёт группу команд для сессий построения на сервере.
func NewSessionCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Drive step-by-step conversion sessions",
	}

	cmd.AddCommand(
		newSessionListCmd(clientFn, outputFn),
		newSessionCreateCmd(clientFn, outputFn),
		newSessionShowCmd(clientFn, outputFn),
		newSessionStepsCmd(clientFn, outputFn),
		newSessionStepCmd(clientFn, outputFn),
		newSessionCompleteCmd(clientFn, outputFn),
		newSessionActionCmd(clientFn, outputFn, "play", "Start the animation"),
		newSessionActionCmd(clientFn, outputFn, "stop", "Stop the animation"),
		newSessionActionCmd(clientFn, outputFn, "toggle", "Start or stop the animation"),
		newSessionActionCmd(clientFn, outputFn, "reset", "Restart the conversion from the NFA"),
		newSessionDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

func newSessionListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			sessions, err := client.ListSessions()
			if err != nil {
				return err
			}

			rows := make([][]string, len(sessions))
			for i, s := range sessions {
				rows[i] = sessionRow(s)
			}

			out.Print(sessionHeaders, rows, sessions)
			return nil
		},
	}
}

func newSessionCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var (
		src         sourceFlags
		name        string
		automatonID string
		labels      string
		interval    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create [FILE]",
		Short: "Open a session for a stored NFA, a file or a preset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateSessionRequest{
				Name:        name,
				AutomatonID: automatonID,
				Labels:      labels,
				IntervalMs:  interval.Milliseconds(),
			}
			if automatonID == "" {
				source, err := src.request(args)
				if err != nil {
					return err
				}
				req.SourceRequest = source
			} else if len(args) > 0 || src.preset != "" {
				return fmt.Errorf("--automaton cannot be combined with FILE or --preset")
			}

			s, err := client.CreateSession(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Session created: %s", s.ID))
			out.Print(sessionHeaders, [][]string{sessionRow(*s)}, s)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Session name")
	cmd.Flags().StringVar(&automatonID, "automaton", "", "Stored NFA ID")
	cmd.Flags().StringVar(&src.preset, "preset", "", "Use a built-in NFA")
	cmd.Flags().StringVar(&src.format, "format", "", "Input format: json, yaml, hcl (default: by extension)")
	cmd.Flags().StringVar(&labels, "labels", "", "DFA state labels: sets, letters")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Animation interval (default: server setting)")

	return cmd
}

func newSessionShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show session state and the current DFA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			s, err := client.GetSession(args[0])
			if err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(s)
				return nil
			}

			out.Table(sessionHeaders, [][]string{sessionRow(*s)})
			out.Line("")
			return printRawSnapshot(out, s.DFA)
		},
	}
}

func newSessionStepsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "steps ID",
		Short: "Show the step log of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			steps, err := client.ListSessionSteps(args[0], offset)
			if err != nil {
				return err
			}

			rows := make([][]string, len(steps))
			for i, s := range steps {
				rows[i] = stepRow(s)
			}

			out.Print(stepHeaders, rows, steps)
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Skip the first steps")

	return cmd
}

func newSessionStepCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "step ID",
		Short: "Perform one construction step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.StepSession(args[0])
			if err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(result)
				return nil
			}

			if result.Step == nil {
				out.Success("Conversion is already complete")
				return nil
			}
			out.Line("%3d  %s", result.Step.Index, result.Step.Description)
			if result.Session.Complete {
				out.Success("Conversion complete")
			}
			return nil
		},
	}
}

func newSessionCompleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Perform all remaining steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.CompleteSession(args[0])
			if err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(result)
				return nil
			}

			for _, step := range result.Steps {
				out.Line("%3d  %s", step.Index, step.Description)
			}
			out.Success(fmt.Sprintf("Conversion complete: %d steps", result.Session.StepCount))
			return nil
		},
	}
}

func newSessionActionCmd(clientFn func() *Client, outputFn func() *Output, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			s, err := client.SessionAction(args[0], action)
			if err != nil {
				return err
			}

			out.Print(sessionHeaders, [][]string{sessionRow(*s)}, s)
			return nil
		},
	}
}

func newSessionDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Close a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteSession(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Session deleted: %s", args[0]))
			return nil
		},
	}
}

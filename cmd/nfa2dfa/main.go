// nfa2dfa CLI — построение DFA по NFA локально и через HTTP API.
//
// Использование:
//
//	nfa2dfa [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	convert    Построить DFA локально
//	preset     Встроенные примеры NFA
//	automaton  Сохранённые NFA и их построения
//	session    Пошаговые сессии построения
//	watch      События из RabbitMQ
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaiso/nfa2dfa/internal/cli"
	"github.com/shaiso/nfa2dfa/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	// логи не должны смешиваться с выводом команд
	telemetry.SetupLoggerTo(os.Stderr)

	rootCmd := &cobra.Command{
		Use:           "nfa2dfa",
		Short:         "nfa2dfa — NFA to DFA subset construction",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultURL := os.Getenv("NFA2DFA_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaultURL, "API server URL (env NFA2DFA_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewConvertCmd(outputFn),
		cli.NewPresetCmd(outputFn),
		cli.NewAutomatonCmd(clientFn, outputFn),
		cli.NewSessionCmd(clientFn, outputFn),
		cli.NewWatchCmd(outputFn),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

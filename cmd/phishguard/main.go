package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/mikey/phishguard/internal/di"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree; reports are written to out
func newRootCmd(out io.Writer) *cobra.Command {
	flags := &di.CLIFlags{}

	root := &cobra.Command{
		Use:           "phishguard",
		Short:         "Forensic phishing triage with cloud and local LLMs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "Path to config file (default: search /etc/phishguard, ~/.phishguard, ./configs, .)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging and output")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	pf.StringVar(&flags.LocalBaseURL, "local-url", "", "Base URL of the local OpenAI-compatible server")
	pf.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini (default: GEMINI_API_KEY)")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "Per-call inference timeout (default from config, 90s)")
	pf.IntVar(&flags.MaxBodySize, "max-body-size", 0, "Maximum email body size sent to a model")

	root.AddCommand(
		newScanCmd(flags, out),
		newArenaCmd(flags, out),
		newModelsCmd(flags, out),
		newServeCmd(flags),
	)

	return root
}

// withCLI runs fn with dependencies from the interactive container
func withCLI(flags *di.CLIFlags, out io.Writer, fn any) error {
	container, err := di.BuildCLIContainer(flags, out)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}
	return dig.RootCause(container.Invoke(fn))
}

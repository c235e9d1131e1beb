package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mikey/phishguard/internal/adapters/console"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/di"
)

func newModelsCmd(flags *di.CLIFlags, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the available models and the cloud API status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCLI(flags, out, func(svc *core.AnalysisService, printer *console.Printer) {
				printer.PrintModels(svc.Registry(), svc.CloudAvailable())
			})
		},
	}
}

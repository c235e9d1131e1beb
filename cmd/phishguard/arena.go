package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/phishguard/internal/adapters/console"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/di"
	"github.com/mikey/phishguard/internal/report"
)

// ArenaTitle is the report title of a model comparison
const ArenaTitle = "Model Arena Comparison"

type arenaOptions struct {
	models []string
	pdf    string
}

func newArenaCmd(flags *di.CLIFlags, out io.Writer) *cobra.Command {
	opts := &arenaOptions{}

	cmd := &cobra.Command{
		Use:   "arena <artifact>",
		Short: "Compare how several models analyse the same artifact",
		Long: "Runs the artifact (.eml or screenshot, detected from its content) through\n" +
			"each model in COMPARE mode and prints the answers side by side.",
		Example: "  phishguard arena suspicious.eml\n" +
			"  phishguard arena screenshot.png -m \"Cloud: Gemini Flash (Fast)\" -m \"Cloud: Gemini 3 pro (thinking)\" --pdf arena.pdf",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCLI(flags, out, func(
				svc *core.AnalysisService,
				cfg *config.Config,
				printer *console.Printer,
				logger *zap.Logger,
			) error {
				defer logger.Sync() //nolint:errcheck
				return runArena(cmd.Context(), cmd.InOrStdin(), args[0], opts, svc, cfg, printer)
			})
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.models, "model", "m", []string{"Local LLM", "Cloud: Gemini Flash (Fast)"}, "Model to compare (repeatable)")
	f.StringVar(&opts.pdf, "pdf", "", "Write a comparison PDF of the first two models to this path")

	return cmd
}

func runArena(
	ctx context.Context,
	stdin io.Reader,
	path string,
	opts *arenaOptions,
	svc *core.AnalysisService,
	cfg *config.Config,
	printer *console.Printer,
) error {
	if len(opts.models) < 2 {
		return fmt.Errorf("arena needs at least two models, got %d", len(opts.models))
	}
	inference, err := cfg.GetInference()
	if err != nil {
		return err
	}

	raw, err := readInput(path, stdin)
	if err != nil {
		return err
	}
	ev, err := loadArtifact(raw, inference.MaxBodySize)
	if err != nil {
		return err
	}
	if ev.empty() {
		return errNoEvidence
	}

	if len(ev.headers) > 0 {
		printer.PrintEvidence(ev.headers, ev.body)
	}

	entries := svc.Compare(ctx, ev.text, ev.image, opts.models...)
	printer.PrintArena(entries)

	if opts.pdf != "" {
		pdf, err := report.Render(ArenaTitle, ev.headers, entries[0].Result.String(), entries[1].Result.String())
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.pdf, pdf, 0o640); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/phishguard/internal/adapters/console"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/di"
	"github.com/mikey/phishguard/internal/forensics"
	"github.com/mikey/phishguard/internal/report"
	"github.com/mikey/phishguard/internal/utils"
)

type scanOptions struct {
	model   string
	mode    string
	eml     string
	image   string
	text    string
	pdf     string
	noTrace bool
}

func newScanCmd(flags *di.CLIFlags, out io.Writer) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a forensic scan of one artifact with one model",
		Example: "  phishguard scan --eml suspicious.eml\n" +
			"  phishguard scan --model \"Cloud: Gemini Flash (Fast)\" --image screenshot.png --pdf report.pdf\n" +
			"  cat message.eml | phishguard scan --eml -",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCLI(flags, out, func(
				svc *core.AnalysisService,
				cfg *config.Config,
				printer *console.Printer,
				tp *utils.TextProcessor,
				logger *zap.Logger,
			) error {
				defer logger.Sync() //nolint:errcheck
				return runScan(cmd.Context(), cmd.InOrStdin(), opts, svc, cfg, printer, tp)
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.model, "model", "m", "Local LLM", "Model to use (see 'phishguard models')")
	f.StringVar(&opts.mode, "mode", string(core.ModeSingle), "Analysis mode: SINGLE or COMPARE")
	f.StringVar(&opts.eml, "eml", "", "Email file to analyse (- for stdin)")
	f.StringVar(&opts.image, "image", "", "Screenshot to analyse")
	f.StringVar(&opts.text, "text", "", "Raw text evidence")
	f.StringVar(&opts.pdf, "pdf", "", "Write a PDF report to this path")
	f.BoolVar(&opts.noTrace, "no-trace", false, "Do not print the IP routing table")

	return cmd
}

func runScan(
	ctx context.Context,
	stdin io.Reader,
	opts *scanOptions,
	svc *core.AnalysisService,
	cfg *config.Config,
	printer *console.Printer,
	tp *utils.TextProcessor,
) error {
	mode, err := core.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	inference, err := cfg.GetInference()
	if err != nil {
		return err
	}

	ev := &evidence{}
	if opts.eml != "" {
		raw, err := readInput(opts.eml, stdin)
		if err != nil {
			return err
		}
		ev = loadEML(raw, inference.MaxBodySize)
	}
	if opts.text != "" {
		if ev.text != "" {
			ev.text += "\n"
		}
		ev.text += tp.ProcessText(opts.text, inference.MaxBodySize)
	}
	if opts.image != "" {
		raw, err := readInput(opts.image, stdin)
		if err != nil {
			return err
		}
		if ev.image, err = core.NewImage(raw); err != nil {
			return err
		}
	}
	if ev.empty() {
		return errNoEvidence
	}

	if len(ev.headers) > 0 {
		printer.PrintEvidence(ev.headers, ev.body)
		if !opts.noTrace {
			printer.PrintRoute(forensics.GeoTrace(forensics.ExtractIPs(ev.headers.String())))
		}
	}

	start := time.Now()
	result := svc.Analyze(ctx, core.AnalysisRequest{
		ModelKey: opts.model,
		Text:     ev.text,
		Image:    ev.image,
		Mode:     mode,
	})
	printer.PrintResult(opts.model, result, time.Since(start))

	if opts.pdf != "" {
		pdf, err := report.Render("Single Scan", ev.headers, result.String())
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.pdf, pdf, 0o640); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

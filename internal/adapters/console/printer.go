package console

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/forensics"
	"github.com/mikey/phishguard/internal/utils"
	"go.uber.org/zap"
)

const bodyPreviewLimit = 500

// Printer renders evidence and analysis results for a terminal
type Printer struct {
	out     io.Writer
	logger  *zap.Logger
	verbose bool
}

// NewPrinter creates a new printer writing to out
func NewPrinter(out io.Writer, logger *zap.Logger, verbose bool) *Printer {
	return &Printer{
		out:     out,
		logger:  logger,
		verbose: verbose,
	}
}

// PrintEvidence shows the parsed header metadata and, when verbose, a body preview
func (p *Printer) PrintEvidence(headers forensics.Headers, body string) {
	fmt.Fprintf(p.out, "\n=== Artifact Metadata ===\n")
	if len(headers) == 0 {
		fmt.Fprintf(p.out, "Type: Image Screenshot\n")
	}
	for _, h := range headers {
		fmt.Fprintf(p.out, "%s: %s\n", h.Name, h.Value)
	}
	fmt.Fprintf(p.out, "Body length: %d bytes\n", len(body))

	if p.verbose && body != "" {
		preview := body
		if len(preview) > bodyPreviewLimit {
			preview = utils.CutAtRune(preview, bodyPreviewLimit) + "..."
		}
		fmt.Fprintf(p.out, "\nBody preview:\n%s\n", preview)
	}
}

// PrintRoute shows the simulated relay trace as a table
func (p *Printer) PrintRoute(points []forensics.GeoPoint) {
	fmt.Fprintf(p.out, "\n=== IP Routing (simulated locations) ===\n")
	if len(points) == 0 {
		fmt.Fprintf(p.out, "No public relay addresses found.\n")
		return
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HOP\tIP ADDRESS\tREGION\tLAT\tLON\tCONTEXT")
	for i, pt := range points {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%s\n", i+1, pt.IP, pt.Region, pt.Lat, pt.Lon, pt.Context)
	}
	if err := tw.Flush(); err != nil {
		p.logger.Warn("Failed to write routing table", zap.Error(err))
	}
}

// PrintResult shows one analysis outcome
func (p *Printer) PrintResult(modelKey string, res core.Result, elapsed time.Duration) {
	fmt.Fprintf(p.out, "\n=== %s ===\n", modelKey)
	fmt.Fprintf(p.out, "%s\n", res)
	if p.verbose {
		fmt.Fprintf(p.out, "\nOutcome: %s\nProcessing time: %v\n", res.Kind, elapsed.Round(time.Millisecond))
	}
}

// PrintArena shows comparison results side by side in entry order
func (p *Printer) PrintArena(entries []core.ArenaEntry) {
	fmt.Fprintf(p.out, "\n=== Model Arena ===\n")
	for i, e := range entries {
		fmt.Fprintf(p.out, "\n--- Model %c: %s ---\n", 'A'+rune(i%26), e.ModelKey)
		fmt.Fprintf(p.out, "%s\n", e.Result)
	}
}

// PrintModels lists the registry and the cloud connection state
func (p *Printer) PrintModels(registry *core.Registry, cloudAvailable bool) {
	status := "OFFLINE"
	if cloudAvailable {
		status = "CONNECTED"
	}
	fmt.Fprintf(p.out, "Cloud API: %s\n\n", status)

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tPROVIDER\tPROVIDER MODEL\tCAPABILITIES")
	for _, key := range registry.Keys() {
		m, err := registry.Lookup(key)
		if err != nil {
			continue
		}
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities.List() {
			caps = append(caps, string(c))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.DisplayName, m.Provider, m.ProviderModel, strings.Join(caps, ", "))
	}
	if err := tw.Flush(); err != nil {
		p.logger.Warn("Failed to write model table", zap.Error(err))
	}
}

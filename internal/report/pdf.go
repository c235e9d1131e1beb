package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/mikey/phishguard/internal/forensics"
	"golang.org/x/text/encoding/charmap"
)

// Section titles in report order
const (
	MetadataTitle  = "1. Artifact Metadata"
	PrimaryTitle   = "2. AI Forensic Analysis"
	SecondaryTitle = "3. Secondary Model Analysis"
)

// ScreenshotMetadata is shown when the artifact has no headers
const ScreenshotMetadata = "Type: Image Screenshot"

const (
	maxMetadataHeaders = 5
	maxMetadataValue   = 80
)

// Render builds the PDF report. The primary analysis is required; a second
// analysis adds the secondary section used by model comparisons.
func Render(title string, headers forensics.Headers, primary string, secondary ...string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, Latin1("PhishGuard Report: "+title), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	heading(pdf, MetadataTitle)
	if len(headers) > 0 {
		for i, h := range headers {
			if i == maxMetadataHeaders {
				break
			}
			pdf.CellFormat(0, 6, Latin1(fmt.Sprintf("%s: %s", h.Name, clip(h.Value))), "", 1, "", false, 0, "")
		}
	} else {
		pdf.CellFormat(0, 6, ScreenshotMetadata, "", 1, "", false, 0, "")
	}
	pdf.Ln(10)

	heading(pdf, PrimaryTitle)
	pdf.MultiCell(0, 6, Latin1(primary), "", "", false)

	if len(secondary) > 0 && secondary[0] != "" {
		pdf.Ln(10)
		heading(pdf, SecondaryTitle)
		pdf.MultiCell(0, 6, Latin1(secondary[0]), "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 10, text, "", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func clip(v string) string {
	r := []rune(v)
	if len(r) <= maxMetadataValue {
		return v
	}
	return string(r[:maxMetadataValue]) + "..."
}

// Latin1 maps text onto the core PDF font encoding. Runes outside
// ISO 8859-1 become '?'.
func Latin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}

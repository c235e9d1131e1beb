package console

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/forensics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPrintModels(t *testing.T) {
	registry, err := core.NewRegistry(core.DefaultModels()...)
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf, zap.NewNop(), false).PrintModels(registry, false)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Cloud API: OFFLINE"))
	assert.Contains(t, out, "Cloud: Gemini 3 pro (thinking)")
	assert.Contains(t, out, "vision, deep-reasoning")
}

func TestPrintRoute(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, zap.NewNop(), false)

	p.PrintRoute(forensics.GeoTrace([]string{"203.0.113.7", "8.8.8.8"}))
	out := buf.String()
	assert.Contains(t, out, "203.0.113.7")
	assert.Contains(t, out, forensics.SuspiciousNode)
	assert.Contains(t, out, forensics.RoutingServer)

	buf.Reset()
	p.PrintRoute(nil)
	assert.Contains(t, buf.String(), "No public relay addresses found.")
}

func TestPrintArenaKeepsEntryOrder(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, zap.NewNop(), false).PrintArena([]core.ArenaEntry{
		{ModelKey: "Local LLM", Result: core.Success("local says safe")},
		{ModelKey: "Cloud: Gemini Flash (Fast)", Result: core.ConfigFailure("GEMINI_API_KEY not found")},
	})

	out := buf.String()
	a := strings.Index(out, "Model A: Local LLM")
	b := strings.Index(out, "Model B: Cloud: Gemini Flash (Fast)")
	require.NotEqual(t, -1, a)
	require.NotEqual(t, -1, b)
	assert.Less(t, a, b)
	assert.Contains(t, out, "❌ Configuration Error: GEMINI_API_KEY not found")
}

func TestPrintResultVerbose(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, zap.NewNop(), true).PrintResult("Local LLM", core.Success("Risk Score: 5"), 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "Risk Score: 5")
	assert.Contains(t, out, "Outcome: success")
	assert.Contains(t, out, "1.5s")
}

func TestPrintEvidenceScreenshot(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, zap.NewNop(), true).PrintEvidence(nil, "")

	assert.Contains(t, buf.String(), "Type: Image Screenshot")
}

func TestPrintEvidencePreviewKeepsRunesWhole(t *testing.T) {
	body := strings.Repeat("a", bodyPreviewLimit-1) + "€ and more"
	var buf bytes.Buffer
	NewPrinter(&buf, zap.NewNop(), true).PrintEvidence(forensics.Headers{{Name: "Subject", Value: "x"}}, body)

	out := buf.String()
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("a", bodyPreviewLimit-1)+"...\n")
	assert.NotContains(t, out, "€")
}

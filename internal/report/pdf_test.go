package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mikey/phishguard/internal/forensics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSingleScan(t *testing.T) {
	headers := forensics.Headers{
		{Name: "Subject", Value: "Urgent 🚨 action"},
		{Name: "From", Value: strings.Repeat("x", 200)},
	}

	out, err := Render("Single Scan", headers, "## Risk Score: 92\nCritical Findings: spoofed sender")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestRenderComparisonIsLarger(t *testing.T) {
	single, err := Render("Arena", nil, "first analysis")
	require.NoError(t, err)

	compare, err := Render("Arena", nil, "first analysis", strings.Repeat("second analysis ", 100))
	require.NoError(t, err)

	assert.Greater(t, len(compare), len(single))
}

func TestLatin1(t *testing.T) {
	assert.Equal(t, "caf\xe9 ?", Latin1("café 🚨"))
	assert.Equal(t, "plain", Latin1("plain"))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short"))

	long := strings.Repeat("é", 100)
	clipped := clip(long)
	assert.True(t, strings.HasSuffix(clipped, "..."))
	assert.Equal(t, 83, len([]rune(clipped)))
}

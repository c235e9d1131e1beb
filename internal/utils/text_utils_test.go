package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))

	assert.Equal(t, "short", tp.TruncateText("short", 10))
	assert.Equal(t, "anything", tp.TruncateText("anything", 0))
	assert.Equal(t, "abc"+TruncationNotice, tp.TruncateText("abcdef", 3))

	// never split a multi-byte rune
	got := tp.TruncateText("aé", 2)
	assert.Equal(t, "a"+TruncationNotice, got)

	// an invalid byte before the cut does not swallow the prefix
	got = tp.TruncateText("a\xffbcdef", 4)
	assert.Equal(t, "a\xffbc"+TruncationNotice, got)
}

func TestCutAtRune(t *testing.T) {
	assert.Equal(t, "h", CutAtRune("héllo", 2))
	assert.Equal(t, "hé", CutAtRune("héllo", 3))
	assert.Equal(t, "日", CutAtRune("日本", 5))
	assert.Equal(t, "", CutAtRune("日本", 2))
	assert.Equal(t, "abc", CutAtRune("abc", 10))
	assert.Equal(t, "", CutAtRune("abc", -1))
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(nil)

	assert.Equal(t, "ok", tp.SanitizeUTF8("ok"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
}

func TestSanitizeOutput(t *testing.T) {
	tp := NewTextProcessor(nil)

	assert.Equal(t, "## Report\n\t- ok\r\n", tp.SanitizeOutput("## Report\n\t- ok\r\n"))
	assert.Equal(t, "bell gone", tp.SanitizeOutput("bell\a gone\x00"))
	assert.Equal(t, "🛡️ safe", tp.SanitizeOutput("🛡️ safe"))
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(nil)

	got := tp.ProcessText(strings.Repeat("x", 20), 5)
	assert.True(t, strings.HasPrefix(got, "xxxxx\n[..."))
}

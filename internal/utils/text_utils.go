package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TruncationNotice is appended to evidence that was cut to fit the size limit
const TruncationNotice = "\n[... Content truncated due to size limits ...]"

// TextProcessor prepares evidence text for providers and model output for display
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText cuts text to at most maxSize bytes without splitting a UTF-8
// sequence. A non-positive maxSize disables truncation.
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := CutAtRune(text, maxSize)

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + TruncationNotice
}

// CutAtRune returns the longest prefix of text of at most maxSize bytes that
// does not end inside a multi-byte rune
func CutAtRune(text string, maxSize int) string {
	if maxSize < 0 {
		maxSize = 0
	}
	if len(text) <= maxSize {
		return text
	}
	cut := maxSize
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// SanitizeUTF8 drops invalid UTF-8 bytes
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")
	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// SanitizeOutput makes model output safe to hand to text-only consumers:
// invalid UTF-8 and control characters other than newline, carriage return
// and tab are removed.
func (tp *TextProcessor) SanitizeOutput(text string) string {
	text = tp.SanitizeUTF8(text)

	clean := true
	for _, r := range text {
		if isDisallowedControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	return strings.Map(func(r rune) rune {
		if isDisallowedControl(r) {
			return -1
		}
		return r
	}, text)
}

// ProcessText truncates and sanitizes evidence text in one operation
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.SanitizeUTF8(tp.TruncateText(text, maxSize))
}

func isDisallowedControl(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return unicode.IsControl(r)
}

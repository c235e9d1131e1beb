package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectPrompt(t *testing.T) {
	single := SelectPrompt(ModeSingle)
	compare := SelectPrompt(ModeCompare)

	assert.Contains(t, single, "Senior Digital Forensics Examiner")
	assert.Contains(t, single, "Risk Score")
	assert.NotEqual(t, single, compare)
	assert.Equal(t, compare, SelectPrompt(ModeCompare))
}

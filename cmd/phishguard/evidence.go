package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/forensics"
)

// errNoEvidence is returned when a command has nothing to analyse
var errNoEvidence = errors.New("evidence required: provide an .eml file, an image or text")

// evidence is the artifact assembled from command input
type evidence struct {
	headers forensics.Headers
	body    string
	text    string
	image   *core.Image
}

func (e *evidence) empty() bool {
	return !core.AnalysisRequest{Text: e.text, Image: e.image}.HasEvidence()
}

// readInput reads a file, or stdin for "-"
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// loadEML parses a message and formats it as text evidence
func loadEML(raw []byte, maxBody int) *evidence {
	headers, body, _ := forensics.ParseEML(bytes.NewReader(raw))
	return &evidence{
		headers: headers,
		body:    body,
		text:    forensics.FormatEvidence(headers, body, maxBody),
	}
}

// loadArtifact detects whether raw is an image or a message
func loadArtifact(raw []byte, maxBody int) (*evidence, error) {
	if core.IsImage(raw) {
		img, err := core.NewImage(raw)
		if err != nil {
			return nil, err
		}
		return &evidence{image: img}, nil
	}
	return loadEML(raw, maxBody), nil
}

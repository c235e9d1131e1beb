package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DirSink writes reports into a directory
type DirSink struct {
	dir string
	now func() time.Time
}

// NewDirSink creates a sink for dir. The directory is created on first save.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir, now: time.Now}
}

// Save writes pdf as <timestamp>-<name>.pdf and returns the file path
func (s *DirSink) Save(name string, pdf []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(s.dir, FileName(name, s.now()))
	if err := os.WriteFile(path, pdf, 0o640); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// FileName builds a filesystem-safe report name
func FileName(name string, at time.Time) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(name, "_"), "_.")
	if len(slug) > 60 {
		slug = slug[:60]
	}
	if slug == "" {
		slug = "report"
	}
	return fmt.Sprintf("%s-%s.pdf", at.UTC().Format("20060102T150405.000"), slug)
}

package core

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// NewImage wraps raw bytes as image evidence. The MIME type is detected from
// the content; data that is not an image is rejected.
func NewImage(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("unsupported image format: %s", mt.String())
	}

	return &Image{Data: data, MIMEType: mt.String()}, nil
}

// IsImage reports whether data looks like an image
func IsImage(data []byte) bool {
	return len(data) > 0 && strings.HasPrefix(mimetype.Detect(data).String(), "image/")
}

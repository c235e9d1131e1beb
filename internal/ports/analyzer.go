package ports

import (
	"context"

	"github.com/mikey/phishguard/internal/core"
)

// Analyzer runs evidence through a registered model
type Analyzer interface {
	// Analyze runs one analysis and returns its tagged result
	Analyze(ctx context.Context, req core.AnalysisRequest) core.Result

	// Compare runs a comparison of the same evidence against several models
	Compare(ctx context.Context, text string, image *core.Image, keys ...string) []core.ArenaEntry
}

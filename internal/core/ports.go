package core

import (
	"context"
	"time"
)

// Strategy owns the call contract to one provider.
// Implementations must be safe for concurrent use.
type Strategy interface {
	// Provider returns the provider this strategy serves
	Provider() Provider

	// Ready checks the preconditions of a call without doing any I/O.
	// It returns a *ConfigError when the provider is not configured.
	Ready() error

	// Invoke builds the provider payload for the call, sends it and
	// normalizes the response
	Invoke(ctx context.Context, call Call) (Result, error)
}

// Recorder receives one observation per finished analysis call
type Recorder interface {
	ObserveAnalysis(provider Provider, model string, kind ResultKind, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAnalysis(Provider, string, ResultKind, time.Duration) {}

package core

import (
	"errors"
	"fmt"
)

// ResultKind tags the outcome of an analysis
type ResultKind int

const (
	KindSuccess ResultKind = iota
	KindEmpty
	KindConfigError
	KindProviderError
)

// String returns the kind name used in logs and metrics
func (k ResultKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindEmpty:
		return "empty"
	case KindConfigError:
		return "config_error"
	case KindProviderError:
		return "provider_error"
	default:
		return "unknown"
	}
}

// Display prefixes distinguishing the result categories
const (
	WarningMarker = "⚠️"
	ErrorMarker   = "❌"
)

// Result is the tagged outcome of one analysis call.
// Text holds the report for KindSuccess, the reason for KindEmpty and the
// message for the error kinds.
type Result struct {
	Kind     ResultKind
	Text     string
	Provider Provider
}

// Success creates a successful result
func Success(report string) Result {
	return Result{Kind: KindSuccess, Text: report}
}

// Empty creates a result for a call that returned no usable content
func Empty(reason string) Result {
	return Result{Kind: KindEmpty, Text: reason}
}

// ConfigFailure creates a configuration error result
func ConfigFailure(message string) Result {
	return Result{Kind: KindConfigError, Text: message}
}

// ProviderFailure creates a provider error result
func ProviderFailure(provider Provider, message string) Result {
	return Result{Kind: KindProviderError, Text: message, Provider: provider}
}

// OK reports whether the result carries a report
func (r Result) OK() bool {
	return r.Kind == KindSuccess
}

// String renders the result into the display contract
func (r Result) String() string {
	switch r.Kind {
	case KindSuccess:
		return r.Text
	case KindEmpty:
		return fmt.Sprintf("%s AI returned no text (%s).", WarningMarker, r.Text)
	case KindConfigError:
		return fmt.Sprintf("%s Configuration Error: %s", ErrorMarker, r.Text)
	case KindProviderError:
		return fmt.Sprintf("%s Inference Error (%s): %s", ErrorMarker, r.Provider, r.Text)
	default:
		return fmt.Sprintf("%s Unknown result", ErrorMarker)
	}
}

// ErrModelNotFound is returned when a model key is not in the registry
var ErrModelNotFound = errors.New("model not found")

// ConfigError reports a missing or invalid configuration for a call
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// ProviderError reports a transport or API failure of a provider
type ProviderError struct {
	Provider Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ResultFromError converts an error raised during a call into a Result
func ResultFromError(provider Provider, err error) Result {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ConfigFailure(cfgErr.Message)
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return ProviderFailure(provErr.Provider, provErr.Err.Error())
	}

	return ProviderFailure(provider, err.Error())
}

package core

import (
	"fmt"
	"strings"
)

// Provider identifies the backend inference service a model is served by
type Provider string

const (
	// ProviderCloud is the Google Gemini multimodal API
	ProviderCloud Provider = "GOOGLE"
	// ProviderLocal is a local OpenAI-compatible server (LM Studio, Ollama, llama.cpp)
	ProviderLocal Provider = "LOCAL"
	// ProviderBedrock is Amazon Bedrock through the Converse API
	ProviderBedrock Provider = "BEDROCK"
)

// Providers lists every provider the service knows how to dispatch to
func Providers() []Provider {
	return []Provider{ProviderCloud, ProviderLocal, ProviderBedrock}
}

// Capability is a declared feature a model supports
type Capability string

const (
	CapabilityText          Capability = "text"
	CapabilityVision        Capability = "vision"
	CapabilityReasoning     Capability = "reasoning"
	CapabilityDeepReasoning Capability = "deep-reasoning"
)

// ParseCapability converts a configuration string into a Capability
func ParseCapability(s string) (Capability, error) {
	switch c := Capability(strings.ToLower(strings.TrimSpace(s))); c {
	case CapabilityText, CapabilityVision, CapabilityReasoning, CapabilityDeepReasoning:
		return c, nil
	default:
		return "", fmt.Errorf("unknown capability: %q", s)
	}
}

// CapabilitySet is an immutable set of capabilities
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the capability
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// List returns the capabilities in a stable order
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s))
	for _, c := range []Capability{CapabilityText, CapabilityVision, CapabilityReasoning, CapabilityDeepReasoning} {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// ModelDescriptor describes a user-facing model and how to reach it
type ModelDescriptor struct {
	DisplayName   string
	Provider      Provider
	ProviderModel string
	Capabilities  CapabilitySet
}

// Supports reports whether the model declares the given capability
func Supports(model ModelDescriptor, c Capability) bool {
	return model.Capabilities.Has(c)
}

// Mode is the analysis intent
type Mode string

const (
	// ModeSingle is a deep, tool-augmented forensic scan
	ModeSingle Mode = "SINGLE"
	// ModeCompare is a concise analysis used side by side with another model
	ModeCompare Mode = "COMPARE"
)

// ParseMode converts a string into a Mode
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ModeSingle, ModeCompare:
		return m, nil
	default:
		return "", fmt.Errorf("unknown analysis mode: %q", s)
	}
}

// Image is raw image evidence together with its declared MIME type
type Image struct {
	Data     []byte
	MIMEType string
}

// AnalysisRequest is a single analysis invocation
type AnalysisRequest struct {
	ModelKey string
	Text     string
	Image    *Image
	Mode     Mode
}

// HasEvidence reports whether the request carries any text or image evidence
func (r AnalysisRequest) HasEvidence() bool {
	return strings.TrimSpace(r.Text) != "" || (r.Image != nil && len(r.Image.Data) > 0)
}

// Call is what a strategy receives once the registry and prompt are resolved
type Call struct {
	Model  ModelDescriptor
	Prompt string
	Text   string
	Image  *Image
	Mode   Mode
}

// ImageIgnoredNote replaces image evidence for models without vision support
const ImageIgnoredNote = "[NOTE: Image uploaded but ignored (Model is Text-Only).]"

// AttachedVisualEvidence follows the image part in cloud payloads
const AttachedVisualEvidence = "[Attached Visual Evidence]"

// ForwardImage reports whether the call's image is sent to the provider.
// It is false when there is no image or the model lacks vision.
func (c Call) ForwardImage() bool {
	return c.Image != nil && len(c.Image.Data) > 0 && Supports(c.Model, CapabilityVision)
}

// IgnoredImage reports whether an image was supplied but must be replaced by ImageIgnoredNote
func (c Call) IgnoredImage() bool {
	return c.Image != nil && len(c.Image.Data) > 0 && !Supports(c.Model, CapabilityVision)
}

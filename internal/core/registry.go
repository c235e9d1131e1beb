package core

import (
	"fmt"
)

// Registry maps user-facing model names to their descriptors.
// It is built once at startup and never mutated afterwards.
type Registry struct {
	models map[string]ModelDescriptor
	keys   []string
}

// NewRegistry creates a registry from the given descriptors.
// Duplicate display names are rejected.
func NewRegistry(models ...ModelDescriptor) (*Registry, error) {
	r := &Registry{
		models: make(map[string]ModelDescriptor, len(models)),
		keys:   make([]string, 0, len(models)),
	}

	for _, m := range models {
		if m.DisplayName == "" {
			return nil, fmt.Errorf("model descriptor without display name (provider %s)", m.Provider)
		}
		if _, exists := r.models[m.DisplayName]; exists {
			return nil, fmt.Errorf("duplicate model name: %q", m.DisplayName)
		}
		if m.Capabilities == nil {
			m.Capabilities = NewCapabilitySet()
		}
		r.models[m.DisplayName] = m
		r.keys = append(r.keys, m.DisplayName)
	}

	return r, nil
}

// DefaultModels returns the built-in model configuration
func DefaultModels() []ModelDescriptor {
	return []ModelDescriptor{
		{
			DisplayName:   "Local LLM",
			Provider:      ProviderLocal,
			ProviderModel: "local-model",
			Capabilities:  NewCapabilitySet(CapabilityText),
		},
		{
			DisplayName:   "Cloud: Gemini Flash (Fast)",
			Provider:      ProviderCloud,
			ProviderModel: "gemini-flash-latest",
			Capabilities:  NewCapabilitySet(CapabilityVision, CapabilityReasoning),
		},
		{
			DisplayName:   "Cloud: Gemini 3 pro (thinking)",
			Provider:      ProviderCloud,
			ProviderModel: "gemini-3-pro-preview",
			Capabilities:  NewCapabilitySet(CapabilityVision, CapabilityDeepReasoning),
		},
	}
}

// Lookup returns the descriptor registered under key
func (r *Registry) Lookup(key string) (ModelDescriptor, error) {
	m, ok := r.models[key]
	if !ok {
		return ModelDescriptor{}, fmt.Errorf("%w: %q", ErrModelNotFound, key)
	}
	return m, nil
}

// Keys returns the display names in registration order
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Providers returns the distinct providers used by registered models
func (r *Registry) Providers() []Provider {
	seen := make(map[Provider]bool)
	var out []Provider
	for _, k := range r.keys {
		p := r.models[k].Provider
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

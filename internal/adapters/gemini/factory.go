package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// contentGenerator is the part of the Gemini SDK the strategy depends on.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// newGenerator creates a Gemini API client. Construction does no network I/O.
func newGenerator(ctx context.Context, apiKey, baseURL string) (contentGenerator, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return client.Models, nil
}

package gemini

import (
	"github.com/mikey/phishguard/internal/core"
	"google.golang.org/genai"
)

// Temperature is fixed for every Gemini analysis
const Temperature float32 = 0.3

// EvidenceLabel prefixes the text evidence part
const EvidenceLabel = "EVIDENCE ARTIFACTS:\n"

const defaultImageMIME = "image/jpeg"

// Request is a fully built GenerateContent call
type Request struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

// BuildRequest assembles the Gemini payload for a call.
//
// Parts are ordered: system prompt, labelled text evidence, image bytes
// followed by the visual evidence marker. An image sent to a model without
// vision is replaced by a visible note. Single scans get Google Search
// grounding; comparisons never do.
func BuildRequest(call core.Call) *Request {
	parts := []*genai.Part{genai.NewPartFromText(call.Prompt)}

	if call.Text != "" {
		parts = append(parts, genai.NewPartFromText(EvidenceLabel+call.Text))
	}

	switch {
	case call.ForwardImage():
		mime := call.Image.MIMEType
		if mime == "" {
			mime = defaultImageMIME
		}
		parts = append(parts,
			genai.NewPartFromBytes(call.Image.Data, mime),
			genai.NewPartFromText(core.AttachedVisualEvidence),
		)
	case call.IgnoredImage():
		parts = append(parts, genai.NewPartFromText(core.ImageIgnoredNote))
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(Temperature),
	}
	if call.Mode == core.ModeSingle {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	return &Request{
		Model:    call.Model.ProviderModel,
		Contents: []*genai.Content{{Role: "user", Parts: parts}},
		Config:   cfg,
	}
}

package openai

import (
	"encoding/base64"
	"fmt"

	"github.com/mikey/phishguard/internal/core"
	"github.com/sashabaranov/go-openai"
)

// Temperature is fixed for every local analysis
const Temperature float32 = 0.2

// EvidenceLabel prefixes the text evidence part
const EvidenceLabel = "EVIDENCE:\n"

// NoEvidenceText is sent when a call has neither text nor image
const NoEvidenceText = EvidenceLabel + "(none provided)"

const defaultImageMIME = "image/jpeg"

// BuildRequest assembles the chat completion request for a call.
//
// The prompt goes in the system message. The user message carries the
// labelled text and, for vision models, the image as a data URI. Images sent
// to text-only models are replaced by a visible note.
func BuildRequest(call core.Call) openai.ChatCompletionRequest {
	var parts []openai.ChatMessagePart

	if call.Text != "" {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: EvidenceLabel + call.Text,
		})
	}

	switch {
	case call.ForwardImage():
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: dataURI(call.Image)},
		})
	case call.IgnoredImage():
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: core.ImageIgnoredNote,
		})
	}

	if len(parts) == 0 {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: NoEvidenceText,
		})
	}

	return openai.ChatCompletionRequest{
		Model: call.Model.ProviderModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: call.Prompt,
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			},
		},
		Temperature: Temperature,
	}
}

func dataURI(img *core.Image) string {
	mime := img.MIMEType
	if mime == "" {
		mime = defaultImageMIME
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(img.Data))
}

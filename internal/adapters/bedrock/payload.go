package bedrock

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/mikey/phishguard/internal/core"
)

// Temperature is fixed for every Bedrock analysis
const Temperature float32 = 0.2

// EvidenceLabel prefixes the text evidence block
const EvidenceLabel = "EVIDENCE:\n"

// NoEvidenceText is sent when a call has neither text nor image
const NoEvidenceText = EvidenceLabel + "(none provided)"

// BuildInput assembles the Converse request for a call. The prompt is the
// system block; evidence forms the single user message.
func BuildInput(call core.Call, maxTokens int32) *bedrockruntime.ConverseInput {
	var content []types.ContentBlock

	if call.Text != "" {
		content = append(content, &types.ContentBlockMemberText{Value: EvidenceLabel + call.Text})
	}

	switch {
	case call.ForwardImage():
		content = append(content,
			&types.ContentBlockMemberImage{Value: types.ImageBlock{
				Format: imageFormat(call.Image.MIMEType),
				Source: &types.ImageSourceMemberBytes{Value: call.Image.Data},
			}},
			&types.ContentBlockMemberText{Value: core.AttachedVisualEvidence},
		)
	case call.IgnoredImage():
		content = append(content, &types.ContentBlockMemberText{Value: core.ImageIgnoredNote})
	}

	if len(content) == 0 {
		content = append(content, &types.ContentBlockMemberText{Value: NoEvidenceText})
	}

	inference := &types.InferenceConfiguration{Temperature: aws.Float32(Temperature)}
	if maxTokens > 0 {
		inference.MaxTokens = aws.Int32(maxTokens)
	}

	return &bedrockruntime.ConverseInput{
		ModelId: aws.String(call.Model.ProviderModel),
		System:  []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: call.Prompt}},
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: content,
		}},
		InferenceConfig: inference,
	}
}

func imageFormat(mime string) types.ImageFormat {
	switch strings.ToLower(mime) {
	case "image/png":
		return types.ImageFormatPng
	case "image/gif":
		return types.ImageFormatGif
	case "image/webp":
		return types.ImageFormatWebp
	default:
		return types.ImageFormatJpeg
	}
}

// outputText joins the text blocks of a Converse reply
func outputText(out *bedrockruntime.ConverseOutput) string {
	if out == nil {
		return ""
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}

	var b strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	return b.String()
}

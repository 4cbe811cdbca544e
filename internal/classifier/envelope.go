package classifier

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// The completion API has grown several places a model can park its
// output. Rather than sniffing shapes ad hoc, each known shape gets one
// extractor, tried in a fixed priority order; if none yields text the
// classification fails closed.
type textExtractor func(resp openai.ChatCompletionResponse) (string, bool)

var extractors = []textExtractor{
	extractMessageContent,
	extractToolCallArguments,
	extractFunctionCallArguments,
}

func extractResponseText(resp openai.ChatCompletionResponse) (string, bool) {
	for _, extract := range extractors {
		if text, ok := extract(resp); ok {
			return text, true
		}
	}
	return "", false
}

func extractMessageContent(resp openai.ChatCompletionResponse) (string, bool) {
	if len(resp.Choices) == 0 {
		return "", false
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	return content, content != ""
}

func extractToolCallArguments(resp openai.ChatCompletionResponse) (string, bool) {
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return "", false
	}
	args := strings.TrimSpace(resp.Choices[0].Message.ToolCalls[0].Function.Arguments)
	return args, args != ""
}

func extractFunctionCallArguments(resp openai.ChatCompletionResponse) (string, bool) {
	if len(resp.Choices) == 0 || resp.Choices[0].Message.FunctionCall == nil {
		return "", false
	}
	args := strings.TrimSpace(resp.Choices[0].Message.FunctionCall.Arguments)
	return args, args != ""
}

// stripFences removes an optional markdown code fence around the model
// output, with or without a json tag.
func stripFences(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}

	return strings.TrimSpace(cleaned)
}

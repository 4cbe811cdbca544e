// Package classifier sends one Reddit post at a time through the chat
// model under a fixed analysis contract and parses a structured verdict
// out of whatever the model sends back.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacesedan/brandpulse/internal/models"
	"github.com/spacesedan/brandpulse/internal/textutil"
)

const openAIModel = openai.GPT4oMini

const promptTemplate = `You are an expert Brand Analyst AI. Your task is to analyze the following Reddit comment concerning the query "%s" with extreme precision.

First, think step-by-step:
1.  Read the comment carefully. Is it relevant to "%s"? If it's spam or completely off-topic, note that.
2.  Identify the core subject or specific features being discussed (e.g., "battery life", "camera quality", "customer service", "price"). This will be the "topic".
3.  Evaluate the user's language. Are they expressing satisfaction, frustration, or just stating a fact? Note any strong positive or negative keywords.
4.  Formulate a concise, one-sentence summary of the user's main point.
5.  Based on your analysis, determine the overall sentiment. If the comment contains both strong positive and negative points, classify it as "Mixed". If it's a question or a neutral statement of fact, classify it as "Neutral".

After your analysis, provide your response ONLY as a valid JSON object. Do not include any text or explanations outside of the JSON structure.

The JSON object must have these exact keys:
-   "is_relevant": (boolean) true if the comment is about the query, false otherwise.
-   "sentiment": (string) Must be one of four values: "Positive", "Negative", "Neutral", or "Mixed".
-   "topic": (string) The primary subject or feature discussed in the comment.
-   "summary": (string) Your one-sentence summary of the comment.

Here is the comment to analyze:
---
"%s"
---
`

type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type SentimentClassifier struct {
	completer ChatCompleter
}

func NewSentimentClassifier(completer ChatCompleter) *SentimentClassifier {
	return &SentimentClassifier{completer: completer}
}

// verdictPayload mirrors the contract JSON. Pointer fields distinguish
// "absent" from zero values during validation.
type verdictPayload struct {
	IsRelevant *bool   `json:"is_relevant"`
	Sentiment  *string `json:"sentiment"`
	Topic      *string `json:"topic"`
	Summary    *string `json:"summary"`
}

// Classify runs one post through the model. One outbound call, no
// retries; the caller decides what a failure means for the batch.
func (sc *SentimentClassifier) Classify(ctx context.Context, userQuery string, post models.RawPost) (*models.SentimentVerdict, error) {
	plainBody := textutil.MarkdownToText(post.Body)
	prompt := fmt.Sprintf(promptTemplate, userQuery, userQuery, plainBody)

	resp, err := sc.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openAIModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, failure(StageModel, "", err)
	}

	responseText, ok := extractResponseText(resp)
	if !ok {
		return nil, failure(StageExtract, "", fmt.Errorf("no text in any known response shape"))
	}

	cleaned := stripFences(responseText)

	var payload verdictPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, failure(StageParse, responseText, err)
	}

	verdict, err := validatePayload(payload)
	if err != nil {
		return nil, failure(StageValidate, responseText, err)
	}

	verdict.VaderScore = textutil.VaderScore(plainBody)

	slog.Info("[SentimentClassifier] Classified post",
		slog.String("post_id", post.PostID),
		slog.String("sentiment", string(verdict.Sentiment)),
		slog.Bool("is_relevant", verdict.IsRelevant))

	return verdict, nil
}

func validatePayload(payload verdictPayload) (*models.SentimentVerdict, error) {
	if payload.IsRelevant == nil {
		return nil, fmt.Errorf("missing field is_relevant")
	}
	if payload.Sentiment == nil {
		return nil, fmt.Errorf("missing field sentiment")
	}
	if payload.Topic == nil {
		return nil, fmt.Errorf("missing field topic")
	}
	if payload.Summary == nil {
		return nil, fmt.Errorf("missing field summary")
	}

	sentiment := models.Sentiment(*payload.Sentiment)
	if !sentiment.Valid() {
		return nil, fmt.Errorf("sentiment %q outside the allowed enumeration", *payload.Sentiment)
	}

	return &models.SentimentVerdict{
		IsRelevant: *payload.IsRelevant,
		Sentiment:  sentiment,
		Topic:      *payload.Topic,
		Summary:    *payload.Summary,
	}, nil
}

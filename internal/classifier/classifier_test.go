package classifier

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacesedan/brandpulse/internal/models"
)

type fakeCompleter struct {
	resp openai.ChatCompletionResponse
	err  error

	gotRequest openai.ChatCompletionRequest
	calls      int
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.gotRequest = req
	return f.resp, f.err
}

func messageResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

var testPost = models.RawPost{
	PostID:    "p1",
	Body:      "The battery life on this thing is incredible.",
	Permalink: "/r/gadgets/comments/1/battery/",
	Source:    "Reddit",
}

const validVerdictJSON = `{"is_relevant": true, "sentiment": "Positive", "topic": "battery life", "summary": "The user praises the battery life."}`

func TestClassifyValidResponse(t *testing.T) {
	completer := &fakeCompleter{resp: messageResponse(validVerdictJSON)}
	sc := NewSentimentClassifier(completer)

	verdict, err := sc.Classify(context.Background(), "Samsung S23", testPost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !verdict.IsRelevant {
		t.Error("expected is_relevant true")
	}
	if verdict.Sentiment != models.SentimentPositive {
		t.Errorf("sentiment = %q, want Positive", verdict.Sentiment)
	}
	if verdict.Topic != "battery life" {
		t.Errorf("topic = %q", verdict.Topic)
	}
	if verdict.Summary == "" {
		t.Error("summary empty")
	}
	if completer.calls != 1 {
		t.Errorf("expected exactly one model call, got %d", completer.calls)
	}
}

func TestClassifyFencedResponseMatchesUnfenced(t *testing.T) {
	plain := &fakeCompleter{resp: messageResponse(validVerdictJSON)}
	fenced := &fakeCompleter{resp: messageResponse("```json\n" + validVerdictJSON + "\n```")}
	bare := &fakeCompleter{resp: messageResponse("```\n" + validVerdictJSON + "\n```")}

	want, err := NewSentimentClassifier(plain).Classify(context.Background(), "Samsung S23", testPost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, completer := range map[string]*fakeCompleter{"json fence": fenced, "bare fence": bare} {
		got, err := NewSentimentClassifier(completer).Classify(context.Background(), "Samsung S23", testPost)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got.Sentiment != want.Sentiment || got.Topic != want.Topic || got.Summary != want.Summary || got.IsRelevant != want.IsRelevant {
			t.Errorf("%s: fenced verdict differs from plain verdict", name)
		}
	}
}

func TestClassifyMissingSentimentRejected(t *testing.T) {
	completer := &fakeCompleter{resp: messageResponse(
		`{"is_relevant": true, "topic": "battery", "summary": "A summary."}`)}
	sc := NewSentimentClassifier(completer)

	_, err := sc.Classify(context.Background(), "Samsung S23", testPost)

	var cerr *ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if cerr.Stage != StageValidate {
		t.Errorf("stage = %q, want validate", cerr.Stage)
	}
}

func TestClassifyUnknownSentimentRejected(t *testing.T) {
	completer := &fakeCompleter{resp: messageResponse(
		`{"is_relevant": true, "sentiment": "Ecstatic", "topic": "battery", "summary": "A summary."}`)}
	sc := NewSentimentClassifier(completer)

	_, err := sc.Classify(context.Background(), "Samsung S23", testPost)

	var cerr *ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if cerr.Stage != StageValidate {
		t.Errorf("stage = %q, want validate", cerr.Stage)
	}
}

func TestClassifyUnparsableResponseRetainsRawText(t *testing.T) {
	completer := &fakeCompleter{resp: messageResponse("I think this comment is positive!")}
	sc := NewSentimentClassifier(completer)

	_, err := sc.Classify(context.Background(), "Samsung S23", testPost)

	var cerr *ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if cerr.Stage != StageParse {
		t.Errorf("stage = %q, want parse", cerr.Stage)
	}
	if cerr.RawText != "I think this comment is positive!" {
		t.Errorf("raw text not retained: %q", cerr.RawText)
	}
}

func TestClassifyEmptyResponseFailsClosed(t *testing.T) {
	completer := &fakeCompleter{resp: openai.ChatCompletionResponse{}}
	sc := NewSentimentClassifier(completer)

	_, err := sc.Classify(context.Background(), "Samsung S23", testPost)

	var cerr *ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if cerr.Stage != StageExtract {
		t.Errorf("stage = %q, want extract", cerr.Stage)
	}
}

func TestClassifyModelError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("rate limited")}
	sc := NewSentimentClassifier(completer)

	_, err := sc.Classify(context.Background(), "Samsung S23", testPost)

	var cerr *ClassificationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if cerr.Stage != StageModel {
		t.Errorf("stage = %q, want model", cerr.Stage)
	}
	if completer.calls != 1 {
		t.Errorf("expected no retries, got %d calls", completer.calls)
	}
}

func TestExtractorPriorityOrder(t *testing.T) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{
				Message: openai.ChatCompletionMessage{
					Content: "from message content",
					ToolCalls: []openai.ToolCall{
						{Function: openai.FunctionCall{Arguments: "from tool call"}},
					},
				},
			},
		},
	}

	text, ok := extractResponseText(resp)
	if !ok || text != "from message content" {
		t.Errorf("message content should win, got %q (%v)", text, ok)
	}

	resp.Choices[0].Message.Content = ""
	text, ok = extractResponseText(resp)
	if !ok || text != "from tool call" {
		t.Errorf("tool call should be next, got %q (%v)", text, ok)
	}

	resp.Choices[0].Message.ToolCalls = nil
	resp.Choices[0].Message.FunctionCall = &openai.FunctionCall{Arguments: "from function call"}
	text, ok = extractResponseText(resp)
	if !ok || text != "from function call" {
		t.Errorf("function call should be last, got %q (%v)", text, ok)
	}

	resp.Choices[0].Message.FunctionCall = nil
	if _, ok := extractResponseText(resp); ok {
		t.Error("empty response must fail closed")
	}
}

package models

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentMixed    Sentiment = "Mixed"
)

// Valid reports whether s is one of the four sentiments the analysis
// contract allows the model to return.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed:
		return true
	}
	return false
}

// RawPost is one retrieved social-media item. It only lives for the
// duration of a single pipeline run; nothing persists it directly.
type RawPost struct {
	PostID    string    `json:"post_id"`
	Subreddit string    `json:"subreddit"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Permalink string    `json:"permalink"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// SentimentVerdict is the structured output of classifying one RawPost.
// The four contract fields come from the model; VaderScore is computed
// locally as a lexical cross-check and is never part of validation.
type SentimentVerdict struct {
	IsRelevant bool      `json:"is_relevant"`
	Sentiment  Sentiment `json:"sentiment"`
	Topic      string    `json:"topic"`
	Summary    string    `json:"summary"`
	VaderScore float64   `json:"vader_score"`
}

// FeedbackRecord is the persisted, immutable result of an accepted
// verdict. Records are append-only: the pipeline never updates or
// deletes one.
type FeedbackRecord struct {
	ID         string  `json:"id" dynamodbav:"id"`
	Content    string  `json:"content" dynamodbav:"content"`
	Source     string  `json:"source" dynamodbav:"source"`
	Sentiment  string  `json:"sentiment" dynamodbav:"sentiment"`
	Topic      string  `json:"topic" dynamodbav:"topic"`
	Link       string  `json:"link" dynamodbav:"link"`
	UserQuery  string  `json:"userQuery" dynamodbav:"userQuery"`
	IsRelevant bool    `json:"isRelevant" dynamodbav:"isRelevant"`
	VaderScore float64 `json:"vaderScore" dynamodbav:"vaderScore"`
	CreatedAt  int64   `json:"createdAt" dynamodbav:"createdAt"`
}

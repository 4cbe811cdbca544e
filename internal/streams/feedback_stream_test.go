package streams

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spacesedan/brandpulse/internal/models"
)

type fakePublisher struct {
	published []models.FeedbackRecord
	err       error
}

func (f *fakePublisher) PublishFeedbackEvent(ctx context.Context, record models.FeedbackRecord) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, record)
	return nil
}

func feedbackImage(id, userQuery, sentiment string) map[string]events.DynamoDBAttributeValue {
	return map[string]events.DynamoDBAttributeValue{
		"id":         events.NewStringAttribute(id),
		"content":    events.NewStringAttribute("A summary."),
		"source":     events.NewStringAttribute("Reddit"),
		"sentiment":  events.NewStringAttribute(sentiment),
		"topic":      events.NewStringAttribute("battery"),
		"link":       events.NewStringAttribute("https://reddit.com/r/x/1"),
		"userQuery":  events.NewStringAttribute(userQuery),
		"isRelevant": events.NewBooleanAttribute(true),
		"vaderScore": events.NewNumberAttribute("0.42"),
		"createdAt":  events.NewNumberAttribute("1700000000"),
	}
}

func insertRecord(eventID string, image map[string]events.DynamoDBAttributeValue) events.DynamoDBEventRecord {
	return events.DynamoDBEventRecord{
		EventID:   eventID,
		EventName: "INSERT",
		Change:    events.DynamoDBStreamRecord{NewImage: image},
	}
}

func TestHandleEventPublishesInsertsInOrder(t *testing.T) {
	publisher := &fakePublisher{}
	h := NewHandler(publisher)

	event := events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		insertRecord("e1", feedbackImage("rec-1", "Tesla Cybertruck", "Positive")),
		insertRecord("e2", feedbackImage("rec-2", "Tesla Cybertruck", "Negative")),
	}}

	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(publisher.published) != 2 {
		t.Fatalf("published %d records, want 2", len(publisher.published))
	}
	if publisher.published[0].ID != "rec-1" || publisher.published[1].ID != "rec-2" {
		t.Errorf("write order not preserved: %+v", publisher.published)
	}
	if publisher.published[0].UserQuery != "Tesla Cybertruck" {
		t.Errorf("userQuery lost: %+v", publisher.published[0])
	}
	if publisher.published[0].Sentiment != "Positive" || publisher.published[1].Sentiment != "Negative" {
		t.Errorf("sentiments = %q, %q", publisher.published[0].Sentiment, publisher.published[1].Sentiment)
	}
}

func TestHandleEventSkipsNonInsert(t *testing.T) {
	publisher := &fakePublisher{}
	h := NewHandler(publisher)

	event := events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		{
			EventID:   "e1",
			EventName: "MODIFY",
			Change:    events.DynamoDBStreamRecord{NewImage: feedbackImage("rec-1", "q", "Neutral")},
		},
		{
			EventID:   "e2",
			EventName: "REMOVE",
		},
	}}

	if err := h.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(publisher.published) != 0 {
		t.Fatalf("non-INSERT events must not publish, got %d", len(publisher.published))
	}
}

func TestHandleEventPublishFailureFailsBatch(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker down")}
	h := NewHandler(publisher)

	event := events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		insertRecord("e1", feedbackImage("rec-1", "q", "Positive")),
	}}

	if err := h.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected batch failure so the stream redelivers")
	}
}

func TestUnmarshalStreamImageNil(t *testing.T) {
	var out models.FeedbackRecord
	if err := UnmarshalStreamImage(nil, &out); err == nil {
		t.Fatal("expected error for nil image")
	}
}

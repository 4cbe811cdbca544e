// Package streams bridges the feedback table's DynamoDB stream to the
// Kafka change-event topic: every INSERT becomes one published record.
package streams

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spacesedan/brandpulse/internal/models"
)

type Publisher interface {
	PublishFeedbackEvent(ctx context.Context, record models.FeedbackRecord) error
}

type Handler struct {
	publisher Publisher
}

func NewHandler(publisher Publisher) *Handler {
	return &Handler{publisher: publisher}
}

// HandleEvent processes one batch of stream records. A record that fails
// to publish fails the batch so the stream redelivers it; the write
// itself already happened, only fanout is at stake.
func (h *Handler) HandleEvent(ctx context.Context, event events.DynamoDBEvent) error {
	slog.Info("[FeedbackStream] Received DynamoDB event",
		slog.Int("record_count", len(event.Records)))

	for _, record := range event.Records {
		published, err := h.processRecord(ctx, record)
		if err != nil {
			slog.Error("[FeedbackStream] Error processing record, failing batch",
				slog.String("event_id", record.EventID),
				slog.String("error", err.Error()))
			return err
		}
		if published != nil {
			slog.Info("[FeedbackStream] Published change event",
				slog.String("event_id", record.EventID),
				slog.String("record_id", published.ID),
				slog.String("user_query", published.UserQuery))
		}
	}

	return nil
}

func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) (*models.FeedbackRecord, error) {
	// Feedback is append-only; anything other than INSERT is noise.
	if record.EventName != "INSERT" {
		slog.Debug("[FeedbackStream] Skipping non-INSERT event",
			slog.String("event_id", record.EventID),
			slog.String("event_name", record.EventName))
		return nil, nil
	}

	var feedback models.FeedbackRecord
	if err := UnmarshalStreamImage(record.Change.NewImage, &feedback); err != nil {
		slog.Error("[FeedbackStream] Failed to unmarshal feedback record from stream",
			slog.String("event_id", record.EventID),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := h.publisher.PublishFeedbackEvent(ctx, feedback); err != nil {
		return nil, err
	}

	return &feedback, nil
}

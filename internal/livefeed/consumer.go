package livefeed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/brandpulse/internal/models"
)

const pollTimeout = time.Second

// MessageReader is the slice of *kafka.Consumer the feed loop needs.
type MessageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
}

// Consume reads feedback change events off Kafka and broadcasts them to
// the hub until ctx is cancelled.
func Consume(ctx context.Context, reader MessageReader, hub *Hub) {
	slog.Info("[LiveFeed] Starting change-event consumer...")

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[LiveFeed] Consumer shutting down...")
			return
		default:
		}

		msg, err := reader.ReadMessage(pollTimeout)
		if err != nil {
			if kafkaErr, ok := err.(kafka.Error); ok {
				if kafkaErr.Code() == kafka.ErrTimedOut {
					continue
				}
				if kafkaErr.Code() == kafka.ErrAllBrokersDown {
					slog.Error("[LiveFeed] All Kafka brokers are down. Aborting")
					return
				}
			}
			slog.Warn("[LiveFeed] Failed to read message, retrying...",
				slog.String("error", err.Error()))
			continue
		}

		var record models.FeedbackRecord
		if err := json.Unmarshal(msg.Value, &record); err != nil {
			slog.Warn("[LiveFeed] Failed to decode change event, skipping",
				slog.String("error", err.Error()))
			continue
		}

		hub.Broadcast(record)
	}
}

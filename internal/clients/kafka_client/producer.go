package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/brandpulse/internal/models"
)

type FeedbackProducer struct {
	producer *kafka.Producer
}

func NewFeedbackProducer(cfg KafkaConfig) (*FeedbackProducer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   cfg.Broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &FeedbackProducer{producer: p}, nil
}

func (fp *FeedbackProducer) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if fp.producer != nil {
		slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
		if remaining := fp.producer.Flush(5000); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		fp.producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// PublishFeedbackEvent publishes one feedback record to the change-event
// topic, keyed by record ID so events for the same record stay ordered.
func (fp *FeedbackProducer) PublishFeedbackEvent(ctx context.Context, record models.FeedbackRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to marshal feedback record: %w", err)
	}

	topic := KAFKA_TOPIC_FEEDBACK_EVENTS
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(record.ID),
		Value:          jsonData,
	}

	deliveryChan := make(chan kafka.Event, 1)
	for i := 0; i < MAX_RETRIES; i++ {
		err = fp.producer.Produce(msg, deliveryChan)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RETRY_DELAY):
		}
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce feedback event: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-deliveryChan:
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] delivery failed: %w", m.TopicPartition.Error)
		}
	}

	slog.Info("[KafkaClient] Published feedback event to Kafka",
		slog.String("record_id", record.ID),
		slog.String("user_query", record.UserQuery))

	return nil
}

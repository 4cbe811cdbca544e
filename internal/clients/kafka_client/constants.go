package kafka_client

import "time"

const (
	// KAFKA_TOPIC_FEEDBACK_EVENTS carries one message per feedback
	// record insert, published off the store's change stream.
	KAFKA_TOPIC_FEEDBACK_EVENTS = "feedback-events"
)

const (
	MAX_RETRIES = 5
	RETRY_DELAY = 2 * time.Second
)

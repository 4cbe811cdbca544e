package kafka_client

import "os"

type KafkaConfig struct {
	Broker  string
	GroupID string
}

func ConfigFromEnv() KafkaConfig {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		broker = "localhost:9092"
	}

	groupID := os.Getenv("KAFKA_GROUP_ID")
	if groupID == "" {
		groupID = "brandpulse-livefeed"
	}

	return KafkaConfig{Broker: broker, GroupID: groupID}
}

package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spacesedan/brandpulse/config"
	"github.com/spacesedan/brandpulse/internal/clients/kafka_client"
	"github.com/spacesedan/brandpulse/internal/logging"
	"github.com/spacesedan/brandpulse/internal/streams"
)

// feedstream runs as a Lambda on the feedback table's DynamoDB stream
// and republishes every INSERT to the Kafka change-event topic.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	producer, err := kafka_client.NewFeedbackProducer(kafka_client.ConfigFromEnv())
	if err != nil {
		slog.Error("Failed to create Kafka producer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer producer.Close()

	handler := streams.NewHandler(producer)
	lambda.Start(handler.HandleEvent)
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/brandpulse/config"
	"github.com/spacesedan/brandpulse/internal/classifier"
	"github.com/spacesedan/brandpulse/internal/clients"
	"github.com/spacesedan/brandpulse/internal/clients/kafka_client"
	"github.com/spacesedan/brandpulse/internal/db"
	"github.com/spacesedan/brandpulse/internal/livefeed"
	"github.com/spacesedan/brandpulse/internal/logging"
	"github.com/spacesedan/brandpulse/internal/pipeline"
	"github.com/spacesedan/brandpulse/internal/retriever"
	"github.com/spacesedan/brandpulse/internal/runs"
	"github.com/spacesedan/brandpulse/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	valkeyClient, err := clients.NewValkeyClient()
	if err != nil {
		slog.Error("Failed to connect to Valkey", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer valkeyClient.Close()

	feedbackStore := db.NewFeedbackStore(clients.GetDynamoDBClient())
	registry := runs.NewRegistry(valkeyClient)

	analysisPipeline := pipeline.New(
		retriever.NewRedditRetriever(clients.NewRedditClient()),
		classifier.NewSentimentClassifier(clients.NewOpenAIClient().Client),
		feedbackStore,
		registry,
	)

	hub := livefeed.NewHub()
	consumer, err := kafka_client.NewFeedbackConsumer(kafka_client.ConfigFromEnv())
	if err != nil {
		slog.Error("Failed to create Kafka consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer consumer.Close()
	go livefeed.Consume(ctx, consumer, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           server.New(analysisPipeline, feedbackStore, registry, hub).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting BrandPulse API server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", slog.String("error", err.Error()))
			cancel()
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stopChan:
	case <-ctx.Done():
	}

	slog.Info("Shutting down server gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", slog.String("error", err.Error()))
	}
}

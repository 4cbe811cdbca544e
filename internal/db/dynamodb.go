package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/spacesedan/brandpulse/internal/models"
)

const (
	DEFAULT_FEEDBACK_TABLE_NAME = "Feedback"
	USER_QUERY_INDEX_NAME       = "userQuery-index"

	FEEDBACK_SOURCE = "Reddit"
	REDDIT_BASE_URL = "https://reddit.com"
)

type FeedbackStore struct {
	client *dynamodb.Client
	table  string
}

func NewFeedbackStore(client *dynamodb.Client) *FeedbackStore {
	table := os.Getenv("FEEDBACK_TABLE_NAME")
	if table == "" {
		table = DEFAULT_FEEDBACK_TABLE_NAME
	}
	return &FeedbackStore{client: client, table: table}
}

// WriteVerdict builds the immutable feedback record for an accepted
// verdict and persists it. Every call creates a new record under a fresh
// ID; re-running the same query appends rather than overwrites.
func (fs *FeedbackStore) WriteVerdict(ctx context.Context, userQuery string, post models.RawPost, verdict models.SentimentVerdict) (*models.FeedbackRecord, error) {
	record := models.FeedbackRecord{
		ID:         uuid.NewString(),
		Content:    verdict.Summary,
		Source:     FEEDBACK_SOURCE,
		Sentiment:  string(verdict.Sentiment),
		Topic:      verdict.Topic,
		Link:       REDDIT_BASE_URL + post.Permalink,
		UserQuery:  userQuery,
		IsRelevant: verdict.IsRelevant,
		VaderScore: verdict.VaderScore,
		CreatedAt:  time.Now().Unix(),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to marshal feedback record: %w", err)
	}

	_, err = fs.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(fs.table),
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to put feedback record: %w", err)
	}

	slog.Info("[DynamoDB] Stored feedback record",
		slog.String("record_id", record.ID),
		slog.String("user_query", record.UserQuery),
		slog.String("sentiment", record.Sentiment))

	return &record, nil
}

// QueryByUserQuery lists all feedback records for an exact query match,
// newest first.
func (fs *FeedbackStore) QueryByUserQuery(ctx context.Context, userQuery string) ([]models.FeedbackRecord, error) {
	var records []models.FeedbackRecord

	input := &dynamodb.QueryInput{
		TableName:              aws.String(fs.table),
		IndexName:              aws.String(USER_QUERY_INDEX_NAME),
		KeyConditionExpression: aws.String("userQuery = :q"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":q": &types.AttributeValueMemberS{Value: userQuery},
		},
	}

	paginator := dynamodb.NewQueryPaginator(fs.client, input)

	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Query for feedback failed: %w", err)
		}

		var page []models.FeedbackRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal feedback page", slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, page...)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})

	slog.Info("[DynamoDB] Successfully retrieved feedback records",
		slog.String("user_query", userQuery),
		slog.Int("count", len(records)))

	return records, nil
}

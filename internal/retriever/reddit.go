// Package retriever fetches the bounded set of candidate Reddit posts
// for one pipeline run.
package retriever

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/brandpulse/internal/models"
)

const DEFAULT_MAX_POSTS = 3

type SearchClient interface {
	SearchPosts(ctx context.Context, subreddits, query string, limit int) ([]byte, error)
}

type RedditRetriever struct {
	client SearchClient
	limit  int
}

func NewRedditRetriever(client SearchClient) *RedditRetriever {
	limit := DEFAULT_MAX_POSTS
	if v := os.Getenv("MAX_POSTS_PER_RUN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return &RedditRetriever{client: client, limit: limit}
}

// Retrieve returns at most the configured number of posts matching the
// query, relevance-ranked over the last month. Zero matches is success
// with an empty slice; only transport/auth failures are errors.
func (r *RedditRetriever) Retrieve(ctx context.Context, userQuery, filter string) ([]models.RawPost, error) {
	if filter == "" {
		// Nothing survived normalization; the Reddit API rejects an
		// empty subreddit path, so this is a zero-match run.
		slog.Warn("[RedditRetriever] Empty subreddit filter, skipping search",
			slog.String("query", userQuery))
		return nil, nil
	}

	body, err := r.client.SearchPosts(ctx, filter, userQuery, r.limit)
	if err != nil {
		return nil, fmt.Errorf("[RedditRetriever] Search failed: %w", err)
	}

	var listing models.RedditAPIResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("[RedditRetriever] Failed to decode listing: %w", err)
	}

	posts := make([]models.RawPost, 0, r.limit)
	for _, child := range listing.Data.Children {
		if len(posts) >= r.limit {
			break
		}

		post := childToRawPost(child.Data)
		if post.Body == "" {
			continue
		}
		posts = append(posts, post)
	}

	slog.Info("[RedditRetriever] Retrieved posts",
		slog.String("query", userQuery),
		slog.String("subreddits", filter),
		slog.Int("count", len(posts)))

	return posts, nil
}

func childToRawPost(data models.RedditAPIChildData) models.RawPost {
	body := strings.TrimSpace(data.Selftext)
	if body == "" {
		body = strings.TrimSpace(data.Title)
	}

	return models.RawPost{
		PostID:    data.ID,
		Subreddit: data.Subreddit,
		Author:    data.AuthorFullname,
		Body:      body,
		Permalink: data.Permalink,
		Source:    "Reddit",
		CreatedAt: time.Unix(int64(data.CreatedUTC), 0).UTC(),
	}
}

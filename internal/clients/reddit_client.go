package clients

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	REDDIT_AUTH_URL = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL  = "https://oauth.reddit.com"
)

type RedditClient struct {
	Config *clientcredentials.Config
	Client *http.Client
	mu     sync.Mutex
}

func NewRedditClient() *RedditClient {
	oauthConf := &clientcredentials.Config{
		ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		TokenURL:     REDDIT_AUTH_URL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &RedditClient{
		Config: oauthConf,
		Client: oauthConf.Client(context.Background()),
	}
}

func (rc *RedditClient) refreshClient() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.Client = rc.Config.Client(context.Background())
}

// SearchPosts runs a relevance-ranked search over the given subreddit
// filter, bounded to limit results from the last month, and returns the
// raw listing body. The caller owns decoding.
func (rc *RedditClient) SearchPosts(ctx context.Context, subreddits, query string, limit int) ([]byte, error) {
	parsedUrl, err := url.Parse(fmt.Sprintf("%s/r/%s/search", REDDIT_API_URL, subreddits))
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedUrl.Query()
	queryParams.Add("q", query)
	queryParams.Add("sort", "relevance")
	queryParams.Add("t", "month")
	queryParams.Add("restrict_sr", "on")
	queryParams.Add("limit", strconv.Itoa(limit))
	parsedUrl.RawQuery = queryParams.Encode()

	backoff := INITIAL_BACKOFF
	refreshed := false

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		body, status, err := rc.doSearch(ctx, parsedUrl.String())
		if err != nil {
			return nil, err
		}

		switch status {
		case http.StatusOK:
			return body, nil
		case http.StatusUnauthorized:
			if refreshed {
				return nil, fmt.Errorf("[RedditClient] Still unauthorized after token refresh")
			}
			slog.Warn("[RedditClient] Token expired - Refreshing and Retrying...")
			rc.refreshClient()
			refreshed = true
		case http.StatusTooManyRequests:
			slog.Warn("[RedditClient] 429 Too Many Requests - Retrying with backoff",
				slog.Int("attempt", attempt), slog.Duration("backoff", backoff))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}

			backoff *= 2
			if backoff > MAX_BACKOFF {
				backoff = MAX_BACKOFF
			}
		default:
			return nil, fmt.Errorf("[RedditClient] Unexpected status code %d", status)
		}
	}

	return nil, fmt.Errorf("[RedditClient] Max retries reached request failed")
}

func (rc *RedditClient) doSearch(ctx context.Context, searchUrl string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchUrl, nil)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := rc.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("[RedditClient] Search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

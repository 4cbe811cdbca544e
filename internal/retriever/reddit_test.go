package retriever

import (
	"context"
	"errors"
	"testing"
)

type fakeSearchClient struct {
	body []byte
	err  error

	calls   int
	gotSub  string
	gotQ    string
	gotLim  int
}

func (f *fakeSearchClient) SearchPosts(ctx context.Context, subreddits, query string, limit int) ([]byte, error) {
	f.calls++
	f.gotSub = subreddits
	f.gotQ = query
	f.gotLim = limit
	return f.body, f.err
}

const listingFixture = `{
  "data": {
    "after": "t3_next",
    "children": [
      {"data": {"subreddit": "teslamotors", "author_fullname": "t2_abc", "title": "Cybertruck review", "selftext": "Loving the build quality so far.", "permalink": "/r/teslamotors/comments/1/cybertruck_review/", "ups": 120, "created_utc": 1700000000, "id": "p1", "name": "t3_p1"}},
      {"data": {"subreddit": "trucks", "author_fullname": "t2_def", "title": "Empty body post", "selftext": "", "permalink": "/r/trucks/comments/2/empty/", "ups": 5, "created_utc": 1700000100, "id": "p2", "name": "t3_p2"}},
      {"data": {"subreddit": "cars", "author_fullname": "t2_ghi", "title": "Range anxiety", "selftext": "Range dropped hard in the cold.", "permalink": "/r/cars/comments/3/range/", "ups": 44, "created_utc": 1700000200, "id": "p3", "name": "t3_p3"}},
      {"data": {"subreddit": "cars", "author_fullname": "t2_jkl", "title": "Fourth post", "selftext": "Should be cut by the limit.", "permalink": "/r/cars/comments/4/fourth/", "ups": 9, "created_utc": 1700000300, "id": "p4", "name": "t3_p4"}}
    ]
  }
}`

func TestRetrieveBoundsAndOrder(t *testing.T) {
	client := &fakeSearchClient{body: []byte(listingFixture)}
	r := &RedditRetriever{client: client, limit: 3}

	posts, err := r.Retrieve(context.Background(), "Tesla Cybertruck", "tesla+cybertruck")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	if posts[0].PostID != "p1" || posts[1].PostID != "p2" || posts[2].PostID != "p3" {
		t.Errorf("retrieval order not preserved: %q %q %q", posts[0].PostID, posts[1].PostID, posts[2].PostID)
	}
	// p2 has no selftext so its title stands in as the body.
	if posts[1].Body != "Empty body post" {
		t.Errorf("expected title fallback body, got %q", posts[1].Body)
	}
	if posts[0].Permalink != "/r/teslamotors/comments/1/cybertruck_review/" {
		t.Errorf("permalink lost: %q", posts[0].Permalink)
	}
	if client.gotSub != "tesla+cybertruck" || client.gotQ != "Tesla Cybertruck" || client.gotLim != 3 {
		t.Errorf("search called with %q %q %d", client.gotSub, client.gotQ, client.gotLim)
	}
}

func TestRetrieveEmptyFilterSkipsSearch(t *testing.T) {
	client := &fakeSearchClient{body: []byte(listingFixture)}
	r := &RedditRetriever{client: client, limit: 3}

	posts, err := r.Retrieve(context.Background(), "the and for", "")
	if err != nil {
		t.Fatalf("empty filter must not fail: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected zero posts, got %d", len(posts))
	}
	if client.calls != 0 {
		t.Errorf("expected no search call, got %d", client.calls)
	}
}

func TestRetrieveZeroMatchesIsSuccess(t *testing.T) {
	client := &fakeSearchClient{body: []byte(`{"data": {"after": "", "children": []}}`)}
	r := &RedditRetriever{client: client, limit: 3}

	posts, err := r.Retrieve(context.Background(), "Tesla Cybertruck", "tesla+cybertruck")
	if err != nil {
		t.Fatalf("zero matches must not fail: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected zero posts, got %d", len(posts))
	}
}

func TestRetrieveSearchFailure(t *testing.T) {
	client := &fakeSearchClient{err: errors.New("401 unauthorized")}
	r := &RedditRetriever{client: client, limit: 3}

	if _, err := r.Retrieve(context.Background(), "Tesla Cybertruck", "tesla+cybertruck"); err == nil {
		t.Fatal("expected retrieval error")
	}
}

func TestRetrieveMalformedListing(t *testing.T) {
	client := &fakeSearchClient{body: []byte(`not json`)}
	r := &RedditRetriever{client: client, limit: 3}

	if _, err := r.Retrieve(context.Background(), "Tesla Cybertruck", "tesla+cybertruck"); err == nil {
		t.Fatal("expected decode error")
	}
}

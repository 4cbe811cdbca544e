// Package pipeline sequences one brand-analysis run: normalize the
// query, retrieve a bounded set of posts, classify each one, persist the
// accepted verdicts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spacesedan/brandpulse/internal/classifier"
	"github.com/spacesedan/brandpulse/internal/metrics"
	"github.com/spacesedan/brandpulse/internal/models"
	"github.com/spacesedan/brandpulse/internal/query"
)

var ErrEmptyQuery = errors.New("query is required")

type Retriever interface {
	Retrieve(ctx context.Context, userQuery, filter string) ([]models.RawPost, error)
}

type Classifier interface {
	Classify(ctx context.Context, userQuery string, post models.RawPost) (*models.SentimentVerdict, error)
}

type Writer interface {
	WriteVerdict(ctx context.Context, userQuery string, post models.RawPost, verdict models.SentimentVerdict) (*models.FeedbackRecord, error)
}

// RunRegistry records finished run summaries for later lookup. Saving is
// best-effort; a registry failure never fails the run.
type RunRegistry interface {
	SaveRunSummary(ctx context.Context, summary RunSummary) error
}

// RunSummary is what one pipeline execution reports back. The run is
// deliberately best-effort: per-post failures land in Skipped/Reasons
// while the run itself still counts as a success.
type RunSummary struct {
	RunID      string   `json:"runId"`
	Query      string   `json:"query"`
	Filter     string   `json:"filter"`
	Retrieved  int      `json:"retrieved"`
	Written    int      `json:"written"`
	Skipped    int      `json:"skipped"`
	Irrelevant int      `json:"irrelevant"`
	Reasons    []string `json:"reasons,omitempty"`
}

type Pipeline struct {
	retriever  Retriever
	classifier Classifier
	writer     Writer
	registry   RunRegistry
}

func New(retriever Retriever, c Classifier, writer Writer, registry RunRegistry) *Pipeline {
	return &Pipeline{
		retriever:  retriever,
		classifier: c,
		writer:     writer,
		registry:   registry,
	}
}

// Run executes one pipeline pass for userQuery. It returns an error only
// for input and retrieval failures; classification and write failures
// are counted in the summary and the run still succeeds, even when
// nothing was written.
func (p *Pipeline) Run(ctx context.Context, userQuery string) (*RunSummary, error) {
	if strings.TrimSpace(userQuery) == "" {
		return nil, ErrEmptyQuery
	}

	summary := &RunSummary{
		RunID: uuid.NewString(),
		Query: userQuery,
	}

	summary.Filter = query.Normalize(userQuery)
	slog.Info("[Pipeline] Starting run",
		slog.String("run_id", summary.RunID),
		slog.String("query", userQuery),
		slog.String("filter", summary.Filter))

	posts, err := p.retriever.Retrieve(ctx, userQuery, summary.Filter)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("[Pipeline] Retrieval failed: %w", err)
	}
	summary.Retrieved = len(posts)

	for _, post := range posts {
		p.processPost(ctx, post, summary)
	}

	p.saveSummary(ctx, summary)
	metrics.RunsTotal.WithLabelValues("done").Inc()

	slog.Info("[Pipeline] Run complete",
		slog.String("run_id", summary.RunID),
		slog.Int("retrieved", summary.Retrieved),
		slog.Int("written", summary.Written),
		slog.Int("skipped", summary.Skipped))

	return summary, nil
}

// processPost classifies and persists one post. Failures are recorded on
// the summary and never stop the rest of the batch.
func (p *Pipeline) processPost(ctx context.Context, post models.RawPost, summary *RunSummary) {
	verdict, err := p.classifier.Classify(ctx, summary.Query, post)
	if err != nil {
		summary.Skipped++
		summary.Reasons = append(summary.Reasons, skipReason(post, err))
		metrics.PostsClassifiedTotal.WithLabelValues("failed").Inc()
		slog.Warn("[Pipeline] Classification failed, skipping post",
			slog.String("post_id", post.PostID),
			slog.String("error", err.Error()))
		return
	}
	metrics.PostsClassifiedTotal.WithLabelValues("classified").Inc()

	if !verdict.IsRelevant {
		// Irrelevant verdicts are still written, marked so the
		// dashboard can filter them; kept under its own counter so the
		// policy can change without losing the signal.
		summary.Irrelevant++
	}

	record, err := p.writer.WriteVerdict(ctx, summary.Query, post, *verdict)
	if err != nil {
		summary.Skipped++
		summary.Reasons = append(summary.Reasons, skipReason(post, err))
		slog.Warn("[Pipeline] Write failed, skipping post",
			slog.String("post_id", post.PostID),
			slog.String("error", err.Error()))
		return
	}

	summary.Written++
	metrics.RecordsWrittenTotal.Inc()
	slog.Info("[Pipeline] Feedback record written",
		slog.String("post_id", post.PostID),
		slog.String("record_id", record.ID))
}

func (p *Pipeline) saveSummary(ctx context.Context, summary *RunSummary) {
	if p.registry == nil {
		return
	}
	if err := p.registry.SaveRunSummary(ctx, *summary); err != nil {
		slog.Warn("[Pipeline] Failed to save run summary",
			slog.String("run_id", summary.RunID),
			slog.String("error", err.Error()))
	}
}

func skipReason(post models.RawPost, err error) string {
	var cerr *classifier.ClassificationError
	if errors.As(err, &cerr) {
		return fmt.Sprintf("post %s: classification failed at %s", post.PostID, cerr.Stage)
	}
	return fmt.Sprintf("post %s: %v", post.PostID, err)
}

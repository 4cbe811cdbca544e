// Package runs keeps finished run summaries in Valkey so the dashboard
// can look up what a best-effort run actually did after the fact.
package runs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spacesedan/brandpulse/internal/clients"
	"github.com/spacesedan/brandpulse/internal/pipeline"
	"github.com/valkey-io/valkey-go"
)

const (
	RUN_KEY_PREFIX  = "brandpulse:runs:"
	RUN_TTL_SECONDS = 86400
)

type Registry struct {
	valkey *clients.ValkeyClient
}

func NewRegistry(vc *clients.ValkeyClient) *Registry {
	return &Registry{valkey: vc}
}

func runKey(runID string) string {
	return RUN_KEY_PREFIX + runID
}

func (r *Registry) SaveRunSummary(ctx context.Context, summary pipeline.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("[RunRegistry] failed to marshal summary: %w", err)
	}

	cmd := r.valkey.Client.B().Set().
		Key(runKey(summary.RunID)).
		Value(string(data)).
		ExSeconds(RUN_TTL_SECONDS).
		Build()

	res := r.valkey.DoWithRetry(ctx, cmd, 3)
	if err := res.Error(); err != nil {
		return fmt.Errorf("[RunRegistry] failed to save summary: %w", err)
	}

	slog.Info("[RunRegistry] Saved run summary",
		slog.String("run_id", summary.RunID))
	return nil
}

// GetRunSummary fetches a summary by run ID. A missing or expired run
// returns (nil, nil).
func (r *Registry) GetRunSummary(ctx context.Context, runID string) (*pipeline.RunSummary, error) {
	cmd := r.valkey.Client.B().Get().Key(runKey(runID)).Build()

	res := r.valkey.DoWithRetry(ctx, cmd, 3)
	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("[RunRegistry] failed to fetch summary: %w", err)
	}

	data, err := res.AsBytes()
	if err != nil {
		return nil, err
	}

	var summary pipeline.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("[RunRegistry] failed to unmarshal summary: %w", err)
	}
	return &summary, nil
}

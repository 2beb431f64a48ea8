package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// RunStats holds aggregated navigation counters pulled back from Prometheus.
type RunStats struct {
	Activations map[string]int64 `json:"activations"`
	Removals    map[string]int64 `json:"removals"`
	ProbeHits   int64            `json:"probe_hits"`
	ProbeMisses int64            `json:"probe_misses"`
}

// QueryService queries a Prometheus server for navigation metrics. It is the
// read side of the recorder: dashboards and post-run analysis pull aggregates
// from here instead of scraping the engine directly.
type QueryService struct {
	client   api.Client
	queryAPI v1.API
}

// NewQueryService creates a metrics query service for the given Prometheus URL.
func NewQueryService(prometheusURL string) (*QueryService, error) {
	client, err := api.NewClient(api.Config{
		Address: prometheusURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus client: %w", err)
	}

	return &QueryService{
		client:   client,
		queryAPI: v1.NewAPI(client),
	}, nil
}

// GetRunStats retrieves the aggregated activation, removal and probe counters.
func (q *QueryService) GetRunStats(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{
		Activations: make(map[string]int64),
		Removals:    make(map[string]int64),
	}

	activations, err := q.vectorByLabel(ctx, `sum by (state) (navigator_state_activations_total)`, "state")
	if err != nil {
		return nil, fmt.Errorf("failed to query activations: %w", err)
	}
	stats.Activations = activations

	removals, err := q.vectorByLabel(ctx, `sum by (state) (navigator_state_removals_total)`, "state")
	if err != nil {
		return nil, fmt.Errorf("failed to query removals: %w", err)
	}
	stats.Removals = removals

	stats.ProbeHits, err = q.scalar(ctx, `sum(navigator_probes_total{result="found"})`)
	if err != nil {
		return nil, fmt.Errorf("failed to query probe hits: %w", err)
	}
	stats.ProbeMisses, err = q.scalar(ctx, `sum(navigator_probes_total{result="miss"})`)
	if err != nil {
		return nil, fmt.Errorf("failed to query probe misses: %w", err)
	}

	return stats, nil
}

// GetResolutionOutcomes retrieves resolution counts keyed by outcome for one
// run mode ("live" or "simulated").
func (q *QueryService) GetResolutionOutcomes(ctx context.Context, mode string) (map[string]int64, error) {
	query := fmt.Sprintf(`sum by (outcome) (navigator_resolutions_total{mode=%q})`, mode)
	outcomes, err := q.vectorByLabel(ctx, query, "outcome")
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	return outcomes, nil
}

// vectorByLabel runs an instant query and returns sample values keyed by the
// given label.
func (q *QueryService) vectorByLabel(ctx context.Context, query, label string) (map[string]int64, error) {
	result, _, err := q.queryAPI.Query(ctx, query, time.Now())
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64)
	if vector, ok := result.(model.Vector); ok {
		for _, sample := range vector {
			if key, ok := sample.Metric[model.LabelName(label)]; ok {
				out[string(key)] = int64(sample.Value)
			}
		}
	}
	return out, nil
}

// scalar runs an instant query expected to yield a single sample.
func (q *QueryService) scalar(ctx context.Context, query string) (int64, error) {
	result, _, err := q.queryAPI.Query(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}
	if vector, ok := result.(model.Vector); ok && len(vector) > 0 {
		return int64(vector[0].Value), nil
	}
	return 0, nil
}

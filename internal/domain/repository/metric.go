package repository

import (
	"context"
	"time"

	"github.com/biso-no/shopcore/internal/domain/model"
)

// MetricRepository stores cached dashboard metrics and the webhook
// deduplication ledger.
type MetricRepository interface {
	Get(ctx context.Context, metricType, metricRange string) (*model.Metric, error)
	Put(ctx context.Context, metric *model.Metric) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// WebhookLedger records processed gateway callbacks so retries are no-ops.
type WebhookLedger interface {
	// MarkProcessed returns false when the reference was already recorded.
	MarkProcessed(ctx context.Context, reference string) (bool, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/domain/repository"
)

// MetricCache serves dashboard metrics from stored rows, recomputing when
// the cached value is absent or stale. There is no locking: concurrent
// misses may both compute and both write, which is acceptable because
// metric computation is an idempotent read.
type MetricCache struct {
	metrics repository.MetricRepository
	maxAge  time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewMetricCache constructs MetricCache with the default staleness window.
func NewMetricCache(metrics repository.MetricRepository, maxAge time.Duration, logger *slog.Logger) *MetricCache {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &MetricCache{metrics: metrics, maxAge: maxAge, logger: logger, now: time.Now}
}

// GetOrCompute returns the cached payload for (metricType, metricRange)
// when fresh, otherwise invokes compute, persists the JSON-serialized
// result and returns it. A failed cache write is logged, not propagated:
// the freshly computed value is still served.
func (c *MetricCache) GetOrCompute(ctx context.Context, metricType, metricRange string, maxAge time.Duration, compute func(context.Context) (any, error)) (json.RawMessage, error) {
	if maxAge <= 0 {
		maxAge = c.maxAge
	}

	cached, err := c.metrics.Get(ctx, metricType, metricRange)
	if err == nil && c.now().Sub(cached.ComputedAt) <= maxAge {
		return cached.Payload, nil
	}
	if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	metric := &model.Metric{
		Type:       metricType,
		Range:      metricRange,
		Payload:    payload,
		ComputedAt: c.now(),
	}
	if err := c.metrics.Put(ctx, metric); err != nil {
		c.logger.Error("metric cache write failed",
			slog.String("type", metricType),
			slog.String("range", metricRange),
			slog.String("error", err.Error()),
		)
	}

	return payload, nil
}

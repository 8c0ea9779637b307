package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage depends on, kept as an
// interface so tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage keeps locally derived data: the dashboard metric cache and the
// webhook deduplication ledger. The commercial records themselves live in
// the remote row store.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type metricRepository struct {
	storage *Storage
}

type webhookLedger struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Metrics returns the metric cache repository.
func (s *Storage) Metrics() repository.MetricRepository {
	return &metricRepository{storage: s}
}

// Webhooks returns the webhook deduplication ledger.
func (s *Storage) Webhooks() repository.WebhookLedger {
	return &webhookLedger{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS metrics (
            metric_type TEXT NOT NULL,
            metric_range TEXT NOT NULL,
            payload JSONB NOT NULL,
            computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (metric_type, metric_range)
        )`,
		`CREATE TABLE IF NOT EXISTS webhook_events (
            reference TEXT PRIMARY KEY,
            processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_events_processed ON webhook_events(processed_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- MetricRepository implementation ---

func (r *metricRepository) Get(ctx context.Context, metricType, metricRange string) (*model.Metric, error) {
	const query = `SELECT payload, computed_at FROM metrics WHERE metric_type=$1 AND metric_range=$2`
	metric := model.Metric{Type: metricType, Range: metricRange}
	err := r.storage.pool.QueryRow(ctx, query, metricType, metricRange).Scan(&metric.Payload, &metric.ComputedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &metric, nil
}

// Put upserts the metric row. Concurrent writers race benignly: metrics are
// idempotent recomputations and the last write wins.
func (r *metricRepository) Put(ctx context.Context, metric *model.Metric) error {
	const query = `INSERT INTO metrics (metric_type, metric_range, payload, computed_at)
                   VALUES ($1, $2, $3, $4)
                   ON CONFLICT (metric_type, metric_range) DO UPDATE
                   SET payload = EXCLUDED.payload, computed_at = EXCLUDED.computed_at`
	computedAt := metric.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now()
	}
	_, err := r.storage.pool.Exec(ctx, query, metric.Type, metric.Range, metric.Payload, computedAt)
	return err
}

func (r *metricRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM metrics WHERE computed_at < $1`
	tag, err := r.storage.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// --- WebhookLedger implementation ---

// MarkProcessed records the callback reference. The insert-or-nothing
// upsert makes gateway retries observable as duplicates without a separate
// existence check.
func (l *webhookLedger) MarkProcessed(ctx context.Context, reference string) (bool, error) {
	const query = `INSERT INTO webhook_events (reference) VALUES ($1) ON CONFLICT (reference) DO NOTHING`
	tag, err := l.storage.pool.Exec(ctx, query, reference)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (l *webhookLedger) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM webhook_events WHERE processed_at < $1`
	tag, err := l.storage.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/biso-no/shopcore/internal/domain/repository"
)

// ledger and metric rows have no value after a month
const derivedDataTTL = 30 * 24 * time.Hour

// CleanupUseCase removes abandoned draft orders and prunes derived local
// data. Orders past draft are financial records and are never touched.
type CleanupUseCase struct {
	orders   repository.OrderRepository
	metrics  repository.MetricRepository
	webhooks repository.WebhookLedger
	draftTTL time.Duration
	logger   *slog.Logger
}

// NewCleanupUseCase constructs CleanupUseCase.
func NewCleanupUseCase(orders repository.OrderRepository, metrics repository.MetricRepository, webhooks repository.WebhookLedger, draftTTL time.Duration, logger *slog.Logger) *CleanupUseCase {
	if draftTTL <= 0 {
		draftTTL = 24 * time.Hour
	}
	return &CleanupUseCase{orders: orders, metrics: metrics, webhooks: webhooks, draftTTL: draftTTL, logger: logger}
}

// Run deletes stale drafts and returns how many were removed. A single
// failed delete is logged and skipped so one bad row cannot stall the
// sweep; pruning of local derived data is best-effort.
func (u *CleanupUseCase) Run(ctx context.Context) (int, error) {
	drafts, err := u.orders.ListStaleDrafts(ctx, time.Now().Add(-u.draftTTL))
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, order := range drafts {
		if err := u.orders.Delete(ctx, order.ID); err != nil {
			u.logger.Error("delete stale draft failed",
				slog.String("order", order.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		deleted++
	}

	cutoff := time.Now().Add(-derivedDataTTL)
	if _, err := u.webhooks.PruneOlderThan(ctx, cutoff); err != nil {
		u.logger.Error("prune webhook ledger failed", slog.String("error", err.Error()))
	}
	if _, err := u.metrics.DeleteOlderThan(ctx, cutoff); err != nil {
		u.logger.Error("prune metric cache failed", slog.String("error", err.Error()))
	}

	return deleted, nil
}

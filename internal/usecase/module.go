package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/biso-no/shopcore/internal/config"
	"github.com/biso-no/shopcore/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newLimitEvaluator,
	NewExportUseCase,
	NewMetricsUseCase,
	newMetricCache,
	NewCheckoutUseCase,
	NewPaymentUseCase,
	newCleanupUseCase,
)

func newLimitEvaluator(orders repository.OrderRepository, cfg *config.Config, logger *slog.Logger) *LimitEvaluator {
	return NewLimitEvaluator(orders, cfg.StrictLimits, logger)
}

func newMetricCache(metrics repository.MetricRepository, cfg *config.Config, logger *slog.Logger) *MetricCache {
	return NewMetricCache(metrics, cfg.MetricMaxAge, logger)
}

type cleanupParams struct {
	fx.In

	Orders   repository.OrderRepository
	Metrics  repository.MetricRepository
	Webhooks repository.WebhookLedger
	Config   *config.Config
	Logger   *slog.Logger
}

func newCleanupUseCase(p cleanupParams) *CleanupUseCase {
	return NewCleanupUseCase(p.Orders, p.Metrics, p.Webhooks, p.Config.DraftTTL, p.Logger)
}

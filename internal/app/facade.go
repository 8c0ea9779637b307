package app

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/domain/repository"
	"github.com/biso-no/shopcore/internal/usecase"
)

// overview metric stored per reporting range
const metricTypeShopOverview = "shop_overview"

// CommerceFacade aggregates the application's operations for the HTTP
// layer and the reconciliation worker.
type CommerceFacade struct {
	products repository.ProductRepository
	limits   *usecase.LimitEvaluator
	checkout *usecase.CheckoutUseCase
	export   *usecase.ExportUseCase
	metrics  *usecase.MetricsUseCase
	cache    *usecase.MetricCache
	payments *usecase.PaymentUseCase
	cleanup  *usecase.CleanupUseCase
}

// NewCommerceFacade constructs CommerceFacade.
func NewCommerceFacade(
	products repository.ProductRepository,
	limits *usecase.LimitEvaluator,
	checkout *usecase.CheckoutUseCase,
	export *usecase.ExportUseCase,
	metrics *usecase.MetricsUseCase,
	cache *usecase.MetricCache,
	payments *usecase.PaymentUseCase,
	cleanup *usecase.CleanupUseCase,
) *CommerceFacade {
	return &CommerceFacade{
		products: products,
		limits:   limits,
		checkout: checkout,
		export:   export,
		metrics:  metrics,
		cache:    cache,
		payments: payments,
		cleanup:  cleanup,
	}
}

func (f *CommerceFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.products.List(ctx)
}

func (f *CommerceFacade) Product(ctx context.Context, id string) (*model.Product, error) {
	return f.products.Get(ctx, id)
}

// CheckLimit evaluates the purchase limits for a single product without
// creating an order. The storefront calls this while the cart is edited.
func (f *CommerceFacade) CheckLimit(ctx context.Context, productID, userID string, quantity int) (model.LimitDecision, error) {
	product, err := f.products.Get(ctx, productID)
	if err != nil {
		return model.LimitDecision{}, err
	}
	return f.limits.Validate(ctx, product, userID, quantity)
}

func (f *CommerceFacade) Checkout(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
	return f.checkout.Checkout(ctx, req)
}

func (f *CommerceFacade) ExportOrdersCSV(ctx context.Context, w io.Writer) error {
	return f.export.Export(ctx, w)
}

// Metrics serves the cached shop overview for the range, recomputing when
// stale.
func (f *CommerceFacade) Metrics(ctx context.Context, metricRange string) (json.RawMessage, error) {
	return f.cache.GetOrCompute(ctx, metricTypeShopOverview, metricRange, 0, func(ctx context.Context) (any, error) {
		return f.metrics.Compute(ctx, metricRange)
	})
}

func (f *CommerceFacade) HandlePaymentCallback(ctx context.Context, reference string) (model.OrderStatus, error) {
	return f.payments.HandleCallback(ctx, reference)
}

func (f *CommerceFacade) Cleanup(ctx context.Context) (int, error) {
	return f.cleanup.Run(ctx)
}

func (f *CommerceFacade) PendingOrders(ctx context.Context, grace time.Duration, limit int) ([]model.Order, error) {
	return f.payments.PendingOrders(ctx, grace, limit)
}

func (f *CommerceFacade) ReconcileOrder(ctx context.Context, order model.Order) error {
	return f.payments.ReconcileOrder(ctx, order)
}

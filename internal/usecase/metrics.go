package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/domain/repository"
)

// BuildTrend compares a metric value against the previous period. A previous
// value of zero reports 100% growth when the current value is positive and a
// flat zero when both are zero.
func BuildTrend(current, previous float64) model.Trend {
	absolute := current - previous

	direction := model.TrendFlat
	switch {
	case absolute > 0:
		direction = model.TrendUp
	case absolute < 0:
		direction = model.TrendDown
	}

	var percent float64
	switch {
	case previous != 0:
		percent = absolute / previous * 100
	case current != 0:
		percent = 100
	}

	return model.Trend{Absolute: absolute, Percent: percent, Direction: direction}
}

// ParseRange converts a reporting range like "7d" or "24h" into a duration.
func ParseRange(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("%w: invalid range %q", domainErrors.ErrInvalidInput, s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: invalid range %q", domainErrors.ErrInvalidInput, s)
	}
	return d, nil
}

// MetricsUseCase computes dashboard metrics over completed orders.
type MetricsUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewMetricsUseCase constructs MetricsUseCase.
func NewMetricsUseCase(orders repository.OrderRepository, products repository.ProductRepository) *MetricsUseCase {
	return &MetricsUseCase{orders: orders, products: products, now: time.Now}
}

// Compute aggregates revenue, order count and units sold for the reporting
// window, with trends against the preceding window of equal length. The
// current window, previous window and catalogue are fetched concurrently.
func (u *MetricsUseCase) Compute(ctx context.Context, metricRange string) (*model.ShopMetrics, error) {
	window, err := ParseRange(metricRange)
	if err != nil {
		return nil, err
	}

	end := u.now()
	start := end.Add(-window)
	previousStart := start.Add(-window)

	var (
		current  []model.Order
		previous []model.Order
		catalog  []model.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = u.orders.ListCompletedInWindow(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = u.orders.ListCompletedInWindow(gctx, previousStart, start)
		return err
	})
	g.Go(func() error {
		var err error
		catalog, err = u.products.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics := &model.ShopMetrics{
		OrderCount:     len(current),
		UnitsByProduct: make(map[string]int, len(catalog)),
		WindowStart:    start,
		WindowEnd:      end,
	}
	for _, product := range catalog {
		metrics.UnitsByProduct[product.ID] = 0
	}

	for _, order := range current {
		metrics.Revenue += order.Total
		for _, item := range DecodeItems(order.ItemsJSON) {
			metrics.UnitsSold += item.Quantity
			metrics.UnitsByProduct[item.ProductID] += item.Quantity
		}
	}

	var previousRevenue float64
	for _, order := range previous {
		previousRevenue += order.Total
	}

	metrics.RevenueTrend = BuildTrend(metrics.Revenue, previousRevenue)
	metrics.OrdersTrend = BuildTrend(float64(metrics.OrderCount), float64(len(previous)))

	return metrics, nil
}

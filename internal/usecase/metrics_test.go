package usecase_test

import (
	"context"
	"errors"
	. "github.com/biso-no/shopcore/internal/usecase"
	"testing"
	"time"

	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/test"
)

func TestBuildTrend(t *testing.T) {
	cases := []struct {
		name      string
		current   float64
		previous  float64
		absolute  float64
		percent   float64
		direction model.TrendDirection
	}{
		{"growth", 150, 100, 50, 50, model.TrendUp},
		{"decline", 50, 100, -50, -50, model.TrendDown},
		{"flat", 100, 100, 0, 0, model.TrendFlat},
		{"from zero", 10, 0, 10, 100, model.TrendUp},
		{"both zero", 0, 0, 0, 0, model.TrendFlat},
		{"to zero", 0, 40, -40, -100, model.TrendDown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trend := BuildTrend(tc.current, tc.previous)
			if trend.Absolute != tc.absolute || trend.Percent != tc.percent || trend.Direction != tc.direction {
				t.Fatalf("unexpected trend %+v", trend)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	if d, err := ParseRange("7d"); err != nil || d != 7*24*time.Hour {
		t.Fatalf("unexpected result %v %v", d, err)
	}
	if d, err := ParseRange("24h"); err != nil || d != 24*time.Hour {
		t.Fatalf("unexpected result %v %v", d, err)
	}
	for _, bad := range []string{"", "0d", "-3d", "xd", "banana", "-1h"} {
		if _, err := ParseRange(bad); !errors.Is(err, domainErrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %q, got %v", bad, err)
		}
	}
}

func TestMetricsComputeAggregatesWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	orders := &test.OrderRepositoryStub{Orders: []model.Order{
		{
			ID: "current-1", Status: model.OrderStatusPaid, Total: 100,
			CreatedAt: now.Add(-24 * time.Hour),
			ItemsJSON: `[{"product_id":"p1","quantity":2},{"product_id":"p2","quantity":1}]`,
		},
		{
			ID: "current-2", Status: model.OrderStatusAuthorized, Total: 50,
			CreatedAt: now.Add(-48 * time.Hour),
			ItemsJSON: `[{"product_id":"p1","quantity":1}]`,
		},
		{
			ID: "previous-1", Status: model.OrderStatusPaid, Total: 75,
			CreatedAt: now.Add(-10 * 24 * time.Hour),
			ItemsJSON: `[{"product_id":"p1","quantity":4}]`,
		},
		{
			ID: "too-old", Status: model.OrderStatusPaid, Total: 500,
			CreatedAt: now.Add(-20 * 24 * time.Hour),
			ItemsJSON: `[{"product_id":"p1","quantity":9}]`,
		},
	}}
	products := &test.ProductRepositoryStub{Products: []model.Product{
		{ID: "p1"}, {ID: "p2"}, {ID: "p3"},
	}}

	uc := NewMetricsUseCase(orders, products)
	SetMetricsNow(uc, func() time.Time { return now })

	metrics, err := uc.Compute(context.Background(), "7d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.Revenue != 150 || metrics.OrderCount != 2 || metrics.UnitsSold != 4 {
		t.Fatalf("unexpected aggregates %+v", metrics)
	}
	if metrics.UnitsByProduct["p1"] != 3 || metrics.UnitsByProduct["p2"] != 1 {
		t.Fatalf("unexpected per-product units %v", metrics.UnitsByProduct)
	}
	if units, ok := metrics.UnitsByProduct["p3"]; !ok || units != 0 {
		t.Fatalf("catalogue products without sales must be zero-filled, got %v", metrics.UnitsByProduct)
	}
	if metrics.RevenueTrend.Direction != model.TrendUp || metrics.RevenueTrend.Percent != 100 {
		t.Fatalf("unexpected revenue trend %+v", metrics.RevenueTrend)
	}
	if metrics.OrdersTrend.Absolute != 1 {
		t.Fatalf("unexpected orders trend %+v", metrics.OrdersTrend)
	}
	if !metrics.WindowStart.Equal(now.Add(-7*24*time.Hour)) || !metrics.WindowEnd.Equal(now) {
		t.Fatalf("unexpected window %v .. %v", metrics.WindowStart, metrics.WindowEnd)
	}
}

func TestMetricsComputeRejectsBadRange(t *testing.T) {
	uc := NewMetricsUseCase(&test.OrderRepositoryStub{}, &test.ProductRepositoryStub{})
	if _, err := uc.Compute(context.Background(), "week"); !errors.Is(err, domainErrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestMetricsComputePropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("store unreachable")
	orders := &test.OrderRepositoryStub{
		ListCompletedWindowFn: func(context.Context, time.Time, time.Time) ([]model.Order, error) {
			return nil, fetchErr
		},
	}
	uc := NewMetricsUseCase(orders, &test.ProductRepositoryStub{})

	if _, err := uc.Compute(context.Background(), "7d"); !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

package usecase_test

import (
	. "github.com/biso-no/shopcore/internal/usecase"
	"testing"

	"github.com/biso-no/shopcore/internal/domain/model"
)

func TestAggregatePurchasesSumsAcrossOrders(t *testing.T) {
	orders := []model.Order{
		{ID: "o1", ItemsJSON: `[{"product_id":"p1","quantity":2},{"product_id":"p2","quantity":1}]`},
		{ID: "o2", ItemsJSON: `[{"product_id":"p1","quantity":3}]`},
		{ID: "o3", ItemsJSON: `[{"product_id":"p2","quantity":4}]`},
	}

	summary := AggregatePurchases(orders, "p1")
	if summary.TotalPurchased != 5 {
		t.Fatalf("expected 5 units, got %d", summary.TotalPurchased)
	}
	if summary.OrderCount != 2 {
		t.Fatalf("expected 2 orders, got %d", summary.OrderCount)
	}
}

func TestAggregatePurchasesCountsOrderOncePerMatch(t *testing.T) {
	orders := []model.Order{
		{ID: "o1", ItemsJSON: `[{"product_id":"p1","variation_id":"s","quantity":1},{"product_id":"p1","variation_id":"m","quantity":2}]`},
	}

	summary := AggregatePurchases(orders, "p1")
	if summary.TotalPurchased != 3 {
		t.Fatalf("expected 3 units, got %d", summary.TotalPurchased)
	}
	if summary.OrderCount != 1 {
		t.Fatalf("expected a single order, got %d", summary.OrderCount)
	}
}

func TestAggregatePurchasesSkipsCorruptItems(t *testing.T) {
	orders := []model.Order{
		{ID: "o1", ItemsJSON: "{broken"},
		{ID: "o2", ItemsJSON: `[{"product_id":"p1","quantity":2}]`},
		{ID: "o3", ItemsJSON: ""},
	}

	summary := AggregatePurchases(orders, "p1")
	if summary.TotalPurchased != 2 || summary.OrderCount != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestAggregatePurchasesNoMatches(t *testing.T) {
	orders := []model.Order{
		{ID: "o1", ItemsJSON: `[{"product_id":"p2","quantity":2}]`},
	}

	summary := AggregatePurchases(orders, "p1")
	if summary.TotalPurchased != 0 || summary.OrderCount != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

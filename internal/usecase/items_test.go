package usecase_test

import (
	. "github.com/biso-no/shopcore/internal/usecase"
	"testing"
)

func TestDecodeItemsEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		if items := DecodeItems(raw); items != nil {
			t.Fatalf("expected nil for %q, got %v", raw, items)
		}
	}
}

func TestDecodeItemsMalformedJSON(t *testing.T) {
	for _, raw := range []string{"{", "not json", `{"product_id":"p1"}`, `"p1"`, "42"} {
		if items := DecodeItems(raw); items != nil {
			t.Fatalf("expected nil for %q, got %v", raw, items)
		}
	}
}

func TestDecodeItemsSnakeCaseKeys(t *testing.T) {
	items := DecodeItems(`[{"product_id":"p1","variation_id":"v1","title":"Hoodie","quantity":2,"unit_price":499.5}]`)
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	item := items[0]
	if item.ProductID != "p1" || item.VariationID != "v1" || item.Title != "Hoodie" {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.Quantity != 2 || item.UnitPrice != 499.5 {
		t.Fatalf("unexpected numbers %+v", item)
	}
}

func TestDecodeItemsCamelCaseFallback(t *testing.T) {
	items := DecodeItems(`[{"productId":"p2","variationId":"v2","name":"Cap","quantity":1,"price":149}]`)
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	item := items[0]
	if item.ProductID != "p2" || item.VariationID != "v2" || item.Title != "Cap" {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.UnitPrice != 149 {
		t.Fatalf("unexpected price %v", item.UnitPrice)
	}
}

func TestDecodeItemsNumericCoercion(t *testing.T) {
	items := DecodeItems(`[
		{"product_id":"a","quantity":"3","unit_price":"19.90"},
		{"product_id":"b","quantity":2.9},
		{"product_id":"c","quantity":0},
		{"product_id":"d","quantity":-5},
		{"product_id":"e"}
	]`)
	if len(items) != 5 {
		t.Fatalf("expected five items, got %d", len(items))
	}
	if items[0].Quantity != 3 || items[0].UnitPrice != 19.90 {
		t.Fatalf("string coercion failed: %+v", items[0])
	}
	if items[1].Quantity != 2 {
		t.Fatalf("expected fractional quantity floored to 2, got %d", items[1].Quantity)
	}
	for _, i := range []int{2, 3, 4} {
		if items[i].Quantity != 1 {
			t.Fatalf("expected quantity clamp to 1 for item %d, got %d", i, items[i].Quantity)
		}
	}
	if items[4].UnitPrice != 0 {
		t.Fatalf("expected missing price to default to 0, got %v", items[4].UnitPrice)
	}
}

package rowstorerepo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/test"
)

func productJSON(id, name string, price float64, maxPerOrder, maxPerUser int) json.RawMessage {
	raw, _ := json.Marshal(map[string]any{
		"$id":           id,
		"name":          name,
		"description":   "test product",
		"price":         price,
		"max_per_order": maxPerOrder,
		"max_per_user":  maxPerUser,
	})
	return raw
}

func TestProductsGetDecodesRow(t *testing.T) {
	client := &test.RowStoreClientStub{Tables: map[string][]json.RawMessage{
		"shop_products": {productJSON("p1", "Hoodie", 499, 5, 2)},
	}}
	products := NewProducts(client, 10)

	product, err := products.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Name != "Hoodie" || product.Price != 499 {
		t.Fatalf("unexpected product %+v", product)
	}
	if product.MaxPerOrder != 5 || product.MaxPerUser != 2 {
		t.Fatalf("limit fields lost in decode: %+v", product)
	}
}

func TestProductsGetMapsNotFound(t *testing.T) {
	client := &test.RowStoreClientStub{Tables: map[string][]json.RawMessage{}}
	products := NewProducts(client, 10)

	if _, err := products.Get(context.Background(), "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected domain not found, got %v", err)
	}
}

func TestProductsListSortsByName(t *testing.T) {
	client := &test.RowStoreClientStub{Tables: map[string][]json.RawMessage{
		"shop_products": {
			productJSON("p1", "Cap", 149, 0, 0),
			productJSON("p2", "Hoodie", 499, 0, 0),
		},
	}}
	products := NewProducts(client, 10)

	catalogue, err := products.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(catalogue) != 2 {
		t.Fatalf("unexpected catalogue %+v", catalogue)
	}

	var sort struct {
		Method    string `json:"method"`
		Attribute string `json:"attribute"`
	}
	if err := json.Unmarshal([]byte(client.Queries[0][0]), &sort); err != nil {
		t.Fatalf("query is not JSON: %v", err)
	}
	if sort.Method != "orderAsc" || sort.Attribute != "name" {
		t.Fatalf("catalogue must be name-sorted, got %+v", sort)
	}
}

package rowstorerepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/biso-no/shopcore/internal/adapter/rowstore"
	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/domain/model"
)

const productsTable = "shop_products"

// productRow mirrors the shop_products table layout in the row store.
type productRow struct {
	ID          string  `json:"$id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	MaxPerOrder int     `json:"max_per_order"`
	MaxPerUser  int     `json:"max_per_user"`
}

func (r productRow) toModel() model.Product {
	return model.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		MaxPerOrder: r.MaxPerOrder,
		MaxPerUser:  r.MaxPerUser,
	}
}

// Products implements repository.ProductRepository over the row store.
type Products struct {
	client   rowstore.Client
	pageSize int
}

// NewProducts constructs the product repository.
func NewProducts(client rowstore.Client, pageSize int) *Products {
	if pageSize <= 0 {
		pageSize = rowstore.DefaultPageSize
	}
	return &Products{client: client, pageSize: pageSize}
}

// Get fetches a product by id.
func (p *Products) Get(ctx context.Context, id string) (*model.Product, error) {
	raw, err := p.client.GetRow(ctx, productsTable, id)
	if err != nil {
		if errors.Is(err, rowstore.ErrRowNotFound) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return decodeProduct(raw)
}

// List returns the full catalogue sorted by name.
func (p *Products) List(ctx context.Context) ([]model.Product, error) {
	rows, err := rowstore.ListAll(ctx, p.client, productsTable, []rowstore.Query{rowstore.OrderAsc("name")}, p.pageSize)
	if err != nil {
		return nil, err
	}
	result := make([]model.Product, 0, len(rows))
	for _, raw := range rows {
		product, err := decodeProduct(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, *product)
	}
	return result, nil
}

func decodeProduct(raw json.RawMessage) (*model.Product, error) {
	var row productRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode product row: %w", err)
	}
	product := row.toModel()
	return &product, nil
}

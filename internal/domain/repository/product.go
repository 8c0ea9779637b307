package repository

import (
	"context"

	"github.com/biso-no/shopcore/internal/domain/model"
)

// ProductRepository describes read access to the product catalogue.
type ProductRepository interface {
	Get(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
}

package handlers

import (
	"context"
	"encoding/json"
	"io"

	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/usecase"
)

// ShopFacade describes storefront operations exposed via HTTP.
type ShopFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id string) (*model.Product, error)
	CheckLimit(ctx context.Context, productID, userID string, quantity int) (model.LimitDecision, error)
	Checkout(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error)
}

// AdminFacade provides reporting operations for the dashboard.
type AdminFacade interface {
	ExportOrdersCSV(ctx context.Context, w io.Writer) error
	Metrics(ctx context.Context, metricRange string) (json.RawMessage, error)
}

// PaymentFacade handles gateway callbacks.
type PaymentFacade interface {
	HandlePaymentCallback(ctx context.Context, reference string) (model.OrderStatus, error)
}

// CronFacade runs scheduled maintenance.
type CronFacade interface {
	Cleanup(ctx context.Context) (int, error)
}

// CommerceFacade aggregates the full set of operations used across handlers.
type CommerceFacade interface {
	ShopFacade
	AdminFacade
	PaymentFacade
	CronFacade
}

package test

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/usecase"
)

// ShopFacadeStub provides controllable behaviour for storefront endpoints.
type ShopFacadeStub struct {
	ProductsFn   func(context.Context) ([]model.Product, error)
	ProductFn    func(context.Context, string) (*model.Product, error)
	CheckLimitFn func(context.Context, string, string, int) (model.LimitDecision, error)
	CheckoutFn   func(context.Context, usecase.CheckoutRequest) (*usecase.CheckoutResult, error)
}

// Products delegates to the override or returns a single sample product.
func (s ShopFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return []model.Product{{ID: "p1", Name: "Hoodie", Price: 499}}, nil
}

// Product returns the configured product.
func (s ShopFacadeStub) Product(ctx context.Context, id string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "Hoodie", Price: 499}, nil
}

// CheckLimit returns an allowing decision unless overridden.
func (s ShopFacadeStub) CheckLimit(ctx context.Context, productID, userID string, quantity int) (model.LimitDecision, error) {
	if s.CheckLimitFn != nil {
		return s.CheckLimitFn(ctx, productID, userID, quantity)
	}
	return model.LimitDecision{Allowed: true}, nil
}

// Checkout executes the configured checkout handler.
func (s ShopFacadeStub) Checkout(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, req)
	}
	return &usecase.CheckoutResult{OrderID: "order-1", RedirectURL: "https://pay.example/order-1", Total: 499}, nil
}

// AdminFacadeStub simulates reporting operations.
type AdminFacadeStub struct {
	ExportFn  func(context.Context, io.Writer) error
	MetricsFn func(context.Context, string) (json.RawMessage, error)
}

// ExportOrdersCSV writes a fixed header row unless overridden.
func (s AdminFacadeStub) ExportOrdersCSV(ctx context.Context, w io.Writer) error {
	if s.ExportFn != nil {
		return s.ExportFn(ctx, w)
	}
	_, err := io.WriteString(w, "order_id,date\n")
	return err
}

// Metrics returns the configured payload.
func (s AdminFacadeStub) Metrics(ctx context.Context, metricRange string) (json.RawMessage, error) {
	if s.MetricsFn != nil {
		return s.MetricsFn(ctx, metricRange)
	}
	return json.RawMessage(`{"revenue":0}`), nil
}

// PaymentFacadeStub simulates webhook processing.
type PaymentFacadeStub struct {
	HandleFn   func(context.Context, string) (model.OrderStatus, error)
	References []string
}

// HandlePaymentCallback records the reference and reports the order as paid.
func (s *PaymentFacadeStub) HandlePaymentCallback(ctx context.Context, reference string) (model.OrderStatus, error) {
	s.References = append(s.References, reference)
	if s.HandleFn != nil {
		return s.HandleFn(ctx, reference)
	}
	return model.OrderStatusPaid, nil
}

// CronFacadeStub simulates scheduled maintenance.
type CronFacadeStub struct {
	CleanupFn func(context.Context) (int, error)
}

// Cleanup returns the configured deletion count.
func (s CronFacadeStub) Cleanup(ctx context.Context) (int, error) {
	if s.CleanupFn != nil {
		return s.CleanupFn(ctx)
	}
	return 0, nil
}

// CommerceFacadeStub aggregates facade stubs for HTTP layer tests.
type CommerceFacadeStub struct {
	ShopFacadeStub
	AdminFacadeStub
	PaymentFacadeStub
	CronFacadeStub
}

// WorkerFacadeStub mimics reconciler interactions with the commerce facade.
type WorkerFacadeStub struct {
	Batches     [][]model.Order
	PendingFn   func(context.Context, time.Duration, int) ([]model.Order, error)
	ReconcileFn func(context.Context, model.Order) error

	mu          sync.Mutex
	Reconciled  []model.Order
	pendingCall int
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PendingOrders returns batches from the configured queue.
func (s *WorkerFacadeStub) PendingOrders(ctx context.Context, grace time.Duration, limit int) ([]model.Order, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, grace, limit)
	}
	s.mu.Lock()
	call := s.pendingCall
	s.pendingCall++
	s.mu.Unlock()
	if call < len(s.Batches) {
		return s.Batches[call], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ReconcileOrder records reconciled orders.
func (s *WorkerFacadeStub) ReconcileOrder(ctx context.Context, order model.Order) error {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reconciled = append(s.Reconciled, order)
	return nil
}

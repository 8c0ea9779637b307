package test

import (
	"context"
	"time"

	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/domain/model"
)

// OrderStatusCall stores information about UpdateStatus invocations.
type OrderStatusCall struct {
	OrderID string
	Status  model.OrderStatus
}

// OrderRepositoryStub allows tests to customize order persistence behaviour.
type OrderRepositoryStub struct {
	CreateFn               func(context.Context, *model.Order) (*model.Order, error)
	GetFn                  func(context.Context, string) (*model.Order, error)
	UpdateStatusFn         func(context.Context, string, model.OrderStatus) error
	DeleteFn               func(context.Context, string) error
	ListCompletedByUserFn  func(context.Context, string) ([]model.Order, error)
	ListCompletedWindowFn  func(context.Context, time.Time, time.Time) ([]model.Order, error)
	ListAllFn              func(context.Context) ([]model.Order, error)
	ListStaleDraftsFn      func(context.Context, time.Time) ([]model.Order, error)
	ListPendingOlderThanFn func(context.Context, time.Time, int) ([]model.Order, error)

	Orders      []model.Order
	Created     []model.Order
	UpdateCalls []OrderStatusCall
	Deleted     []string
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.Created = append(s.Created, *order)
	return order, nil
}

// Get returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) Get(ctx context.Context, id string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateStatus records update invocations.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	s.UpdateCalls = append(s.UpdateCalls, OrderStatusCall{OrderID: id, Status: status})
	return nil
}

// Delete records removed order identifiers.
func (s *OrderRepositoryStub) Delete(ctx context.Context, id string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	s.Deleted = append(s.Deleted, id)
	return nil
}

// ListCompletedByUser filters the stored slice by user and completed status.
func (s *OrderRepositoryStub) ListCompletedByUser(ctx context.Context, userID string) ([]model.Order, error) {
	if s.ListCompletedByUserFn != nil {
		return s.ListCompletedByUserFn(ctx, userID)
	}
	var matched []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID && o.Status.CountsTowardLimits() {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// ListCompletedInWindow filters completed orders by the half-open window.
func (s *OrderRepositoryStub) ListCompletedInWindow(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	if s.ListCompletedWindowFn != nil {
		return s.ListCompletedWindowFn(ctx, from, to)
	}
	var matched []model.Order
	for _, o := range s.Orders {
		if o.Status.CountsTowardLimits() && !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// ListAll returns every stored order.
func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.Order, error) {
	if s.ListAllFn != nil {
		return s.ListAllFn(ctx)
	}
	return s.Orders, nil
}

// ListStaleDrafts returns drafts created before the cutoff.
func (s *OrderRepositoryStub) ListStaleDrafts(ctx context.Context, cutoff time.Time) ([]model.Order, error) {
	if s.ListStaleDraftsFn != nil {
		return s.ListStaleDraftsFn(ctx, cutoff)
	}
	var matched []model.Order
	for _, o := range s.Orders {
		if o.Status == model.OrderStatusDraft && o.CreatedAt.Before(cutoff) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// ListPendingOlderThan returns pending orders created before the cutoff.
func (s *OrderRepositoryStub) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	if s.ListPendingOlderThanFn != nil {
		return s.ListPendingOlderThanFn(ctx, cutoff, limit)
	}
	var matched []model.Order
	for _, o := range s.Orders {
		if o.Status == model.OrderStatusPending && o.CreatedAt.Before(cutoff) {
			matched = append(matched, o)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

// ProductRepositoryStub serves catalogue reads from an in-memory slice.
type ProductRepositoryStub struct {
	GetFn    func(context.Context, string) (*model.Product, error)
	ListFn   func(context.Context) ([]model.Product, error)
	Products []model.Product
}

// Get fetches product by identifier or returns not found.
func (s *ProductRepositoryStub) Get(ctx context.Context, id string) (*model.Product, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	for _, p := range s.Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List returns the configured catalogue.
func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return s.Products, nil
}

// MetricRepositoryStub stores cached metrics keyed by type and range.
type MetricRepositoryStub struct {
	GetFn    func(context.Context, string, string) (*model.Metric, error)
	PutFn    func(context.Context, *model.Metric) error
	DeleteFn func(context.Context, time.Time) (int64, error)

	Metrics map[string]*model.Metric
	Puts    []model.Metric
}

func metricKey(metricType, metricRange string) string {
	return metricType + "/" + metricRange
}

// Get returns a stored metric or not found.
func (s *MetricRepositoryStub) Get(ctx context.Context, metricType, metricRange string) (*model.Metric, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, metricType, metricRange)
	}
	if metric, ok := s.Metrics[metricKey(metricType, metricRange)]; ok {
		return metric, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Put upserts the metric and records the call.
func (s *MetricRepositoryStub) Put(ctx context.Context, metric *model.Metric) error {
	if s.PutFn != nil {
		return s.PutFn(ctx, metric)
	}
	if s.Metrics == nil {
		s.Metrics = make(map[string]*model.Metric)
	}
	stored := *metric
	s.Metrics[metricKey(metric.Type, metric.Range)] = &stored
	s.Puts = append(s.Puts, stored)
	return nil
}

// DeleteOlderThan drops metrics computed before the cutoff.
func (s *MetricRepositoryStub) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, cutoff)
	}
	var deleted int64
	for key, metric := range s.Metrics {
		if metric.ComputedAt.Before(cutoff) {
			delete(s.Metrics, key)
			deleted++
		}
	}
	return deleted, nil
}

// WebhookLedgerStub tracks processed callback references.
type WebhookLedgerStub struct {
	MarkFn  func(context.Context, string) (bool, error)
	PruneFn func(context.Context, time.Time) (int64, error)

	Seen map[string]bool
}

// MarkProcessed returns false on repeated references.
func (s *WebhookLedgerStub) MarkProcessed(ctx context.Context, reference string) (bool, error) {
	if s.MarkFn != nil {
		return s.MarkFn(ctx, reference)
	}
	if s.Seen == nil {
		s.Seen = make(map[string]bool)
	}
	if s.Seen[reference] {
		return false, nil
	}
	s.Seen[reference] = true
	return true, nil
}

// PruneOlderThan is a no-op unless overridden.
func (s *WebhookLedgerStub) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.PruneFn != nil {
		return s.PruneFn(ctx, cutoff)
	}
	return 0, nil
}

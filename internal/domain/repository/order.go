package repository

import (
	"context"
	"time"

	"github.com/biso-no/shopcore/internal/domain/model"
)

// OrderRepository describes persistence operations with shop orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
	Delete(ctx context.Context, id string) error
	ListCompletedByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListCompletedInWindow(ctx context.Context, from, to time.Time) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListStaleDrafts(ctx context.Context, cutoff time.Time) ([]model.Order, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error)
}

package rowstorerepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/biso-no/shopcore/internal/adapter/rowstore"
	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/domain/model"
)

const ordersTable = "shop_orders"

// orderRow mirrors the shop_orders table layout in the row store.
type orderRow struct {
	ID         string    `json:"$id"`
	CreatedAt  time.Time `json:"$createdAt"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	BuyerName  string    `json:"buyer_name"`
	BuyerEmail string    `json:"buyer_email"`
	BuyerPhone string    `json:"buyer_phone"`
	ItemsJSON  string    `json:"items_json"`
	Total      float64   `json:"total"`
}

func (r orderRow) toModel() model.Order {
	return model.Order{
		ID:         r.ID,
		UserID:     r.UserID,
		Status:     model.OrderStatus(r.Status),
		BuyerName:  r.BuyerName,
		BuyerEmail: r.BuyerEmail,
		BuyerPhone: r.BuyerPhone,
		ItemsJSON:  r.ItemsJSON,
		Total:      r.Total,
		CreatedAt:  r.CreatedAt,
	}
}

// Orders implements repository.OrderRepository over the row store.
type Orders struct {
	client   rowstore.Client
	pageSize int
}

// NewOrders constructs the order repository.
func NewOrders(client rowstore.Client, pageSize int) *Orders {
	if pageSize <= 0 {
		pageSize = rowstore.DefaultPageSize
	}
	return &Orders{client: client, pageSize: pageSize}
}

// Create inserts a new order row.
func (o *Orders) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	data := map[string]any{
		"user_id":     order.UserID,
		"status":      string(order.Status),
		"buyer_name":  order.BuyerName,
		"buyer_email": order.BuyerEmail,
		"buyer_phone": order.BuyerPhone,
		"items_json":  order.ItemsJSON,
		"total":       order.Total,
	}
	raw, err := o.client.CreateRow(ctx, ordersTable, order.ID, data)
	if err != nil {
		return nil, err
	}
	return decodeOrder(raw)
}

// Get fetches an order by id.
func (o *Orders) Get(ctx context.Context, id string) (*model.Order, error) {
	raw, err := o.client.GetRow(ctx, ordersTable, id)
	if err != nil {
		if errors.Is(err, rowstore.ErrRowNotFound) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return decodeOrder(raw)
}

// UpdateStatus patches the order status. Orders are financial records and
// are otherwise immutable after creation.
func (o *Orders) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	_, err := o.client.UpdateRow(ctx, ordersTable, id, map[string]any{"status": string(status)})
	if errors.Is(err, rowstore.ErrRowNotFound) {
		return domainErrors.ErrNotFound
	}
	return err
}

// Delete removes an order row. Only draft orders are ever deleted.
func (o *Orders) Delete(ctx context.Context, id string) error {
	err := o.client.DeleteRow(ctx, ordersTable, id)
	if errors.Is(err, rowstore.ErrRowNotFound) {
		return domainErrors.ErrNotFound
	}
	return err
}

// ListCompletedByUser returns the user's orders in the completed status set.
func (o *Orders) ListCompletedByUser(ctx context.Context, userID string) ([]model.Order, error) {
	base := []rowstore.Query{
		rowstore.Equal("user_id", userID),
		rowstore.Equal("status", string(model.OrderStatusAuthorized), string(model.OrderStatusPaid)),
	}
	return o.listAll(ctx, base)
}

// ListCompletedInWindow returns completed orders created inside [from, to).
func (o *Orders) ListCompletedInWindow(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	base := []rowstore.Query{
		rowstore.Or(
			rowstore.Equal("status", string(model.OrderStatusAuthorized)),
			rowstore.Equal("status", string(model.OrderStatusPaid)),
		),
		rowstore.GreaterThan("$createdAt", from.UTC().Format(time.RFC3339)),
		rowstore.LessThan("$createdAt", to.UTC().Format(time.RFC3339)),
	}
	return o.listAll(ctx, base)
}

// ListAll returns every order, newest first.
func (o *Orders) ListAll(ctx context.Context) ([]model.Order, error) {
	return o.listAll(ctx, []rowstore.Query{rowstore.OrderDesc("$createdAt")})
}

// ListStaleDrafts returns draft orders created before the cutoff.
func (o *Orders) ListStaleDrafts(ctx context.Context, cutoff time.Time) ([]model.Order, error) {
	base := []rowstore.Query{
		rowstore.Equal("status", string(model.OrderStatusDraft)),
		rowstore.LessThan("$createdAt", cutoff.UTC().Format(time.RFC3339)),
	}
	return o.listAll(ctx, base)
}

// ListPendingOlderThan returns one batch of pending orders past the cutoff.
func (o *Orders) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = o.pageSize
	}
	queries := []rowstore.Query{
		rowstore.Equal("status", string(model.OrderStatusPending)),
		rowstore.LessThan("$createdAt", cutoff.UTC().Format(time.RFC3339)),
		rowstore.OrderAsc("$createdAt"),
		rowstore.Limit(limit),
	}
	page, err := o.client.ListRows(ctx, ordersTable, queries)
	if err != nil {
		return nil, err
	}
	return decodeOrders(page.Rows)
}

func (o *Orders) listAll(ctx context.Context, base []rowstore.Query) ([]model.Order, error) {
	rows, err := rowstore.ListAll(ctx, o.client, ordersTable, base, o.pageSize)
	if err != nil {
		return nil, err
	}
	return decodeOrders(rows)
}

func decodeOrder(raw json.RawMessage) (*model.Order, error) {
	var row orderRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode order row: %w", err)
	}
	order := row.toModel()
	return &order, nil
}

func decodeOrders(rows []json.RawMessage) ([]model.Order, error) {
	result := make([]model.Order, 0, len(rows))
	for _, raw := range rows {
		order, err := decodeOrder(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	return result, nil
}

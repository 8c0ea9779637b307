package model

import "time"

// OrderStatus describes the checkout lifecycle of an order.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "draft"
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAuthorized OrderStatus = "authorized"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusFailed     OrderStatus = "failed"
)

// CountsTowardLimits reports whether orders in this status consume
// purchase quota and contribute to revenue metrics.
func (s OrderStatus) CountsTowardLimits() bool {
	return s == OrderStatusAuthorized || s == OrderStatusPaid
}

// Order is a row in the shop_orders table. Orders are created at checkout,
// mutated by payment callbacks and never deleted once past draft.
type Order struct {
	ID         string
	UserID     string
	Status     OrderStatus
	BuyerName  string
	BuyerEmail string
	BuyerPhone string
	ItemsJSON  string
	Total      float64
	CreatedAt  time.Time
}

// LineItem is one purchased product entry decoded from an order's
// embedded item list.
type LineItem struct {
	ProductID   string
	VariationID string
	Title       string
	Quantity    int
	UnitPrice   float64
}

// PurchaseSummary aggregates a user's purchases of a single product.
type PurchaseSummary struct {
	TotalPurchased int
	OrderCount     int
}

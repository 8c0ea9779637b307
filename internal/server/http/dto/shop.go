package dto

// ProductResponse is one catalogue entry.
type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	MaxPerOrder int     `json:"max_per_order,omitempty"`
	MaxPerUser  int     `json:"max_per_user,omitempty"`
}

// CheckoutItemRequest is one requested product in a checkout payload.
type CheckoutItemRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	VariationID string `json:"variation_id"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest is the storefront checkout payload.
type CheckoutRequest struct {
	UserID     string                `json:"user_id"`
	BuyerName  string                `json:"buyer_name" binding:"required"`
	BuyerEmail string                `json:"buyer_email" binding:"required"`
	BuyerPhone string                `json:"buyer_phone"`
	Items      []CheckoutItemRequest `json:"items" binding:"required,min=1"`
}

// CheckoutResponse returns the created order and the gateway redirect.
type CheckoutResponse struct {
	OrderID     string  `json:"order_id"`
	RedirectURL string  `json:"redirect_url"`
	Total       float64 `json:"total"`
}

// LimitCheckResponse mirrors the limit evaluator's decision.
type LimitCheckResponse struct {
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
	CurrentPurchases int    `json:"current_purchases,omitempty"`
	Limit            int    `json:"limit,omitempty"`
}

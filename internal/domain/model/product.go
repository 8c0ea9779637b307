package model

// Product is a row in the shop_products table. MaxPerOrder and MaxPerUser
// of zero or below mean unlimited.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	MaxPerOrder int
	MaxPerUser  int
}

// LimitDecision is the outcome of a purchase-limit evaluation.
type LimitDecision struct {
	Allowed          bool
	Reason           string
	CurrentPurchases int
	Limit            int
}

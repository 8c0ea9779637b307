package usecase

import "github.com/biso-no/shopcore/internal/domain/model"

// AggregatePurchases folds decoded line items across orders into per-product
// totals: the summed quantity of matching items and the number of distinct
// orders that contain at least one. Matching is exact string equality on the
// product id. Orders with unparseable item JSON contribute zero units.
func AggregatePurchases(orders []model.Order, productID string) model.PurchaseSummary {
	var summary model.PurchaseSummary
	for _, order := range orders {
		matched := false
		for _, item := range DecodeItems(order.ItemsJSON) {
			if item.ProductID != productID {
				continue
			}
			matched = true
			summary.TotalPurchased += item.Quantity
		}
		if matched {
			summary.OrderCount++
		}
	}
	return summary
}

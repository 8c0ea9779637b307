package usecase

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/biso-no/shopcore/internal/domain/model"
)

// DecodeItems parses an order's embedded line-item JSON. The decode is
// deliberately fail-open: malformed JSON or a non-array payload yields an
// empty slice so one corrupt order cannot abort a batch export or a limit
// check. Numeric fields are coerced with defaults, quantity is floored and
// never below 1, unit price defaults to 0.
func DecodeItems(raw string) []model.LineItem {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}

	items := make([]model.LineItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, model.LineItem{
			ProductID:   stringField(entry, "product_id", "productId"),
			VariationID: stringField(entry, "variation_id", "variationId"),
			Title:       stringField(entry, "title", "name"),
			Quantity:    quantityField(entry),
			UnitPrice:   numberField(entry, "unit_price", "price"),
		})
	}
	return items
}

func stringField(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := entry[key].(string); ok {
			return v
		}
	}
	return ""
}

func numberField(entry map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch v := entry[key].(type) {
		case float64:
			return v
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}

func quantityField(entry map[string]any) int {
	q := int(math.Floor(numberField(entry, "quantity")))
	if q < 1 {
		return 1
	}
	return q
}

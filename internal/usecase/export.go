package usecase

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/domain/repository"
)

var csvHeader = []string{
	"order_id", "date", "customer_name", "customer_email", "customer_phone",
	"product", "unit_price", "order_total", "status",
}

// WriteOrdersCSV renders orders in the reporting format: one row per
// physical unit sold, so a line item with quantity 3 produces three
// identical rows. Quoting follows RFC 4180 via encoding/csv.
func WriteOrdersCSV(w io.Writer, orders []model.Order) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, order := range orders {
		for _, item := range DecodeItems(order.ItemsJSON) {
			product := item.Title
			if product == "" {
				product = item.ProductID
			}
			record := []string{
				order.ID,
				order.CreatedAt.UTC().Format(time.RFC3339),
				order.BuyerName,
				order.BuyerEmail,
				order.BuyerPhone,
				product,
				formatAmount(item.UnitPrice),
				formatAmount(order.Total),
				string(order.Status),
			}
			for i := 0; i < item.Quantity; i++ {
				if err := writer.Write(record); err != nil {
					return err
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ExportUseCase streams the full order history as CSV.
type ExportUseCase struct {
	orders repository.OrderRepository
}

// NewExportUseCase constructs ExportUseCase.
func NewExportUseCase(orders repository.OrderRepository) *ExportUseCase {
	return &ExportUseCase{orders: orders}
}

// Export fetches every order and writes the CSV report.
func (u *ExportUseCase) Export(ctx context.Context, w io.Writer) error {
	orders, err := u.orders.ListAll(ctx)
	if err != nil {
		return err
	}
	return WriteOrdersCSV(w, orders)
}

package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	. "github.com/biso-no/shopcore/internal/usecase"
	"strings"
	"testing"
	"time"

	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/test"
)

func TestWriteOrdersCSVOneRowPerUnit(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	orders := []model.Order{
		{
			ID:         "o1",
			Status:     model.OrderStatusPaid,
			BuyerName:  "Kari Nordmann",
			BuyerEmail: "kari@example.org",
			BuyerPhone: "+4790000000",
			ItemsJSON:  `[{"product_id":"p1","title":"Hoodie","quantity":3,"unit_price":10}]`,
			Total:      30,
			CreatedAt:  created,
		},
	}

	var buf bytes.Buffer
	if err := WriteOrdersCSV(&buf, orders); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header plus three unit rows, got %d rows", len(records))
	}
	if records[0][0] != "order_id" || records[0][8] != "status" {
		t.Fatalf("unexpected header %v", records[0])
	}
	for i := 1; i < 4; i++ {
		row := records[i]
		if row[0] != "o1" || row[1] != "2026-03-01T12:00:00Z" {
			t.Fatalf("unexpected row %v", row)
		}
		if row[5] != "Hoodie" || row[6] != "10.00" || row[7] != "30.00" || row[8] != "paid" {
			t.Fatalf("unexpected row %v", row)
		}
	}
}

func TestWriteOrdersCSVFallsBackToProductID(t *testing.T) {
	orders := []model.Order{
		{ID: "o1", ItemsJSON: `[{"product_id":"p9","quantity":1}]`},
	}

	var buf bytes.Buffer
	if err := WriteOrdersCSV(&buf, orders); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if records[1][5] != "p9" {
		t.Fatalf("expected product id fallback, got %q", records[1][5])
	}
}

func TestWriteOrdersCSVQuotesSpecialCharacters(t *testing.T) {
	orders := []model.Order{
		{
			ID:        "o1",
			BuyerName: `Ola "Viking" Hansen, Jr.`,
			ItemsJSON: `[{"product_id":"p1","title":"Scarf","quantity":1}]`,
		},
	}

	var buf bytes.Buffer
	if err := WriteOrdersCSV(&buf, orders); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"Ola ""Viking"" Hansen, Jr."`) {
		t.Fatalf("name not quoted per RFC 4180: %s", buf.String())
	}
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if records[1][2] != `Ola "Viking" Hansen, Jr.` {
		t.Fatalf("round trip lost the name: %q", records[1][2])
	}
}

func TestWriteOrdersCSVSkipsCorruptItemJSON(t *testing.T) {
	orders := []model.Order{
		{ID: "o1", ItemsJSON: "{broken"},
		{ID: "o2", ItemsJSON: `[{"product_id":"p1","quantity":1}]`},
	}

	var buf bytes.Buffer
	if err := WriteOrdersCSV(&buf, orders); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(records))
	}
	if records[1][0] != "o2" {
		t.Fatalf("unexpected order in export: %v", records[1])
	}
}

func TestExportUseCasePropagatesListError(t *testing.T) {
	listErr := errors.New("store unreachable")
	uc := NewExportUseCase(&test.OrderRepositoryStub{
		ListAllFn: func(context.Context) ([]model.Order, error) { return nil, listErr },
	})

	var buf bytes.Buffer
	if err := uc.Export(context.Background(), &buf); !errors.Is(err, listErr) {
		t.Fatalf("expected list error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written on failure, got %q", buf.String())
	}
}

package usecase_test

import (
	"context"
	"errors"
	. "github.com/biso-no/shopcore/internal/usecase"
	"testing"
	"time"

	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/test"
)

func TestCleanupDeletesStaleDrafts(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)
	orders := &test.OrderRepositoryStub{Orders: []model.Order{
		{ID: "stale-1", Status: model.OrderStatusDraft, CreatedAt: old},
		{ID: "stale-2", Status: model.OrderStatusDraft, CreatedAt: old},
		{ID: "fresh", Status: model.OrderStatusDraft, CreatedAt: time.Now()},
		{ID: "paid", Status: model.OrderStatusPaid, CreatedAt: old},
	}}
	uc := NewCleanupUseCase(orders, &test.MetricRepositoryStub{}, &test.WebhookLedgerStub{}, 24*time.Hour, discardLogger())

	deleted, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deletions, got %d", deleted)
	}
	if len(orders.Deleted) != 2 || orders.Deleted[0] != "stale-1" || orders.Deleted[1] != "stale-2" {
		t.Fatalf("unexpected deletions %v", orders.Deleted)
	}
}

func TestCleanupSkipsFailedDeletes(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)
	orders := &test.OrderRepositoryStub{
		Orders: []model.Order{
			{ID: "bad", Status: model.OrderStatusDraft, CreatedAt: old},
			{ID: "good", Status: model.OrderStatusDraft, CreatedAt: old},
		},
	}
	orders.DeleteFn = func(ctx context.Context, id string) error {
		if id == "bad" {
			return errors.New("row locked")
		}
		orders.Deleted = append(orders.Deleted, id)
		return nil
	}
	uc := NewCleanupUseCase(orders, &test.MetricRepositoryStub{}, &test.WebhookLedgerStub{}, 24*time.Hour, discardLogger())

	deleted, err := uc.Run(context.Background())
	if err != nil {
		t.Fatalf("one bad row must not stall the sweep, got %v", err)
	}
	if deleted != 1 || len(orders.Deleted) != 1 || orders.Deleted[0] != "good" {
		t.Fatalf("unexpected outcome: deleted=%d %v", deleted, orders.Deleted)
	}
}

func TestCleanupPropagatesListError(t *testing.T) {
	listErr := errors.New("store unreachable")
	orders := &test.OrderRepositoryStub{
		ListStaleDraftsFn: func(context.Context, time.Time) ([]model.Order, error) { return nil, listErr },
	}
	uc := NewCleanupUseCase(orders, &test.MetricRepositoryStub{}, &test.WebhookLedgerStub{}, 24*time.Hour, discardLogger())

	if _, err := uc.Run(context.Background()); !errors.Is(err, listErr) {
		t.Fatalf("expected list error, got %v", err)
	}
}

func TestCleanupPrunesDerivedData(t *testing.T) {
	var prunedLedger, prunedMetrics bool
	ledger := &test.WebhookLedgerStub{
		PruneFn: func(context.Context, time.Time) (int64, error) { prunedLedger = true; return 5, nil },
	}
	metrics := &test.MetricRepositoryStub{
		DeleteFn: func(context.Context, time.Time) (int64, error) { prunedMetrics = true; return 2, nil },
	}
	uc := NewCleanupUseCase(&test.OrderRepositoryStub{}, metrics, ledger, 24*time.Hour, discardLogger())

	if _, err := uc.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !prunedLedger || !prunedMetrics {
		t.Fatalf("derived data must be pruned: ledger=%v metrics=%v", prunedLedger, prunedMetrics)
	}
}

func TestCleanupPruneFailuresAreBestEffort(t *testing.T) {
	ledger := &test.WebhookLedgerStub{
		PruneFn: func(context.Context, time.Time) (int64, error) { return 0, errors.New("prune failed") },
	}
	metrics := &test.MetricRepositoryStub{
		DeleteFn: func(context.Context, time.Time) (int64, error) { return 0, errors.New("prune failed") },
	}
	uc := NewCleanupUseCase(&test.OrderRepositoryStub{}, metrics, ledger, 24*time.Hour, discardLogger())

	if _, err := uc.Run(context.Background()); err != nil {
		t.Fatalf("prune failures must not fail the run, got %v", err)
	}
}

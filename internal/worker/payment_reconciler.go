package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/biso-no/shopcore/internal/adapter/payment"
	"github.com/biso-no/shopcore/internal/domain/model"
)

// CommerceFacade exposes the subset of application functionality required by the worker.
type CommerceFacade interface {
	PendingOrders(ctx context.Context, grace time.Duration, limit int) ([]model.Order, error)
	ReconcileOrder(ctx context.Context, order model.Order) error
}

// PaymentReconciler resolves pending orders whose webhook never arrived by
// polling the payment gateway concurrently.
type PaymentReconciler struct {
	facade       CommerceFacade
	pollInterval time.Duration
	grace        time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentReconciler constructs the reconciliation worker pool.
func NewPaymentReconciler(facade CommerceFacade, pollInterval, grace time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		grace:        grace,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background processing.
func (r *PaymentReconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *PaymentReconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *PaymentReconciler) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer close(r.jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *PaymentReconciler) fetchAndDispatch(ctx context.Context) {
	orders, err := r.facade.PendingOrders(ctx, r.grace, r.batchSize)
	if err != nil {
		r.logger.Error("fetch pending orders failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case r.jobs <- order:
		}
	}
}

func (r *PaymentReconciler) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-r.jobs:
			if !ok {
				return
			}
			r.handleOrder(ctx, order)
		}
	}
}

func (r *PaymentReconciler) handleOrder(ctx context.Context, order model.Order) {
	if err := r.facade.ReconcileOrder(ctx, order); err != nil {
		if rateLimited, ok := err.(payment.TooManyRequestsError); ok {
			r.logger.Warn("payment gateway rate limited", slog.Duration("retry_after", rateLimited.RetryAfter))
			time.Sleep(rateLimited.RetryAfter)
			return
		}
		r.logger.Error("reconcile order failed",
			slog.String("order", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/biso-no/shopcore/internal/adapter/events"
	"github.com/biso-no/shopcore/internal/adapter/payment"
	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/domain/repository"
)

// PaymentUseCase applies gateway state to orders, from webhooks and from
// the background reconciliation pass. The payment session reference is the
// order id.
type PaymentUseCase struct {
	orders    repository.OrderRepository
	ledger    repository.WebhookLedger
	gateway   payment.Client
	publisher events.Publisher
	logger    *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(orders repository.OrderRepository, ledger repository.WebhookLedger, gateway payment.Client, publisher events.Publisher, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{orders: orders, ledger: ledger, gateway: gateway, publisher: publisher, logger: logger}
}

// HandleCallback processes a gateway webhook for the given reference. The
// gateway's state is fetched server-side rather than trusted from the
// payload. Retries are deduplicated through the webhook ledger; the order
// status the gateway settled on is returned either way.
func (u *PaymentUseCase) HandleCallback(ctx context.Context, reference string) (model.OrderStatus, error) {
	state, err := u.gateway.GetPayment(ctx, reference)
	if err != nil {
		return "", fmt.Errorf("fetch payment %s: %w", reference, err)
	}
	status := state.OrderStatus()

	first, err := u.ledger.MarkProcessed(ctx, reference)
	if err != nil {
		return "", fmt.Errorf("record webhook %s: %w", reference, err)
	}
	if !first {
		u.logger.Info("duplicate webhook ignored", slog.String("order", reference))
		return status, nil
	}

	if err := u.applyStatus(ctx, reference, status); err != nil {
		return "", err
	}
	return status, nil
}

// ReconcileOrder resolves a pending order that never received a webhook.
// A reference unknown to the gateway is treated as a failed payment.
func (u *PaymentUseCase) ReconcileOrder(ctx context.Context, order model.Order) error {
	status := model.OrderStatusFailed
	state, err := u.gateway.GetPayment(ctx, order.ID)
	switch {
	case errors.Is(err, payment.ErrPaymentNotFound):
		// keep failed status
	case err != nil:
		return err
	default:
		status = state.OrderStatus()
	}

	if status == order.Status || status == model.OrderStatusPending {
		return nil
	}
	return u.applyStatus(ctx, order.ID, status)
}

// PendingOrders returns one batch of pending orders older than the grace
// period, for reconciliation.
func (u *PaymentUseCase) PendingOrders(ctx context.Context, grace time.Duration, limit int) ([]model.Order, error) {
	return u.orders.ListPendingOlderThan(ctx, time.Now().Add(-grace), limit)
}

func (u *PaymentUseCase) applyStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if err := u.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("update order %s: %w", orderID, err)
	}

	u.logger.Info("order status updated",
		slog.String("order", orderID),
		slog.String("status", string(status)),
	)

	// events are advisory; a broker failure never fails the transition
	routingKey := ""
	switch status {
	case model.OrderStatusPaid, model.OrderStatusAuthorized:
		routingKey = events.OrderPaid
	case model.OrderStatusCancelled, model.OrderStatusFailed:
		routingKey = events.OrderCancelled
	}
	if routingKey != "" {
		event := map[string]any{"order_id": orderID, "status": string(status)}
		if err := u.publisher.Publish(ctx, routingKey, event); err != nil {
			u.logger.Error("publish order event failed",
				slog.String("order", orderID),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

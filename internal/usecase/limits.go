package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/domain/repository"
)

// GuestUserID marks buyers without an account. Guests cannot be identified
// across sessions, so they are never subject to per-user accumulation.
const GuestUserID = "guest"

// CheckMaxPerOrder applies the per-order cap. A cap of zero or below means
// unlimited regardless of quantity.
func CheckMaxPerOrder(quantity, max int) model.LimitDecision {
	if max <= 0 {
		return model.LimitDecision{Allowed: true}
	}
	if quantity > max {
		return model.LimitDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("limited to %d per order", max),
			Limit:   max,
		}
	}
	return model.LimitDecision{Allowed: true, Limit: max}
}

// LimitEvaluator decides whether a purchase fits the product's configured
// maxima. By default a failing order-history lookup fails open: a transient
// infrastructure error must not block a legitimate purchase. Strict mode
// flips that to fail closed.
type LimitEvaluator struct {
	orders repository.OrderRepository
	strict bool
	logger *slog.Logger
}

// NewLimitEvaluator constructs LimitEvaluator.
func NewLimitEvaluator(orders repository.OrderRepository, strict bool, logger *slog.Logger) *LimitEvaluator {
	return &LimitEvaluator{orders: orders, strict: strict, logger: logger}
}

// Validate checks the requested quantity against the product's per-order and
// per-user caps, short-circuiting on the first failure. Only completed
// orders (authorized, paid) consume per-user quota.
func (e *LimitEvaluator) Validate(ctx context.Context, product *model.Product, userID string, quantity int) (model.LimitDecision, error) {
	if decision := CheckMaxPerOrder(quantity, product.MaxPerOrder); !decision.Allowed {
		return decision, nil
	}

	if product.MaxPerUser <= 0 || userID == "" || userID == GuestUserID {
		return model.LimitDecision{Allowed: true}, nil
	}

	orders, err := e.orders.ListCompletedByUser(ctx, userID)
	if err != nil {
		if e.strict {
			return model.LimitDecision{
				Allowed: false,
				Reason:  "unable to verify purchase history",
				Limit:   product.MaxPerUser,
			}, err
		}
		e.logger.Error("limit check failed open",
			slog.String("product", product.ID),
			slog.String("user", userID),
			slog.String("error", err.Error()),
		)
		return model.LimitDecision{Allowed: true}, nil
	}

	summary := AggregatePurchases(orders, product.ID)
	remaining := product.MaxPerUser - summary.TotalPurchased
	if remaining < quantity {
		reason := fmt.Sprintf("only %d more allowed (limit %d per user)", remaining, product.MaxPerUser)
		if remaining <= 0 {
			reason = fmt.Sprintf("already at the maximum of %d per user", product.MaxPerUser)
		}
		return model.LimitDecision{
			Allowed:          false,
			Reason:           reason,
			CurrentPurchases: summary.TotalPurchased,
			Limit:            product.MaxPerUser,
		}, nil
	}

	return model.LimitDecision{
		Allowed:          true,
		CurrentPurchases: summary.TotalPurchased,
		Limit:            product.MaxPerUser,
	}, nil
}

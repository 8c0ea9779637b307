package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/biso-no/shopcore/internal/adapter/payment"
	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/domain/repository"
)

// CheckoutItem is one requested product in a checkout.
type CheckoutItem struct {
	ProductID   string
	VariationID string
	Quantity    int
}

// CheckoutRequest carries buyer details and the requested items.
type CheckoutRequest struct {
	UserID     string
	BuyerName  string
	BuyerEmail string
	BuyerPhone string
	Items      []CheckoutItem
}

// CheckoutResult is returned to the storefront after a session is created.
type CheckoutResult struct {
	OrderID     string
	RedirectURL string
	Total       float64
}

// itemPayload is the wire shape of one line item inside items_json.
type itemPayload struct {
	ProductID   string  `json:"product_id"`
	VariationID string  `json:"variation_id,omitempty"`
	Title       string  `json:"title"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// CheckoutUseCase validates a purchase, records the order and opens a
// payment session.
type CheckoutUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	limits   *LimitEvaluator
	payments payment.Client
	logger   *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(orders repository.OrderRepository, products repository.ProductRepository, limits *LimitEvaluator, payments payment.Client, logger *slog.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{orders: orders, products: products, limits: limits, payments: payments, logger: logger}
}

// Checkout runs the full flow: validate input, enforce purchase limits,
// price the items from the catalogue, persist a draft order and create the
// gateway session. The order moves to pending once the session exists; a
// draft left behind by a gateway failure is removed by the cleanup job.
func (u *CheckoutUseCase) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	var (
		total float64
		items = make([]itemPayload, 0, len(req.Items))
	)
	for _, item := range req.Items {
		product, err := u.products.Get(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, err)
		}

		decision, err := u.limits.Validate(ctx, product, req.UserID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("limit check for %s: %w", item.ProductID, err)
		}
		if !decision.Allowed {
			return nil, fmt.Errorf("%w: %s: %s", domainErrors.ErrLimitExceeded, product.Name, decision.Reason)
		}

		items = append(items, itemPayload{
			ProductID:   product.ID,
			VariationID: item.VariationID,
			Title:       product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	userID := req.UserID
	if userID == "" {
		userID = GuestUserID
	}

	order := &model.Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		Status:     model.OrderStatusDraft,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		BuyerPhone: req.BuyerPhone,
		ItemsJSON:  string(itemsJSON),
		Total:      total,
	}

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	session, err := u.payments.CreateSession(ctx, created.ID, minorUnits(total), checkoutDescription(items))
	if err != nil {
		return nil, fmt.Errorf("create payment session: %w", err)
	}

	if err := u.orders.UpdateStatus(ctx, created.ID, model.OrderStatusPending); err != nil {
		return nil, fmt.Errorf("mark order pending: %w", err)
	}

	u.logger.Info("checkout session created",
		slog.String("order", created.ID),
		slog.Float64("total", total),
	)

	return &CheckoutResult{OrderID: created.ID, RedirectURL: session.RedirectURL, Total: total}, nil
}

func validateCheckout(req CheckoutRequest) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: no items", domainErrors.ErrInvalidInput)
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: missing product id", domainErrors.ErrInvalidInput)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1", domainErrors.ErrInvalidInput)
		}
	}
	if strings.TrimSpace(req.BuyerName) == "" {
		return fmt.Errorf("%w: buyer name is required", domainErrors.ErrInvalidInput)
	}
	if !ValidEmail(req.BuyerEmail) {
		return fmt.Errorf("%w: invalid buyer email", domainErrors.ErrInvalidInput)
	}
	return nil
}

func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func checkoutDescription(items []itemPayload) string {
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	return strings.Join(titles, ", ")
}

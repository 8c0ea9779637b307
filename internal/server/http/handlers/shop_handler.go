package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/domain/model"
	"github.com/biso-no/shopcore/internal/server/http/dto"
	"github.com/biso-no/shopcore/internal/usecase"
)

// ShopHandler manages storefront endpoints.
type ShopHandler struct {
	facade ShopFacade
}

// NewShopHandler constructs ShopHandler.
func NewShopHandler(facade ShopFacade) *ShopHandler {
	return &ShopHandler{facade: facade}
}

// ListProducts handles GET /api/shop/products.
func (h *ShopHandler) ListProducts(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, toProductResponse(p))
	}
	c.JSON(http.StatusOK, response)
}

// GetProduct handles GET /api/shop/products/:id.
func (h *ShopHandler) GetProduct(c *gin.Context) {
	product, err := h.facade.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// CheckLimit handles GET /api/shop/products/:id/limit.
func (h *ShopHandler) CheckLimit(c *gin.Context) {
	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || quantity < 1 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid quantity"})
		return
	}

	decision, err := h.facade.CheckLimit(c.Request.Context(), c.Param("id"), c.Query("user_id"), quantity)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.LimitCheckResponse{
		Allowed:          decision.Allowed,
		Reason:           decision.Reason,
		CurrentPurchases: decision.CurrentPurchases,
		Limit:            decision.Limit,
	})
}

// Checkout handles POST /api/shop/checkout.
func (h *ShopHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid checkout payload"})
		return
	}

	items := make([]usecase.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.CheckoutItem{
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Quantity:    item.Quantity,
		})
	}

	result, err := h.facade.Checkout(c.Request.Context(), usecase.CheckoutRequest{
		UserID:     req.UserID,
		BuyerName:  req.BuyerName,
		BuyerEmail: req.BuyerEmail,
		BuyerPhone: req.BuyerPhone,
		Items:      items,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidInput):
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domainErrors.ErrLimitExceeded):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		OrderID:     result.OrderID,
		RedirectURL: result.RedirectURL,
		Total:       result.Total,
	})
}

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		MaxPerOrder: p.MaxPerOrder,
		MaxPerUser:  p.MaxPerUser,
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/biso-no/shopcore/internal/domain/errors"
	"github.com/biso-no/shopcore/internal/server/http/dto"
)

// AdminHandler manages dashboard reporting endpoints.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// ExportOrders handles GET /api/admin/orders/export and streams the CSV
// report directly into the response.
func (h *AdminHandler) ExportOrders(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)

	if err := h.facade.ExportOrdersCSV(c.Request.Context(), c.Writer); err != nil {
		// headers may already be out; the truncated body signals failure
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusOK)
}

// Metrics handles GET /api/admin/metrics.
func (h *AdminHandler) Metrics(c *gin.Context) {
	payload, err := h.facade.Metrics(c.Request.Context(), c.DefaultQuery("range", "7d"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

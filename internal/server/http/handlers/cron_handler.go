package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/biso-no/shopcore/internal/server/http/dto"
)

// CronHandler runs scheduled maintenance endpoints.
type CronHandler struct {
	facade CronFacade
}

// NewCronHandler constructs CronHandler.
func NewCronHandler(facade CronFacade) *CronHandler {
	return &CronHandler{facade: facade}
}

// Cleanup handles GET /api/cron/cleanup.
func (h *CronHandler) Cleanup(c *gin.Context) {
	deleted, err := h.facade.Cleanup(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.CleanupResponse{
		Success:      true,
		DeletedCount: deleted,
		Timestamp:    time.Now().UTC(),
	})
}

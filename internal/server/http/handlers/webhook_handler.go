package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/biso-no/shopcore/internal/server/http/dto"
)

// SignatureHeader carries the gateway's HMAC-SHA256 of the raw body.
const SignatureHeader = "X-Webhook-Signature"

// referenceKeys lists the payload keys gateways have used for the session
// reference, in lookup order.
var referenceKeys = []string{"reference", "orderId", "sessionId", "transactionId"}

// WebhookHandler receives payment gateway callbacks.
type WebhookHandler struct {
	facade PaymentFacade
	secret string
}

// NewWebhookHandler constructs WebhookHandler. An empty secret disables
// signature verification.
func NewWebhookHandler(facade PaymentFacade, secret string) *WebhookHandler {
	return &WebhookHandler{facade: facade, secret: secret}
}

// Handle processes POST /api/payments/webhook: 401 on a bad signature,
// 400 when no reference can be found, 200 once the callback is applied.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unreadable body"})
		return
	}

	if h.secret != "" && !h.verifySignature(body, c.GetHeader(SignatureHeader)) {
		c.Status(http.StatusUnauthorized)
		return
	}

	reference := extractReference(body)
	if reference == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "missing payment reference"})
		return
	}

	status, err := h.facade.HandlePaymentCallback(c.Request.Context(), reference)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAck{Success: true, Status: string(status)})
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func extractReference(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range referenceKeys {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

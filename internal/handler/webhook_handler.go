package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nkengderick/biotec-api/internal/metrics"
	"github.com/nkengderick/biotec-api/internal/service"
)

// WebhookHandler receives asynchronous payment notifications from the
// gateway. The payload is never trusted: only the transaction ID is read,
// and the real status is re-fetched from the gateway during reconciliation.
type WebhookHandler struct {
	paymentService service.PaymentService
	collector      *metrics.Collector
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(paymentService service.PaymentService, collector *metrics.Collector) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService, collector: collector}
}

// WebhookRequest is the gateway's notification payload. Fields beyond the
// transaction ID are ignored.
type WebhookRequest struct {
	TransID string `json:"transId"`
	Status  string `json:"status,omitempty"`
}

// HandleFapshi godoc
// @Summary Receive a payment gateway webhook
// @Tags webhook
// @Accept json
// @Produce json
// @Param request body WebhookRequest true "Gateway notification"
// @Success 200 {object} map[string]bool
// @Router /webhook/fapshi [post]
func (h *WebhookHandler) HandleFapshi(c echo.Context) error {
	h.collector.RecordWebhook()

	var req WebhookRequest
	if err := c.Bind(&req); err != nil || req.TransID == "" {
		// The gateway retries on anything but a 200, and a malformed
		// notification will not get better: acknowledge and log.
		log.Printf("webhook: unreadable payload: %v", err)
		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	}

	payment, err := h.paymentService.ReconcileByTransaction(c.Request().Context(), req.TransID)
	if err != nil {
		log.Printf("webhook: reconcile transaction %s: %v", req.TransID, err)
		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	}

	log.Printf("webhook: payment %s reconciled to %s", payment.ExternalID, payment.Status)
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

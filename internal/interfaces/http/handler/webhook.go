package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	appfulfillment "github.com/printshop/backend/internal/application/fulfillment"
	"github.com/printshop/backend/internal/domain/fulfillment"
)

// Maximum webhook payload size (64KB - Printful webhook events are small)
const maxWebhookPayloadSize = 65536

// SignatureHeader carries the hex HMAC-SHA256 of the raw payload
const SignatureHeader = "X-Pf-Webhook-Signature"

// WebhookHandler handles Printful webhook endpoints
// These endpoints are called by Printful and do not require authentication
type WebhookHandler struct {
	BaseHandler
	service *appfulfillment.Service
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(service *appfulfillment.Service) *WebhookHandler {
	return &WebhookHandler{
		service: service,
	}
}

// RegisterRoutes registers the /webhooks route subtree
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/printful", h.HandlePrintfulWebhook)
}

// WebhookResponse represents the response for a Printful webhook delivery
//
//	@Description	Printful webhook response
type WebhookResponse struct {
	Received  bool   `json:"received" example:"true"`
	EventType string `json:"event_type,omitempty" example:"package_shipped"`
	Message   string `json:"message,omitempty" example:"Webhook processed successfully"`
}

// HandlePrintfulWebhook godoc
//
//	@ID				handlePrintfulWebhook
//	@Summary		Handle Printful webhook
//	@Description	Receive and process webhook events from Printful for order reconciliation
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			X-Pf-Webhook-Signature	header		string			false	"Hex HMAC-SHA256 of the raw payload"
//	@Success		200						{object}	WebhookResponse	"Webhook processed or acknowledged"
//	@Failure		400						{object}	WebhookResponse	"Invalid request"
//	@Failure		401						{object}	WebhookResponse	"Invalid signature"
//	@Failure		413						{object}	WebhookResponse	"Payload too large"
//	@Router			/webhooks/printful [post]
func (h *WebhookHandler) HandlePrintfulWebhook(c *gin.Context) {
	// The raw body is needed for signature verification, so read it with a
	// size limit instead of binding.
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Received: false,
			Message:  "Failed to read request body",
		})
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, WebhookResponse{
			Received: false,
			Message:  "Payload too large",
		})
		return
	}

	signature := c.GetHeader(SignatureHeader)

	result, err := h.service.HandleWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, fulfillment.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, WebhookResponse{
				Received: false,
				Message:  "Webhook signature verification failed",
			})
			return
		}
		if errors.Is(err, fulfillment.ErrProviderInvalidResponse) {
			c.JSON(http.StatusBadRequest, WebhookResponse{
				Received: false,
				Message:  "Malformed webhook payload",
			})
			return
		}

		// Transient processing failure. Events are only marked processed
		// after their metadata lands, so a non-200 here makes Printful
		// redeliver and the retry can succeed.
		c.JSON(http.StatusInternalServerError, WebhookResponse{
			Received: false,
			Message:  "Webhook processing failed",
		})
		return
	}

	resp := WebhookResponse{
		Received:  true,
		EventType: result.EventType,
		Message:   result.Message,
	}
	c.JSON(http.StatusOK, resp)
}

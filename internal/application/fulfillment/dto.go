package fulfillment

import (
	"github.com/google/uuid"

	"github.com/printshop/backend/internal/domain/fulfillment"
)

// FulfillOrderCommand asks the create workflow to fulfill a local order
type FulfillOrderCommand struct {
	OrderID uuid.UUID
	// Confirm submits the created order for production immediately instead
	// of leaving it as a draft
	Confirm bool
}

// FulfillOrderResult is the outcome of the create workflow. AlreadyLinked
// reports the idempotent short-circuit: the order was fulfilled before and no
// new remote order was created. A confirmation failure leaves the created
// order intact; it shows up as Confirmed=false with ConfirmError set.
type FulfillOrderResult struct {
	OrderID       string                  `json:"order_id"`
	RemoteOrderID string                  `json:"printful_order_id"`
	ExternalID    string                  `json:"printful_external_id,omitempty"`
	Status        fulfillment.OrderStatus `json:"status,omitempty"`
	AlreadyLinked bool                    `json:"already_linked"`
	Confirmed     bool                    `json:"confirmed"`
	ConfirmError  string                  `json:"confirm_error,omitempty"`
}

// ReconcileResult is the outcome of applying one webhook event to local state
type ReconcileResult struct {
	OrderID   string `json:"order_id,omitempty"`
	EventType string `json:"event_type"`
	Applied   bool   `json:"applied"`
	Message   string `json:"message,omitempty"`
}

// WebhookResult contains the result of processing a webhook delivery
type WebhookResult struct {
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ConnectionStatus reports whether the provider is reachable with the
// configured credentials
type ConnectionStatus struct {
	Connected bool                   `json:"connected"`
	Store     *fulfillment.StoreInfo `json:"store,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// OrderStatusResult pairs a linked local order with its live remote state
type OrderStatusResult struct {
	OrderID       string                   `json:"order_id"`
	RemoteOrderID string                   `json:"printful_order_id"`
	Status        fulfillment.OrderStatus  `json:"status"`
	RemoteOrder   *fulfillment.RemoteOrder `json:"remote_order,omitempty"`
}

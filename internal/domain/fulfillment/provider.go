package fulfillment

import (
	"context"
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Provider Errors
// ---------------------------------------------------------------------------

var (
	// ErrProviderNotConfigured indicates the provider credentials are missing
	ErrProviderNotConfigured = errors.New("fulfillment: provider not configured")
	// ErrProviderUnavailable indicates a transport-level failure (retryable)
	ErrProviderUnavailable = errors.New("fulfillment: provider temporarily unavailable")
	// ErrProviderInvalidResponse indicates a malformed provider response
	ErrProviderInvalidResponse = errors.New("fulfillment: invalid provider response")
	// ErrInvalidSignature indicates a webhook signature mismatch
	ErrInvalidSignature = errors.New("fulfillment: invalid webhook signature")
	// ErrMissingShippingAddress indicates an order cannot be fulfilled
	ErrMissingShippingAddress = errors.New("fulfillment: order has no shipping address")
	// ErrOrderNotLinked indicates the local order has no remote counterpart
	ErrOrderNotLinked = errors.New("fulfillment: order is not linked to a remote order")
)

// APIError is an application-level error returned by the provider's API.
// It carries the provider's message, machine-readable reason and numeric code
// so callers can branch on partial failure without losing type information.
type APIError struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
	Code    int    `json:"code"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("fulfillment: provider API error %d (%s): %s", e.Code, e.Reason, e.Message)
}

// IsRateLimited reports whether the error is a rate-limit class failure.
// Rate-limit errors are the only API errors worth retrying.
func (e *APIError) IsRateLimited() bool {
	return e.Code == 429
}

// IsNotFound reports whether the remote resource does not exist
func (e *APIError) IsNotFound() bool {
	return e.Code == 404
}

// ---------------------------------------------------------------------------
// OrderStatus
// ---------------------------------------------------------------------------

// OrderStatus is the remote order status. It is authoritative only on the
// provider side; local metadata holds a cached, possibly-stale mirror.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCanceled  OrderStatus = "canceled"
	OrderStatusOnHold    OrderStatus = "onhold"
	OrderStatusInProcess OrderStatus = "inprocess"
	OrderStatusPartial   OrderStatus = "partial"
	OrderStatusFulfilled OrderStatus = "fulfilled"
)

// IsValid returns true if the status is one the provider can report
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPending, OrderStatusFailed, OrderStatusCanceled,
		OrderStatusOnHold, OrderStatusInProcess, OrderStatusPartial, OrderStatusFulfilled:
		return true
	default:
		return false
	}
}

// IsFinal returns true if the status is a terminal state
func (s OrderStatus) IsFinal() bool {
	switch s {
	case OrderStatusFailed, OrderStatusCanceled, OrderStatusFulfilled:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// WebhookType
// ---------------------------------------------------------------------------

// WebhookType identifies an inbound webhook event
type WebhookType string

const (
	WebhookPackageShipped  WebhookType = "package_shipped"
	WebhookPackageReturned WebhookType = "package_returned"
	WebhookOrderFailed     WebhookType = "order_failed"
	WebhookOrderCanceled   WebhookType = "order_canceled"
	WebhookStockUpdated    WebhookType = "stock_updated"
)

// IsValid returns true if the webhook type is known
func (t WebhookType) IsValid() bool {
	switch t {
	case WebhookPackageShipped, WebhookPackageReturned, WebhookOrderFailed,
		WebhookOrderCanceled, WebhookStockUpdated:
		return true
	default:
		return false
	}
}

// LocalStatus maps the webhook type onto the cached metadata status value.
// Returns "" for types that carry no order status.
func (t WebhookType) LocalStatus() string {
	switch t {
	case WebhookPackageShipped:
		return "shipped"
	case WebhookPackageReturned:
		return "returned"
	case WebhookOrderFailed:
		return "failed"
	case WebhookOrderCanceled:
		return "canceled"
	default:
		return ""
	}
}

// String returns the string representation of WebhookType
func (t WebhookType) String() string {
	return string(t)
}

// ---------------------------------------------------------------------------
// Value Objects (provider wire shapes)
// ---------------------------------------------------------------------------

// Recipient is the delivery target of a remote order. Optional fields are
// omitted from the wire rather than sent as empty placeholders.
type Recipient struct {
	Name        string `json:"name"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city"`
	StateCode   string `json:"state_code,omitempty"`
	StateName   string `json:"state_name,omitempty"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name,omitempty"`
	Zip         string `json:"zip"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// OrderCosts holds the cost breakdown of a remote order
type OrderCosts struct {
	Currency string `json:"currency"`
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

// Shipment describes a package dispatched by the provider
type Shipment struct {
	ID             int64  `json:"id"`
	Carrier        string `json:"carrier"`
	Service        string `json:"service"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url"`
	Created        int64  `json:"created"`
	ShipDate       string `json:"ship_date"`
	ShippedAt      int64  `json:"shipped_at"`
	Reshipment     bool   `json:"reshipment"`
}

// RemoteOrderItem is a line item on a remote order as reported by the provider
type RemoteOrderItem struct {
	ID                int64  `json:"id"`
	ExternalID        string `json:"external_id,omitempty"`
	VariantID         int64  `json:"variant_id"`
	SyncVariantID     int64  `json:"sync_variant_id,omitempty"`
	ExternalVariantID string `json:"external_variant_id,omitempty"`
	Quantity          int    `json:"quantity"`
	Price             string `json:"price"`
	RetailPrice       string `json:"retail_price"`
	Name              string `json:"name"`
}

// RemoteOrder is a fulfillment order in the provider's system. ExternalID
// equals the local order's identifier.
type RemoteOrder struct {
	ID                  int64             `json:"id"`
	ExternalID          string            `json:"external_id"`
	Status              OrderStatus       `json:"status"`
	Shipping            string            `json:"shipping"`
	ShippingServiceName string            `json:"shipping_service_name,omitempty"`
	Created             int64             `json:"created"`
	Updated             int64             `json:"updated"`
	Recipient           Recipient         `json:"recipient"`
	Items               []RemoteOrderItem `json:"items"`
	Costs               OrderCosts        `json:"costs"`
	RetailCosts         OrderCosts        `json:"retail_costs"`
	Shipment            *Shipment         `json:"shipment,omitempty"`
}

// CreateOrderItem is a line item on an order-creation request
type CreateOrderItem struct {
	ExternalVariantID string `json:"external_variant_id,omitempty"`
	VariantID         int64  `json:"variant_id,omitempty"`
	Quantity          int    `json:"quantity"`
	RetailPrice       string `json:"retail_price,omitempty"`
	Name              string `json:"name,omitempty"`
}

// CreateOrderRequest is the provider's order-creation request shape
type CreateOrderRequest struct {
	ExternalID string            `json:"external_id"`
	Shipping   string            `json:"shipping"`
	Recipient  Recipient         `json:"recipient"`
	Items      []CreateOrderItem `json:"items"`
}

// WebhookData is the payload body of a webhook event
type WebhookData struct {
	Order    *RemoteOrder `json:"order,omitempty"`
	Shipment *Shipment    `json:"shipment,omitempty"`
}

// WebhookEvent is an inbound provider webhook. Delivery is at-least-once;
// Retries counts the provider's redelivery attempts.
type WebhookEvent struct {
	Type    WebhookType `json:"type"`
	Created int64       `json:"created"`
	Retries int         `json:"retries"`
	Store   int64       `json:"store"`
	Data    WebhookData `json:"data"`
}

// ShippingRate is a quoted shipping option
type ShippingRate struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Rate            string `json:"rate"`
	Currency        string `json:"currency"`
	MinDeliveryDays int    `json:"min_delivery_days"`
	MaxDeliveryDays int    `json:"max_delivery_days"`
}

// ShippingRateRequest asks the provider to quote shipping for a cart
type ShippingRateRequest struct {
	Recipient Recipient         `json:"recipient"`
	Items     []CreateOrderItem `json:"items"`
}

// StoreInfo describes the provider-side store the API key is bound to
type StoreInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Website string `json:"website,omitempty"`
}

// SyncProduct is a storefront product synced into the provider's catalog
type SyncProduct struct {
	ID           int64  `json:"id"`
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	Variants     int    `json:"variants"`
	Synced       int    `json:"synced"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	IsIgnored    bool   `json:"is_ignored"`
}

// SyncVariant is a synced product variant with its provider mapping
type SyncVariant struct {
	ID            int64  `json:"id"`
	ExternalID    string `json:"external_id"`
	SyncProductID int64  `json:"sync_product_id"`
	Name          string `json:"name"`
	Synced        bool   `json:"synced"`
	VariantID     int64  `json:"variant_id"`
	RetailPrice   string `json:"retail_price"`
	SKU           string `json:"sku"`
	Currency      string `json:"currency"`
	IsIgnored     bool   `json:"is_ignored"`
}

// CatalogProduct is an item in the provider's print catalog
type CatalogProduct struct {
	ID             int64  `json:"id"`
	MainCategoryID int64  `json:"main_category_id"`
	Type           string `json:"type"`
	TypeName       string `json:"type_name"`
	Title          string `json:"title"`
	Brand          string `json:"brand,omitempty"`
	Model          string `json:"model,omitempty"`
	Image          string `json:"image,omitempty"`
	VariantCount   int    `json:"variant_count"`
	Currency       string `json:"currency"`
	IsDiscontinued bool   `json:"is_discontinued"`
}

// CatalogVariant is a printable variant of a catalog product
type CatalogVariant struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	ColorCode string `json:"color_code,omitempty"`
	Image     string `json:"image,omitempty"`
	Price     string `json:"price"`
	InStock   bool   `json:"in_stock"`
}

// Paging holds the provider's list pagination envelope
type Paging struct {
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// ListOrdersRequest holds filters for listing remote orders
type ListOrdersRequest struct {
	// Status filters by remote status; empty means all statuses
	Status OrderStatus
	Limit  int
	Offset int
}

// ---------------------------------------------------------------------------
// Provider Port Interface
// ---------------------------------------------------------------------------

// Provider defines the port interface to the print-on-demand fulfillment
// provider. It is defined in the domain layer; the concrete HTTP adapter
// lives in the infrastructure layer.
//
// Methods return the decoded resource or an error. Application-level provider
// failures are *APIError; transport faults wrap ErrProviderUnavailable.
// Retry policy is the caller's responsibility, not the adapter's.
type Provider interface {
	// GetStoreInfo returns the store bound to the configured API key
	GetStoreInfo(ctx context.Context) (*StoreInfo, error)

	// CreateOrder creates a remote fulfillment order (as a draft)
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*RemoteOrder, error)

	// GetOrder retrieves a single remote order by provider-assigned ID
	GetOrder(ctx context.Context, id int64) (*RemoteOrder, error)

	// ListOrders returns a page of remote orders
	ListOrders(ctx context.Context, req ListOrdersRequest) ([]RemoteOrder, *Paging, error)

	// CancelOrder cancels a remote order
	CancelOrder(ctx context.Context, id int64) error

	// ConfirmOrder confirms a draft order for production
	ConfirmOrder(ctx context.Context, id int64) (*RemoteOrder, error)

	// GetShippingRates quotes shipping options for a recipient and cart
	GetShippingRates(ctx context.Context, req *ShippingRateRequest) ([]ShippingRate, error)

	// GetSyncProducts lists products synced into the provider
	GetSyncProducts(ctx context.Context) ([]SyncProduct, error)

	// GetSyncVariants lists the variants of a synced product
	GetSyncVariants(ctx context.Context, syncProductID int64) ([]SyncVariant, error)

	// GetCatalogProducts lists the provider's print catalog, optionally
	// filtered by category (0 = all categories)
	GetCatalogProducts(ctx context.Context, categoryID int64) ([]CatalogProduct, error)

	// GetCatalogVariants lists the printable variants of a catalog product
	GetCatalogVariants(ctx context.Context, productID int64) ([]CatalogVariant, error)
}

package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Metadata keys used to link a local order to its remote fulfillment order.
// The metadata map is the only persistence channel for the linkage; once
// MetaFulfillmentOrderID is present the order is considered linked.
const (
	MetaFulfillmentOrderID    = "printful_order_id"
	MetaFulfillmentExternalID = "printful_external_id"
	MetaFulfillmentCreatedAt  = "printful_created_at"

	MetaFulfillmentStatus         = "printful_status"
	MetaFulfillmentTrackingNumber = "printful_tracking_number"
	MetaFulfillmentTrackingURL    = "printful_tracking_url"
	MetaFulfillmentCarrier        = "printful_carrier"
	MetaFulfillmentLastWebhook    = "printful_last_webhook"
	MetaFulfillmentLastUpdate     = "printful_last_update"
)

// LinkageKeys returns the metadata keys written when an order is linked to a
// remote fulfillment order. Compensation removes exactly these keys.
func LinkageKeys() []string {
	return []string{
		MetaFulfillmentOrderID,
		MetaFulfillmentExternalID,
		MetaFulfillmentCreatedAt,
	}
}

// Metadata is a free-form string-keyed map carried on each order
type Metadata map[string]any

// Merged returns a copy of m with patch applied on top. The receiver is not
// modified; callers must persist the result themselves.
func (m Metadata) Merged(patch Metadata) Metadata {
	out := make(Metadata, len(m)+len(patch))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Without returns a copy of m with the given keys removed
func (m Metadata) Without(keys ...string) Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Address holds a shipping or billing address
type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address_1"`
	Address2    string `json:"address_2,omitempty"`
	City        string `json:"city"`
	Province    string `json:"province,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	PostalCode  string `json:"postal_code"`
	Phone       string `json:"phone,omitempty"`
}

// LineItem is a purchasable line on a local order. UnitPrice is in minor
// currency units (cents).
type LineItem struct {
	ID        uuid.UUID `json:"id"`
	SKU       string    `json:"sku,omitempty"`
	Title     string    `json:"title"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
}

// Order is a local order record owned by the storefront backend. The
// fulfillment workflow only reads it and issues metadata merges, never full
// overwrites.
type Order struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string     `gorm:"size:255" json:"email"`
	Currency        string     `gorm:"size:3" json:"currency"`
	ShippingAddress *Address   `gorm:"serializer:json" json:"shipping_address,omitempty"`
	BillingAddress  *Address   `gorm:"serializer:json" json:"billing_address,omitempty"`
	Items           []LineItem `gorm:"serializer:json" json:"items"`
	Metadata        Metadata   `gorm:"serializer:json" json:"metadata"`
	// Version guards metadata updates with optimistic concurrency
	Version   int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for GORM
func (Order) TableName() string {
	return "orders"
}

// IsLinked reports whether the order already has a remote fulfillment order
func (o *Order) IsLinked() bool {
	_, ok := o.FulfillmentOrderID()
	return ok
}

// FulfillmentOrderID returns the linked remote order ID from metadata
func (o *Order) FulfillmentOrderID() (string, bool) {
	v, ok := o.Metadata[MetaFulfillmentOrderID]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// ListFilter holds pagination parameters for listing orders
type ListFilter struct {
	Limit  int
	Offset int
}

// Repository is the port interface for the order store collaborator.
// Implementations live in the infrastructure layer.
type Repository interface {
	// FindByID returns the order with the given ID, or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// List returns a page of orders plus the total count
	List(ctx context.Context, filter ListFilter) ([]Order, int64, error)

	// Save inserts or updates an order
	Save(ctx context.Context, o *Order) error

	// MergeMetadata merges patch onto the order's existing metadata.
	// Concurrent writers of unrelated keys are never clobbered.
	MergeMetadata(ctx context.Context, id uuid.UUID, patch Metadata) error

	// RemoveMetadataKeys removes exactly the given keys from metadata
	RemoveMetadataKeys(ctx context.Context, id uuid.UUID, keys []string) error

	// LinkFulfillment atomically writes the linkage patch if and only if the
	// order is not already linked. Returns true when this call won the link,
	// false when another writer linked the order first.
	LinkFulfillment(ctx context.Context, id uuid.UUID, patch Metadata) (bool, error)
}

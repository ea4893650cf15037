package printful

import (
	"encoding/json"

	"github.com/printshop/backend/internal/domain/fulfillment"
)

// envelope is the uniform response wrapper of the Printful API. Every
// endpoint returns {code, result} on success and {code, error} on failure;
// list endpoints additionally carry paging.
type envelope struct {
	Code   int                 `json:"code"`
	Result json.RawMessage     `json:"result"`
	Error  *envelopeError      `json:"error,omitempty"`
	Paging *fulfillment.Paging `json:"paging,omitempty"`
}

type envelopeError struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// syncProductDetail is the GET /store/products/{id} result shape
type syncProductDetail struct {
	SyncProduct  fulfillment.SyncProduct   `json:"sync_product"`
	SyncVariants []fulfillment.SyncVariant `json:"sync_variants"`
}

// catalogProductDetail is the GET /products/{id} result shape
type catalogProductDetail struct {
	Product  fulfillment.CatalogProduct   `json:"product"`
	Variants []fulfillment.CatalogVariant `json:"variants"`
}

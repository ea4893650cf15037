package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/printshop/backend/internal/domain/fulfillment"
)

const (
	// maxResponseSize limits the response body size to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB max response
)

// Client implements the fulfillment.Provider interface against the Printful
// REST API. It is safe for concurrent use.
type Client struct {
	config     *Config
	httpClient *http.Client
}

var _ fulfillment.Provider = (*Client)(nil)

// NewClient creates a new Printful API client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// GetStoreInfo returns the store bound to the configured API key
func (c *Client) GetStoreInfo(ctx context.Context) (*fulfillment.StoreInfo, error) {
	var store fulfillment.StoreInfo
	if _, err := c.doRequest(ctx, http.MethodGet, "/store", nil, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// CreateOrder creates a remote fulfillment order as a draft
func (c *Client) CreateOrder(ctx context.Context, req *fulfillment.CreateOrderRequest) (*fulfillment.RemoteOrder, error) {
	var created fulfillment.RemoteOrder
	if _, err := c.doRequest(ctx, http.MethodPost, "/orders", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetOrder retrieves a single remote order by provider-assigned ID
func (c *Client) GetOrder(ctx context.Context, id int64) (*fulfillment.RemoteOrder, error) {
	var remote fulfillment.RemoteOrder
	path := "/orders/" + strconv.FormatInt(id, 10)
	if _, err := c.doRequest(ctx, http.MethodGet, path, nil, &remote); err != nil {
		return nil, err
	}
	return &remote, nil
}

// ListOrders returns a page of remote orders
func (c *Client) ListOrders(ctx context.Context, req fulfillment.ListOrdersRequest) ([]fulfillment.RemoteOrder, *fulfillment.Paging, error) {
	query := url.Values{}
	if req.Status != "" {
		query.Set("status", req.Status.String())
	}
	if req.Limit > 0 {
		query.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		query.Set("offset", strconv.Itoa(req.Offset))
	}

	path := "/orders"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var orders []fulfillment.RemoteOrder
	paging, err := c.doRequest(ctx, http.MethodGet, path, nil, &orders)
	if err != nil {
		return nil, nil, err
	}
	return orders, paging, nil
}

// CancelOrder cancels a remote order. Already-canceled orders are treated as
// success so compensation stays idempotent.
func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	path := "/orders/" + strconv.FormatInt(id, 10)
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// ConfirmOrder confirms a draft order for production
func (c *Client) ConfirmOrder(ctx context.Context, id int64) (*fulfillment.RemoteOrder, error) {
	var confirmed fulfillment.RemoteOrder
	path := "/orders/" + strconv.FormatInt(id, 10) + "/confirm"
	if _, err := c.doRequest(ctx, http.MethodPost, path, nil, &confirmed); err != nil {
		return nil, err
	}
	return &confirmed, nil
}

// ---------------------------------------------------------------------------
// Shipping
// ---------------------------------------------------------------------------

// GetShippingRates quotes shipping options for a recipient and cart
func (c *Client) GetShippingRates(ctx context.Context, req *fulfillment.ShippingRateRequest) ([]fulfillment.ShippingRate, error) {
	var rates []fulfillment.ShippingRate
	if _, err := c.doRequest(ctx, http.MethodPost, "/shipping/rates", req, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// GetSyncProducts lists products synced into the provider
func (c *Client) GetSyncProducts(ctx context.Context) ([]fulfillment.SyncProduct, error) {
	var products []fulfillment.SyncProduct
	if _, err := c.doRequest(ctx, http.MethodGet, "/sync/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetSyncVariants lists the variants of a synced product
func (c *Client) GetSyncVariants(ctx context.Context, syncProductID int64) ([]fulfillment.SyncVariant, error) {
	var detail syncProductDetail
	path := "/sync/products/" + strconv.FormatInt(syncProductID, 10)
	if _, err := c.doRequest(ctx, http.MethodGet, path, nil, &detail); err != nil {
		return nil, err
	}
	return detail.SyncVariants, nil
}

// GetCatalogProducts lists the provider's print catalog
func (c *Client) GetCatalogProducts(ctx context.Context, categoryID int64) ([]fulfillment.CatalogProduct, error) {
	path := "/products"
	if categoryID > 0 {
		path += "?category_id=" + strconv.FormatInt(categoryID, 10)
	}

	var products []fulfillment.CatalogProduct
	if _, err := c.doRequest(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetCatalogVariants lists the printable variants of a catalog product
func (c *Client) GetCatalogVariants(ctx context.Context, productID int64) ([]fulfillment.CatalogVariant, error) {
	var detail catalogProductDetail
	path := "/products/" + strconv.FormatInt(productID, 10)
	if _, err := c.doRequest(ctx, http.MethodGet, path, nil, &detail); err != nil {
		return nil, err
	}
	return detail.Variants, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// doRequest performs an HTTP request against the Printful API, decodes the
// response envelope and unmarshals the result into out (out may be nil when
// the caller only cares about success). Returns the envelope's paging block
// when the endpoint provides one.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) (*fulfillment.Paging, error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("printful: failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("printful: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.StoreID != "" {
		req.Header.Set("X-PF-Store-Id", c.config.StoreID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrProviderUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: HTTP %d: %v", fulfillment.ErrProviderInvalidResponse, resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 || env.Code >= 400 {
		return nil, apiError(resp.StatusCode, &env)
	}

	if out != nil {
		if env.Result == nil {
			return nil, fmt.Errorf("%w: missing result", fulfillment.ErrProviderInvalidResponse)
		}
		if err := json.Unmarshal(env.Result, out); err != nil {
			return nil, fmt.Errorf("%w: %v", fulfillment.ErrProviderInvalidResponse, err)
		}
	}

	return env.Paging, nil
}

// apiError builds a typed API error from a failed envelope. The envelope's
// code wins over the transport status when both are present.
func apiError(status int, env *envelope) *fulfillment.APIError {
	apiErr := &fulfillment.APIError{Code: env.Code}
	if apiErr.Code < 400 {
		apiErr.Code = status
	}
	if env.Error != nil {
		apiErr.Message = env.Error.Message
		apiErr.Reason = env.Error.Reason
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(apiErr.Code)
	}
	return apiErr
}

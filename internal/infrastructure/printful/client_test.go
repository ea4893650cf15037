package printful

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printshop/backend/internal/domain/fulfillment"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		APIKey:  "test_api_key",
		StoreID: "store-7",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return client, server
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, result any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(map[string]any{
		"code":   status,
		"result": result,
	})
	require.NoError(t, err)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	client, err := NewClient(&Config{})
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrConfigMissingAPIKey)
}

func TestClient_CreateOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "Bearer test_api_key", r.Header.Get("Authorization"))
		assert.Equal(t, "store-7", r.Header.Get("X-PF-Store-Id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req fulfillment.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ord-1", req.ExternalID)
		assert.Equal(t, "STANDARD", req.Shipping)

		writeEnvelope(t, w, http.StatusOK, fulfillment.RemoteOrder{
			ID:         4242,
			ExternalID: req.ExternalID,
			Status:     fulfillment.OrderStatusDraft,
		})
	})

	remote, err := client.CreateOrder(context.Background(), &fulfillment.CreateOrderRequest{
		ExternalID: "ord-1",
		Shipping:   "STANDARD",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4242), remote.ID)
	assert.Equal(t, fulfillment.OrderStatusDraft, remote.Status)
}

func TestClient_GetOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders/4242", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, fulfillment.RemoteOrder{
			ID:     4242,
			Status: fulfillment.OrderStatusInProcess,
		})
	})

	remote, err := client.GetOrder(context.Background(), 4242)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.OrderStatusInProcess, remote.Status)
}

func TestClient_ListOrders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "fulfilled", r.URL.Query().Get("status"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"code":   200,
			"result": []fulfillment.RemoteOrder{{ID: 1}, {ID: 2}},
			"paging": map[string]any{"total": 42, "offset": 20, "limit": 10},
		})
		require.NoError(t, err)
	})

	orders, paging, err := client.ListOrders(context.Background(), fulfillment.ListOrdersRequest{
		Status: fulfillment.OrderStatusFulfilled,
		Limit:  10,
		Offset: 20,
	})
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	require.NotNil(t, paging)
	assert.Equal(t, int64(42), paging.Total)
}

func TestClient_CancelOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/orders/4242", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, map[string]any{"id": 4242})
	})

	assert.NoError(t, client.CancelOrder(context.Background(), 4242))
}

func TestClient_ConfirmOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders/4242/confirm", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, fulfillment.RemoteOrder{
			ID:     4242,
			Status: fulfillment.OrderStatusPending,
		})
	})

	remote, err := client.ConfirmOrder(context.Background(), 4242)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.OrderStatusPending, remote.Status)
}

func TestClient_GetShippingRates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/shipping/rates", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, []fulfillment.ShippingRate{
			{ID: "STANDARD", Name: "Flat Rate", Rate: "4.99", Currency: "USD"},
		})
	})

	rates, err := client.GetShippingRates(context.Background(), &fulfillment.ShippingRateRequest{})
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "STANDARD", rates[0].ID)
}

func TestClient_GetSyncProducts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sync/products", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, []fulfillment.SyncProduct{
			{ID: 99, Name: "Tee"},
		})
	})

	products, err := client.GetSyncProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(99), products[0].ID)
}

func TestClient_GetSyncVariants(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync/products/99", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"sync_product": fulfillment.SyncProduct{ID: 99, Name: "Tee"},
			"sync_variants": []fulfillment.SyncVariant{
				{ID: 1, SyncProductID: 99, SKU: "TEE-BLK-M"},
				{ID: 2, SyncProductID: 99, SKU: "TEE-BLK-L"},
			},
		})
	})

	variants, err := client.GetSyncVariants(context.Background(), 99)
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, "TEE-BLK-M", variants[0].SKU)
}

func TestClient_GetCatalogProducts_CategoryFilter(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "24", r.URL.Query().Get("category_id"))
		writeEnvelope(t, w, http.StatusOK, []fulfillment.CatalogProduct{{ID: 71, Title: "Unisex Tee"}})
	})

	products, err := client.GetCatalogProducts(context.Background(), 24)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(71), products[0].ID)
}

func TestClient_APIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		err := json.NewEncoder(w).Encode(map[string]any{
			"code": 400,
			"error": map[string]any{
				"message": "Country code is invalid",
				"reason":  "BadRequest",
			},
		})
		require.NoError(t, err)
	})

	remote, err := client.CreateOrder(context.Background(), &fulfillment.CreateOrderRequest{})
	assert.Nil(t, remote)

	var apiErr *fulfillment.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "Country code is invalid", apiErr.Message)
	assert.Equal(t, "BadRequest", apiErr.Reason)
}

func TestClient_RateLimitError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		err := json.NewEncoder(w).Encode(map[string]any{
			"code":  429,
			"error": map[string]any{"message": "Too many requests", "reason": "RateLimited"},
		})
		require.NoError(t, err)
	})

	_, err := client.GetStoreInfo(context.Background())

	var apiErr *fulfillment.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsRateLimited())
}

func TestClient_InvalidResponseBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	})

	_, err := client.GetStoreInfo(context.Background())
	assert.ErrorIs(t, err, fulfillment.ErrProviderInvalidResponse)
}

func TestClient_TransportFailure(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.GetStoreInfo(context.Background())
	assert.ErrorIs(t, err, fulfillment.ErrProviderUnavailable)
}

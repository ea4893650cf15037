package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/printshop/backend/internal/domain/fulfillment"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/infrastructure/cache"
	"github.com/printshop/backend/internal/infrastructure/printful"
)

func signedPayload(t *testing.T, cfg *printful.Config, event any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return payload, cfg.Sign(payload)
}

func TestHandleWebhook_ValidSignatureReconciles(t *testing.T) {
	provider := new(MockProvider)
	orders := new(MockOrderRepository)
	cfg := &printful.Config{APIKey: "key", WebhookSecret: "whsec"}
	svc := NewService(ServiceConfig{
		Provider:       provider,
		Orders:         orders,
		Locker:         cache.NewInMemoryLocker(),
		Dedupe:         cache.NewInMemoryIdempotencyStore(),
		ProviderConfig: cfg,
	})

	orderID := uuid.New()
	orders.On("MergeMetadata", mock.Anything, orderID, mock.Anything).Return(nil)

	payload, sig := signedPayload(t, cfg, shippedEvent(orderID.String()))

	result, err := svc.HandleWebhook(context.Background(), payload, sig)
	require.NoError(t, err)

	assert.True(t, result.Processed)
	assert.Equal(t, "package_shipped", result.EventType)
	orders.AssertExpectations(t)
}

func TestHandleWebhook_BadSignatureRejected(t *testing.T) {
	provider := new(MockProvider)
	orders := new(MockOrderRepository)
	svc := newTestService(provider, orders)

	payload, _ := json.Marshal(shippedEvent(uuid.NewString()))

	result, err := svc.HandleWebhook(context.Background(), payload, "deadbeef")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, fulfillment.ErrInvalidSignature)

	// rejected before any processing
	orders.AssertNotCalled(t, "MergeMetadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_NoSecretAcceptsUnsigned(t *testing.T) {
	provider := new(MockProvider)
	orders := new(MockOrderRepository)
	svc := NewService(ServiceConfig{
		Provider:       provider,
		Orders:         orders,
		Locker:         cache.NewInMemoryLocker(),
		Dedupe:         cache.NewInMemoryIdempotencyStore(),
		ProviderConfig: &printful.Config{APIKey: "key"},
	})

	orderID := uuid.New()
	orders.On("MergeMetadata", mock.Anything, orderID, mock.Anything).Return(nil)

	payload, _ := json.Marshal(shippedEvent(orderID.String()))

	result, err := svc.HandleWebhook(context.Background(), payload, "")
	require.NoError(t, err)
	assert.True(t, result.Processed)
}

func TestHandleWebhook_UnknownTypeAcceptedWithoutMutation(t *testing.T) {
	provider := new(MockProvider)
	orders := new(MockOrderRepository)
	cfg := &printful.Config{APIKey: "key", WebhookSecret: "whsec"}
	svc := NewService(ServiceConfig{
		Provider:       provider,
		Orders:         orders,
		Locker:         cache.NewInMemoryLocker(),
		Dedupe:         cache.NewInMemoryIdempotencyStore(),
		ProviderConfig: cfg,
	})

	payload, sig := signedPayload(t, cfg, map[string]any{"type": "order_created"})

	result, err := svc.HandleWebhook(context.Background(), payload, sig)
	require.NoError(t, err)

	assert.False(t, result.Processed)
	assert.Equal(t, "event type not handled", result.Message)
	orders.AssertNotCalled(t, "MergeMetadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_StockUpdatedAcknowledged(t *testing.T) {
	provider := new(MockProvider)
	orders := new(MockOrderRepository)
	cfg := &printful.Config{APIKey: "key", WebhookSecret: "whsec"}
	svc := NewService(ServiceConfig{
		Provider:       provider,
		Orders:         orders,
		Locker:         cache.NewInMemoryLocker(),
		Dedupe:         cache.NewInMemoryIdempotencyStore(),
		ProviderConfig: cfg,
	})

	payload, sig := signedPayload(t, cfg, map[string]any{"type": "stock_updated", "store": 7})

	result, err := svc.HandleWebhook(context.Background(), payload, sig)
	require.NoError(t, err)
	assert.False(t, result.Processed)
	orders.AssertNotCalled(t, "MergeMetadata", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_MalformedPayload(t *testing.T) {
	provider := new(MockProvider)
	orders := new(MockOrderRepository)
	cfg := &printful.Config{APIKey: "key", WebhookSecret: "whsec"}
	svc := NewService(ServiceConfig{
		Provider:       provider,
		Orders:         orders,
		Locker:         cache.NewInMemoryLocker(),
		Dedupe:         cache.NewInMemoryIdempotencyStore(),
		ProviderConfig: cfg,
	})

	payload := []byte(`{"type": not-json`)
	result, err := svc.HandleWebhook(context.Background(), payload, cfg.Sign(payload))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, fulfillment.ErrProviderInvalidResponse)
}

func TestTestConnection(t *testing.T) {
	provider := new(MockProvider)
	orders := new(MockOrderRepository)
	svc := newTestService(provider, orders)

	provider.On("GetStoreInfo", mock.Anything).
		Return(&fulfillment.StoreInfo{ID: 7, Name: "Print Shop"}, nil).Once()

	status := svc.TestConnection(context.Background())
	assert.True(t, status.Connected)
	require.NotNil(t, status.Store)
	assert.Equal(t, "Print Shop", status.Store.Name)

	provider.On("GetStoreInfo", mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused")).Once()

	status = svc.TestConnection(context.Background())
	assert.False(t, status.Connected)
	assert.Contains(t, status.Error, "connection refused")
}

func TestOrderStatus(t *testing.T) {
	provider := new(MockProvider)
	orders := new(MockOrderRepository)
	svc := newTestService(provider, orders)

	o := unlinkedOrder()
	o.Metadata = order.Metadata{order.MetaFulfillmentOrderID: "4242"}
	remote := &fulfillment.RemoteOrder{ID: 4242, Status: fulfillment.OrderStatusInProcess}

	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	provider.On("GetOrder", mock.Anything, int64(4242)).Return(remote, nil)

	result, err := svc.OrderStatus(context.Background(), o.ID)
	require.NoError(t, err)

	assert.Equal(t, "4242", result.RemoteOrderID)
	assert.Equal(t, fulfillment.OrderStatusInProcess, result.Status)
}

func TestOrderStatus_NotLinked(t *testing.T) {
	provider := new(MockProvider)
	orders := new(MockOrderRepository)
	svc := newTestService(provider, orders)

	o := unlinkedOrder()
	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := svc.OrderStatus(context.Background(), o.ID)
	assert.ErrorIs(t, err, fulfillment.ErrOrderNotLinked)
	provider.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
}

func TestListRemoteOrders_FailureIsLogged(t *testing.T) {
	provider := new(MockProvider)
	orders := new(MockOrderRepository)
	core, recorded := observer.New(zapcore.WarnLevel)
	svc := NewService(ServiceConfig{
		Provider:       provider,
		Orders:         orders,
		Locker:         cache.NewInMemoryLocker(),
		Dedupe:         cache.NewInMemoryIdempotencyStore(),
		ProviderConfig: &printful.Config{APIKey: "key", WebhookSecret: "whsec"},
		Logger:         zap.New(core),
	})

	provider.On("ListOrders", mock.Anything, mock.Anything).
		Return(nil, nil, fulfillment.ErrProviderUnavailable)

	_, _, err := svc.ListRemoteOrders(context.Background(), fulfillment.ListOrdersRequest{Limit: 20})
	assert.ErrorIs(t, err, fulfillment.ErrProviderUnavailable)

	entries := recorded.FilterMessage("Provider call failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "list_orders", entries[0].ContextMap()["op"])
}

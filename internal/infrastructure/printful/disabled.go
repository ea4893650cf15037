package printful

import (
	"context"

	"github.com/printshop/backend/internal/domain/fulfillment"
)

// disabledProvider satisfies fulfillment.Provider when no API key is
// configured. Every call fails with ErrProviderNotConfigured so the rest of
// the application can run without Printful credentials.
type disabledProvider struct{}

// Disabled returns a provider whose every operation reports that the
// integration is not configured
func Disabled() fulfillment.Provider {
	return disabledProvider{}
}

var _ fulfillment.Provider = disabledProvider{}

func (disabledProvider) GetStoreInfo(context.Context) (*fulfillment.StoreInfo, error) {
	return nil, fulfillment.ErrProviderNotConfigured
}

func (disabledProvider) CreateOrder(context.Context, *fulfillment.CreateOrderRequest) (*fulfillment.RemoteOrder, error) {
	return nil, fulfillment.ErrProviderNotConfigured
}

func (disabledProvider) GetOrder(context.Context, int64) (*fulfillment.RemoteOrder, error) {
	return nil, fulfillment.ErrProviderNotConfigured
}

func (disabledProvider) ListOrders(context.Context, fulfillment.ListOrdersRequest) ([]fulfillment.RemoteOrder, *fulfillment.Paging, error) {
	return nil, nil, fulfillment.ErrProviderNotConfigured
}

func (disabledProvider) CancelOrder(context.Context, int64) error {
	return fulfillment.ErrProviderNotConfigured
}

func (disabledProvider) ConfirmOrder(context.Context, int64) (*fulfillment.RemoteOrder, error) {
	return nil, fulfillment.ErrProviderNotConfigured
}

func (disabledProvider) GetShippingRates(context.Context, *fulfillment.ShippingRateRequest) ([]fulfillment.ShippingRate, error) {
	return nil, fulfillment.ErrProviderNotConfigured
}

func (disabledProvider) GetSyncProducts(context.Context) ([]fulfillment.SyncProduct, error) {
	return nil, fulfillment.ErrProviderNotConfigured
}

func (disabledProvider) GetSyncVariants(context.Context, int64) ([]fulfillment.SyncVariant, error) {
	return nil, fulfillment.ErrProviderNotConfigured
}

func (disabledProvider) GetCatalogProducts(context.Context, int64) ([]fulfillment.CatalogProduct, error) {
	return nil, fulfillment.ErrProviderNotConfigured
}

func (disabledProvider) GetCatalogVariants(context.Context, int64) ([]fulfillment.CatalogVariant, error) {
	return nil, fulfillment.ErrProviderNotConfigured
}

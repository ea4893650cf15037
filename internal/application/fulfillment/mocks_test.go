package fulfillment

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/printshop/backend/internal/domain/fulfillment"
	"github.com/printshop/backend/internal/domain/order"
)

// MockProvider is a mock implementation of fulfillment.Provider
type MockProvider struct {
	mock.Mock
}

var _ fulfillment.Provider = (*MockProvider)(nil)

func (m *MockProvider) GetStoreInfo(ctx context.Context) (*fulfillment.StoreInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.StoreInfo), args.Error(1)
}

func (m *MockProvider) CreateOrder(ctx context.Context, req *fulfillment.CreateOrderRequest) (*fulfillment.RemoteOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.RemoteOrder), args.Error(1)
}

func (m *MockProvider) GetOrder(ctx context.Context, id int64) (*fulfillment.RemoteOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.RemoteOrder), args.Error(1)
}

func (m *MockProvider) ListOrders(ctx context.Context, req fulfillment.ListOrdersRequest) ([]fulfillment.RemoteOrder, *fulfillment.Paging, error) {
	args := m.Called(ctx, req)
	var orders []fulfillment.RemoteOrder
	if args.Get(0) != nil {
		orders = args.Get(0).([]fulfillment.RemoteOrder)
	}
	var paging *fulfillment.Paging
	if args.Get(1) != nil {
		paging = args.Get(1).(*fulfillment.Paging)
	}
	return orders, paging, args.Error(2)
}

func (m *MockProvider) CancelOrder(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProvider) ConfirmOrder(ctx context.Context, id int64) (*fulfillment.RemoteOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.RemoteOrder), args.Error(1)
}

func (m *MockProvider) GetShippingRates(ctx context.Context, req *fulfillment.ShippingRateRequest) ([]fulfillment.ShippingRate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.ShippingRate), args.Error(1)
}

func (m *MockProvider) GetSyncProducts(ctx context.Context) ([]fulfillment.SyncProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.SyncProduct), args.Error(1)
}

func (m *MockProvider) GetSyncVariants(ctx context.Context, syncProductID int64) ([]fulfillment.SyncVariant, error) {
	args := m.Called(ctx, syncProductID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.SyncVariant), args.Error(1)
}

func (m *MockProvider) GetCatalogProducts(ctx context.Context, categoryID int64) ([]fulfillment.CatalogProduct, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.CatalogProduct), args.Error(1)
}

func (m *MockProvider) GetCatalogVariants(ctx context.Context, productID int64) ([]fulfillment.CatalogVariant, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.CatalogVariant), args.Error(1)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

var _ order.Repository = (*MockOrderRepository)(nil)

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	args := m.Called(ctx, filter)
	var orders []order.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]order.Order)
	}
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) MergeMetadata(ctx context.Context, id uuid.UUID, patch order.Metadata) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockOrderRepository) RemoveMetadataKeys(ctx context.Context, id uuid.UUID, keys []string) error {
	args := m.Called(ctx, id, keys)
	return args.Error(0)
}

func (m *MockOrderRepository) LinkFulfillment(ctx context.Context, id uuid.UUID, patch order.Metadata) (bool, error) {
	args := m.Called(ctx, id, patch)
	return args.Bool(0), args.Error(1)
}

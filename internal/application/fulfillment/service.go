package fulfillment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/fulfillment"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/printful"
)

// Service orchestrates the fulfillment integration: provider access, the
// create workflow, webhook verification and reconciliation. Provider
// application failures surface as *fulfillment.APIError; callers branch with
// errors.As. Nothing panics past this boundary.
type Service struct {
	provider    fulfillment.Provider
	orders      order.Repository
	locker      shared.Locker
	dedupe      shared.IdempotencyStore
	providerCfg *printful.Config
	logger      *zap.Logger
	lockTTL     time.Duration
	dedupeTTL   time.Duration
}

// ServiceConfig contains the collaborators for Service
type ServiceConfig struct {
	Provider       fulfillment.Provider
	Orders         order.Repository
	Locker         shared.Locker
	Dedupe         shared.IdempotencyStore
	ProviderConfig *printful.Config
	Logger         *zap.Logger
	LockTTL        time.Duration
	DedupeTTL      time.Duration
}

// NewService creates a new fulfillment Service
func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = time.Minute
	}
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = shared.DefaultIdempotencyConfig().TTL
	}
	if cfg.ProviderConfig != nil && !cfg.ProviderConfig.SignaturesEnabled() {
		// permissive by design so unsigned stores keep working, but worth
		// shouting about once at startup
		cfg.Logger.Warn("Printful webhook secret not configured, signature verification is disabled")
	}

	return &Service{
		provider:    cfg.Provider,
		orders:      cfg.Orders,
		locker:      cfg.Locker,
		dedupe:      cfg.Dedupe,
		providerCfg: cfg.ProviderConfig,
		logger:      cfg.Logger,
		lockTTL:     cfg.LockTTL,
		dedupeTTL:   cfg.DedupeTTL,
	}
}

// ---------------------------------------------------------------------------
// Local order reads
// ---------------------------------------------------------------------------

// GetOrder returns a local order by ID
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// ListOrders returns a page of local orders plus the total count
func (s *Service) ListOrders(ctx context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	return s.orders.List(ctx, filter)
}

// ---------------------------------------------------------------------------
// Provider operations
// ---------------------------------------------------------------------------

// providerErr logs a failed provider call before handing the error back, so
// failures surfaced straight to HTTP callers still leave a trace.
func (s *Service) providerErr(op string, err error) error {
	if err != nil {
		s.logger.Warn("Provider call failed", zap.String("op", op), zap.Error(err))
	}
	return err
}

// GetStoreInfo returns the provider store bound to the configured API key
func (s *Service) GetStoreInfo(ctx context.Context) (*fulfillment.StoreInfo, error) {
	store, err := s.provider.GetStoreInfo(ctx)
	return store, s.providerErr("get_store_info", err)
}

// TestConnection checks provider reachability with the configured credentials
func (s *Service) TestConnection(ctx context.Context) *ConnectionStatus {
	store, err := s.provider.GetStoreInfo(ctx)
	if err != nil {
		s.logger.Warn("Provider connection test failed", zap.Error(err))
		return &ConnectionStatus{Connected: false, Error: err.Error()}
	}
	return &ConnectionStatus{Connected: true, Store: store}
}

// GetRemoteOrder retrieves a remote order by provider-assigned ID
func (s *Service) GetRemoteOrder(ctx context.Context, id int64) (*fulfillment.RemoteOrder, error) {
	remote, err := s.provider.GetOrder(ctx, id)
	return remote, s.providerErr("get_order", err)
}

// ListRemoteOrders returns a page of remote orders
func (s *Service) ListRemoteOrders(ctx context.Context, req fulfillment.ListOrdersRequest) ([]fulfillment.RemoteOrder, *fulfillment.Paging, error) {
	orders, paging, err := s.provider.ListOrders(ctx, req)
	return orders, paging, s.providerErr("list_orders", err)
}

// CancelRemoteOrder cancels a remote order
func (s *Service) CancelRemoteOrder(ctx context.Context, id int64) error {
	if err := s.provider.CancelOrder(ctx, id); err != nil {
		return s.providerErr("cancel_order", err)
	}
	s.logger.Info("Canceled remote fulfillment order", zap.Int64("remote_order_id", id))
	return nil
}

// ConfirmRemoteOrder submits a draft remote order for production
func (s *Service) ConfirmRemoteOrder(ctx context.Context, id int64) (*fulfillment.RemoteOrder, error) {
	confirmed, err := s.provider.ConfirmOrder(ctx, id)
	if err != nil {
		return nil, s.providerErr("confirm_order", err)
	}
	s.logger.Info("Confirmed remote fulfillment order",
		zap.Int64("remote_order_id", id),
		zap.String("status", confirmed.Status.String()))
	return confirmed, nil
}

// OrderStatus returns the live remote state of a linked local order
func (s *Service) OrderStatus(ctx context.Context, orderID uuid.UUID) (*OrderStatusResult, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	remoteID, linked := o.FulfillmentOrderID()
	if !linked {
		return nil, fulfillment.ErrOrderNotLinked
	}

	id, err := parseRemoteOrderID(remoteID)
	if err != nil {
		return nil, err
	}

	remote, err := s.provider.GetOrder(ctx, id)
	if err != nil {
		return nil, s.providerErr("get_order", err)
	}

	return &OrderStatusResult{
		OrderID:       o.ID.String(),
		RemoteOrderID: remoteID,
		Status:        remote.Status,
		RemoteOrder:   remote,
	}, nil
}

// GetShippingRates quotes shipping options for a recipient and cart
func (s *Service) GetShippingRates(ctx context.Context, req *fulfillment.ShippingRateRequest) ([]fulfillment.ShippingRate, error) {
	rates, err := s.provider.GetShippingRates(ctx, req)
	return rates, s.providerErr("get_shipping_rates", err)
}

// GetSyncProducts lists products synced into the provider
func (s *Service) GetSyncProducts(ctx context.Context) ([]fulfillment.SyncProduct, error) {
	products, err := s.provider.GetSyncProducts(ctx)
	return products, s.providerErr("get_sync_products", err)
}

// GetSyncVariants lists the variants of a synced product
func (s *Service) GetSyncVariants(ctx context.Context, syncProductID int64) ([]fulfillment.SyncVariant, error) {
	variants, err := s.provider.GetSyncVariants(ctx, syncProductID)
	return variants, s.providerErr("get_sync_variants", err)
}

// GetCatalogProducts lists the provider's print catalog
func (s *Service) GetCatalogProducts(ctx context.Context, categoryID int64) ([]fulfillment.CatalogProduct, error) {
	products, err := s.provider.GetCatalogProducts(ctx, categoryID)
	return products, s.providerErr("get_catalog_products", err)
}

// GetCatalogVariants lists the printable variants of a catalog product
func (s *Service) GetCatalogVariants(ctx context.Context, productID int64) ([]fulfillment.CatalogVariant, error) {
	variants, err := s.provider.GetCatalogVariants(ctx, productID)
	return variants, s.providerErr("get_catalog_variants", err)
}

// ---------------------------------------------------------------------------
// Webhooks
// ---------------------------------------------------------------------------

// HandleWebhook verifies and processes one webhook delivery. A processing
// outcome of "harmlessly ignored" (unknown type, missing local order,
// redelivery) is still a success; only signature failure or an unrecoverable
// processing error is returned as an error, which the HTTP layer turns into a
// non-200 so the provider redelivers.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	if s.providerCfg != nil && !s.providerCfg.VerifySignature(payload, signature) {
		s.logger.Warn("Webhook signature verification failed")
		return nil, fulfillment.ErrInvalidSignature
	}

	var event fulfillment.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", fulfillment.ErrProviderInvalidResponse, err)
	}

	s.logger.Info("Processing webhook event",
		zap.String("event_type", event.Type.String()),
		zap.Int("retries", event.Retries))

	result := &WebhookResult{EventType: event.Type.String(), Processed: true}

	switch event.Type {
	case fulfillment.WebhookPackageShipped,
		fulfillment.WebhookPackageReturned,
		fulfillment.WebhookOrderFailed,
		fulfillment.WebhookOrderCanceled:
		reconciled, err := s.ReconcileWebhook(ctx, &event)
		if err != nil {
			return nil, err
		}
		result.Processed = reconciled.Applied
		result.Message = reconciled.Message

	case fulfillment.WebhookStockUpdated:
		// stock changes carry no order state to reconcile
		s.handleStockUpdated(&event)
		result.Processed = false
		result.Message = "stock update acknowledged"

	default:
		s.logger.Info("Unhandled webhook event type",
			zap.String("event_type", event.Type.String()))
		result.Processed = false
		result.Message = "event type not handled"
	}

	return result, nil
}

func (s *Service) handleStockUpdated(event *fulfillment.WebhookEvent) {
	s.logger.Debug("Stock updated event received", zap.Int64("store", event.Store))
}

package fulfillment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/fulfillment"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
)

// ReconcileWebhook merges one webhook event into the local order's cached
// fulfillment metadata. Deliveries are at-least-once; redeliveries of the
// same (order, event type) pair within the dedupe TTL are collapsed to a
// no-op, which keeps the final metadata identical however many times the
// provider retries. A missing local order is a logged no-op, never a
// delivery failure.
func (s *Service) ReconcileWebhook(ctx context.Context, event *fulfillment.WebhookEvent) (*ReconcileResult, error) {
	result := &ReconcileResult{EventType: event.Type.String()}

	if event.Data.Order == nil || event.Data.Order.ExternalID == "" {
		s.logger.Warn("Webhook event carries no order reference",
			zap.String("event_type", event.Type.String()))
		result.Message = "no order reference in event"
		return result, nil
	}

	externalID := event.Data.Order.ExternalID
	result.OrderID = externalID

	orderID, err := uuid.Parse(externalID)
	if err != nil {
		s.logger.Warn("Webhook references a malformed local order id",
			zap.String("event_type", event.Type.String()),
			zap.String("external_id", externalID))
		result.Message = "malformed local order id"
		return result, nil
	}

	localStatus := event.Type.LocalStatus()
	if localStatus == "" {
		result.Message = "event type carries no order status"
		return result, nil
	}

	// dedupe is keyed by (order, event type) so out-of-order distinct events
	// still land while redeliveries collapse
	dedupeKey := externalID + ":" + event.Type.String()
	processed, err := s.dedupe.IsProcessed(ctx, dedupeKey)
	if err != nil {
		return nil, err
	}
	if processed {
		s.logger.Info("Duplicate webhook delivery skipped",
			zap.String("event_type", event.Type.String()),
			zap.String("order_id", externalID))
		result.Message = "duplicate delivery"
		return result, nil
	}

	patch := order.Metadata{
		order.MetaFulfillmentStatus:      localStatus,
		order.MetaFulfillmentLastWebhook: event.Type.String(),
		order.MetaFulfillmentLastUpdate:  time.Now().UTC().Format(time.RFC3339),
	}
	if event.Type == fulfillment.WebhookPackageShipped && event.Data.Shipment != nil {
		shipment := event.Data.Shipment
		patch[order.MetaFulfillmentTrackingNumber] = shipment.TrackingNumber
		patch[order.MetaFulfillmentTrackingURL] = shipment.TrackingURL
		patch[order.MetaFulfillmentCarrier] = shipment.Carrier
	}

	if err := s.orders.MergeMetadata(ctx, orderID, patch); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Webhook references an unknown local order",
				zap.String("event_type", event.Type.String()),
				zap.String("order_id", externalID))
			result.Message = "local order not found"
			return result, nil
		}
		return nil, err
	}

	// mark only after the merge landed so a transient store failure gets the
	// event again on redelivery
	if _, err := s.dedupe.MarkProcessed(ctx, dedupeKey, s.dedupeTTL); err != nil {
		s.logger.Warn("Failed to record webhook delivery for dedupe",
			zap.String("event_type", event.Type.String()),
			zap.String("order_id", externalID),
			zap.Error(err))
	}

	s.logger.Info("Reconciled webhook event into local metadata",
		zap.String("event_type", event.Type.String()),
		zap.String("order_id", externalID),
		zap.String("status", localStatus))

	result.Applied = true
	return result, nil
}

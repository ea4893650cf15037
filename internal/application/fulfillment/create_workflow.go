package fulfillment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/fulfillment"
	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
)

// FulfillOrder runs the creation saga for one local order:
//
//  1. create the remote order (short-circuiting when the order is already
//     linked),
//  2. link the local order by merging the three linkage keys into metadata,
//  3. optionally confirm for production.
//
// Step 2 failing compensates step 1 by canceling the remote order; step 3
// failing never rolls anything back, a created-but-unconfirmed order is a
// valid end state. A per-order lock keeps concurrent invocations for the same
// order down to one, and the conditional link closes the remaining window:
// losing the link race also cancels the duplicate remote order.
func (s *Service) FulfillOrder(ctx context.Context, cmd FulfillOrderCommand) (*FulfillOrderResult, error) {
	lockKey := cmd.OrderID.String()
	acquired, err := s.locker.TryLock(ctx, lockKey, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire order lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: fulfillment already in flight for order %s", shared.ErrLocked, cmd.OrderID)
	}
	defer func() {
		if err := s.locker.Unlock(ctx, lockKey); err != nil {
			s.logger.Warn("Failed to release order lock",
				zap.String("order_id", lockKey), zap.Error(err))
		}
	}()

	o, err := s.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	// idempotent short-circuit: re-invoking for a linked order is always safe
	if remoteID, linked := o.FulfillmentOrderID(); linked {
		s.logger.Info("Order already linked to a remote fulfillment order",
			zap.String("order_id", lockKey),
			zap.String("remote_order_id", remoteID))
		return &FulfillOrderResult{
			OrderID:       lockKey,
			RemoteOrderID: remoteID,
			AlreadyLinked: true,
		}, nil
	}

	req, err := fulfillment.MapOrder(o)
	if err != nil {
		return nil, err
	}

	remote, err := s.provider.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Created remote fulfillment order",
		zap.String("order_id", lockKey),
		zap.Int64("remote_order_id", remote.ID),
		zap.String("status", remote.Status.String()))

	patch := order.Metadata{
		order.MetaFulfillmentOrderID:    strconv.FormatInt(remote.ID, 10),
		order.MetaFulfillmentExternalID: remote.ExternalID,
		order.MetaFulfillmentCreatedAt:  time.Unix(remote.Created, 0).UTC().Format(time.RFC3339),
	}

	won, err := s.orders.LinkFulfillment(ctx, cmd.OrderID, patch)
	if err != nil {
		s.compensateCreate(ctx, remote.ID, lockKey)
		return nil, fmt.Errorf("failed to link fulfillment order: %w", err)
	}
	if !won {
		// another writer linked the order between our check and the merge:
		// this remote order is a duplicate
		s.compensateCreate(ctx, remote.ID, lockKey)
		linked, err := s.orders.FindByID(ctx, cmd.OrderID)
		if err != nil {
			return nil, err
		}
		remoteID, _ := linked.FulfillmentOrderID()
		return &FulfillOrderResult{
			OrderID:       lockKey,
			RemoteOrderID: remoteID,
			AlreadyLinked: true,
		}, nil
	}

	result := &FulfillOrderResult{
		OrderID:       lockKey,
		RemoteOrderID: strconv.FormatInt(remote.ID, 10),
		ExternalID:    remote.ExternalID,
		Status:        remote.Status,
	}

	if cmd.Confirm {
		confirmed, err := s.provider.ConfirmOrder(ctx, remote.ID)
		if err != nil {
			// accepted recoverable end state, not a saga failure
			s.logger.Warn("Failed to confirm remote fulfillment order",
				zap.String("order_id", lockKey),
				zap.Int64("remote_order_id", remote.ID),
				zap.Error(err))
			result.ConfirmError = err.Error()
			return result, nil
		}

		result.Confirmed = true
		result.Status = confirmed.Status
		if err := s.orders.MergeMetadata(ctx, cmd.OrderID, order.Metadata{
			order.MetaFulfillmentStatus: confirmed.Status.String(),
		}); err != nil {
			s.logger.Warn("Failed to cache confirmed status",
				zap.String("order_id", lockKey), zap.Error(err))
		}
	}

	return result, nil
}

// CancelFulfillment undoes a completed fulfillment: it cancels the linked
// remote order and removes the linkage keys (plus the cached status) from the
// local order's metadata, leaving unrelated metadata untouched. The order can
// be fulfilled again afterwards.
func (s *Service) CancelFulfillment(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	remoteID, linked := o.FulfillmentOrderID()
	if !linked {
		return fulfillment.ErrOrderNotLinked
	}

	id, err := parseRemoteOrderID(remoteID)
	if err != nil {
		return err
	}

	if err := s.provider.CancelOrder(ctx, id); err != nil {
		return err
	}

	keys := append(order.LinkageKeys(), order.MetaFulfillmentStatus)
	if err := s.orders.RemoveMetadataKeys(ctx, orderID, keys); err != nil {
		return fmt.Errorf("failed to unlink fulfillment order: %w", err)
	}

	s.logger.Info("Canceled fulfillment and unlinked order",
		zap.String("order_id", orderID.String()),
		zap.String("remote_order_id", remoteID))
	return nil
}

// compensateCreate best-effort cancels a remote order created by a saga run
// that could not complete. Failures are logged, never escalated, and the saga
// does not retry compensations.
func (s *Service) compensateCreate(ctx context.Context, remoteID int64, orderID string) {
	if err := s.provider.CancelOrder(ctx, remoteID); err != nil {
		s.logger.Error("Compensation failed: remote fulfillment order left dangling",
			zap.String("order_id", orderID),
			zap.Int64("remote_order_id", remoteID),
			zap.Error(err))
		return
	}
	s.logger.Info("Compensated: canceled remote fulfillment order",
		zap.String("order_id", orderID),
		zap.Int64("remote_order_id", remoteID))
}

func parseRemoteOrderID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed remote order id %q", shared.ErrInvalidInput, s)
	}
	return id, nil
}

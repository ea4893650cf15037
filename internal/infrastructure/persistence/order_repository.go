package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printshop/backend/internal/domain/order"
	"github.com/printshop/backend/internal/domain/shared"
)

// metadataUpdateRetries bounds the optimistic-lock retry loop. Conflicts are
// rare (the workflow and the webhook path touching the same order at once),
// so a handful of retries is enough.
const metadataUpdateRetries = 5

// GormOrderRepository implements order.Repository using GORM.
//
// Metadata writes never overwrite the whole map blindly: each update reads
// the current row, applies the merge in memory and writes back guarded by
// the version column, so concurrent writers of unrelated keys both land.
type GormOrderRepository struct {
	db *gorm.DB
}

var _ order.Repository = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// List returns a page of orders, newest first, plus the total count
func (r *GormOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]order.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []order.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save inserts or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(o).Error
}

// MergeMetadata merges patch onto the order's existing metadata
func (r *GormOrderRepository) MergeMetadata(ctx context.Context, id uuid.UUID, patch order.Metadata) error {
	return r.updateMetadata(ctx, id, func(current order.Metadata) (order.Metadata, error) {
		return current.Merged(patch), nil
	})
}

// RemoveMetadataKeys removes exactly the given keys from metadata
func (r *GormOrderRepository) RemoveMetadataKeys(ctx context.Context, id uuid.UUID, keys []string) error {
	return r.updateMetadata(ctx, id, func(current order.Metadata) (order.Metadata, error) {
		return current.Without(keys...), nil
	})
}

// LinkFulfillment atomically writes the linkage patch if and only if the
// order is not already linked. Returns true when this call won the link.
func (r *GormOrderRepository) LinkFulfillment(ctx context.Context, id uuid.UUID, patch order.Metadata) (bool, error) {
	err := r.updateMetadata(ctx, id, func(current order.Metadata) (order.Metadata, error) {
		if s, ok := current[order.MetaFulfillmentOrderID].(string); ok && s != "" {
			return nil, errAlreadyLinked
		}
		return current.Merged(patch), nil
	})
	if errors.Is(err, errAlreadyLinked) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// errAlreadyLinked aborts the metadata update loop without writing
var errAlreadyLinked = errors.New("persistence: order already linked")

// updateMetadata runs a read-modify-write on the metadata column guarded by
// the version counter. Lost races reload and retry; persistent contention
// surfaces as shared.ErrConcurrencyConflict.
func (r *GormOrderRepository) updateMetadata(ctx context.Context, id uuid.UUID, apply func(order.Metadata) (order.Metadata, error)) error {
	for attempt := 0; attempt < metadataUpdateRetries; attempt++ {
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}

		next, err := apply(current.Metadata)
		if err != nil {
			return err
		}

		res := r.db.WithContext(ctx).
			Model(&order.Order{}).
			Where("id = ? AND version = ?", id, current.Version).
			Updates(map[string]any{
				"metadata": next,
				"version":  current.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}
		// version moved under us, reload and retry
	}
	return shared.ErrConcurrencyConflict
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shipshape/backend/internal/domain/outgoing"
	"github.com/shipshape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOutgoingRepository implements outgoing.Repository using GORM
type GormOutgoingRepository struct {
	db *gorm.DB
}

// NewGormOutgoingRepository creates a new GormOutgoingRepository
func NewGormOutgoingRepository(db *gorm.DB) *GormOutgoingRepository {
	return &GormOutgoingRepository{db: db}
}

// FindByID finds an outgoing delivery with its item snapshots
func (r *GormOutgoingRepository) FindByID(ctx context.Context, id uuid.UUID) (*outgoing.OutgoingDelivery, error) {
	var o outgoing.OutgoingDelivery
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindBySupplier finds outgoing deliveries dispatched by a supplier, items not loaded
func (r *GormOutgoingRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]outgoing.OutgoingDelivery, error) {
	query := r.db.WithContext(ctx).Model(&outgoing.OutgoingDelivery{}).
		Where("supplier_id = ?", supplierID)
	query = applyStatusFilter(query, filter)
	query = applyFilter(query, filter, "created_at DESC")

	var deliveries []outgoing.OutgoingDelivery
	if err := query.Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// FindByRestaurant finds outgoing deliveries headed to a restaurant, items not loaded
func (r *GormOutgoingRepository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]outgoing.OutgoingDelivery, error) {
	query := r.db.WithContext(ctx).Model(&outgoing.OutgoingDelivery{}).
		Where("restaurant_id = ?", restaurantID)
	query = applyStatusFilter(query, filter)
	query = applyFilter(query, filter, "created_at DESC")

	var deliveries []outgoing.OutgoingDelivery
	if err := query.Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// CreateHeader inserts the outgoing delivery row without its items
func (r *GormOutgoingRepository) CreateHeader(ctx context.Context, o *outgoing.OutgoingDelivery) error {
	return r.db.WithContext(ctx).Omit("Items").Create(o).Error
}

// CreateItems inserts the item snapshots for an already created header
func (r *GormOutgoingRepository) CreateItems(ctx context.Context, o *outgoing.OutgoingDelivery) error {
	if len(o.Items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&o.Items).Error
}

// DeleteHeader removes the outgoing delivery row, used to compensate a
// failed item insert
func (r *GormOutgoingRepository) DeleteHeader(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&outgoing.OutgoingDelivery{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Save updates the outgoing delivery header. Items are immutable after creation.
func (r *GormOutgoingRepository) Save(ctx context.Context, o *outgoing.OutgoingDelivery) error {
	return r.db.WithContext(ctx).Omit("Items").Save(o).Error
}

var _ outgoing.Repository = (*GormOutgoingRepository)(nil)

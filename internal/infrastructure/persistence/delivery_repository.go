package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shipshape/backend/internal/domain/delivery"
	"github.com/shipshape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDeliveryRepository implements delivery.Repository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID finds a delivery with its items, items in scan order
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.Delivery, error) {
	var d delivery.Delivery
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("source_page ASC, source_line ASC")
		}).
		First(&d, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByRestaurant finds deliveries belonging to a restaurant, items not loaded
func (r *GormDeliveryRepository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]delivery.Delivery, error) {
	query := r.db.WithContext(ctx).Model(&delivery.Delivery{}).
		Where("restaurant_id = ?", restaurantID)
	query = applyStatusFilter(query, filter)
	query = applyFilter(query, filter, "delivery_date DESC, created_at DESC")

	var deliveries []delivery.Delivery
	if err := query.Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// FindBySupplier finds deliveries bound to a supplier, items not loaded
func (r *GormDeliveryRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]delivery.Delivery, error) {
	query := r.db.WithContext(ctx).Model(&delivery.Delivery{}).
		Where("supplier_id = ?", supplierID)
	query = applyStatusFilter(query, filter)
	query = applyFilter(query, filter, "delivery_date DESC, created_at DESC")

	var deliveries []delivery.Delivery
	if err := query.Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// CountByRestaurant counts deliveries belonging to a restaurant
func (r *GormDeliveryRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&delivery.Delivery{}).
		Where("restaurant_id = ?", restaurantID)
	query = applyStatusFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySupplier counts deliveries bound to a supplier
func (r *GormDeliveryRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&delivery.Delivery{}).
		Where("supplier_id = ?", supplierID)
	query = applyStatusFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save upserts the delivery header and replaces its item collection.
// Both steps are idempotent so a failed save is safe to retry.
func (r *GormDeliveryRepository) Save(ctx context.Context, d *delivery.Delivery) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(d).Error; err != nil {
			return err
		}
		if err := tx.Where("delivery_id = ?", d.ID).Delete(&delivery.Item{}).Error; err != nil {
			return err
		}
		if len(d.Items) == 0 {
			return nil
		}
		return tx.Create(&d.Items).Error
	})
}

// Delete removes a delivery and its items
func (r *GormDeliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delivery_id = ?", id).Delete(&delivery.Item{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&delivery.Delivery{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ delivery.Repository = (*GormDeliveryRepository)(nil)

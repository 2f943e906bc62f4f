package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shipshape/backend/internal/domain/report"
	"github.com/shipshape/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FindByID finds a report with its item snapshots
func (r *GormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&rep, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// FindByDelivery finds reports created from a delivery
func (r *GormReportRepository) FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]report.Report, error) {
	var reports []report.Report
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("delivery_id = ?", deliveryID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// FindBySupplier finds reports addressed to a supplier, items not loaded
func (r *GormReportRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]report.Report, error) {
	query := r.db.WithContext(ctx).Model(&report.Report{}).
		Where("supplier_id = ?", supplierID)
	query = applyStatusFilter(query, filter)
	query = applyFilter(query, filter, "created_at DESC")

	var reports []report.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// FindByRestaurant finds reports raised by a restaurant, items not loaded
func (r *GormReportRepository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]report.Report, error) {
	query := r.db.WithContext(ctx).Model(&report.Report{}).
		Where("restaurant_id = ?", restaurantID)
	query = applyStatusFilter(query, filter)
	query = applyFilter(query, filter, "created_at DESC")

	var reports []report.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// ExistsForDelivery reports whether a missing-items report already exists for a delivery
func (r *GormReportRepository) ExistsForDelivery(ctx context.Context, deliveryID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&report.Report{}).
		Where("delivery_id = ?", deliveryID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save upserts the report header. Item snapshots are immutable after
// creation, so inserts that conflict on id are skipped.
func (r *GormReportRepository) Save(ctx context.Context, rep *report.Report) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(rep).Error; err != nil {
			return err
		}
		if len(rep.Items) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rep.Items).Error
	})
}

var _ report.Repository = (*GormReportRepository)(nil)

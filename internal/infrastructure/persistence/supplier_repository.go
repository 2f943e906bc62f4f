package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shipshape/backend/internal/domain/partner"
	"github.com/shipshape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	var s partner.Supplier
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Search finds suppliers whose name matches the query, wholesale and
// high-priority suppliers first
func (r *GormSupplierRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]partner.Supplier, error) {
	q := r.db.WithContext(ctx).Model(&partner.Supplier{})
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(name) LIKE ?", pattern)
	}
	q = applyFilter(q, filter, "priority DESC, name ASC")

	var suppliers []partner.Supplier
	if err := q.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Create inserts a new supplier
func (r *GormSupplierRepository) Create(ctx context.Context, s *partner.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Save updates an existing supplier
func (r *GormSupplierRepository) Save(ctx context.Context, s *partner.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)

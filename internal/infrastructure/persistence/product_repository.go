package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shipshape/backend/internal/domain/partner"
	"github.com/shipshape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements partner.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Search finds one supplier's catalog entries matching the query, by name
func (r *GormProductRepository) Search(ctx context.Context, supplierID uuid.UUID, query string, filter shared.Filter) ([]partner.Product, error) {
	q := r.db.WithContext(ctx).Model(&partner.Product{}).
		Where("supplier_id = ?", supplierID)
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(name) LIKE ?", pattern)
	}
	q = applyFilter(q, filter, "name ASC")

	var products []partner.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a new catalog entry
func (r *GormProductRepository) Create(ctx context.Context, p *partner.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

var _ partner.ProductRepository = (*GormProductRepository)(nil)

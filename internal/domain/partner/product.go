package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Product is one catalog entry a supplier offers. The catalog is
// read-only browse data; ordering happens outside this system.
type Product struct {
	shared.BaseEntity
	SupplierID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name       string           `gorm:"type:varchar(200);not null"`
	Code       string           `gorm:"type:varchar(60)"`
	Price      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ImageURL   string           `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "supplier_products"
}

// NewProduct creates a catalog entry. Price is optional; a nil price is
// shown as "price not available".
func NewProduct(supplierID uuid.UUID, name, code string, price *decimal.Decimal, imageURL string) (*Product, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product requires a supplier")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if price != nil && price.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product price cannot be negative")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		SupplierID: supplierID,
		Name:       name,
		Code:       code,
		Price:      price,
		ImageURL:   imageURL,
	}, nil
}

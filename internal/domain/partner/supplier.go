package partner

import (
	"strings"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Supplier is a directory entry restaurants browse when connecting.
// Priority orders search results; wholesale suppliers are highlighted.
type Supplier struct {
	shared.BaseEntity
	Name         string `gorm:"type:varchar(200);not null;index"`
	ContactEmail string `gorm:"type:varchar(200)"`
	ContactPhone string `gorm:"type:varchar(40)"`
	IsWholesale  bool   `gorm:"not null;default:false"`
	Priority     int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a supplier directory entry
func NewSupplier(name, contactEmail, contactPhone string, wholesale bool, priority int) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	return &Supplier{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		ContactEmail: contactEmail,
		ContactPhone: contactPhone,
		IsWholesale:  wholesale,
		Priority:     priority,
	}, nil
}

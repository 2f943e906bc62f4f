package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/shipshape/backend/internal/domain/shared"
)

// SupplierRepository persists the supplier directory
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	Search(ctx context.Context, query string, filter shared.Filter) ([]Supplier, error)
	Create(ctx context.Context, s *Supplier) error
	Save(ctx context.Context, s *Supplier) error
}

// ProductRepository persists supplier catalog entries
type ProductRepository interface {
	Search(ctx context.Context, supplierID uuid.UUID, query string, filter shared.Filter) ([]Product, error)
	Create(ctx context.Context, p *Product) error
}

// ConnectionRequestRepository persists connection requests.
// FindActiveBetween returns the pending or accepted request linking the two
// parties in either direction, or nil when none exists.
type ConnectionRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ConnectionRequest, error)
	FindActiveBetween(ctx context.Context, a, b uuid.UUID) (*ConnectionRequest, error)
	ListByReceiver(ctx context.Context, receiverID uuid.UUID, filter shared.Filter) ([]ConnectionRequest, error)
	ListBySender(ctx context.Context, senderID uuid.UUID, filter shared.Filter) ([]ConnectionRequest, error)
	Create(ctx context.Context, r *ConnectionRequest) error
	Save(ctx context.Context, r *ConnectionRequest) error
}

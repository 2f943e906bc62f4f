package outgoing

import (
	"context"

	"github.com/google/uuid"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Repository persists outgoing deliveries. CreateHeader and CreateItems are
// separate steps so the commit workflow can delete the header when item
// creation fails (the compensating rollback); Save covers subsequent
// transitions.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OutgoingDelivery, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]OutgoingDelivery, error)
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]OutgoingDelivery, error)
	CreateHeader(ctx context.Context, o *OutgoingDelivery) error
	CreateItems(ctx context.Context, o *OutgoingDelivery) error
	DeleteHeader(ctx context.Context, id uuid.UUID) error
	Save(ctx context.Context, o *OutgoingDelivery) error
}

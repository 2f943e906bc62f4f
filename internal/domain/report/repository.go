package report

import (
	"context"

	"github.com/google/uuid"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Repository persists missing-items reports with their item snapshots
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Report, error)
	FindByDelivery(ctx context.Context, deliveryID uuid.UUID) ([]Report, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]Report, error)
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]Report, error)
	ExistsForDelivery(ctx context.Context, deliveryID uuid.UUID) (bool, error)
	Save(ctx context.Context, r *Report) error
}

package delivery

import (
	"context"

	"github.com/google/uuid"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Repository persists deliveries. Save upserts the header by id and then
// replaces the item collection wholesale (delete by delivery id, reinsert
// the current set); both steps are idempotent so a failed save is safe to
// retry with the same payload.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Delivery, error)
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) ([]Delivery, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]Delivery, error)
	CountByRestaurant(ctx context.Context, restaurantID uuid.UUID, filter shared.Filter) (int64, error)
	CountBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, d *Delivery) error
	Delete(ctx context.Context, id uuid.UUID) error
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shipshape/backend/internal/domain/partner"
	"github.com/shipshape/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormConnectionRequestRepository implements partner.ConnectionRequestRepository using GORM
type GormConnectionRequestRepository struct {
	db *gorm.DB
}

// NewGormConnectionRequestRepository creates a new GormConnectionRequestRepository
func NewGormConnectionRequestRepository(db *gorm.DB) *GormConnectionRequestRepository {
	return &GormConnectionRequestRepository{db: db}
}

// FindByID finds a connection request by its ID
func (r *GormConnectionRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.ConnectionRequest, error) {
	var req partner.ConnectionRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindActiveBetween returns the pending or accepted request linking the two
// parties in either direction, or nil when none exists
func (r *GormConnectionRequestRepository) FindActiveBetween(ctx context.Context, a, b uuid.UUID) (*partner.ConnectionRequest, error) {
	var req partner.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("status IN ?", []partner.RequestStatus{partner.RequestPending, partner.RequestAccepted}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// ListByReceiver lists requests addressed to a party, newest first
func (r *GormConnectionRequestRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID, filter shared.Filter) ([]partner.ConnectionRequest, error) {
	query := r.db.WithContext(ctx).Model(&partner.ConnectionRequest{}).
		Where("receiver_id = ?", receiverID)
	query = applyStatusFilter(query, filter)
	query = applyFilter(query, filter, "created_at DESC")

	var requests []partner.ConnectionRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListBySender lists requests sent by a party, newest first
func (r *GormConnectionRequestRepository) ListBySender(ctx context.Context, senderID uuid.UUID, filter shared.Filter) ([]partner.ConnectionRequest, error) {
	query := r.db.WithContext(ctx).Model(&partner.ConnectionRequest{}).
		Where("sender_id = ?", senderID)
	query = applyStatusFilter(query, filter)
	query = applyFilter(query, filter, "created_at DESC")

	var requests []partner.ConnectionRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Create inserts a new connection request
func (r *GormConnectionRequestRepository) Create(ctx context.Context, req *partner.ConnectionRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// Save updates an existing connection request
func (r *GormConnectionRequestRepository) Save(ctx context.Context, req *partner.ConnectionRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

var _ partner.ConnectionRequestRepository = (*GormConnectionRequestRepository)(nil)

package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/partner"
)

// ==================== Partner DTOs ====================

// SendConnectionRequest asks another party for a connection
type SendConnectionRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
	Message    string    `json:"message" binding:"max=500"`
}

// SupplierSearchFilter represents filter options for the supplier directory
type SupplierSearchFilter struct {
	Query    string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SupplierResponse represents one directory entry, annotated with the
// caller's connection status
type SupplierResponse struct {
	ID               uuid.UUID                `json:"id"`
	Name             string                   `json:"name"`
	ContactEmail     string                   `json:"contact_email,omitempty"`
	ContactPhone     string                   `json:"contact_phone,omitempty"`
	IsWholesale      bool                     `json:"is_wholesale"`
	Priority         int                      `json:"priority"`
	ConnectionStatus partner.ConnectionStatus `json:"connection_status"`
}

// ProductSearchFilter represents filter options for a supplier's catalog
type ProductSearchFilter struct {
	Query    string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ProductResponse represents one catalog entry. A nil price renders as
// "price not available" in clients.
type ProductResponse struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Code     string           `json:"code,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	ImageURL string           `json:"image_url,omitempty"`
}

// ToProductResponses converts a slice of catalog entries
func ToProductResponses(products []partner.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ProductResponse{
			ID:       p.ID,
			Name:     p.Name,
			Code:     p.Code,
			Price:    p.Price,
			ImageURL: p.ImageURL,
		}
	}
	return responses
}

// ConnectionRequestResponse represents a connection request in API responses
type ConnectionRequestResponse struct {
	ID           uuid.UUID             `json:"id"`
	SenderID     uuid.UUID             `json:"sender_id"`
	SenderRole   identity.Role         `json:"sender_role"`
	ReceiverID   uuid.UUID             `json:"receiver_id"`
	ReceiverRole identity.Role         `json:"receiver_role"`
	Status       partner.RequestStatus `json:"status"`
	Message      string                `json:"message,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToConnectionRequestResponse converts a domain request to a response
func ToConnectionRequestResponse(r *partner.ConnectionRequest) ConnectionRequestResponse {
	return ConnectionRequestResponse{
		ID:           r.ID,
		SenderID:     r.SenderID,
		SenderRole:   r.SenderRole,
		ReceiverID:   r.ReceiverID,
		ReceiverRole: r.ReceiverRole,
		Status:       r.Status,
		Message:      r.Message,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ToConnectionRequestResponses converts a slice of requests
func ToConnectionRequestResponses(requests []partner.ConnectionRequest) []ConnectionRequestResponse {
	responses := make([]ConnectionRequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToConnectionRequestResponse(&requests[i])
	}
	return responses
}

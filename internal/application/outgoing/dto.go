package outgoing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/outgoing"
)

// ==================== Outgoing Delivery DTOs ====================

// CreateOutgoingItemInput selects one report line and the quantity to ship
type CreateOutgoingItemInput struct {
	ReportItemID uuid.UUID       `json:"report_item_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateOutgoingRequest creates a compensating shipment from a report
type CreateOutgoingRequest struct {
	ReportID              uuid.UUID                 `json:"report_id" binding:"required"`
	Items                 []CreateOutgoingItemInput `json:"items" binding:"required,min=1"`
	EstimatedDeliveryDate *time.Time                `json:"estimated_delivery_date"`
	Notes                 string                    `json:"notes" binding:"max=1000"`
}

// DeliveredRequest optionally overrides the arrival date
type DeliveredRequest struct {
	ActualDeliveryDate *time.Time `json:"actual_delivery_date"`
}

// DisputeOutgoingRequest contests a delivered shipment
type DisputeOutgoingRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=1000"`
}

// OutgoingListFilter represents filter options for the outgoing list
type OutgoingListFilter struct {
	Status   *outgoing.Status `form:"status"`
	Page     int              `form:"page"`
	PageSize int              `form:"page_size"`
}

// OutgoingItemResponse represents one shipped line in API responses
type OutgoingItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	OriginalItemID *uuid.UUID      `json:"original_item_id,omitempty"`
	Name           string          `json:"name"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	PricePerUnit   decimal.Decimal `json:"price_per_unit"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// OutgoingResponse represents an outgoing delivery in API responses
type OutgoingResponse struct {
	ID                    uuid.UUID              `json:"id"`
	SupplierID            uuid.UUID              `json:"supplier_id"`
	RestaurantID          uuid.UUID              `json:"restaurant_id"`
	OriginalDeliveryID    *uuid.UUID             `json:"original_delivery_id,omitempty"`
	OriginalReportID      *uuid.UUID             `json:"original_report_id,omitempty"`
	Status                outgoing.Status        `json:"status"`
	EstimatedDeliveryDate *time.Time             `json:"estimated_delivery_date,omitempty"`
	ActualDeliveryDate    *time.Time             `json:"actual_delivery_date,omitempty"`
	Notes                 string                 `json:"notes,omitempty"`
	DisputeReason         string                 `json:"dispute_reason,omitempty"`
	TotalValue            decimal.Decimal        `json:"total_value"`
	ItemsCount            int                    `json:"items_count"`
	LastActionBy          *uuid.UUID             `json:"last_action_by,omitempty"`
	Items                 []OutgoingItemResponse `json:"items,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
	UpdatedAt             time.Time              `json:"updated_at"`
}

// CreateOutgoingResponse is the commit outcome. ReportResolved is false with
// a warning when the shipment was created but the source report could not be
// settled.
type CreateOutgoingResponse struct {
	Outgoing       OutgoingResponse `json:"outgoing"`
	ReportResolved bool             `json:"report_resolved"`
	Warning        string           `json:"warning,omitempty"`
}

// ToOutgoingResponse converts a domain outgoing delivery to a response
func ToOutgoingResponse(o *outgoing.OutgoingDelivery) OutgoingResponse {
	items := make([]OutgoingItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OutgoingItemResponse{
			ID:             item.ID,
			OriginalItemID: item.OriginalItemID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			Unit:           item.Unit,
			PricePerUnit:   item.PricePerUnit,
			TotalPrice:     item.TotalPrice,
		}
	}
	return OutgoingResponse{
		ID:                    o.ID,
		SupplierID:            o.SupplierID,
		RestaurantID:          o.RestaurantID,
		OriginalDeliveryID:    o.OriginalDeliveryID,
		OriginalReportID:      o.OriginalReportID,
		Status:                o.Status,
		EstimatedDeliveryDate: o.EstimatedDeliveryDate,
		ActualDeliveryDate:    o.ActualDeliveryDate,
		Notes:                 o.Notes,
		DisputeReason:         o.DisputeReason,
		TotalValue:            o.TotalValue,
		ItemsCount:            o.ItemsCount,
		LastActionBy:          o.LastActionBy,
		Items:                 items,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
}

// ToOutgoingResponses converts a slice of outgoing deliveries, omitting items
func ToOutgoingResponses(deliveries []outgoing.OutgoingDelivery) []OutgoingResponse {
	responses := make([]OutgoingResponse, len(deliveries))
	for i := range deliveries {
		r := ToOutgoingResponse(&deliveries[i])
		r.Items = nil
		responses[i] = r
	}
	return responses
}

package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/delivery"
)

// ==================== Delivery DTOs ====================

// CreateDeliveryItemInput represents one expected line on a new delivery
type CreateDeliveryItemInput struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit" binding:"max=20"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	SourcePage   int             `json:"source_page"`
	SourceLine   int             `json:"source_line"`
}

// CreateDeliveryRequest represents a request to create a draft delivery
type CreateDeliveryRequest struct {
	SupplierID      *uuid.UUID                `json:"supplier_id"`
	SupplierName    string                    `json:"supplier_name" binding:"max=200"`
	DeliveryDate    time.Time                 `json:"delivery_date"`
	OrderNumber     string                    `json:"order_number" binding:"max=100"`
	ReceiptImageKey string                    `json:"receipt_image_key" binding:"max=500"`
	Items           []CreateDeliveryItemInput `json:"items"`
}

// MarkItemMissingRequest carries the shortfall quantity for one item
type MarkItemMissingRequest struct {
	MissingQuantity decimal.Decimal `json:"missing_quantity" binding:"required"`
}

// FinalizeDeliveryRequest selects the target status for finalization
type FinalizeDeliveryRequest struct {
	Status delivery.Status `json:"status" binding:"required"`
}

// DeliveryListFilter represents filter options for the delivery list
type DeliveryListFilter struct {
	Status   *delivery.Status `form:"status"`
	Search   string           `form:"search"`
	Page     int              `form:"page"`
	PageSize int              `form:"page_size"`
}

// DeliveryItemResponse represents one delivery item in API responses
type DeliveryItemResponse struct {
	ID               uuid.UUID           `json:"id"`
	Name             string              `json:"name"`
	Quantity         decimal.Decimal     `json:"quantity"`
	Unit             string              `json:"unit"`
	PricePerUnit     decimal.Decimal     `json:"price_per_unit"`
	TotalPrice       decimal.Decimal     `json:"total_price"`
	Status           delivery.ItemStatus `json:"status"`
	MissingQuantity  decimal.Decimal     `json:"missing_quantity"`
	ReceivedQuantity decimal.Decimal     `json:"received_quantity"`
	SourcePage       int                 `json:"source_page"`
	SourceLine       int                 `json:"source_line"`
}

// DeliveryResponse represents a delivery in API responses
type DeliveryResponse struct {
	ID              uuid.UUID              `json:"id"`
	RestaurantID    uuid.UUID              `json:"restaurant_id"`
	SupplierID      *uuid.UUID             `json:"supplier_id,omitempty"`
	SupplierName    string                 `json:"supplier_name"`
	DeliveryDate    time.Time              `json:"delivery_date"`
	OrderNumber     string                 `json:"order_number"`
	Status          delivery.Status        `json:"status"`
	TotalValue      decimal.Decimal        `json:"total_value"`
	MissingValue    decimal.Decimal        `json:"missing_value"`
	ReceiptImageKey string                 `json:"receipt_image_key,omitempty"`
	Items           []DeliveryItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// FinalizeDeliveryResponse is the outcome of finalization. ReportCreated is
// false with a warning when the delivery saved but report creation failed.
type FinalizeDeliveryResponse struct {
	Delivery      DeliveryResponse `json:"delivery"`
	ReportCreated bool             `json:"report_created"`
	ReportID      *uuid.UUID       `json:"report_id,omitempty"`
	Warning       string           `json:"warning,omitempty"`
}

// ToDeliveryItemResponse converts a domain item to a response
func ToDeliveryItemResponse(item *delivery.Item) DeliveryItemResponse {
	return DeliveryItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		Quantity:         item.Quantity,
		Unit:             item.Unit,
		PricePerUnit:     item.PricePerUnit,
		TotalPrice:       item.TotalPrice,
		Status:           item.Status,
		MissingQuantity:  item.MissingQuantity,
		ReceivedQuantity: item.ReceivedQuantity,
		SourcePage:       item.SourcePage,
		SourceLine:       item.SourceLine,
	}
}

// ToDeliveryResponse converts a domain delivery to a response
func ToDeliveryResponse(d *delivery.Delivery) DeliveryResponse {
	items := make([]DeliveryItemResponse, len(d.Items))
	for i := range d.Items {
		items[i] = ToDeliveryItemResponse(&d.Items[i])
	}
	return DeliveryResponse{
		ID:              d.ID,
		RestaurantID:    d.RestaurantID,
		SupplierID:      d.SupplierID,
		SupplierName:    d.SupplierName,
		DeliveryDate:    d.DeliveryDate,
		OrderNumber:     d.OrderNumber,
		Status:          d.Status,
		TotalValue:      d.TotalValue,
		MissingValue:    d.MissingValue,
		ReceiptImageKey: d.ReceiptImageKey,
		Items:           items,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToDeliveryResponses converts a slice of deliveries, omitting items
func ToDeliveryResponses(deliveries []delivery.Delivery) []DeliveryResponse {
	responses := make([]DeliveryResponse, len(deliveries))
	for i := range deliveries {
		r := ToDeliveryResponse(&deliveries[i])
		r.Items = nil
		responses[i] = r
	}
	return responses
}

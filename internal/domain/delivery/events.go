package delivery

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Event types for the delivery aggregate
const (
	EventTypeDeliveryFinalized = "delivery.finalized"
	EventTypeDeliveryResolved  = "delivery.resolved"
)

// MissingItemSnapshot captures a shortfall line at finalization time, used
// downstream to build the missing-items report
type MissingItemSnapshot struct {
	ItemID           uuid.UUID       `json:"item_id"`
	Name             string          `json:"name"`
	ExpectedQuantity decimal.Decimal `json:"expected_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	MissingQuantity  decimal.Decimal `json:"missing_quantity"`
	Unit             string          `json:"unit"`
	PricePerUnit     decimal.Decimal `json:"price_per_unit"`
}

// DeliveryFinalizedEvent is emitted when a delivery leaves draft state
type DeliveryFinalizedEvent struct {
	shared.BaseDomainEvent
	RestaurantID uuid.UUID             `json:"restaurant_id"`
	SupplierID   *uuid.UUID            `json:"supplier_id,omitempty"`
	SupplierName string                `json:"supplier_name"`
	DeliveryDate time.Time             `json:"delivery_date"`
	Status       Status                `json:"status"`
	MissingValue decimal.Decimal       `json:"missing_value"`
	MissingItems []MissingItemSnapshot `json:"missing_items,omitempty"`
}

// NewDeliveryFinalizedEvent creates a new DeliveryFinalizedEvent
func NewDeliveryFinalizedEvent(d *Delivery) *DeliveryFinalizedEvent {
	missing := d.MissingItems()
	snapshots := make([]MissingItemSnapshot, len(missing))
	for i, item := range missing {
		snapshots[i] = MissingItemSnapshot{
			ItemID:           item.ID,
			Name:             item.Name,
			ExpectedQuantity: item.Quantity,
			ReceivedQuantity: item.ReceivedQuantity,
			MissingQuantity:  item.MissingQuantity,
			Unit:             item.Unit,
			PricePerUnit:     item.PricePerUnit,
		}
	}

	return &DeliveryFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryFinalized, "Delivery", d.ID),
		RestaurantID:    d.RestaurantID,
		SupplierID:      d.SupplierID,
		SupplierName:    d.SupplierName,
		DeliveryDate:    d.DeliveryDate,
		Status:          d.Status,
		MissingValue:    d.MissingValue,
		MissingItems:    snapshots,
	}
}

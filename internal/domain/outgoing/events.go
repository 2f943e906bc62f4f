package outgoing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Event types for the outgoing-delivery aggregate
const (
	EventTypeOutgoingCreated   = "outgoing.created"
	EventTypeOutgoingInTransit = "outgoing.in_transit"
	EventTypeOutgoingDelivered = "outgoing.delivered"
	EventTypeOutgoingConfirmed = "outgoing.confirmed"
	EventTypeOutgoingDisputed  = "outgoing.disputed"
)

// OutgoingEvent carries the fields shared by all outgoing-delivery events
type OutgoingEvent struct {
	shared.BaseDomainEvent
	SupplierID   uuid.UUID `json:"supplier_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
}

func newOutgoingEvent(eventType string, o *OutgoingDelivery) OutgoingEvent {
	return OutgoingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "OutgoingDelivery", o.ID),
		SupplierID:      o.SupplierID,
		RestaurantID:    o.RestaurantID,
	}
}

// OutgoingCreatedEvent is emitted when the compensating shipment is committed
type OutgoingCreatedEvent struct {
	OutgoingEvent
	OriginalReportID      *uuid.UUID      `json:"original_report_id,omitempty"`
	EstimatedDeliveryDate *time.Time      `json:"estimated_delivery_date,omitempty"`
	TotalValue            decimal.Decimal `json:"total_value"`
	ItemsCount            int             `json:"items_count"`
}

// NewOutgoingCreatedEvent creates a new OutgoingCreatedEvent
func NewOutgoingCreatedEvent(o *OutgoingDelivery) *OutgoingCreatedEvent {
	return &OutgoingCreatedEvent{
		OutgoingEvent:         newOutgoingEvent(EventTypeOutgoingCreated, o),
		OriginalReportID:      o.OriginalReportID,
		EstimatedDeliveryDate: o.EstimatedDeliveryDate,
		TotalValue:            o.TotalValue,
		ItemsCount:            o.ItemsCount,
	}
}

// OutgoingInTransitEvent is emitted when the supplier dispatches
type OutgoingInTransitEvent struct {
	OutgoingEvent
}

// NewOutgoingInTransitEvent creates a new OutgoingInTransitEvent
func NewOutgoingInTransitEvent(o *OutgoingDelivery) *OutgoingInTransitEvent {
	return &OutgoingInTransitEvent{OutgoingEvent: newOutgoingEvent(EventTypeOutgoingInTransit, o)}
}

// OutgoingDeliveredEvent is emitted when the shipment arrives
type OutgoingDeliveredEvent struct {
	OutgoingEvent
	ActualDeliveryDate *time.Time `json:"actual_delivery_date,omitempty"`
}

// NewOutgoingDeliveredEvent creates a new OutgoingDeliveredEvent
func NewOutgoingDeliveredEvent(o *OutgoingDelivery) *OutgoingDeliveredEvent {
	return &OutgoingDeliveredEvent{
		OutgoingEvent:      newOutgoingEvent(EventTypeOutgoingDelivered, o),
		ActualDeliveryDate: o.ActualDeliveryDate,
	}
}

// OutgoingConfirmedEvent is emitted when the restaurant accepts
type OutgoingConfirmedEvent struct {
	OutgoingEvent
}

// NewOutgoingConfirmedEvent creates a new OutgoingConfirmedEvent
func NewOutgoingConfirmedEvent(o *OutgoingDelivery) *OutgoingConfirmedEvent {
	return &OutgoingConfirmedEvent{OutgoingEvent: newOutgoingEvent(EventTypeOutgoingConfirmed, o)}
}

// OutgoingDisputedEvent is emitted when the restaurant contests
type OutgoingDisputedEvent struct {
	OutgoingEvent
	Reason string `json:"reason"`
}

// NewOutgoingDisputedEvent creates a new OutgoingDisputedEvent
func NewOutgoingDisputedEvent(o *OutgoingDelivery) *OutgoingDisputedEvent {
	return &OutgoingDisputedEvent{
		OutgoingEvent: newOutgoingEvent(EventTypeOutgoingDisputed, o),
		Reason:        o.DisputeReason,
	}
}

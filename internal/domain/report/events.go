package report

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Event types for the report aggregate
const (
	EventTypeReportCreated      = "report.created"
	EventTypeReportAcknowledged = "report.acknowledged"
	EventTypeReportResolved     = "report.resolved"
	EventTypeReportDisputed     = "report.disputed"
)

// ReportCreatedEvent is emitted once, when the report is auto-generated
type ReportCreatedEvent struct {
	shared.BaseDomainEvent
	DeliveryID        *uuid.UUID      `json:"delivery_id,omitempty"`
	RestaurantID      uuid.UUID       `json:"restaurant_id"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	TotalMissingValue decimal.Decimal `json:"total_missing_value"`
	ItemsCount        int             `json:"items_count"`
}

// NewReportCreatedEvent creates a new ReportCreatedEvent
func NewReportCreatedEvent(r *Report) *ReportCreatedEvent {
	return &ReportCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeReportCreated, "MissingItemsReport", r.ID),
		DeliveryID:        r.DeliveryID,
		RestaurantID:      r.RestaurantID,
		SupplierID:        r.SupplierID,
		TotalMissingValue: r.TotalMissingValue,
		ItemsCount:        r.ItemsCount,
	}
}

// ReportAcknowledgedEvent is emitted when the supplier acknowledges
type ReportAcknowledgedEvent struct {
	shared.BaseDomainEvent
	RestaurantID uuid.UUID `json:"restaurant_id"`
	SupplierID   uuid.UUID `json:"supplier_id"`
}

// NewReportAcknowledgedEvent creates a new ReportAcknowledgedEvent
func NewReportAcknowledgedEvent(r *Report) *ReportAcknowledgedEvent {
	return &ReportAcknowledgedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportAcknowledged, "MissingItemsReport", r.ID),
		RestaurantID:    r.RestaurantID,
		SupplierID:      r.SupplierID,
	}
}

// ReportResolvedEvent is emitted on resolution, direct or via an outgoing
// delivery
type ReportResolvedEvent struct {
	shared.BaseDomainEvent
	RestaurantID   uuid.UUID      `json:"restaurant_id"`
	SupplierID     uuid.UUID      `json:"supplier_id"`
	ResolutionType ResolutionType `json:"resolution_type"`
	Note           string         `json:"note,omitempty"`
}

// NewReportResolvedEvent creates a new ReportResolvedEvent
func NewReportResolvedEvent(r *Report) *ReportResolvedEvent {
	resolution := ResolutionOther
	if r.ResolutionType != nil {
		resolution = *r.ResolutionType
	}
	return &ReportResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportResolved, "MissingItemsReport", r.ID),
		RestaurantID:    r.RestaurantID,
		SupplierID:      r.SupplierID,
		ResolutionType:  resolution,
		Note:            r.Notes,
	}
}

// ReportDisputedEvent is emitted when the supplier contests the report
type ReportDisputedEvent struct {
	shared.BaseDomainEvent
	RestaurantID uuid.UUID     `json:"restaurant_id"`
	SupplierID   uuid.UUID     `json:"supplier_id"`
	Reason       DisputeReason `json:"reason"`
	Details      string        `json:"details,omitempty"`
}

// NewReportDisputedEvent creates a new ReportDisputedEvent
func NewReportDisputedEvent(r *Report) *ReportDisputedEvent {
	reason := DisputeOther
	if r.DisputeReason != nil {
		reason = *r.DisputeReason
	}
	return &ReportDisputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportDisputed, "MissingItemsReport", r.ID),
		RestaurantID:    r.RestaurantID,
		SupplierID:      r.SupplierID,
		Reason:          reason,
		Details:         r.DisputeDetails,
	}
}

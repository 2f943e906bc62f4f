package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a missing-items report
type Status string

const (
	StatusPending      Status = "pending"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
	StatusDisputed     Status = "disputed"
)

// IsValid checks if the status is a known report status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAcknowledged, StatusResolved, StatusDisputed:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for resolved and disputed
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusDisputed
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusAcknowledged || target == StatusResolved || target == StatusDisputed
	case StatusAcknowledged:
		return target == StatusResolved || target == StatusDisputed
	}
	return false
}

// ResolutionType describes how the supplier settled the report
type ResolutionType string

const (
	ResolutionRedeliveryScheduled ResolutionType = "redelivery_scheduled"
	ResolutionCreditIssued        ResolutionType = "credit_issued"
	ResolutionOther               ResolutionType = "other"
)

// IsValid checks if the resolution type is known
func (r ResolutionType) IsValid() bool {
	switch r {
	case ResolutionRedeliveryScheduled, ResolutionCreditIssued, ResolutionOther:
		return true
	}
	return false
}

// DisputeReason describes why the supplier contests the report
type DisputeReason string

const (
	DisputeItemsDelivered      DisputeReason = "items_delivered"
	DisputeQuantitiesIncorrect DisputeReason = "quantities_incorrect"
	DisputeOther               DisputeReason = "other"
)

// IsValid checks if the dispute reason is known
func (r DisputeReason) IsValid() bool {
	switch r {
	case DisputeItemsDelivered, DisputeQuantitiesIncorrect, DisputeOther:
		return true
	}
	return false
}

// Item is a snapshot of one shortfall line, frozen at report creation
type Item struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReportID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	OriginalItemID    *uuid.UUID      `gorm:"type:uuid"`
	Name              string          `gorm:"type:varchar(200);not null"`
	ExpectedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MissingQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit              string          `gorm:"type:varchar(20)"`
	PricePerUnit      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalMissingValue decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt         time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "missing_items_report_items"
}

// ItemInput is the shortfall data used to build a report item snapshot
type ItemInput struct {
	OriginalItemID   *uuid.UUID
	Name             string
	ExpectedQuantity decimal.Decimal
	ReceivedQuantity decimal.Decimal
	MissingQuantity  decimal.Decimal
	Unit             string
	PricePerUnit     decimal.Decimal
}

// Report is the aggregate root for a supplier-facing missing-items claim,
// auto-generated exactly once from a delivery's shortfall. Only the supplier
// drives direct transitions; the restaurant is a notified observer.
type Report struct {
	shared.BaseAggregateRoot
	DeliveryID        *uuid.UUID      `gorm:"type:uuid;index"`
	RestaurantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status            Status          `gorm:"type:varchar(20);not null;default:'pending'"`
	TotalMissingValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ItemsCount        int             `gorm:"not null;default:0"`
	Notes             string          `gorm:"type:text"`
	ResolutionType    *ResolutionType `gorm:"type:varchar(30)"`
	DisputeReason     *DisputeReason  `gorm:"type:varchar(30)"`
	DisputeDetails    string          `gorm:"type:text"`
	LastActionBy      *uuid.UUID      `gorm:"type:uuid"`
	AcknowledgedAt    *time.Time
	ResolvedAt        *time.Time
	DisputedAt        *time.Time
	Items             []Item `gorm:"foreignKey:ReportID;references:ID"`
}

// TableName returns the table name for GORM
func (Report) TableName() string {
	return "missing_items_reports"
}

// New creates a pending report from the delivery's shortfall snapshot
func New(deliveryID, restaurantID, supplierID uuid.UUID, items []ItemInput) (*Report, error) {
	if restaurantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESTAURANT", "Restaurant ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Report requires at least one missing item")
	}

	r := &Report{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RestaurantID:      restaurantID,
		SupplierID:        supplierID,
		Status:            StatusPending,
		TotalMissingValue: decimal.Zero,
		Items:             make([]Item, 0, len(items)),
	}
	if deliveryID != uuid.Nil {
		r.DeliveryID = &deliveryID
	}

	for _, in := range items {
		if in.MissingQuantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Missing quantity for %q must be positive", in.Name))
		}
		lineValue := in.MissingQuantity.Mul(in.PricePerUnit)
		r.Items = append(r.Items, Item{
			ID:                uuid.New(),
			ReportID:          r.ID,
			OriginalItemID:    in.OriginalItemID,
			Name:              in.Name,
			ExpectedQuantity:  in.ExpectedQuantity,
			ReceivedQuantity:  in.ReceivedQuantity,
			MissingQuantity:   in.MissingQuantity,
			Unit:              in.Unit,
			PricePerUnit:      in.PricePerUnit,
			TotalMissingValue: lineValue,
			CreatedAt:         time.Now(),
		})
		r.TotalMissingValue = r.TotalMissingValue.Add(lineValue)
	}
	r.ItemsCount = len(r.Items)

	r.AddDomainEvent(NewReportCreatedEvent(r))
	return r, nil
}

// requireSupplier rejects any actor that is not the owning supplier
func (r *Report) requireSupplier(actor identity.Principal) error {
	if !actor.IsSupplier() || actor.ID != r.SupplierID {
		return shared.NewAuthorizationError("Only the owning supplier may act on this report")
	}
	return nil
}

// Acknowledge moves a pending report to acknowledged
func (r *Report) Acknowledge(actor identity.Principal) error {
	if err := r.requireSupplier(actor); err != nil {
		return err
	}
	if !r.Status.CanTransitionTo(StatusAcknowledged) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot acknowledge report in %s status", r.Status))
	}

	now := time.Now()
	r.Status = StatusAcknowledged
	r.AcknowledgedAt = &now
	r.LastActionBy = &actor.ID
	r.Touch()

	r.AddDomainEvent(NewReportAcknowledgedEvent(r))
	return nil
}

// Resolve settles the report with an explicit resolution type and optional note
func (r *Report) Resolve(actor identity.Principal, resolution ResolutionType, note string) error {
	if err := r.requireSupplier(actor); err != nil {
		return err
	}
	if !resolution.IsValid() {
		return shared.NewValidationError("Unknown resolution type %q", resolution)
	}
	return r.resolve(actor.ID, resolution, note)
}

// ResolveByOutgoingDelivery settles the report as a side effect of a
// compensating shipment, with an auto-generated note referencing the
// scheduled date
func (r *Report) ResolveByOutgoingDelivery(actorID uuid.UUID, estimatedDate *time.Time) error {
	note := "Resolved by outgoing delivery"
	if estimatedDate != nil {
		note = fmt.Sprintf("Resolved by outgoing delivery scheduled for %s", estimatedDate.Format("2006-01-02"))
	}
	return r.resolve(actorID, ResolutionRedeliveryScheduled, note)
}

func (r *Report) resolve(actorID uuid.UUID, resolution ResolutionType, note string) error {
	if !r.Status.CanTransitionTo(StatusResolved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot resolve report in %s status", r.Status))
	}

	now := time.Now()
	r.Status = StatusResolved
	r.ResolutionType = &resolution
	if note != "" {
		r.Notes = note
	}
	r.ResolvedAt = &now
	r.LastActionBy = &actorID
	r.Touch()

	r.AddDomainEvent(NewReportResolvedEvent(r))
	return nil
}

// Dispute contests the report with a required reason
func (r *Report) Dispute(actor identity.Principal, reason DisputeReason, details string) error {
	if err := r.requireSupplier(actor); err != nil {
		return err
	}
	if !reason.IsValid() {
		return shared.NewValidationError("Unknown dispute reason %q", reason)
	}
	if !r.Status.CanTransitionTo(StatusDisputed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot dispute report in %s status", r.Status))
	}

	now := time.Now()
	r.Status = StatusDisputed
	r.DisputeReason = &reason
	r.DisputeDetails = details
	r.DisputedAt = &now
	r.LastActionBy = &actor.ID
	r.Touch()

	r.AddDomainEvent(NewReportDisputedEvent(r))
	return nil
}

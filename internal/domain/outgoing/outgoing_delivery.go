package outgoing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/shared"
)

// Status represents the lifecycle status of an outgoing delivery
type Status string

const (
	StatusPending   Status = "pending"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusConfirmed Status = "confirmed"
	StatusDisputed  Status = "disputed"
)

// IsValid checks if the status is a known outgoing-delivery status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusConfirmed, StatusDisputed:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for confirmed and disputed
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusDisputed
}

// AllowedRole returns which party may drive the transition into target from
// this status. The supplier ships; the restaurant settles.
func (s Status) AllowedRole(target Status) (identity.Role, bool) {
	switch {
	case s == StatusPending && target == StatusInTransit:
		return identity.RoleSupplier, true
	case s == StatusInTransit && target == StatusDelivered:
		return identity.RoleSupplier, true
	case s == StatusDelivered && target == StatusConfirmed:
		return identity.RoleRestaurant, true
	case s == StatusDelivered && target == StatusDisputed:
		return identity.RoleRestaurant, true
	}
	return "", false
}

// Item is a snapshot of a shipped line, chosen from the source report
type Item struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OutgoingID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OriginalItemID *uuid.UUID      `gorm:"type:uuid"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit           string          `gorm:"type:varchar(20)"`
	PricePerUnit   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "outgoing_delivery_items"
}

// ItemInput describes one selected line with its chosen ship quantity
type ItemInput struct {
	OriginalItemID *uuid.UUID
	Name           string
	Quantity       decimal.Decimal
	Unit           string
	PricePerUnit   decimal.Decimal
}

// OutgoingDelivery is the aggregate root for a supplier-initiated
// compensating shipment that resolves a missing-items report.
type OutgoingDelivery struct {
	shared.BaseAggregateRoot
	SupplierID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	RestaurantID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	OriginalDeliveryID    *uuid.UUID      `gorm:"type:uuid"`
	OriginalReportID      *uuid.UUID      `gorm:"type:uuid;index"`
	Status                Status          `gorm:"type:varchar(20);not null;default:'pending'"`
	EstimatedDeliveryDate *time.Time      `gorm:""`
	ActualDeliveryDate    *time.Time      `gorm:""`
	Notes                 string          `gorm:"type:text"`
	DisputeReason         string          `gorm:"type:text"`
	TotalValue            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ItemsCount            int             `gorm:"not null;default:0"`
	LastActionBy          *uuid.UUID      `gorm:"type:uuid"`
	Items                 []Item          `gorm:"foreignKey:OutgoingID;references:ID"`
}

// TableName returns the table name for GORM
func (OutgoingDelivery) TableName() string {
	return "outgoing_deliveries"
}

// New creates a pending outgoing delivery with its item snapshots.
// total_value and items_count are computed from the selection.
func New(supplierID, restaurantID uuid.UUID, originalDeliveryID, originalReportID *uuid.UUID, items []ItemInput, estimatedDate *time.Time, notes string) (*OutgoingDelivery, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if restaurantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESTAURANT", "Restaurant ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Outgoing delivery requires at least one item")
	}

	o := &OutgoingDelivery{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		SupplierID:            supplierID,
		RestaurantID:          restaurantID,
		OriginalDeliveryID:    originalDeliveryID,
		OriginalReportID:      originalReportID,
		Status:                StatusPending,
		EstimatedDeliveryDate: estimatedDate,
		Notes:                 notes,
		TotalValue:            decimal.Zero,
		LastActionBy:          &supplierID,
		Items:                 make([]Item, 0, len(items)),
	}

	for _, in := range items {
		if in.Name == "" {
			return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
		}
		if in.Quantity.LessThan(decimal.NewFromInt(1)) {
			return nil, shared.NewValidationError("Ship quantity for %q must be at least 1", in.Name)
		}
		total := in.Quantity.Mul(in.PricePerUnit)
		o.Items = append(o.Items, Item{
			ID:             uuid.New(),
			OutgoingID:     o.ID,
			OriginalItemID: in.OriginalItemID,
			Name:           in.Name,
			Quantity:       in.Quantity,
			Unit:           in.Unit,
			PricePerUnit:   in.PricePerUnit,
			TotalPrice:     total,
			CreatedAt:      time.Now(),
		})
		o.TotalValue = o.TotalValue.Add(total)
	}
	o.ItemsCount = len(o.Items)

	o.AddDomainEvent(NewOutgoingCreatedEvent(o))
	return o, nil
}

// transition applies the actor-gated state machine. The authorization check
// runs before any mutation.
func (o *OutgoingDelivery) transition(actor identity.Principal, target Status) error {
	role, allowed := o.Status.AllowedRole(target)
	if !allowed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition outgoing delivery from %s to %s", o.Status, target))
	}
	if actor.Role != role {
		return shared.NewAuthorizationError("Only the %s may move this delivery to %s", role, target)
	}
	ownerID := o.SupplierID
	if role == identity.RoleRestaurant {
		ownerID = o.RestaurantID
	}
	if actor.ID != ownerID {
		return shared.NewAuthorizationError("Actor is not a party to this delivery")
	}

	o.Status = target
	o.LastActionBy = &actor.ID
	o.Touch()
	return nil
}

// MarkInTransit is the supplier dispatching the shipment
func (o *OutgoingDelivery) MarkInTransit(actor identity.Principal) error {
	if err := o.transition(actor, StatusInTransit); err != nil {
		return err
	}
	o.AddDomainEvent(NewOutgoingInTransitEvent(o))
	return nil
}

// MarkDelivered is the supplier recording arrival; the actual delivery date
// defaults to now when not supplied
func (o *OutgoingDelivery) MarkDelivered(actor identity.Principal, actualDate *time.Time) error {
	if err := o.transition(actor, StatusDelivered); err != nil {
		return err
	}
	if actualDate == nil {
		now := time.Now()
		actualDate = &now
	}
	o.ActualDeliveryDate = actualDate
	o.AddDomainEvent(NewOutgoingDeliveredEvent(o))
	return nil
}

// Confirm is the restaurant accepting the delivered shipment
func (o *OutgoingDelivery) Confirm(actor identity.Principal) error {
	if err := o.transition(actor, StatusConfirmed); err != nil {
		return err
	}
	o.AddDomainEvent(NewOutgoingConfirmedEvent(o))
	return nil
}

// Dispute is the restaurant contesting the delivered shipment; a reason is
// required
func (o *OutgoingDelivery) Dispute(actor identity.Principal, reason string) error {
	if reason == "" {
		return shared.NewValidationError("Dispute reason is required")
	}
	if err := o.transition(actor, StatusDisputed); err != nil {
		return err
	}
	o.DisputeReason = reason
	o.AddDomainEvent(NewOutgoingDisputedEvent(o))
	return nil
}

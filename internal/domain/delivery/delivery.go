package delivery

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a delivery
type Status string

const (
	StatusDraft             Status = "draft"
	StatusComplete          Status = "complete"
	StatusPendingRedelivery Status = "pending_redelivery"
	StatusResolved          Status = "resolved"
)

// IsValid checks if the status is a known delivery status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusComplete, StatusPendingRedelivery, StatusResolved:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// ItemStatus represents the verification status of a single line item
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusReceived ItemStatus = "received"
	ItemStatusMissing  ItemStatus = "missing"
)

// IsValid checks if the status is a known item status
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusReceived, ItemStatusMissing:
		return true
	}
	return false
}

// Item is a single line item of a delivery. Items are owned 1:N by the
// delivery and replaced wholesale on every save; there is no item-level
// history.
type Item struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	DeliveryID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name             string          `gorm:"type:varchar(200);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit             string          `gorm:"type:varchar(20)"`
	PricePerUnit     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MissingQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status           ItemStatus      `gorm:"type:varchar(20);not null;default:'pending'"`
	// Identity of the extracted line: (page index, in-page index). Makes the
	// intake outcome independent of page completion order.
	SourcePage int `gorm:"not null;default:0"`
	SourceLine int `gorm:"not null;default:0"`
	CreatedAt  time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "delivery_items"
}

// NewItem creates a new pending delivery item
func NewItem(deliveryID uuid.UUID, name string, quantity decimal.Decimal, unit string, pricePerUnit decimal.Decimal, sourcePage, sourceLine int) (*Item, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if pricePerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per unit cannot be negative")
	}

	return &Item{
		ID:               uuid.New(),
		DeliveryID:       deliveryID,
		Name:             name,
		Quantity:         quantity,
		Unit:             unit,
		PricePerUnit:     pricePerUnit,
		TotalPrice:       quantity.Mul(pricePerUnit),
		ReceivedQuantity: decimal.Zero,
		MissingQuantity:  decimal.Zero,
		Status:           ItemStatusPending,
		SourcePage:       sourcePage,
		SourceLine:       sourceLine,
		CreatedAt:        time.Now(),
	}, nil
}

// MarkReceived marks the full ordered quantity as received
func (i *Item) MarkReceived() {
	i.ReceivedQuantity = i.Quantity
	i.MissingQuantity = decimal.Zero
	i.Status = ItemStatusReceived
}

// MarkMissing records a shortfall of missingQty units. A supplied zero
// normalizes to received. Invariant after the call:
// received_quantity + missing_quantity == quantity.
func (i *Item) MarkMissing(missingQty decimal.Decimal) error {
	if missingQty.IsZero() {
		i.MarkReceived()
		return nil
	}
	if missingQty.IsNegative() {
		return shared.NewValidationError("Missing quantity cannot be negative")
	}
	if missingQty.LessThan(decimal.NewFromInt(1)) {
		return shared.NewValidationError("Missing quantity must be at least 1")
	}
	if missingQty.GreaterThan(i.Quantity) {
		return shared.NewValidationError("Missing quantity %s exceeds ordered quantity %s", missingQty.String(), i.Quantity.String())
	}

	i.MissingQuantity = missingQty
	i.ReceivedQuantity = i.Quantity.Sub(missingQty)
	i.Status = ItemStatusMissing
	return nil
}

// MarkAllMissing is the single-tap shortcut for quantity-1 items: the whole
// quantity is missing, no prompt needed
func (i *Item) MarkAllMissing() error {
	return i.MarkMissing(i.Quantity)
}

// Reset returns the item to pending, undoing a received/missing decision
func (i *Item) Reset() {
	i.ReceivedQuantity = decimal.Zero
	i.MissingQuantity = decimal.Zero
	i.Status = ItemStatusPending
}

// IsVerified returns true once a received/missing decision has been made
func (i *Item) IsVerified() bool {
	return i.Status != ItemStatusPending
}

// MissingValue returns the monetary value of the shortfall on this item
func (i *Item) MissingValue() decimal.Decimal {
	if i.Status != ItemStatusMissing {
		return decimal.Zero
	}
	return i.MissingQuantity.Mul(i.PricePerUnit)
}

// Delivery is the aggregate root for one receipt-verification unit: a single
// supplier shipment on one date, owned by a restaurant account.
type Delivery struct {
	shared.BaseAggregateRoot
	RestaurantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID      *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierName    string          `gorm:"type:varchar(200);not null"`
	DeliveryDate    time.Time       `gorm:"not null"`
	OrderNumber     string          `gorm:"type:varchar(100)"`
	Status          Status          `gorm:"type:varchar(30);not null;default:'draft'"`
	TotalValue      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MissingValue    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceiptImageKey string          `gorm:"type:varchar(500)"`
	Items           []Item          `gorm:"foreignKey:DeliveryID;references:ID"`
}

// TableName returns the table name for GORM
func (Delivery) TableName() string {
	return "deliveries"
}

// New creates a new draft delivery
func New(restaurantID uuid.UUID, supplierName string, deliveryDate time.Time, orderNumber string) (*Delivery, error) {
	if restaurantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RESTAURANT", "Restaurant ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	return &Delivery{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RestaurantID:      restaurantID,
		SupplierName:      supplierName,
		DeliveryDate:      deliveryDate,
		OrderNumber:       orderNumber,
		Status:            StatusDraft,
		TotalValue:        decimal.Zero,
		MissingValue:      decimal.Zero,
		Items:             make([]Item, 0),
	}, nil
}

// BindSupplier attaches a resolvable supplier identity. Required before the
// first persistence write when a missing-items report may later be needed.
func (d *Delivery) BindSupplier(supplierID uuid.UUID, supplierName string) error {
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	d.SupplierID = &supplierID
	if supplierName != "" {
		d.SupplierName = supplierName
	}
	d.Touch()
	return nil
}

// HasSupplier returns true if a resolvable supplier identity is bound
func (d *Delivery) HasSupplier() bool {
	return d.SupplierID != nil && *d.SupplierID != uuid.Nil
}

// SetReceiptImage records the blob-storage key of the scanned receipt
func (d *Delivery) SetReceiptImage(key string) {
	d.ReceiptImageKey = key
	d.Touch()
}

// AddItem appends a line item. Only allowed while the delivery is a draft.
func (d *Delivery) AddItem(item Item) error {
	if d.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add items to a finalized delivery")
	}
	item.DeliveryID = d.ID
	d.Items = append(d.Items, item)
	d.recalculateTotals()
	d.Touch()
	return nil
}

// ReplaceItems swaps the whole item collection, keeping the wholesale
// rebuild contract of the persistence layer
func (d *Delivery) ReplaceItems(items []Item) {
	for i := range items {
		items[i].DeliveryID = d.ID
	}
	d.Items = items
	d.recalculateTotals()
	d.Touch()
}

// GetItem returns an item by its ID, or nil
func (d *Delivery) GetItem(itemID uuid.UUID) *Item {
	for idx := range d.Items {
		if d.Items[idx].ID == itemID {
			return &d.Items[idx]
		}
	}
	return nil
}

// MissingItems returns the items with a recorded shortfall
func (d *Delivery) MissingItems() []Item {
	items := make([]Item, 0)
	for _, item := range d.Items {
		if item.Status == ItemStatusMissing {
			items = append(items, item)
		}
	}
	return items
}

// PendingCount returns the number of items still awaiting a decision
func (d *Delivery) PendingCount() int {
	count := 0
	for _, item := range d.Items {
		if item.Status == ItemStatusPending {
			count++
		}
	}
	return count
}

// Finalize derives and applies the stored status from the verification
// outcome. A complete request with a shortfall is demoted to
// pending_redelivery; draft carries no completeness precondition.
func (d *Delivery) Finalize(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown delivery status %q", target))
	}
	if target != StatusDraft {
		if pending := d.PendingCount(); pending > 0 {
			return shared.NewValidationError("%d item(s) still pending verification", pending)
		}
	}

	d.recalculateTotals()

	applied := target
	if target == StatusComplete && d.MissingValue.IsPositive() {
		applied = StatusPendingRedelivery
	}
	d.Status = applied
	d.Touch()

	if applied != StatusDraft {
		d.AddDomainEvent(NewDeliveryFinalizedEvent(d))
	}
	return nil
}

// MarkResolved transitions a pending_redelivery delivery to resolved once
// its shortfall has been compensated
func (d *Delivery) MarkResolved() error {
	if d.Status != StatusPendingRedelivery {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot resolve delivery in %s status", d.Status))
	}
	d.Status = StatusResolved
	d.Touch()
	return nil
}

// recalculateTotals recomputes the aggregate money fields from the items
func (d *Delivery) recalculateTotals() {
	summary := Summarize(d.Items)
	d.TotalValue = summary.TotalValue
	d.MissingValue = summary.MissingValue
}

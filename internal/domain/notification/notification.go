package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Type identifies what happened. The set is closed; routing and display
// logic switch over it, so adding a member means touching every switch.
type Type string

const (
	TypeMissingItemsReport      Type = "missing_items_report"
	TypeOutgoingDeliveryCreated Type = "outgoing_delivery_created"
	TypeOutgoingDeliveryArrived Type = "outgoing_delivery_arrived"
	TypeDeliveryConfirmed       Type = "delivery_confirmed"
	TypeDeliveryDisputed        Type = "delivery_disputed"
	TypeConnectionRequest       Type = "connection_request"
	TypeConnectionAccepted      Type = "connection_accepted"
)

// AllTypes returns every member of the closed type set
func AllTypes() []Type {
	return []Type{
		TypeMissingItemsReport,
		TypeOutgoingDeliveryCreated,
		TypeOutgoingDeliveryArrived,
		TypeDeliveryConfirmed,
		TypeDeliveryDisputed,
		TypeConnectionRequest,
		TypeConnectionAccepted,
	}
}

// IsValid checks if the type is a known notification type
func (t Type) IsValid() bool {
	for _, known := range AllTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// String returns the string representation of the type
func (t Type) String() string {
	return string(t)
}

// Notification is one inbox entry for one recipient
type Notification struct {
	shared.BaseEntity
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type        Type       `gorm:"type:varchar(40);not null"`
	Title       string     `gorm:"type:varchar(200);not null"`
	Message     string     `gorm:"type:text"`
	RelatedID   *uuid.UUID `gorm:"type:uuid"`
	Read        bool       `gorm:"not null;default:false"`
	ReadAt      *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// New creates an unread notification for a recipient
func New(recipientID uuid.UUID, typ Type, title, message string, relatedID *uuid.UUID) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient ID cannot be empty")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_NOTIFICATION_TYPE", "Unknown notification type: "+string(typ))
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Message:     message,
		RelatedID:   relatedID,
	}, nil
}

// MarkRead flips the read flag; re-reading an already read notification is a
// no-op so the operation stays idempotent
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.Touch()
}

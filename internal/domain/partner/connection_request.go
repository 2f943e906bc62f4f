package partner

import (
	"github.com/google/uuid"

	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/shared"
)

// RequestStatus represents the status of a connection request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// IsValid checks if the status is a known request status
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRejected:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s RequestStatus) String() string {
	return string(s)
}

// ConnectionStatus describes the relationship between two parties as seen
// from the discovery UI
type ConnectionStatus string

const (
	ConnectionNone      ConnectionStatus = "none"
	ConnectionPending   ConnectionStatus = "pending"
	ConnectionConnected ConnectionStatus = "connected"
)

// ConnectionRequest links a restaurant and a supplier once accepted.
// Only the receiver settles a pending request.
type ConnectionRequest struct {
	shared.BaseAggregateRoot
	SenderID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	SenderRole   identity.Role `gorm:"type:varchar(20);not null"`
	ReceiverID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	ReceiverRole identity.Role `gorm:"type:varchar(20);not null"`
	Status       RequestStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Message      string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ConnectionRequest) TableName() string {
	return "connection_requests"
}

// NewConnectionRequest creates a pending request from sender to receiver
func NewConnectionRequest(senderID uuid.UUID, senderRole identity.Role, receiverID uuid.UUID, message string) (*ConnectionRequest, error) {
	if senderID == uuid.Nil || receiverID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Sender and receiver IDs are required")
	}
	if senderID == receiverID {
		return nil, shared.NewDomainError("INVALID_PARTY", "Cannot send a connection request to yourself")
	}
	if !senderRole.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown sender role: "+string(senderRole))
	}

	r := &ConnectionRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SenderID:          senderID,
		SenderRole:        senderRole,
		ReceiverID:        receiverID,
		ReceiverRole:      senderRole.Counterpart(),
		Status:            RequestPending,
		Message:           message,
	}
	r.AddDomainEvent(NewConnectionRequestedEvent(r))
	return r, nil
}

func (r *ConnectionRequest) settle(actor identity.Principal, target RequestStatus) error {
	if r.Status != RequestPending {
		return shared.NewDomainError("INVALID_STATE", "Connection request is already "+string(r.Status))
	}
	if actor.ID != r.ReceiverID {
		return shared.NewAuthorizationError("Only the receiver may settle a connection request")
	}
	r.Status = target
	r.Touch()
	return nil
}

// Accept connects the two parties
func (r *ConnectionRequest) Accept(actor identity.Principal) error {
	if err := r.settle(actor, RequestAccepted); err != nil {
		return err
	}
	r.AddDomainEvent(NewConnectionAcceptedEvent(r))
	return nil
}

// Reject declines the request; the sender may try again later
func (r *ConnectionRequest) Reject(actor identity.Principal) error {
	return r.settle(actor, RequestRejected)
}

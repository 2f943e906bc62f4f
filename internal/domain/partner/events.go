package partner

import (
	"github.com/google/uuid"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Event types for connection requests
const (
	EventTypeConnectionRequested = "connection.requested"
	EventTypeConnectionAccepted  = "connection.accepted"
)

// ConnectionRequestedEvent is emitted when a new request is sent
type ConnectionRequestedEvent struct {
	shared.BaseDomainEvent
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Message    string    `json:"message,omitempty"`
}

// NewConnectionRequestedEvent creates a new ConnectionRequestedEvent
func NewConnectionRequestedEvent(r *ConnectionRequest) *ConnectionRequestedEvent {
	return &ConnectionRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConnectionRequested, "ConnectionRequest", r.ID),
		SenderID:        r.SenderID,
		ReceiverID:      r.ReceiverID,
		Message:         r.Message,
	}
}

// ConnectionAcceptedEvent is emitted when the receiver accepts
type ConnectionAcceptedEvent struct {
	shared.BaseDomainEvent
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
}

// NewConnectionAcceptedEvent creates a new ConnectionAcceptedEvent
func NewConnectionAcceptedEvent(r *ConnectionRequest) *ConnectionAcceptedEvent {
	return &ConnectionAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConnectionAccepted, "ConnectionRequest", r.ID),
		SenderID:        r.SenderID,
		ReceiverID:      r.ReceiverID,
	}
}

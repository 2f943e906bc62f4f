package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/shipshape/backend/internal/domain/shared"
)

// Repository persists notifications. ListByRecipient returns newest first.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Create(ctx context.Context, n *Notification) error
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

// Publisher pushes a freshly created notification to the recipient's live
// channel. Delivery is at-least-once; consumers dedupe by notification ID.
type Publisher interface {
	Publish(ctx context.Context, n *Notification) error
}

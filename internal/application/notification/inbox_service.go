package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/notification"
	"github.com/shipshape/backend/internal/domain/shared"
)

// NotificationResponse represents one inbox entry in API responses
type NotificationResponse struct {
	ID        uuid.UUID         `json:"id"`
	Type      notification.Type `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message,omitempty"`
	RelatedID *uuid.UUID        `json:"related_id,omitempty"`
	Read      bool              `json:"read"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// InboxResponse is a page of the recipient's inbox, newest first, with the
// unread count recomputed from stored read-state
type InboxResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// InboxListFilter represents pagination options for the inbox
type InboxListFilter struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// InboxService serves and mutates a recipient's notification inbox
type InboxService struct {
	notificationRepo notification.Repository
}

// NewInboxService creates a new InboxService
func NewInboxService(notificationRepo notification.Repository) *InboxService {
	return &InboxService{notificationRepo: notificationRepo}
}

// List returns the actor's inbox page plus the current unread count
func (s *InboxService) List(ctx context.Context, actor identity.Principal, filter InboxListFilter) (*InboxResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	entries, err := s.notificationRepo.ListByRecipient(ctx, actor.ID, domainFilter)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]NotificationResponse, len(entries))
	for i, n := range entries {
		responses[i] = NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			RelatedID: n.RelatedID,
			Read:      n.Read,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		}
	}
	return &InboxResponse{Notifications: responses, UnreadCount: unread}, nil
}

// MarkRead marks one notification read. Idempotent: re-reading an already
// read notification succeeds without a second write.
func (s *InboxService) MarkRead(ctx context.Context, actor identity.Principal, notificationID uuid.UUID) error {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != actor.ID {
		return shared.ErrForbidden
	}
	if n.Read {
		return nil
	}
	n.MarkRead()
	return s.notificationRepo.Save(ctx, n)
}

// MarkAllRead marks every unread notification of the actor read
func (s *InboxService) MarkAllRead(ctx context.Context, actor identity.Principal) error {
	return s.notificationRepo.MarkAllRead(ctx, actor.ID)
}

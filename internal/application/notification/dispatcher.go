package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shipshape/backend/internal/domain/notification"
	"github.com/shipshape/backend/internal/domain/outgoing"
	"github.com/shipshape/backend/internal/domain/partner"
	"github.com/shipshape/backend/internal/domain/report"
	"github.com/shipshape/backend/internal/domain/shared"
)

// notice is one routed notification before persistence
type notice struct {
	recipientID uuid.UUID
	typ         notification.Type
	title       string
	message     string
	relatedID   uuid.UUID
}

// Dispatcher turns domain events into inbox notifications and pushes them to
// the recipient's live channel. Dispatch is fire-and-forget: a failure is
// logged and never propagated back to the business transition.
type Dispatcher struct {
	notificationRepo notification.Repository
	publisher        notification.Publisher
	logger           *zap.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(notificationRepo notification.Repository, publisher notification.Publisher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notificationRepo: notificationRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (d *Dispatcher) EventTypes() []string {
	return []string{
		report.EventTypeReportCreated,
		report.EventTypeReportAcknowledged,
		report.EventTypeReportResolved,
		report.EventTypeReportDisputed,
		outgoing.EventTypeOutgoingCreated,
		outgoing.EventTypeOutgoingDelivered,
		outgoing.EventTypeOutgoingConfirmed,
		outgoing.EventTypeOutgoingDisputed,
		partner.EventTypeConnectionRequested,
		partner.EventTypeConnectionAccepted,
	}
}

// Handle routes the event to its recipients. Always returns nil; delivery
// problems are logged per recipient.
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	for _, n := range route(event) {
		d.deliver(ctx, event, n)
	}
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, event shared.DomainEvent, n notice) {
	relatedID := n.relatedID
	entry, err := notification.New(n.recipientID, n.typ, n.title, n.message, &relatedID)
	if err != nil {
		d.logger.Error("failed to build notification",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return
	}
	if err := d.notificationRepo.Create(ctx, entry); err != nil {
		d.logger.Error("failed to store notification",
			zap.String("event_type", event.EventType()),
			zap.String("recipient_id", n.recipientID.String()),
			zap.Error(err),
		)
		return
	}
	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, entry); err != nil {
			d.logger.Warn("failed to push notification",
				zap.String("notification_id", entry.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// route maps one domain event to its recipient notifications. Report
// transitions keep the missing_items_report type; the title carries the
// status change.
func route(event shared.DomainEvent) []notice {
	switch e := event.(type) {
	case *report.ReportCreatedEvent:
		return []notice{{
			recipientID: e.SupplierID,
			typ:         notification.TypeMissingItemsReport,
			title:       "Missing items reported",
			message:     fmt.Sprintf("%d item(s) reported missing, total value %s", e.ItemsCount, e.TotalMissingValue.StringFixed(2)),
			relatedID:   e.AggregateID(),
		}}
	case *report.ReportAcknowledgedEvent:
		return []notice{{
			recipientID: e.RestaurantID,
			typ:         notification.TypeMissingItemsReport,
			title:       "Report acknowledged",
			message:     "The supplier has acknowledged your missing items report",
			relatedID:   e.AggregateID(),
		}}
	case *report.ReportResolvedEvent:
		return []notice{{
			recipientID: e.RestaurantID,
			typ:         notification.TypeMissingItemsReport,
			title:       "Report resolved",
			message:     e.Note,
			relatedID:   e.AggregateID(),
		}}
	case *report.ReportDisputedEvent:
		return []notice{{
			recipientID: e.RestaurantID,
			typ:         notification.TypeMissingItemsReport,
			title:       "Report disputed",
			message:     e.Details,
			relatedID:   e.AggregateID(),
		}}
	case *outgoing.OutgoingCreatedEvent:
		message := "A replacement delivery has been scheduled"
		if e.EstimatedDeliveryDate != nil {
			message = fmt.Sprintf("A replacement delivery has been scheduled for %s", e.EstimatedDeliveryDate.Format("2006-01-02"))
		}
		return []notice{{
			recipientID: e.RestaurantID,
			typ:         notification.TypeOutgoingDeliveryCreated,
			title:       "Replacement delivery scheduled",
			message:     message,
			relatedID:   e.AggregateID(),
		}}
	case *outgoing.OutgoingDeliveredEvent:
		return []notice{{
			recipientID: e.RestaurantID,
			typ:         notification.TypeOutgoingDeliveryArrived,
			title:       "Replacement delivery arrived",
			message:     "Please confirm or dispute the delivered items",
			relatedID:   e.AggregateID(),
		}}
	case *outgoing.OutgoingConfirmedEvent:
		return []notice{{
			recipientID: e.SupplierID,
			typ:         notification.TypeDeliveryConfirmed,
			title:       "Delivery confirmed",
			message:     "The restaurant has confirmed the replacement delivery",
			relatedID:   e.AggregateID(),
		}}
	case *outgoing.OutgoingDisputedEvent:
		return []notice{{
			recipientID: e.SupplierID,
			typ:         notification.TypeDeliveryDisputed,
			title:       "Delivery disputed",
			message:     e.Reason,
			relatedID:   e.AggregateID(),
		}}
	case *partner.ConnectionRequestedEvent:
		return []notice{{
			recipientID: e.ReceiverID,
			typ:         notification.TypeConnectionRequest,
			title:       "New connection request",
			message:     e.Message,
			relatedID:   e.AggregateID(),
		}}
	case *partner.ConnectionAcceptedEvent:
		return []notice{{
			recipientID: e.SenderID,
			typ:         notification.TypeConnectionAccepted,
			title:       "Connection request accepted",
			message:     "You are now connected",
			relatedID:   e.AggregateID(),
		}}
	}
	return nil
}

// Ensure Dispatcher implements shared.EventHandler
var _ shared.EventHandler = (*Dispatcher)(nil)

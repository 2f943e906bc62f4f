package outgoing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shipshape/backend/internal/domain/delivery"
	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/outgoing"
	"github.com/shipshape/backend/internal/domain/report"
	"github.com/shipshape/backend/internal/domain/shared"
)

// inflightGuard blocks concurrent duplicate submissions of the same
// (report, actor) pair within this process. Durable idempotency is not
// attempted; retries after a completed commit are caught by the report
// already being resolved.
type inflightGuard struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{keys: make(map[string]struct{})}
}

func (g *inflightGuard) tryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.keys[key]; held {
		return false
	}
	g.keys[key] = struct{}{}
	return true
}

func (g *inflightGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
}

// OutgoingService handles the compensating-shipment workflow
type OutgoingService struct {
	outgoingRepo   outgoing.Repository
	reportRepo     report.Repository
	deliveryRepo   delivery.Repository
	eventPublisher shared.EventPublisher
	guard          *inflightGuard
	logger         *zap.Logger
}

// NewOutgoingService creates a new OutgoingService
func NewOutgoingService(outgoingRepo outgoing.Repository, reportRepo report.Repository, deliveryRepo delivery.Repository, logger *zap.Logger) *OutgoingService {
	return &OutgoingService{
		outgoingRepo: outgoingRepo,
		reportRepo:   reportRepo,
		deliveryRepo: deliveryRepo,
		guard:        newInflightGuard(),
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OutgoingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateFromReport commits a compensating shipment for a missing-items
// report. The commit is header insert, then item insert with a compensating
// header delete on failure, then source-report resolution. The shipment
// write is the source of truth: a report-resolution failure degrades to a
// created-but-unresolved outcome instead of rolling back.
func (s *OutgoingService) CreateFromReport(ctx context.Context, actor identity.Principal, req CreateOutgoingRequest) (*CreateOutgoingResponse, error) {
	key := req.ReportID.String() + "|" + actor.ID.String()
	if !s.guard.tryAcquire(key) {
		return nil, shared.NewDomainError("DUPLICATE_SUBMISSION", "An outgoing delivery for this report is already being created")
	}
	defer s.guard.release(key)

	r, err := s.reportRepo.FindByID(ctx, req.ReportID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSupplier() || actor.ID != r.SupplierID {
		return nil, shared.NewAuthorizationError("Only the owning supplier may schedule an outgoing delivery")
	}
	if r.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Report is already "+string(r.Status))
	}

	inputs, err := buildItemInputs(r, req.Items)
	if err != nil {
		return nil, err
	}

	reportID := r.ID
	o, err := outgoing.New(r.SupplierID, r.RestaurantID, r.DeliveryID, &reportID, inputs, req.EstimatedDeliveryDate, req.Notes)
	if err != nil {
		return nil, err
	}

	events := o.GetDomainEvents()
	o.ClearDomainEvents()

	if err := s.outgoingRepo.CreateHeader(ctx, o); err != nil {
		return nil, err
	}
	if err := s.outgoingRepo.CreateItems(ctx, o); err != nil {
		// compensating rollback: item insert failed, remove the header so no
		// empty shipment is left behind
		if delErr := s.outgoingRepo.DeleteHeader(ctx, o.ID); delErr != nil {
			s.logger.Error("compensating header delete failed, orphan header remains",
				zap.String("outgoing_id", o.ID.String()),
				zap.Error(delErr),
			)
		}
		return nil, err
	}
	s.publishEvents(ctx, events)

	result := &CreateOutgoingResponse{Outgoing: ToOutgoingResponse(o)}

	if err := s.resolveSourceReport(ctx, r, actor.ID, req.EstimatedDeliveryDate); err != nil {
		s.logger.Error("outgoing delivery created but source report resolution failed",
			zap.String("outgoing_id", o.ID.String()),
			zap.String("report_id", r.ID.String()),
			zap.Error(err),
		)
		result.Warning = "Outgoing delivery created, but the report could not be marked resolved"
		return result, nil
	}
	result.ReportResolved = true
	return result, nil
}

// buildItemInputs validates the selection against the report snapshot. The
// chosen quantity must be within [1, missing_quantity] of the source line.
func buildItemInputs(r *report.Report, selection []CreateOutgoingItemInput) ([]outgoing.ItemInput, error) {
	inputs := make([]outgoing.ItemInput, 0, len(selection))
	for _, sel := range selection {
		var line *report.Item
		for i := range r.Items {
			if r.Items[i].ID == sel.ReportItemID {
				line = &r.Items[i]
				break
			}
		}
		if line == nil {
			return nil, shared.NewValidationError("Report item %s not found on report", sel.ReportItemID)
		}
		if sel.Quantity.GreaterThan(line.MissingQuantity) {
			return nil, shared.NewValidationError("Ship quantity %s for %q exceeds missing quantity %s",
				sel.Quantity.String(), line.Name, line.MissingQuantity.String())
		}
		itemID := line.ID
		inputs = append(inputs, outgoing.ItemInput{
			OriginalItemID: &itemID,
			Name:           line.Name,
			Quantity:       sel.Quantity,
			Unit:           line.Unit,
			PricePerUnit:   line.PricePerUnit,
		})
	}
	return inputs, nil
}

// resolveSourceReport settles the report as redelivery_scheduled with an
// auto-generated note referencing the estimated date
func (s *OutgoingService) resolveSourceReport(ctx context.Context, r *report.Report, actorID uuid.UUID, estimatedDate *time.Time) error {
	if err := r.ResolveByOutgoingDelivery(actorID, estimatedDate); err != nil {
		return err
	}

	events := r.GetDomainEvents()
	r.ClearDomainEvents()

	if err := s.reportRepo.Save(ctx, r); err != nil {
		return err
	}
	s.publishEvents(ctx, events)
	return nil
}

// GetByID retrieves an outgoing delivery the actor is a party to
func (s *OutgoingService) GetByID(ctx context.Context, actor identity.Principal, id uuid.UUID) (*OutgoingResponse, error) {
	o, err := s.loadForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	response := ToOutgoingResponse(o)
	return &response, nil
}

// List retrieves the actor's outgoing deliveries, newest first
func (s *OutgoingService) List(ctx context.Context, actor identity.Principal, filter OutgoingListFilter) ([]OutgoingResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	var (
		deliveries []outgoing.OutgoingDelivery
		err        error
	)
	if actor.IsSupplier() {
		deliveries, err = s.outgoingRepo.FindBySupplier(ctx, actor.ID, domainFilter)
	} else {
		deliveries, err = s.outgoingRepo.FindByRestaurant(ctx, actor.ID, domainFilter)
	}
	if err != nil {
		return nil, err
	}
	return ToOutgoingResponses(deliveries), nil
}

// MarkInTransit dispatches the shipment
func (s *OutgoingService) MarkInTransit(ctx context.Context, actor identity.Principal, id uuid.UUID) (*OutgoingResponse, error) {
	return s.mutate(ctx, actor, id, func(o *outgoing.OutgoingDelivery) error {
		return o.MarkInTransit(actor)
	})
}

// MarkDelivered records arrival
func (s *OutgoingService) MarkDelivered(ctx context.Context, actor identity.Principal, id uuid.UUID, req DeliveredRequest) (*OutgoingResponse, error) {
	return s.mutate(ctx, actor, id, func(o *outgoing.OutgoingDelivery) error {
		return o.MarkDelivered(actor, req.ActualDeliveryDate)
	})
}

// Confirm accepts the delivered shipment and closes the original delivery's
// shortfall when one is linked
func (s *OutgoingService) Confirm(ctx context.Context, actor identity.Principal, id uuid.UUID) (*OutgoingResponse, error) {
	resp, err := s.mutate(ctx, actor, id, func(o *outgoing.OutgoingDelivery) error {
		return o.Confirm(actor)
	})
	if err != nil {
		return nil, err
	}
	if resp.OriginalDeliveryID != nil {
		s.resolveOriginalDelivery(ctx, *resp.OriginalDeliveryID)
	}
	return resp, nil
}

// Dispute contests the delivered shipment
func (s *OutgoingService) Dispute(ctx context.Context, actor identity.Principal, id uuid.UUID, req DisputeOutgoingRequest) (*OutgoingResponse, error) {
	return s.mutate(ctx, actor, id, func(o *outgoing.OutgoingDelivery) error {
		return o.Dispute(actor, req.Reason)
	})
}

func (s *OutgoingService) mutate(ctx context.Context, actor identity.Principal, id uuid.UUID, apply func(*outgoing.OutgoingDelivery) error) (*OutgoingResponse, error) {
	o, err := s.loadForActor(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := apply(o); err != nil {
		return nil, err
	}

	events := o.GetDomainEvents()
	o.ClearDomainEvents()

	if err := s.outgoingRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, events)

	response := ToOutgoingResponse(o)
	return &response, nil
}

// resolveOriginalDelivery closes the source delivery's pending_redelivery
// status. Best effort: the confirmation stands even if this write fails.
func (s *OutgoingService) resolveOriginalDelivery(ctx context.Context, deliveryID uuid.UUID) {
	d, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		s.logger.Warn("original delivery not found after confirmation",
			zap.String("delivery_id", deliveryID.String()),
			zap.Error(err),
		)
		return
	}
	if err := d.MarkResolved(); err != nil {
		return
	}
	if err := s.deliveryRepo.Save(ctx, d); err != nil {
		s.logger.Warn("failed to resolve original delivery",
			zap.String("delivery_id", deliveryID.String()),
			zap.Error(err),
		)
	}
}

// loadForActor loads an outgoing delivery and checks the actor is a party
func (s *OutgoingService) loadForActor(ctx context.Context, actor identity.Principal, id uuid.UUID) (*outgoing.OutgoingDelivery, error) {
	o, err := s.outgoingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != o.SupplierID && actor.ID != o.RestaurantID {
		return nil, shared.ErrForbidden
	}
	return o, nil
}

func (s *OutgoingService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

package delivery

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shipshape/backend/internal/domain/delivery"
	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/report"
	"github.com/shipshape/backend/internal/domain/shared"
)

// DeliveryService handles the delivery verification lifecycle
type DeliveryService struct {
	deliveryRepo   delivery.Repository
	reportRepo     report.Repository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(deliveryRepo delivery.Repository, reportRepo report.Repository, logger *zap.Logger) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		reportRepo:   reportRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DeliveryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft delivery for the restaurant
func (s *DeliveryService) Create(ctx context.Context, restaurantID uuid.UUID, req CreateDeliveryRequest) (*DeliveryResponse, error) {
	d, err := delivery.New(restaurantID, req.SupplierName, req.DeliveryDate, req.OrderNumber)
	if err != nil {
		return nil, err
	}

	if req.SupplierID != nil {
		if err := d.BindSupplier(*req.SupplierID, req.SupplierName); err != nil {
			return nil, err
		}
	}
	if req.ReceiptImageKey != "" {
		d.SetReceiptImage(req.ReceiptImageKey)
	}

	for _, in := range req.Items {
		item, err := delivery.NewItem(d.ID, in.Name, in.Quantity, in.Unit, in.PricePerUnit, in.SourcePage, in.SourceLine)
		if err != nil {
			return nil, err
		}
		if err := d.AddItem(*item); err != nil {
			return nil, err
		}
	}

	if err := s.deliveryRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	response := ToDeliveryResponse(d)
	return &response, nil
}

// GetByID retrieves a delivery the actor is a party to
func (s *DeliveryService) GetByID(ctx context.Context, actor identity.Principal, deliveryID uuid.UUID) (*DeliveryResponse, error) {
	d, err := s.loadForActor(ctx, actor, deliveryID)
	if err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(d)
	return &response, nil
}

// List retrieves the actor's deliveries with filtering and pagination
func (s *DeliveryService) List(ctx context.Context, actor identity.Principal, filter DeliveryListFilter) ([]DeliveryResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	var (
		deliveries []delivery.Delivery
		total      int64
		err        error
	)
	if actor.IsSupplier() {
		deliveries, err = s.deliveryRepo.FindBySupplier(ctx, actor.ID, domainFilter)
	} else {
		deliveries, err = s.deliveryRepo.FindByRestaurant(ctx, actor.ID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	if actor.IsSupplier() {
		total, err = s.deliveryRepo.CountBySupplier(ctx, actor.ID, domainFilter)
	} else {
		total, err = s.deliveryRepo.CountByRestaurant(ctx, actor.ID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	return ToDeliveryResponses(deliveries), total, nil
}

// MarkItemReceived marks the full ordered quantity of one item as received
func (s *DeliveryService) MarkItemReceived(ctx context.Context, actor identity.Principal, deliveryID, itemID uuid.UUID) (*DeliveryResponse, error) {
	return s.updateItem(ctx, actor, deliveryID, itemID, func(item *delivery.Item) error {
		item.MarkReceived()
		return nil
	})
}

// MarkItemMissing records a shortfall on one item. A zero quantity
// normalizes to received.
func (s *DeliveryService) MarkItemMissing(ctx context.Context, actor identity.Principal, deliveryID, itemID uuid.UUID, req MarkItemMissingRequest) (*DeliveryResponse, error) {
	return s.updateItem(ctx, actor, deliveryID, itemID, func(item *delivery.Item) error {
		return item.MarkMissing(req.MissingQuantity)
	})
}

// MarkItemAllMissing marks the whole ordered quantity of one item missing,
// the single-tap path for quantity-1 items
func (s *DeliveryService) MarkItemAllMissing(ctx context.Context, actor identity.Principal, deliveryID, itemID uuid.UUID) (*DeliveryResponse, error) {
	return s.updateItem(ctx, actor, deliveryID, itemID, func(item *delivery.Item) error {
		return item.MarkAllMissing()
	})
}

// ResetItem returns one item to pending, undoing a prior decision
func (s *DeliveryService) ResetItem(ctx context.Context, actor identity.Principal, deliveryID, itemID uuid.UUID) (*DeliveryResponse, error) {
	return s.updateItem(ctx, actor, deliveryID, itemID, func(item *delivery.Item) error {
		item.Reset()
		return nil
	})
}

func (s *DeliveryService) updateItem(ctx context.Context, actor identity.Principal, deliveryID, itemID uuid.UUID, apply func(*delivery.Item) error) (*DeliveryResponse, error) {
	d, err := s.loadForActor(ctx, actor, deliveryID)
	if err != nil {
		return nil, err
	}

	item := d.GetItem(itemID)
	if item == nil {
		return nil, shared.ErrNotFound
	}
	if err := apply(item); err != nil {
		return nil, err
	}
	d.ReplaceItems(d.Items)

	if err := s.deliveryRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	response := ToDeliveryResponse(d)
	return &response, nil
}

// SetReceiptImage records the blob-storage key of the scanned receipt
func (s *DeliveryService) SetReceiptImage(ctx context.Context, actor identity.Principal, deliveryID uuid.UUID, key string) (*DeliveryResponse, error) {
	d, err := s.loadForActor(ctx, actor, deliveryID)
	if err != nil {
		return nil, err
	}
	d.SetReceiptImage(key)
	if err := s.deliveryRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	response := ToDeliveryResponse(d)
	return &response, nil
}

// Finalize applies the verification outcome. A complete finalization with a
// shortfall demotes to pending_redelivery and generates the missing-items
// report exactly once. The delivery write is the source of truth: a report
// creation failure degrades to a saved-but-not-reported outcome instead of
// rolling back.
func (s *DeliveryService) Finalize(ctx context.Context, actor identity.Principal, deliveryID uuid.UUID, req FinalizeDeliveryRequest) (*FinalizeDeliveryResponse, error) {
	d, err := s.loadForActor(ctx, actor, deliveryID)
	if err != nil {
		return nil, err
	}

	if err := d.Finalize(req.Status); err != nil {
		return nil, err
	}

	events := d.GetDomainEvents()
	d.ClearDomainEvents()

	if err := s.deliveryRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, events)

	result := &FinalizeDeliveryResponse{Delivery: ToDeliveryResponse(d)}

	if d.Status == delivery.StatusPendingRedelivery {
		reportID, err := s.createReportOnce(ctx, d)
		switch {
		case err != nil:
			s.logger.Error("delivery saved but report creation failed",
				zap.String("delivery_id", d.ID.String()),
				zap.Error(err),
			)
			result.Warning = "Delivery saved, but the missing items report could not be created"
		case reportID != nil:
			result.ReportCreated = true
			result.ReportID = reportID
		}
	}

	return result, nil
}

// createReportOnce generates the missing-items report unless one already
// exists for the delivery. Returns nil without error when the report exists
// or the delivery has no resolvable supplier.
func (s *DeliveryService) createReportOnce(ctx context.Context, d *delivery.Delivery) (*uuid.UUID, error) {
	if !d.HasSupplier() {
		s.logger.Warn("shortfall delivery has no bound supplier, skipping report",
			zap.String("delivery_id", d.ID.String()),
		)
		return nil, nil
	}

	exists, err := s.reportRepo.ExistsForDelivery(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	missing := d.MissingItems()
	inputs := make([]report.ItemInput, 0, len(missing))
	for i := range missing {
		item := missing[i]
		itemID := item.ID
		inputs = append(inputs, report.ItemInput{
			OriginalItemID:   &itemID,
			Name:             item.Name,
			ExpectedQuantity: item.Quantity,
			ReceivedQuantity: item.ReceivedQuantity,
			MissingQuantity:  item.MissingQuantity,
			Unit:             item.Unit,
			PricePerUnit:     item.PricePerUnit,
		})
	}

	r, err := report.New(d.ID, d.RestaurantID, *d.SupplierID, inputs)
	if err != nil {
		return nil, err
	}

	events := r.GetDomainEvents()
	r.ClearDomainEvents()

	if err := s.reportRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, events)

	return &r.ID, nil
}

// MarkResolved closes a pending_redelivery delivery once its shortfall has
// been compensated
func (s *DeliveryService) MarkResolved(ctx context.Context, deliveryID uuid.UUID) error {
	d, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return err
	}
	if err := d.MarkResolved(); err != nil {
		return err
	}
	return s.deliveryRepo.Save(ctx, d)
}

// loadForActor loads a delivery and checks the actor is a party to it
func (s *DeliveryService) loadForActor(ctx context.Context, actor identity.Principal, deliveryID uuid.UUID) (*delivery.Delivery, error) {
	d, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if actor.IsRestaurant() && d.RestaurantID != actor.ID {
		return nil, shared.ErrForbidden
	}
	if actor.IsSupplier() && (d.SupplierID == nil || *d.SupplierID != actor.ID) {
		return nil, shared.ErrForbidden
	}
	return d, nil
}

func (s *DeliveryService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

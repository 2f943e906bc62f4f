package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/partner"
	"github.com/shipshape/backend/internal/domain/shared"
)

// ConnectionService handles the connect flow between restaurants and
// suppliers
type ConnectionService struct {
	requestRepo    partner.ConnectionRequestRepository
	supplierRepo   partner.SupplierRepository
	productRepo    partner.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(requestRepo partner.ConnectionRequestRepository, supplierRepo partner.SupplierRepository, productRepo partner.ProductRepository, logger *zap.Logger) *ConnectionService {
	return &ConnectionService{
		requestRepo:  requestRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ConnectionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Send creates a pending connection request. An existing pending or accepted
// request between the two parties, in either direction, blocks a new one.
func (s *ConnectionService) Send(ctx context.Context, actor identity.Principal, req SendConnectionRequest) (*ConnectionRequestResponse, error) {
	existing, err := s.requestRepo.FindActiveBetween(ctx, actor.ID, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == partner.RequestAccepted {
			return nil, shared.NewDomainError("ALREADY_CONNECTED", "The parties are already connected")
		}
		return nil, shared.NewDomainError("REQUEST_PENDING", "A connection request between the parties is already pending")
	}

	r, err := partner.NewConnectionRequest(actor.ID, actor.Role, req.ReceiverID, req.Message)
	if err != nil {
		return nil, err
	}

	events := r.GetDomainEvents()
	r.ClearDomainEvents()

	if err := s.requestRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, events)

	response := ToConnectionRequestResponse(r)
	return &response, nil
}

// Accept connects the two parties
func (s *ConnectionService) Accept(ctx context.Context, actor identity.Principal, requestID uuid.UUID) (*ConnectionRequestResponse, error) {
	return s.settle(ctx, actor, requestID, func(r *partner.ConnectionRequest) error {
		return r.Accept(actor)
	})
}

// Reject declines the request
func (s *ConnectionService) Reject(ctx context.Context, actor identity.Principal, requestID uuid.UUID) (*ConnectionRequestResponse, error) {
	return s.settle(ctx, actor, requestID, func(r *partner.ConnectionRequest) error {
		return r.Reject(actor)
	})
}

func (s *ConnectionService) settle(ctx context.Context, actor identity.Principal, requestID uuid.UUID, apply func(*partner.ConnectionRequest) error) (*ConnectionRequestResponse, error) {
	r, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if actor.ID != r.SenderID && actor.ID != r.ReceiverID {
		return nil, shared.ErrForbidden
	}

	if err := apply(r); err != nil {
		return nil, err
	}

	events := r.GetDomainEvents()
	r.ClearDomainEvents()

	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, events)

	response := ToConnectionRequestResponse(r)
	return &response, nil
}

// ListIncoming returns requests addressed to the actor
func (s *ConnectionService) ListIncoming(ctx context.Context, actor identity.Principal) ([]ConnectionRequestResponse, error) {
	requests, err := s.requestRepo.ListByReceiver(ctx, actor.ID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToConnectionRequestResponses(requests), nil
}

// ListOutgoing returns requests the actor has sent
func (s *ConnectionService) ListOutgoing(ctx context.Context, actor identity.Principal) ([]ConnectionRequestResponse, error) {
	requests, err := s.requestRepo.ListBySender(ctx, actor.ID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToConnectionRequestResponses(requests), nil
}

// SearchSuppliers lists directory entries matching the query, each annotated
// with the actor's connection status for the discovery UI
func (s *ConnectionService) SearchSuppliers(ctx context.Context, actor identity.Principal, filter SupplierSearchFilter) ([]SupplierResponse, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	suppliers, err := s.supplierRepo.Search(ctx, filter.Query, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]SupplierResponse, len(suppliers))
	for i, sup := range suppliers {
		status, err := s.connectionStatus(ctx, actor.ID, sup.ID)
		if err != nil {
			return nil, err
		}
		responses[i] = SupplierResponse{
			ID:               sup.ID,
			Name:             sup.Name,
			ContactEmail:     sup.ContactEmail,
			ContactPhone:     sup.ContactPhone,
			IsWholesale:      sup.IsWholesale,
			Priority:         sup.Priority,
			ConnectionStatus: status,
		}
	}
	return responses, nil
}

// ListSupplierProducts returns one supplier's catalog entries matching the
// query, by name. The catalog is public browse data for the connect flow;
// the supplier just has to exist.
func (s *ConnectionService) ListSupplierProducts(ctx context.Context, supplierID uuid.UUID, filter ProductSearchFilter) ([]ProductResponse, error) {
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	products, err := s.productRepo.Search(ctx, supplierID, filter.Query, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// connectionStatus reduces the active request between two parties to the
// discovery-UI status
func (s *ConnectionService) connectionStatus(ctx context.Context, a, b uuid.UUID) (partner.ConnectionStatus, error) {
	existing, err := s.requestRepo.FindActiveBetween(ctx, a, b)
	if err != nil {
		return "", err
	}
	switch {
	case existing == nil:
		return partner.ConnectionNone, nil
	case existing.Status == partner.RequestAccepted:
		return partner.ConnectionConnected, nil
	default:
		return partner.ConnectionPending, nil
	}
}

func (s *ConnectionService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

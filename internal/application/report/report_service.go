package report

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shipshape/backend/internal/domain/identity"
	"github.com/shipshape/backend/internal/domain/report"
	"github.com/shipshape/backend/internal/domain/shared"
)

// ReportService handles supplier actions on missing-items reports
type ReportService struct {
	reportRepo     report.Repository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo report.Repository, logger *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID retrieves a report the actor is a party to
func (s *ReportService) GetByID(ctx context.Context, actor identity.Principal, reportID uuid.UUID) (*ReportResponse, error) {
	r, err := s.loadForActor(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}
	response := ToReportResponse(r)
	return &response, nil
}

// List retrieves the actor's reports, newest first
func (s *ReportService) List(ctx context.Context, actor identity.Principal, filter ReportListFilter) ([]ReportResponse, error) {
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
		reports []report.Report
		err     error
	)
	if actor.IsSupplier() {
		reports, err = s.reportRepo.FindBySupplier(ctx, actor.ID, domainFilter)
	} else {
		reports, err = s.reportRepo.FindByRestaurant(ctx, actor.ID, domainFilter)
	}
	if err != nil {
		return nil, err
	}
	return ToReportResponses(reports), nil
}

// Acknowledge moves a pending report to acknowledged
func (s *ReportService) Acknowledge(ctx context.Context, actor identity.Principal, reportID uuid.UUID) (*ReportResponse, error) {
	return s.mutate(ctx, actor, reportID, func(r *report.Report) error {
		return r.Acknowledge(actor)
	})
}

// Resolve settles a report with an explicit resolution type
func (s *ReportService) Resolve(ctx context.Context, actor identity.Principal, reportID uuid.UUID, req ResolveReportRequest) (*ReportResponse, error) {
	return s.mutate(ctx, actor, reportID, func(r *report.Report) error {
		return r.Resolve(actor, req.ResolutionType, req.Note)
	})
}

// Dispute contests a report with a required reason
func (s *ReportService) Dispute(ctx context.Context, actor identity.Principal, reportID uuid.UUID, req DisputeReportRequest) (*ReportResponse, error) {
	return s.mutate(ctx, actor, reportID, func(r *report.Report) error {
		return r.Dispute(actor, req.Reason, req.Details)
	})
}

func (s *ReportService) mutate(ctx context.Context, actor identity.Principal, reportID uuid.UUID, apply func(*report.Report) error) (*ReportResponse, error) {
	r, err := s.loadForActor(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}

	if err := apply(r); err != nil {
		return nil, err
	}

	events := r.GetDomainEvents()
	r.ClearDomainEvents()

	if err := s.reportRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, events)

	response := ToReportResponse(r)
	return &response, nil
}

// loadForActor loads a report and checks the actor is a party to it
func (s *ReportService) loadForActor(ctx context.Context, actor identity.Principal, reportID uuid.UUID) (*report.Report, error) {
	r, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if actor.ID != r.SupplierID && actor.ID != r.RestaurantID {
		return nil, shared.ErrForbidden
	}
	return r, nil
}

func (s *ReportService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

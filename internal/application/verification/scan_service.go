package verification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	deliveryapp "github.com/shipshape/backend/internal/application/delivery"
	"github.com/shipshape/backend/internal/domain/shared"
)

// DefaultPageTimeout bounds a single page extraction call
const DefaultPageTimeout = 45 * time.Second

// ScanRequest represents a multi-page receipt upload
type ScanRequest struct {
	Pages           []PageImage
	ReceiptImageKey string
	SupplierID      *uuid.UUID
}

// ScanResponse is the draft delivery built from the scan, plus the intake
// outcome. Warning is set when some pages failed but at least one succeeded.
type ScanResponse struct {
	Delivery    deliveryapp.DeliveryResponse `json:"delivery"`
	PagesTotal  int                          `json:"pages_total"`
	PagesOK     int                          `json:"pages_ok"`
	FailedPages []int                        `json:"failed_pages,omitempty"`
	Warning     string                       `json:"warning,omitempty"`
}

// ScanService turns uploaded receipt pages into a draft delivery. Pages are
// extracted concurrently; results are assembled in page order so item
// identity (page, line) does not depend on completion order.
type ScanService struct {
	extractor       PageExtractor
	deliveryService *deliveryapp.DeliveryService
	pageTimeout     time.Duration
	logger          *zap.Logger
}

// NewScanService creates a new ScanService
func NewScanService(extractor PageExtractor, deliveryService *deliveryapp.DeliveryService, logger *zap.Logger) *ScanService {
	return &ScanService{
		extractor:       extractor,
		deliveryService: deliveryService,
		pageTimeout:     DefaultPageTimeout,
		logger:          logger,
	}
}

// SetPageTimeout overrides the per-page extraction deadline
func (s *ScanService) SetPageTimeout(d time.Duration) {
	s.pageTimeout = d
}

type pageResult struct {
	page *ExtractedPage
	err  error
}

// Scan extracts all pages concurrently and creates a draft delivery from the
// successful ones. All pages failing is an error; a partial failure produces
// a draft from the recognized pages with a warning.
func (s *ScanService) Scan(ctx context.Context, restaurantID uuid.UUID, req ScanRequest) (*ScanResponse, error) {
	if len(req.Pages) == 0 {
		return nil, shared.NewValidationError("At least one receipt page is required")
	}

	results := make([]pageResult, len(req.Pages))
	var wg sync.WaitGroup
	for i, page := range req.Pages {
		wg.Add(1)
		go func(i int, page PageImage) {
			defer wg.Done()
			pageCtx, cancel := context.WithTimeout(ctx, s.pageTimeout)
			defer cancel()
			extracted, err := s.extractor.ExtractPage(pageCtx, page)
			results[i] = pageResult{page: extracted, err: err}
		}(i, page)
	}
	wg.Wait()

	createReq := deliveryapp.CreateDeliveryRequest{
		SupplierID:      req.SupplierID,
		DeliveryDate:    time.Now(),
		ReceiptImageKey: req.ReceiptImageKey,
	}

	var failed []int
	for i, res := range results {
		if res.err != nil {
			s.logger.Warn("page extraction failed",
				zap.Int("page", i),
				zap.String("image_key", req.Pages[i].ImageKey),
				zap.Error(res.err),
			)
			failed = append(failed, i)
			continue
		}
		// header fields come from the earliest page that carries them
		if createReq.SupplierName == "" && res.page.SupplierName != "" {
			createReq.SupplierName = res.page.SupplierName
		}
		if createReq.OrderNumber == "" && res.page.OrderNumber != "" {
			createReq.OrderNumber = res.page.OrderNumber
		}
		if res.page.DeliveryDate != nil {
			createReq.DeliveryDate = *res.page.DeliveryDate
		}
		for line, item := range res.page.Items {
			createReq.Items = append(createReq.Items, deliveryapp.CreateDeliveryItemInput{
				Name:         item.Name,
				Quantity:     item.Quantity,
				Unit:         item.Unit,
				PricePerUnit: item.PricePerUnit,
				SourcePage:   i,
				SourceLine:   line,
			})
		}
	}

	ok := len(req.Pages) - len(failed)
	if ok == 0 {
		return nil, shared.NewDomainError("EXTRACTION_FAILED", "No receipt pages could be scanned")
	}
	if createReq.SupplierName == "" {
		createReq.SupplierName = "Unknown supplier"
	}

	created, err := s.deliveryService.Create(ctx, restaurantID, createReq)
	if err != nil {
		return nil, err
	}

	resp := &ScanResponse{
		Delivery:    *created,
		PagesTotal:  len(req.Pages),
		PagesOK:     ok,
		FailedPages: failed,
	}
	if len(failed) > 0 {
		resp.Warning = fmt.Sprintf("Scanned %d of %d pages", ok, len(req.Pages))
	}
	return resp, nil
}

package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shipshape/backend/internal/domain/report"
)

// ==================== Missing-Items Report DTOs ====================

// ResolveReportRequest settles a report with an explicit resolution
type ResolveReportRequest struct {
	ResolutionType report.ResolutionType `json:"resolution_type" binding:"required"`
	Note           string                `json:"note" binding:"max=1000"`
}

// DisputeReportRequest contests a report
type DisputeReportRequest struct {
	Reason  report.DisputeReason `json:"reason" binding:"required"`
	Details string               `json:"details" binding:"max=1000"`
}

// ReportListFilter represents filter options for the report list
type ReportListFilter struct {
	Status   *report.Status `form:"status"`
	Page     int            `form:"page"`
	PageSize int            `form:"page_size"`
}

// ReportItemResponse represents one shortfall line in API responses
type ReportItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	ExpectedQuantity  decimal.Decimal `json:"expected_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	MissingQuantity   decimal.Decimal `json:"missing_quantity"`
	Unit              string          `json:"unit"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit"`
	TotalMissingValue decimal.Decimal `json:"total_missing_value"`
}

// ReportResponse represents a missing-items report in API responses
type ReportResponse struct {
	ID                uuid.UUID              `json:"id"`
	DeliveryID        *uuid.UUID             `json:"delivery_id,omitempty"`
	RestaurantID      uuid.UUID              `json:"restaurant_id"`
	SupplierID        uuid.UUID              `json:"supplier_id"`
	Status            report.Status          `json:"status"`
	TotalMissingValue decimal.Decimal        `json:"total_missing_value"`
	ItemsCount        int                    `json:"items_count"`
	Notes             string                 `json:"notes,omitempty"`
	ResolutionType    *report.ResolutionType `json:"resolution_type,omitempty"`
	DisputeReason     *report.DisputeReason  `json:"dispute_reason,omitempty"`
	DisputeDetails    string                 `json:"dispute_details,omitempty"`
	LastActionBy      *uuid.UUID             `json:"last_action_by,omitempty"`
	AcknowledgedAt    *time.Time             `json:"acknowledged_at,omitempty"`
	ResolvedAt        *time.Time             `json:"resolved_at,omitempty"`
	DisputedAt        *time.Time             `json:"disputed_at,omitempty"`
	Items             []ReportItemResponse   `json:"items,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// ToReportResponse converts a domain report to a response
func ToReportResponse(r *report.Report) ReportResponse {
	items := make([]ReportItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = ReportItemResponse{
			ID:                item.ID,
			Name:              item.Name,
			ExpectedQuantity:  item.ExpectedQuantity,
			ReceivedQuantity:  item.ReceivedQuantity,
			MissingQuantity:   item.MissingQuantity,
			Unit:              item.Unit,
			PricePerUnit:      item.PricePerUnit,
			TotalMissingValue: item.TotalMissingValue,
		}
	}
	return ReportResponse{
		ID:                r.ID,
		DeliveryID:        r.DeliveryID,
		RestaurantID:      r.RestaurantID,
		SupplierID:        r.SupplierID,
		Status:            r.Status,
		TotalMissingValue: r.TotalMissingValue,
		ItemsCount:        r.ItemsCount,
		Notes:             r.Notes,
		ResolutionType:    r.ResolutionType,
		DisputeReason:     r.DisputeReason,
		DisputeDetails:    r.DisputeDetails,
		LastActionBy:      r.LastActionBy,
		AcknowledgedAt:    r.AcknowledgedAt,
		ResolvedAt:        r.ResolvedAt,
		DisputedAt:        r.DisputedAt,
		Items:             items,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ToReportResponses converts a slice of reports, omitting items
func ToReportResponses(reports []report.Report) []ReportResponse {
	responses := make([]ReportResponse, len(reports))
	for i := range reports {
		r := ToReportResponse(&reports[i])
		r.Items = nil
		responses[i] = r
	}
	return responses
}

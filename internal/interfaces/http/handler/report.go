package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/shipshape/backend/internal/application/report"
)

// ReportHandler handles missing-items report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("", h.List)
		reports.GET("/:id", h.Get)
		reports.POST("/:id/acknowledge", h.Acknowledge)
		reports.POST("/:id/resolve", h.Resolve)
		reports.POST("/:id/dispute", h.Dispute)
	}
}

// List returns the actor's reports, newest first
func (h *ReportHandler) List(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter reportapp.ReportListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reports, err := h.reportService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reports)
}

// Get returns one report with its item snapshots
func (h *ReportHandler) Get(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid report ID")
		return
	}

	r, err := h.reportService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// Acknowledge moves a pending report to acknowledged
func (h *ReportHandler) Acknowledge(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid report ID")
		return
	}

	r, err := h.reportService.Acknowledge(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// Resolve settles a report with an explicit resolution type
func (h *ReportHandler) Resolve(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid report ID")
		return
	}

	var req reportapp.ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	r, err := h.reportService.Resolve(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// Dispute contests a report with a required reason
func (h *ReportHandler) Dispute(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid report ID")
		return
	}

	var req reportapp.DisputeReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	r, err := h.reportService.Dispute(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

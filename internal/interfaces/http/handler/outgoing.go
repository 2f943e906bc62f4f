package handler

import (
	"github.com/gin-gonic/gin"

	outgoingapp "github.com/shipshape/backend/internal/application/outgoing"
)

// OutgoingHandler handles compensating-shipment endpoints
type OutgoingHandler struct {
	BaseHandler
	outgoingService *outgoingapp.OutgoingService
}

// NewOutgoingHandler creates a new OutgoingHandler
func NewOutgoingHandler(outgoingService *outgoingapp.OutgoingService) *OutgoingHandler {
	return &OutgoingHandler{outgoingService: outgoingService}
}

// RegisterRoutes registers outgoing delivery routes
func (h *OutgoingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	outgoing := rg.Group("/outgoing-deliveries")
	{
		outgoing.POST("", h.Create)
		outgoing.GET("", h.List)
		outgoing.GET("/:id", h.Get)
		outgoing.POST("/:id/in-transit", h.MarkInTransit)
		outgoing.POST("/:id/delivered", h.MarkDelivered)
		outgoing.POST("/:id/confirm", h.Confirm)
		outgoing.POST("/:id/dispute", h.Dispute)
	}
}

// Create commits a compensating shipment for a missing-items report
func (h *OutgoingHandler) Create(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req outgoingapp.CreateOutgoingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.outgoingService.CreateFromReport(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// List returns the actor's outgoing deliveries, newest first
func (h *OutgoingHandler) List(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter outgoingapp.OutgoingListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deliveries, err := h.outgoingService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deliveries)
}

// Get returns one outgoing delivery with its items
func (h *OutgoingHandler) Get(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid outgoing delivery ID")
		return
	}

	o, err := h.outgoingService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// MarkInTransit dispatches the shipment
func (h *OutgoingHandler) MarkInTransit(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid outgoing delivery ID")
		return
	}

	o, err := h.outgoingService.MarkInTransit(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// MarkDelivered records arrival of the shipment
func (h *OutgoingHandler) MarkDelivered(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid outgoing delivery ID")
		return
	}

	// the body is optional; an empty body means "delivered now"
	var req outgoingapp.DeliveredRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	o, err := h.outgoingService.MarkDelivered(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Confirm accepts the delivered shipment
func (h *OutgoingHandler) Confirm(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid outgoing delivery ID")
		return
	}

	o, err := h.outgoingService.Confirm(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Dispute contests the delivered shipment
func (h *OutgoingHandler) Dispute(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid outgoing delivery ID")
		return
	}

	var req outgoingapp.DisputeOutgoingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	o, err := h.outgoingService.Dispute(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

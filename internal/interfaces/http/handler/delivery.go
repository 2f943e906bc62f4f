package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	deliveryapp "github.com/shipshape/backend/internal/application/delivery"
	"github.com/shipshape/backend/internal/domain/identity"
)

// DeliveryHandler handles delivery verification endpoints
type DeliveryHandler struct {
	BaseHandler
	deliveryService *deliveryapp.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *deliveryapp.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// RegisterRoutes registers delivery routes
func (h *DeliveryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deliveries := rg.Group("/deliveries")
	{
		deliveries.POST("", h.Create)
		deliveries.GET("", h.List)
		deliveries.GET("/:id", h.Get)
		deliveries.PUT("/:id/receipt-image", h.SetReceiptImage)
		deliveries.POST("/:id/finalize", h.Finalize)

		items := deliveries.Group("/:id/items/:itemId")
		{
			items.POST("/receive", h.MarkItemReceived)
			items.POST("/missing", h.MarkItemMissing)
			items.POST("/missing-all", h.MarkItemAllMissing)
			items.POST("/reset", h.ResetItem)
		}
	}
}

// itemParams parses the delivery and item UUIDs from the path
func (h *DeliveryHandler) itemParams(c *gin.Context) (actor identity.Principal, deliveryID, itemID uuid.UUID, ok bool) {
	actor, authed := getPrincipal(c)
	if !authed {
		h.Unauthorized(c, "Authentication required")
		return actor, deliveryID, itemID, false
	}
	deliveryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID")
		return actor, deliveryID, itemID, false
	}
	itemID, err = parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return actor, deliveryID, itemID, false
	}
	return actor, deliveryID, itemID, true
}

// Create creates a draft delivery for manual entry
func (h *DeliveryHandler) Create(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if !actor.IsRestaurant() {
		h.Forbidden(c, "Only restaurants can record incoming deliveries")
		return
	}

	var req deliveryapp.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.deliveryService.Create(c.Request.Context(), actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// List returns the actor's deliveries with filtering and pagination
func (h *DeliveryHandler) List(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter deliveryapp.DeliveryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deliveries, total, err := h.deliveryService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, deliveries, total, page, pageSize)
}

// Get returns one delivery with its items
func (h *DeliveryHandler) Get(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	d, err := h.deliveryService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// setReceiptImageRequest carries the storage key of an uploaded receipt
type setReceiptImageRequest struct {
	ReceiptImageKey string `json:"receipt_image_key" binding:"required,max=500"`
}

// SetReceiptImage attaches an uploaded receipt image to the delivery
func (h *DeliveryHandler) SetReceiptImage(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	var req setReceiptImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	d, err := h.deliveryService.SetReceiptImage(c.Request.Context(), actor, id, req.ReceiptImageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// Finalize applies the verification outcome to the delivery
func (h *DeliveryHandler) Finalize(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid delivery ID")
		return
	}

	var req deliveryapp.FinalizeDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.deliveryService.Finalize(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// MarkItemReceived marks the full ordered quantity of one item as received
func (h *DeliveryHandler) MarkItemReceived(c *gin.Context) {
	actor, deliveryID, itemID, ok := h.itemParams(c)
	if !ok {
		return
	}
	d, err := h.deliveryService.MarkItemReceived(c.Request.Context(), actor, deliveryID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// MarkItemMissing records a shortfall quantity on one item
func (h *DeliveryHandler) MarkItemMissing(c *gin.Context) {
	actor, deliveryID, itemID, ok := h.itemParams(c)
	if !ok {
		return
	}
	var req deliveryapp.MarkItemMissingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	d, err := h.deliveryService.MarkItemMissing(c.Request.Context(), actor, deliveryID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// MarkItemAllMissing marks the whole ordered quantity of one item missing
func (h *DeliveryHandler) MarkItemAllMissing(c *gin.Context) {
	actor, deliveryID, itemID, ok := h.itemParams(c)
	if !ok {
		return
	}
	d, err := h.deliveryService.MarkItemAllMissing(c.Request.Context(), actor, deliveryID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// ResetItem returns one item to pending
func (h *DeliveryHandler) ResetItem(c *gin.Context) {
	actor, deliveryID, itemID, ok := h.itemParams(c)
	if !ok {
		return
	}
	d, err := h.deliveryService.ResetItem(c.Request.Context(), actor, deliveryID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/shipshape/backend/internal/application/partner"
)

// ConnectionHandler handles supplier discovery and the connect flow
type ConnectionHandler struct {
	BaseHandler
	connectionService *partnerapp.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connectionService *partnerapp.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// RegisterRoutes registers connection and supplier directory routes
func (h *ConnectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	connections := rg.Group("/connections")
	{
		connections.POST("/requests", h.Send)
		connections.GET("/requests/incoming", h.ListIncoming)
		connections.GET("/requests/outgoing", h.ListOutgoing)
		connections.POST("/requests/:id/accept", h.Accept)
		connections.POST("/requests/:id/reject", h.Reject)
	}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.GET("/search", h.SearchSuppliers)
		suppliers.GET("/:id/products", h.ListProducts)
	}
}

// Send creates a pending connection request
func (h *ConnectionHandler) Send(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req partnerapp.SendConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	r, err := h.connectionService.Send(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, r)
}

// ListIncoming returns requests addressed to the actor
func (h *ConnectionHandler) ListIncoming(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requests, err := h.connectionService.ListIncoming(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, requests)
}

// ListOutgoing returns requests the actor has sent
func (h *ConnectionHandler) ListOutgoing(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requests, err := h.connectionService.ListOutgoing(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, requests)
}

// Accept connects the two parties
func (h *ConnectionHandler) Accept(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	r, err := h.connectionService.Accept(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// Reject declines the request
func (h *ConnectionHandler) Reject(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	r, err := h.connectionService.Reject(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// SearchSuppliers lists directory entries matching the query
func (h *ConnectionHandler) SearchSuppliers(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter partnerapp.SupplierSearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	suppliers, err := h.connectionService.SearchSuppliers(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// ListProducts returns one supplier's catalog, by name
func (h *ConnectionHandler) ListProducts(c *gin.Context) {
	if _, ok := getPrincipal(c); !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	supplierID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var filter partnerapp.ProductSearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	products, err := h.connectionService.ListSupplierProducts(c.Request.Context(), supplierID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

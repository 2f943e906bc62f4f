package handler

import (
	"github.com/gin-gonic/gin"

	notificationapp "github.com/shipshape/backend/internal/application/notification"
)

// NotificationHandler handles inbox endpoints
type NotificationHandler struct {
	BaseHandler
	inboxService *notificationapp.InboxService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(inboxService *notificationapp.InboxService) *NotificationHandler {
	return &NotificationHandler{inboxService: inboxService}
}

// RegisterRoutes registers notification routes
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.POST("/read-all", h.MarkAllRead)
		notifications.POST("/:id/read", h.MarkRead)
	}
}

// List returns the actor's inbox page plus the unread count
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter notificationapp.InboxListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	inbox, err := h.inboxService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inbox)
}

// MarkRead marks one notification read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.inboxService.MarkRead(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkAllRead marks every unread notification of the actor read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.inboxService.MarkAllRead(c.Request.Context(), actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

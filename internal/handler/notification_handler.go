package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kelasku/kelasku-backend/internal/middleware"
	"github.com/kelasku/kelasku-backend/internal/response"
	"github.com/kelasku/kelasku-backend/internal/service"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List godoc
// GET /api/v1/notifications
// Lists the authenticated user's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	notifications, err := h.notificationService.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead godoc
// PATCH /api/v1/notifications/:notification_id/read
// Marks one of the user's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	notificationID, ok := parseIDParam(c, "notification_id")
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), notificationID, claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"notification": notification})
}

// MarkAllRead godoc
// POST /api/v1/notifications/read-all
// Marks all of the user's notifications as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

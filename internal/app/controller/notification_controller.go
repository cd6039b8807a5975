package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjoh/foundly-backend/internal/app/service"
	apperrors "github.com/sjoh/foundly-backend/internal/errors"
	"github.com/sjoh/foundly-backend/internal/middleware"
	"github.com/sjoh/foundly-backend/pkg/logger"
)

type NotificationController struct {
	service service.NotificationService
}

func NewNotificationController(service service.NotificationService) *NotificationController {
	return &NotificationController{
		service: service,
	}
}

type UpdateNotificationSettingsRequest struct {
	ClaimNotification *bool    `json:"claim_notification" binding:"required"`
	WatchedPlaces     []string `json:"watched_places"`
}

// GetNotifications lists the caller's notifications, newest first
// GET /api/v1/notifications?is_read=&limit=&offset=
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	var isRead *bool
	if isReadStr := c.Query("is_read"); isReadStr != "" {
		if v, err := strconv.ParseBool(isReadStr); err == nil {
			isRead = &v
		}
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, total, err := ctrl.service.GetNotifications(userID, isRead, limit, offset)
	if err != nil {
		log.Error("Failed to list notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"total":         total,
	})
}

// GetUnreadCount returns the caller's unread notification count
// GET /api/v1/notifications/unread-count
func (ctrl *NotificationController) GetUnreadCount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	count, err := ctrl.service.GetUnreadCount(userID)
	if err != nil {
		log.Error("Failed to count unread notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}

// MarkAsRead marks one notification as read
// PATCH /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkAsRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid notification ID")
		return
	}

	notification, err := ctrl.service.MarkAsRead(uint(id), userID)
	if err != nil {
		ctrl.respondNotificationError(c, log, err, uint(id), userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notification": notification,
	})
}

// MarkAllAsRead marks every notification of the caller as read
// PATCH /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllAsRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	if err := ctrl.service.MarkAllAsRead(userID); err != nil {
		log.Error("Failed to mark all notifications as read", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All notifications marked as read",
	})
}

// DeleteNotification deletes one notification of the caller
// DELETE /api/v1/notifications/:id
func (ctrl *NotificationController) DeleteNotification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid notification ID")
		return
	}

	if err := ctrl.service.DeleteNotification(uint(id), userID); err != nil {
		ctrl.respondNotificationError(c, log, err, uint(id), userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification deleted",
	})
}

// GetSettings returns the caller's notification settings
// GET /api/v1/notifications/settings
func (ctrl *NotificationController) GetSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	settings, err := ctrl.service.GetSettings(userID)
	if err != nil {
		log.Error("Failed to get notification settings", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// UpdateSettings updates claim alerts and watched places
// PUT /api/v1/notifications/settings
func (ctrl *NotificationController) UpdateSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Login required")
		return
	}

	var req UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid notification settings request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid settings")
		return
	}

	settings, err := ctrl.service.UpdateSettings(userID, *req.ClaimNotification, req.WatchedPlaces)
	if err != nil {
		log.Error("Failed to update notification settings", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update settings")
		return
	}

	log.Info("Notification settings updated", map[string]interface{}{
		"user_id":        userID,
		"watched_places": len(settings.WatchedPlaces),
	})

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

func (ctrl *NotificationController) respondNotificationError(
	c *gin.Context,
	log *logger.Logger,
	err error,
	notificationID, userID uint,
) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		apperrors.NotFound(c, apperrors.NotificationNotFound, "Notification not found")
	case errors.Is(err, service.ErrNotificationDenied):
		log.Warn("Notification access denied", map[string]interface{}{
			"notification_id": notificationID,
			"user_id":         userID,
		})
		apperrors.Forbidden(c, apperrors.NotificationDenied, "You do not have access to this notification")
	default:
		log.Error("Notification operation failed", err, map[string]interface{}{
			"notification_id": notificationID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "notification")
	}
}

// handlers/notifications.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
	"siteledger.app/api/models"
)

// NotificationHandler serves the per-user notification feed.
type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{db: config.DB}
}

// GetNotifications returns a page of notifications plus the unread count.
// GET /api/notifications?limit=&offset=
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	limit := 20
	offset := 0
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	var notifications []models.Notification
	if err := h.db.Where("user_id = ?", claims.UserID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&notifications).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	var unread int64
	if err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", claims.UserID, false).
		Count(&unread).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unreadCount":   unread,
		"hasMore":       len(notifications) == limit,
	})
}

// MarkRead marks one notification read. PUT /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	result := h.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", mux.Vars(r)["id"], claims.UserID).
		Update("read", true)
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Notification not found")
		return
	}
	writeMessage(w, "Notification marked read")
}

// MarkAllRead marks all of the caller's notifications read.
// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	if err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", claims.UserID, false).
		Update("read", true).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to mark notifications read")
		return
	}
	writeMessage(w, "All notifications marked read")
}

// DeleteNotification removes one notification. DELETE /api/notifications/{id}
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	result := h.db.Where("id = ? AND user_id = ?", mux.Vars(r)["id"], claims.UserID).
		Delete(&models.Notification{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Notification not found")
		return
	}
	writeMessage(w, "Notification deleted")
}

// handlers/alerts.go
package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
	"siteledger.app/api/models"
)

// AlertHandler serves the owner alert feed.
type AlertHandler struct {
	db *gorm.DB
}

func NewAlertHandler() *AlertHandler {
	return &AlertHandler{db: config.DB}
}

type alertResponse struct {
	models.Alert
	JobName string `json:"jobName,omitempty"`
}

// GetAlerts lists the newest 100 alerts. GET /api/alerts
func (h *AlertHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var alerts []models.Alert
	if err := h.db.Where("owner_id = ?", claims.UserID).
		Order("created_at DESC").Limit(100).Find(&alerts).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch alerts")
		return
	}

	jobNames := map[uuid.UUID]string{}
	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		resp := alertResponse{Alert: a}
		if a.JobID != nil {
			name, ok := jobNames[*a.JobID]
			if !ok {
				var job models.Job
				if err := h.db.Select("job_name").First(&job, "id = ?", *a.JobID).Error; err == nil {
					name = job.JobName
				}
				jobNames[*a.JobID] = name
			}
			resp.JobName = name
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetUnreadCount returns the unread alert count. GET /api/alerts/unread-count
func (h *AlertHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var count int64
	if err := h.db.Model(&models.Alert{}).
		Where("owner_id = ? AND read = ?", claims.UserID, false).
		Count(&count).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get unread count")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// MarkRead marks one alert read. PUT /api/alerts/{id}/read
func (h *AlertHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	if err := h.db.Model(&models.Alert{}).
		Where("id = ? AND owner_id = ?", mux.Vars(r)["id"], claims.UserID).
		Update("read", true).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to mark alert read")
		return
	}
	writeMessage(w, "Alert marked read")
}

// MarkAllRead marks every alert read. PUT /api/alerts/read-all
func (h *AlertHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	if err := h.db.Model(&models.Alert{}).
		Where("owner_id = ? AND read = ?", claims.UserID, false).
		Update("read", true).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to mark alerts read")
		return
	}
	writeMessage(w, "All alerts marked read")
}

// DeleteAlert removes an alert. DELETE /api/alerts/{id}
func (h *AlertHandler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	result := h.db.Where("id = ? AND owner_id = ?", mux.Vars(r)["id"], claims.UserID).
		Delete(&models.Alert{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete alert")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Alert not found")
		return
	}
	writeMessage(w, "Alert deleted")
}

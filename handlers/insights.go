// handlers/insights.go
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
	"siteledger.app/api/models"
	"siteledger.app/api/utils"
)

// InsightHandler persists AI-generated summaries. Generation happens on the
// client or an external proxy; the server only stores and serves results.
type InsightHandler struct {
	db *gorm.DB
}

func NewInsightHandler() *InsightHandler {
	return &InsightHandler{db: config.DB}
}

// GetInsights lists the caller's saved insights, newest first. An optional
// ?type= filter narrows by insight type.
// GET /api/insights
func (h *InsightHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	q := h.db.Where("user_id = ?", claims.UserID)
	if t := r.URL.Query().Get("type"); t != "" {
		q = q.Where("type = ?", t)
	}

	var insights []models.AIInsight
	if err := q.Order("generated_at DESC").Limit(50).Find(&insights).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch insights")
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

type saveInsightReq struct {
	Type        string          `json:"type"    validate:"required,max=50"`
	Content     string          `json:"content" validate:"required"`
	Data        json.RawMessage `json:"data"`
	GeneratedAt *time.Time      `json:"generatedAt"`
}

// SaveInsight stores a generated insight for the caller.
// POST /api/insights
func (h *InsightHandler) SaveInsight(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	userID, _ := uuid.Parse(claims.UserID)

	var req saveInsightReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "type and content are required")
		return
	}

	generatedAt := time.Now().UTC()
	if req.GeneratedAt != nil {
		generatedAt = *req.GeneratedAt
	}

	insight := models.AIInsight{
		UserID:      userID,
		Type:        req.Type,
		Content:     req.Content,
		GeneratedAt: generatedAt,
	}
	if len(req.Data) > 0 {
		insight.Data = datatypes.JSON(req.Data)
	}

	if err := h.db.Create(&insight).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save insight")
		return
	}
	writeJSON(w, http.StatusCreated, insight)
}

// DeleteInsight removes one of the caller's insights.
// DELETE /api/insights/{id}
func (h *InsightHandler) DeleteInsight(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	result := h.db.Where("id = ? AND user_id = ?", mux.Vars(r)["id"], claims.UserID).
		Delete(&models.AIInsight{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete insight")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Insight not found")
		return
	}
	writeMessage(w, "Insight deleted")
}

// handlers/receipts.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
	"siteledger.app/api/models"
	"siteledger.app/api/utils"
)

// ReceiptHandler handles receipt CRUD. Receipts are expense documents; they
// feed job cost through FinanceService and nothing else.
type ReceiptHandler struct {
	db *gorm.DB
}

func NewReceiptHandler() *ReceiptHandler {
	return &ReceiptHandler{db: config.DB}
}

type receiptResponse struct {
	models.Receipt
	JobName string `json:"jobName,omitempty"`
}

func (h *ReceiptHandler) decorate(receipts []models.Receipt) []receiptResponse {
	jobNames := map[uuid.UUID]string{}
	out := make([]receiptResponse, 0, len(receipts))
	for _, rec := range receipts {
		resp := receiptResponse{Receipt: rec}
		if rec.JobID != nil {
			name, ok := jobNames[*rec.JobID]
			if !ok {
				var job models.Job
				if err := h.db.Select("job_name").First(&job, "id = ?", *rec.JobID).Error; err == nil {
					name = job.JobName
				}
				jobNames[*rec.JobID] = name
			}
			resp.JobName = name
		}
		out = append(out, resp)
	}
	return out
}

// GetReceipts lists the caller's receipts. GET /api/receipts
func (h *ReceiptHandler) GetReceipts(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var receipts []models.Receipt
	if err := h.db.Where("owner_id = ?", claims.UserID).Order("created_at DESC").Find(&receipts).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch receipts")
		return
	}
	writeJSON(w, http.StatusOK, h.decorate(receipts))
}

// GetJobReceipts lists receipts for one job. GET /api/jobs/{jobID}/receipts
func (h *ReceiptHandler) GetJobReceipts(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	jobID := mux.Vars(r)["jobID"]

	var receipts []models.Receipt
	if err := h.db.Where("job_id = ? AND owner_id = ?", jobID, claims.UserID).
		Order("created_at DESC").Find(&receipts).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch receipts")
		return
	}
	writeJSON(w, http.StatusOK, h.decorate(receipts))
}

type createReceiptReq struct {
	JobID               *uuid.UUID       `json:"jobID"`
	Amount              float64          `json:"amount" validate:"gte=0"`
	Vendor              string           `json:"vendor" validate:"required"`
	Category            *string          `json:"category"`
	Date                *models.JSONTime `json:"date"   validate:"required"`
	ImageURL            *string          `json:"imageURL"`
	Notes               string           `json:"notes"`
	AIProcessed         bool             `json:"aiProcessed"`
	AIConfidence        *float64         `json:"aiConfidence"`
	AIFlags             json.RawMessage  `json:"aiFlags"`
	AISuggestedCategory *string          `json:"aiSuggestedCategory"`
}

// CreateReceipt stores a receipt. A worker submitting against a job files it
// under the job owner's account. POST /api/receipts
func (h *ReceiptHandler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var req createReceiptReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "vendor, date and a non-negative amount are required")
		return
	}

	ownerID, _ := uuid.Parse(claims.UserID)
	if claims.Role == models.RoleWorker && req.JobID != nil {
		var job models.Job
		if err := h.db.First(&job, "id = ?", *req.JobID).Error; err != nil {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		ownerID = job.OwnerID
	}

	rec := models.Receipt{
		OwnerID:             ownerID,
		JobID:               req.JobID,
		Amount:              req.Amount,
		Vendor:              req.Vendor,
		Category:            req.Category,
		ReceiptDate:         *req.Date,
		ImageURL:            req.ImageURL,
		Notes:               req.Notes,
		AIProcessed:         req.AIProcessed,
		AIConfidence:        req.AIConfidence,
		AISuggestedCategory: req.AISuggestedCategory,
	}
	if len(req.AIFlags) > 0 {
		rec.AIFlags = datatypes.JSON(req.AIFlags)
	}

	if err := h.db.Create(&rec).Error; err != nil {
		log.Printf("❌ Failed to create receipt: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create receipt")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

type updateReceiptReq struct {
	JobID               *uuid.UUID       `json:"jobID"`
	Amount              *float64         `json:"amount"`
	Vendor              *string          `json:"vendor"`
	Category            *string          `json:"category"`
	Date                *models.JSONTime `json:"date"`
	ImageURL            *string          `json:"imageURL"`
	Notes               *string          `json:"notes"`
	AIProcessed         *bool            `json:"aiProcessed"`
	AIConfidence        *float64         `json:"aiConfidence"`
	AIFlags             json.RawMessage  `json:"aiFlags"`
	AISuggestedCategory *string          `json:"aiSuggestedCategory"`
}

// UpdateReceipt applies a partial update. PUT /api/receipts/{id}
func (h *ReceiptHandler) UpdateReceipt(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	id := mux.Vars(r)["id"]

	var rec models.Receipt
	if err := h.db.First(&rec, "id = ? AND owner_id = ?", id, claims.UserID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Receipt not found")
		return
	}

	var req updateReceiptReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Amount != nil && *req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must be non-negative")
		return
	}

	if req.JobID != nil {
		rec.JobID = req.JobID
	}
	if req.Amount != nil {
		rec.Amount = *req.Amount
	}
	if req.Vendor != nil {
		rec.Vendor = *req.Vendor
	}
	if req.Category != nil {
		rec.Category = req.Category
	}
	if req.Date != nil {
		rec.ReceiptDate = *req.Date
	}
	if req.ImageURL != nil {
		rec.ImageURL = req.ImageURL
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}
	if req.AIProcessed != nil {
		rec.AIProcessed = *req.AIProcessed
	}
	if req.AIConfidence != nil {
		rec.AIConfidence = req.AIConfidence
	}
	if len(req.AIFlags) > 0 {
		rec.AIFlags = datatypes.JSON(req.AIFlags)
	}
	if req.AISuggestedCategory != nil {
		rec.AISuggestedCategory = req.AISuggestedCategory
	}

	if err := h.db.Save(&rec).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update receipt")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteReceipt removes a receipt. DELETE /api/receipts/{id}
func (h *ReceiptHandler) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	id := mux.Vars(r)["id"]

	result := h.db.Where("id = ? AND owner_id = ?", id, claims.UserID).Delete(&models.Receipt{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete receipt")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Receipt not found")
		return
	}
	writeMessage(w, "Receipt deleted")
}

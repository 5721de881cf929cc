// handlers/documents.go
package handlers

import (
	"encoding/json"
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

// DocumentHandler handles document metadata CRUD. File bytes live in object
// storage; this service only tracks URLs and annotations.
type DocumentHandler struct {
	db *gorm.DB
}

func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{db: config.DB}
}

type documentResponse struct {
	models.Document
	JobName string `json:"jobName,omitempty"`
}

// GetDocuments lists the caller's documents. GET /api/documents
func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var docs []models.Document
	if err := h.db.Where("owner_id = ?", claims.UserID).Order("created_at DESC").Find(&docs).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch documents")
		return
	}

	jobNames := map[uuid.UUID]string{}
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		resp := documentResponse{Document: d}
		if d.JobID != nil {
			name, ok := jobNames[*d.JobID]
			if !ok {
				var job models.Job
				if err := h.db.Select("job_name").First(&job, "id = ?", *d.JobID).Error; err == nil {
					name = job.JobName
				}
				jobNames[*d.JobID] = name
			}
			resp.JobName = name
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

type createDocumentReq struct {
	JobID            *uuid.UUID      `json:"jobID"`
	FileURL          string          `json:"fileURL"  validate:"required"`
	FileType         string          `json:"fileType" validate:"required,oneof=pdf image other"`
	Title            string          `json:"title"    validate:"required"`
	Notes            string          `json:"notes"`
	DocumentCategory *string         `json:"documentCategory"`
	AIProcessed      bool            `json:"aiProcessed"`
	AISummary        *string         `json:"aiSummary"`
	AIExtractedData  json.RawMessage `json:"aiExtractedData"`
	AIConfidence     *float64        `json:"aiConfidence"`
}

// CreateDocument stores document metadata. POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	ownerID, _ := uuid.Parse(claims.UserID)

	var req createDocumentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "fileURL, title and a valid fileType are required")
		return
	}

	doc := models.Document{
		OwnerID:          ownerID,
		JobID:            req.JobID,
		FileURL:          req.FileURL,
		FileType:         req.FileType,
		Title:            req.Title,
		Notes:            req.Notes,
		DocumentCategory: req.DocumentCategory,
		AIProcessed:      req.AIProcessed,
		AISummary:        req.AISummary,
		AIConfidence:     req.AIConfidence,
	}
	if len(req.AIExtractedData) > 0 {
		doc.AIExtractedData = datatypes.JSON(req.AIExtractedData)
	}

	if err := h.db.Create(&doc).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create document")
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

type updateDocumentReq struct {
	JobID            *uuid.UUID      `json:"jobID"`
	Title            *string         `json:"title"`
	Notes            *string         `json:"notes"`
	DocumentCategory *string         `json:"documentCategory"`
	AIProcessed      *bool           `json:"aiProcessed"`
	AISummary        *string         `json:"aiSummary"`
	AIExtractedData  json.RawMessage `json:"aiExtractedData"`
	AIConfidence     *float64        `json:"aiConfidence"`
}

// UpdateDocument applies a partial metadata update. PUT /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var doc models.Document
	if err := h.db.First(&doc, "id = ? AND owner_id = ?", mux.Vars(r)["id"], claims.UserID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	var req updateDocumentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.JobID != nil {
		doc.JobID = req.JobID
	}
	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Notes != nil {
		doc.Notes = *req.Notes
	}
	if req.DocumentCategory != nil {
		doc.DocumentCategory = req.DocumentCategory
	}
	if req.AIProcessed != nil {
		doc.AIProcessed = *req.AIProcessed
	}
	if req.AISummary != nil {
		doc.AISummary = req.AISummary
	}
	if len(req.AIExtractedData) > 0 {
		doc.AIExtractedData = datatypes.JSON(req.AIExtractedData)
	}
	if req.AIConfidence != nil {
		doc.AIConfidence = req.AIConfidence
	}

	if err := h.db.Save(&doc).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument removes document metadata. DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	result := h.db.Where("id = ? AND owner_id = ?", mux.Vars(r)["id"], claims.UserID).
		Delete(&models.Document{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	writeMessage(w, "Document deleted")
}

// handlers/client_payments.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
	"siteledger.app/api/models"
	"siteledger.app/api/utils"
)

var (
	errJobNotFound     = errors.New("job not found")
	errPaymentNotFound = errors.New("payment not found")
	errOverpayment     = errors.New("amount paid cannot exceed project value")
)

// ClientPaymentHandler handles money received from clients against a job.
// Every create and delete keeps jobs.amount_paid consistent inside one
// transaction.
type ClientPaymentHandler struct {
	db *gorm.DB
}

func NewClientPaymentHandler() *ClientPaymentHandler {
	return &ClientPaymentHandler{db: config.DB}
}

func (h *ClientPaymentHandler) ownedJob(claims *middleware.Claims, jobID string) (models.Job, error) {
	var job models.Job
	err := h.db.First(&job, "id = ? AND owner_id = ?", jobID, claims.UserID).Error
	return job, err
}

// GetJobClientPayments lists payments received for a job (owners only).
// GET /api/jobs/{jobID}/payments
func (h *ClientPaymentHandler) GetJobClientPayments(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	jobID := mux.Vars(r)["jobID"]

	if _, err := h.ownedJob(claims, jobID); err != nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	var payments []models.ClientPayment
	if err := h.db.Where("job_id = ?", jobID).
		Order("date DESC, created_at DESC").Find(&payments).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch payments")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

type createClientPaymentReq struct {
	Amount    float64          `json:"amount" validate:"gt=0"`
	Method    string           `json:"method" validate:"required"`
	Date      *models.JSONTime `json:"date"   validate:"required"`
	Reference *string          `json:"reference"`
	Notes     string           `json:"notes"`
}

// CreateClientPayment records a client payment and bumps the job's
// amount_paid in the same transaction. Payments that would push amountPaid
// above projectValue are rejected.
// POST /api/jobs/{jobID}/payments
func (h *ClientPaymentHandler) CreateClientPayment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	jobID := mux.Vars(r)["jobID"]
	userID, _ := uuid.Parse(claims.UserID)

	var req createClientPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "amount, method and date are required")
		return
	}

	var payment models.ClientPayment
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, "id = ? AND owner_id = ?", jobID, claims.UserID).Error; err != nil {
			return errJobNotFound
		}
		if job.AmountPaid+req.Amount > job.ProjectValue {
			return errOverpayment
		}

		payment = models.ClientPayment{
			JobID:     job.ID,
			Amount:    req.Amount,
			Method:    req.Method,
			Date:      *req.Date,
			Reference: req.Reference,
			Notes:     req.Notes,
			CreatedBy: userID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Job{}).Where("id = ?", job.ID).
			Update("amount_paid", gorm.Expr("amount_paid + ?", req.Amount)).Error
	})
	switch err {
	case nil:
		writeJSON(w, http.StatusCreated, payment)
	case errJobNotFound:
		writeError(w, http.StatusNotFound, "Job not found")
	case errOverpayment:
		writeError(w, http.StatusBadRequest, "Amount paid cannot exceed project value")
	default:
		log.Printf("❌ Failed to create client payment: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create payment")
	}
}

// DeleteClientPayment removes a client payment and decrements the job's
// amount_paid in the same transaction.
// DELETE /api/jobs/{jobID}/payments/{id}
func (h *ClientPaymentHandler) DeleteClientPayment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	vars := mux.Vars(r)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, "id = ? AND owner_id = ?", vars["jobID"], claims.UserID).Error; err != nil {
			return errJobNotFound
		}

		var payment models.ClientPayment
		if err := tx.First(&payment, "id = ? AND job_id = ?", vars["id"], job.ID).Error; err != nil {
			return errPaymentNotFound
		}
		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Job{}).Where("id = ?", job.ID).
			Update("amount_paid", gorm.Expr("amount_paid - ?", payment.Amount)).Error
	})
	switch err {
	case nil:
		writeMessage(w, "Payment deleted")
	case errJobNotFound:
		writeError(w, http.StatusNotFound, "Job not found")
	case errPaymentNotFound:
		writeError(w, http.StatusNotFound, "Payment not found")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to delete payment")
	}
}

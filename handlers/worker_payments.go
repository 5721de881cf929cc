// handlers/worker_payments.go
package handlers

import (
	"encoding/json"
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

// WorkerPaymentHandler handles payroll records.
type WorkerPaymentHandler struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewWorkerPaymentHandler() *WorkerPaymentHandler {
	return &WorkerPaymentHandler{
		db:            config.DB,
		notifications: NewNotificationService(config.DB),
	}
}

type workerPaymentResponse struct {
	models.WorkerPayment
	WorkerName  string `json:"workerName,omitempty"`
	WorkerEmail string `json:"workerEmail,omitempty"`
}

func (h *WorkerPaymentHandler) decorate(payments []models.WorkerPayment) []workerPaymentResponse {
	workers := map[uuid.UUID]models.User{}
	out := make([]workerPaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp := workerPaymentResponse{WorkerPayment: p}
		u, ok := workers[p.WorkerID]
		if !ok {
			if err := h.db.First(&u, "id = ?", p.WorkerID).Error; err == nil {
				workers[p.WorkerID] = u
			}
		}
		resp.WorkerName = u.Name
		resp.WorkerEmail = u.Email
		out = append(out, resp)
	}
	return out
}

// GetWorkerPayments lists all payroll records for the owner.
// GET /api/worker-payments
func (h *WorkerPaymentHandler) GetWorkerPayments(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var payments []models.WorkerPayment
	if err := h.db.Where("owner_id = ?", claims.UserID).
		Order("payment_date DESC, created_at DESC").Find(&payments).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch worker payments")
		return
	}
	writeJSON(w, http.StatusOK, h.decorate(payments))
}

// GetWorkerPaymentHistory lists payments for one worker. Owners see any of
// their workers; a worker sees only their own history.
// GET /api/worker-payments/worker/{workerID}
func (h *WorkerPaymentHandler) GetWorkerPaymentHistory(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	workerID := mux.Vars(r)["workerID"]

	if claims.Role != models.RoleOwner && workerID != claims.UserID {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	q := h.db.Where("worker_id = ?", workerID)
	if claims.Role == models.RoleOwner {
		q = q.Where("owner_id = ?", claims.UserID)
	}

	var payments []models.WorkerPayment
	if err := q.Order("payment_date DESC, created_at DESC").Find(&payments).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch worker payments")
		return
	}
	writeJSON(w, http.StatusOK, h.decorate(payments))
}

type createWorkerPaymentReq struct {
	WorkerID        uuid.UUID        `json:"workerID"    validate:"required"`
	Amount          float64          `json:"amount"      validate:"gt=0"`
	PaymentDate     *models.JSONTime `json:"paymentDate" validate:"required"`
	PeriodStart     *models.JSONTime `json:"periodStart"`
	PeriodEnd       *models.JSONTime `json:"periodEnd"`
	HoursWorked     float64          `json:"hoursWorked" validate:"gte=0"`
	HourlyRate      float64          `json:"hourlyRate"  validate:"gte=0"`
	PaymentMethod   string           `json:"paymentMethod"`
	Notes           string           `json:"notes"`
	ReferenceNumber *string          `json:"referenceNumber"`
}

// CreateWorkerPayment records a payroll payment (owners only).
// POST /api/worker-payments
func (h *WorkerPaymentHandler) CreateWorkerPayment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	ownerID, _ := uuid.Parse(claims.UserID)

	var req createWorkerPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "workerID, paymentDate and a positive amount are required")
		return
	}

	var worker models.User
	if err := h.db.First(&worker, "id = ? AND owner_id = ? AND role = ?",
		req.WorkerID, ownerID, models.RoleWorker).Error; err != nil {
		writeError(w, http.StatusNotFound, "Worker not found")
		return
	}

	payment := models.WorkerPayment{
		OwnerID:            ownerID,
		WorkerID:           worker.ID,
		Amount:             req.Amount,
		PaymentDate:        *req.PaymentDate,
		PeriodStart:        req.PeriodStart,
		PeriodEnd:          req.PeriodEnd,
		HoursWorked:        req.HoursWorked,
		HourlyRate:         req.HourlyRate,
		CalculatedEarnings: req.HoursWorked * req.HourlyRate,
		PaymentMethod:      req.PaymentMethod,
		Notes:              req.Notes,
		ReferenceNumber:    req.ReferenceNumber,
	}
	if err := h.db.Create(&payment).Error; err != nil {
		log.Printf("❌ Failed to create worker payment: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create worker payment")
		return
	}

	h.notifications.NotifyPaymentRecorded(worker.ID, payment.Amount)
	writeJSON(w, http.StatusCreated, payment)
}

type updateWorkerPaymentReq struct {
	Amount          *float64         `json:"amount"`
	PaymentDate     *models.JSONTime `json:"paymentDate"`
	PeriodStart     *models.JSONTime `json:"periodStart"`
	PeriodEnd       *models.JSONTime `json:"periodEnd"`
	HoursWorked     *float64         `json:"hoursWorked"`
	HourlyRate      *float64         `json:"hourlyRate"`
	PaymentMethod   *string          `json:"paymentMethod"`
	Notes           *string          `json:"notes"`
	ReferenceNumber *string          `json:"referenceNumber"`
}

// UpdateWorkerPayment edits a payroll record (owners only).
// PUT /api/worker-payments/{id}
func (h *WorkerPaymentHandler) UpdateWorkerPayment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var payment models.WorkerPayment
	if err := h.db.First(&payment, "id = ? AND owner_id = ?", mux.Vars(r)["id"], claims.UserID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Payment not found")
		return
	}

	var req updateWorkerPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Amount != nil {
		payment.Amount = *req.Amount
	}
	if req.PaymentDate != nil {
		payment.PaymentDate = *req.PaymentDate
	}
	if req.PeriodStart != nil {
		payment.PeriodStart = req.PeriodStart
	}
	if req.PeriodEnd != nil {
		payment.PeriodEnd = req.PeriodEnd
	}
	if req.HoursWorked != nil {
		payment.HoursWorked = *req.HoursWorked
	}
	if req.HourlyRate != nil {
		payment.HourlyRate = *req.HourlyRate
	}
	if req.HoursWorked != nil || req.HourlyRate != nil {
		payment.CalculatedEarnings = payment.HoursWorked * payment.HourlyRate
	}
	if req.PaymentMethod != nil {
		payment.PaymentMethod = *req.PaymentMethod
	}
	if req.Notes != nil {
		payment.Notes = *req.Notes
	}
	if req.ReferenceNumber != nil {
		payment.ReferenceNumber = req.ReferenceNumber
	}

	if err := h.db.Save(&payment).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update worker payment")
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// DeleteWorkerPayment removes a payroll record (owners only).
// DELETE /api/worker-payments/{id}
func (h *WorkerPaymentHandler) DeleteWorkerPayment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	result := h.db.Where("id = ? AND owner_id = ?", mux.Vars(r)["id"], claims.UserID).
		Delete(&models.WorkerPayment{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete worker payment")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Payment not found")
		return
	}
	writeMessage(w, "Payment deleted")
}

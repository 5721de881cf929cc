// handlers/workers.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
	"siteledger.app/api/models"
	"siteledger.app/api/utils"
)

// WorkerHandler manages the worker accounts owned by an owner.
type WorkerHandler struct {
	db   *gorm.DB
	mail *MailService
}

func NewWorkerHandler() *WorkerHandler {
	return &WorkerHandler{db: config.DB, mail: NewMailService()}
}

type workerResponse struct {
	models.User
	OwnerID        uuid.UUID   `json:"ownerId"`
	AssignedJobIDs []uuid.UUID `json:"assignedJobIDs"`
}

func (h *WorkerHandler) toResponse(ownerID uuid.UUID, worker *models.User) workerResponse {
	jobIDs := []uuid.UUID{}
	h.db.Model(&models.WorkerJobAssignment{}).
		Where("worker_id = ?", worker.ID).
		Pluck("job_id", &jobIDs)
	if len(worker.WorkerPermissions) == 0 {
		worker.WorkerPermissions = models.DefaultWorkerPermissions()
	}
	return workerResponse{User: *worker, OwnerID: ownerID, AssignedJobIDs: jobIDs}
}

// GetWorkers lists the owner's workers. GET /api/workers
func (h *WorkerHandler) GetWorkers(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	ownerID, _ := uuid.Parse(claims.UserID)

	var workers []models.User
	if err := h.db.Where("owner_id = ? AND role = ?", ownerID, models.RoleWorker).
		Order("name").Find(&workers).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch workers")
		return
	}

	out := make([]workerResponse, 0, len(workers))
	for i := range workers {
		out = append(out, h.toResponse(ownerID, &workers[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

type createWorkerReq struct {
	Email      string   `json:"email" validate:"required,email"`
	Name       string   `json:"name"  validate:"required"`
	HourlyRate *float64 `json:"hourlyRate" validate:"omitempty,gte=0"`
	Phone      *string  `json:"phone"`
	Password   string   `json:"password"`
}

// CreateWorker creates a worker under the calling owner and emails an
// invite. Email failure never fails the creation. POST /api/workers
func (h *WorkerHandler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	ownerID, _ := uuid.Parse(claims.UserID)

	var req createWorkerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Valid email and name are required")
		return
	}

	var existing models.User
	if err := h.db.Where("LOWER(email) = LOWER(?)", req.Email).First(&existing).Error; err == nil {
		writeError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	tempPassword := req.Password
	generated := tempPassword == ""
	if generated {
		tempPassword = utils.TempPassword(8)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create worker")
		return
	}

	worker := models.User{
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:      string(hash),
		Name:              strings.TrimSpace(req.Name),
		Role:              models.RoleWorker,
		Active:            true,
		HourlyRate:        req.HourlyRate,
		Phone:             req.Phone,
		OwnerID:           &ownerID,
		WorkerPermissions: models.DefaultWorkerPermissions(),
	}
	if err := h.db.Create(&worker).Error; err != nil {
		log.Printf("❌ Failed to create worker: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create worker")
		return
	}

	h.mail.SendWorkerInvite(worker.Email, worker.Name, claims.Name, tempPassword)

	resp := map[string]interface{}{"worker": h.toResponse(ownerID, &worker)}
	if generated {
		resp["tempPassword"] = tempPassword
	}
	writeJSON(w, http.StatusCreated, resp)
}

type updateWorkerReq struct {
	Name              *string         `json:"name"`
	HourlyRate        *float64        `json:"hourlyRate"`
	Phone             *string         `json:"phone"`
	Active            *bool           `json:"active"`
	WorkerPermissions json.RawMessage `json:"workerPermissions"`
	BankName          *string         `json:"bankName"`
	AccountHolderName *string         `json:"accountHolderName"`
	AccountNumber     *string         `json:"accountNumber"`
	RoutingNumber     *string         `json:"routingNumber"`
	AccountType       *string         `json:"accountType"`
}

// UpdateWorker edits one of the owner's workers. PUT /api/workers/{id}
func (h *WorkerHandler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	ownerID, _ := uuid.Parse(claims.UserID)

	var worker models.User
	if err := h.db.First(&worker, "id = ? AND owner_id = ? AND role = ?",
		mux.Vars(r)["id"], ownerID, models.RoleWorker).Error; err != nil {
		writeError(w, http.StatusNotFound, "Worker not found")
		return
	}

	var req updateWorkerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Name != nil {
		worker.Name = *req.Name
	}
	if req.HourlyRate != nil {
		worker.HourlyRate = req.HourlyRate
	}
	if req.Phone != nil {
		worker.Phone = req.Phone
	}
	if req.Active != nil {
		worker.Active = *req.Active
	}
	if len(req.WorkerPermissions) > 0 {
		worker.WorkerPermissions = []byte(req.WorkerPermissions)
	}
	if req.BankName != nil {
		worker.BankName = req.BankName
	}
	if req.AccountHolderName != nil {
		worker.AccountHolderName = req.AccountHolderName
	}
	if req.AccountNumber != nil {
		worker.AccountNumber = req.AccountNumber
	}
	if req.RoutingNumber != nil {
		worker.RoutingNumber = req.RoutingNumber
	}
	if req.AccountType != nil {
		worker.AccountType = req.AccountType
	}

	if err := h.db.Save(&worker).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update worker")
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(ownerID, &worker))
}

// DeleteWorker removes a worker account and their assignments.
// DELETE /api/workers/{id}
func (h *WorkerHandler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var worker models.User
	if err := h.db.First(&worker, "id = ? AND owner_id = ? AND role = ?",
		mux.Vars(r)["id"], claims.UserID, models.RoleWorker).Error; err != nil {
		writeError(w, http.StatusNotFound, "Worker not found")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if derr := tx.Where("worker_id = ?", worker.ID).Delete(&models.WorkerJobAssignment{}).Error; derr != nil {
			return derr
		}
		return tx.Delete(&worker).Error
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete worker")
		return
	}
	writeMessage(w, "Worker deleted")
}

// GetAssignedJobs lists the jobs a worker is assigned to.
// GET /api/workers/{id}/assigned-jobs
func (h *WorkerHandler) GetAssignedJobs(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var jobs []models.Job
	err := h.db.
		Joins("JOIN worker_job_assignments wja ON wja.job_id = jobs.id").
		Where("wja.worker_id = ? AND jobs.owner_id = ?", mux.Vars(r)["id"], claims.UserID).
		Order("jobs.created_at DESC").
		Find(&jobs).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch assigned jobs")
		return
	}

	type jobSummary struct {
		ID         uuid.UUID `json:"id"`
		JobName    string    `json:"jobName"`
		ClientName string    `json:"clientName"`
		Status     string    `json:"status"`
	}
	out := make([]jobSummary, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobSummary{ID: j.ID, JobName: j.JobName, ClientName: j.ClientName, Status: j.Status})
	}
	writeJSON(w, http.StatusOK, out)
}

type resetPasswordReq struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

// ResetWorkerPassword sets a new password for a worker and emails them.
// POST /api/workers/{id}/reset-password
func (h *WorkerHandler) ResetWorkerPassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var req resetPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !utils.StrongPassword(req.NewPassword) {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters with uppercase, lowercase, and number")
		return
	}

	var worker models.User
	if err := h.db.First(&worker, "id = ? AND owner_id = ? AND role = ?",
		mux.Vars(r)["id"], claims.UserID, models.RoleWorker).Error; err != nil {
		writeError(w, http.StatusNotFound, "Worker not found")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	if err := h.db.Model(&worker).Update("password_hash", string(hash)).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	h.mail.SendPasswordResetNotice(worker.Email, worker.Name, req.NewPassword)
	writeMessage(w, "Password reset successfully")
}

// SendInvite regenerates a worker's temporary password and emails it.
// POST /api/workers/{id}/send-invite
func (h *WorkerHandler) SendInvite(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var worker models.User
	if err := h.db.First(&worker, "id = ? AND owner_id = ? AND role = ?",
		mux.Vars(r)["id"], claims.UserID, models.RoleWorker).Error; err != nil {
		writeError(w, http.StatusNotFound, "Worker not found")
		return
	}

	tempPassword := utils.TempPassword(10)
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send invitation")
		return
	}
	if err := h.db.Model(&worker).Update("password_hash", string(hash)).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send invitation")
		return
	}

	h.mail.SendWorkerInvite(worker.Email, worker.Name, claims.Name, tempPassword)

	writeJSON(w, http.StatusOK, map[string]string{
		"message":      "Invitation sent",
		"email":        worker.Email,
		"tempPassword": tempPassword,
	})
}

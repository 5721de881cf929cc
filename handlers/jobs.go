// handlers/jobs.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
	"siteledger.app/api/models"
	"siteledger.app/api/utils"
)

// JobHandler handles job CRUD and worker assignment.
type JobHandler struct {
	db            *gorm.DB
	finance       *FinanceService
	notifications *NotificationService
}

func NewJobHandler() *JobHandler {
	return &JobHandler{
		db:            config.DB,
		finance:       NewFinanceService(config.DB),
		notifications: NewNotificationService(config.DB),
	}
}

// jobResponse is a Job plus its derived financials and assignment list.
type jobResponse struct {
	models.Job
	JobFinancials
	AssignedWorkers []uuid.UUID `json:"assignedWorkers"`
}

func (h *JobHandler) toResponse(job *models.Job) (jobResponse, error) {
	fin, err := h.finance.ForJob(job)
	if err != nil {
		return jobResponse{}, err
	}
	workers, err := h.finance.AssignedWorkerIDs(job.ID)
	if err != nil {
		return jobResponse{}, err
	}
	return jobResponse{Job: *job, JobFinancials: fin, AssignedWorkers: workers}, nil
}

// GetJobs lists the caller's jobs: owners see jobs they own, workers see
// jobs they are assigned to. GET /api/jobs
func (h *JobHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var jobs []models.Job
	var err error
	if claims.Role == models.RoleOwner {
		err = h.db.Where("owner_id = ?", claims.UserID).Order("created_at DESC").Find(&jobs).Error
	} else {
		err = h.db.
			Joins("JOIN worker_job_assignments wja ON wja.job_id = jobs.id").
			Where("wja.worker_id = ?", claims.UserID).
			Order("jobs.created_at DESC").
			Find(&jobs).Error
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch jobs")
		return
	}

	out := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		resp, rerr := h.toResponse(&jobs[i])
		if rerr != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch jobs")
			return
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetJob returns one job. GET /api/jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	jobID := mux.Vars(r)["id"]

	var job models.Job
	if err := h.db.First(&job, "id = ?", jobID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	if claims.Role == models.RoleOwner && job.OwnerID.String() != claims.UserID {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	resp, err := h.toResponse(&job)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch job")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type createJobReq struct {
	JobName         string           `json:"jobName"      validate:"required"`
	ClientName      string           `json:"clientName"   validate:"required"`
	Address         string           `json:"address"`
	Latitude        *float64         `json:"latitude"`
	Longitude       *float64         `json:"longitude"`
	StartDate       *models.JSONTime `json:"startDate"    validate:"required"`
	EndDate         *models.JSONTime `json:"endDate"`
	Status          string           `json:"status"`
	Notes           string           `json:"notes"`
	ProjectValue    float64          `json:"projectValue" validate:"gt=0"`
	AmountPaid      float64          `json:"amountPaid"   validate:"gte=0"`
	GeofenceEnabled bool             `json:"geofenceEnabled"`
	GeofenceRadius  float64          `json:"geofenceRadius"`
	AssignedWorkers []uuid.UUID      `json:"assignedWorkers"`
}

// CreateJob creates a job (owners only). POST /api/jobs
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "jobName, clientName, startDate and a positive projectValue are required")
		return
	}
	if req.AmountPaid > req.ProjectValue {
		writeError(w, http.StatusBadRequest, "Amount paid cannot exceed project value")
		return
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := utils.ValidateCoordinate(utils.Coordinate{Lat: *req.Latitude, Lng: *req.Longitude}); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid coordinates")
			return
		}
	}
	status := req.Status
	if status == "" {
		status = models.JobStatusActive
	}
	if !models.ValidStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	claims := middleware.GetClaims(r)
	ownerID, _ := uuid.Parse(claims.UserID)

	job := models.Job{
		OwnerID:         ownerID,
		JobName:         req.JobName,
		ClientName:      req.ClientName,
		Address:         req.Address,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		StartDate:       *req.StartDate,
		EndDate:         req.EndDate,
		Status:          status,
		Notes:           req.Notes,
		ProjectValue:    req.ProjectValue,
		AmountPaid:      req.AmountPaid,
		GeofenceEnabled: req.GeofenceEnabled,
		GeofenceRadius:  req.GeofenceRadius,
	}
	if job.GeofenceRadius == 0 {
		job.GeofenceRadius = 150
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		return syncAssignments(tx, job.ID, req.AssignedWorkers)
	})
	if err != nil {
		log.Printf("❌ Failed to create job: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	for _, workerID := range req.AssignedWorkers {
		h.notifications.NotifyWorkerAssigned(workerID, &job)
	}

	resp, rerr := h.toResponse(&job)
	if rerr != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}
	log.Printf("✅ Created job %s (%s)", job.JobName, job.ID)
	writeJSON(w, http.StatusCreated, resp)
}

type updateJobReq struct {
	JobName         *string          `json:"jobName"`
	ClientName      *string          `json:"clientName"`
	Address         *string          `json:"address"`
	Latitude        *float64         `json:"latitude"`
	Longitude       *float64         `json:"longitude"`
	StartDate       *models.JSONTime `json:"startDate"`
	EndDate         *models.JSONTime `json:"endDate"`
	Status          *string          `json:"status"`
	Notes           *string          `json:"notes"`
	ProjectValue    *float64         `json:"projectValue"`
	AmountPaid      *float64         `json:"amountPaid"`
	GeofenceEnabled *bool            `json:"geofenceEnabled"`
	GeofenceRadius  *float64         `json:"geofenceRadius"`
	AssignedWorkers *[]uuid.UUID     `json:"assignedWorkers"`
}

// UpdateJob applies a partial update (owners only). PUT /api/jobs/{id}
func (h *JobHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	jobID := mux.Vars(r)["id"]

	var job models.Job
	if err := h.db.First(&job, "id = ?", jobID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	if job.OwnerID.String() != claims.UserID {
		writeError(w, http.StatusForbidden, "Access denied")
		return
	}

	var req updateJobReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// Cross-field invariant holds against the merged state, not just the
	// fields present in this request.
	newValue := job.ProjectValue
	if req.ProjectValue != nil {
		newValue = *req.ProjectValue
	}
	newPaid := job.AmountPaid
	if req.AmountPaid != nil {
		newPaid = *req.AmountPaid
	}
	if newPaid > newValue {
		writeError(w, http.StatusBadRequest, "Amount paid cannot exceed project value")
		return
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := utils.ValidateCoordinate(utils.Coordinate{Lat: *req.Latitude, Lng: *req.Longitude}); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid coordinates")
			return
		}
	}

	applyJobUpdate(&job, &req)

	var newlyAssigned []uuid.UUID
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&job).Error; err != nil {
			return err
		}
		if req.AssignedWorkers != nil {
			existing := map[uuid.UUID]bool{}
			ids, ierr := NewFinanceService(tx).AssignedWorkerIDs(job.ID)
			if ierr != nil {
				return ierr
			}
			for _, id := range ids {
				existing[id] = true
			}
			for _, id := range *req.AssignedWorkers {
				if !existing[id] {
					newlyAssigned = append(newlyAssigned, id)
				}
			}
			return syncAssignments(tx, job.ID, *req.AssignedWorkers)
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Failed to update job %s: %v", job.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to update job")
		return
	}

	for _, workerID := range newlyAssigned {
		h.notifications.NotifyWorkerAssigned(workerID, &job)
	}

	resp, rerr := h.toResponse(&job)
	if rerr != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update job")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func applyJobUpdate(job *models.Job, req *updateJobReq) {
	if req.JobName != nil {
		job.JobName = *req.JobName
	}
	if req.ClientName != nil {
		job.ClientName = *req.ClientName
	}
	if req.Address != nil {
		job.Address = *req.Address
	}
	if req.Latitude != nil {
		job.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		job.Longitude = req.Longitude
	}
	if req.StartDate != nil {
		job.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		job.EndDate = req.EndDate
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	if req.Notes != nil {
		job.Notes = *req.Notes
	}
	if req.ProjectValue != nil {
		job.ProjectValue = *req.ProjectValue
	}
	if req.AmountPaid != nil {
		job.AmountPaid = *req.AmountPaid
	}
	if req.GeofenceEnabled != nil {
		job.GeofenceEnabled = *req.GeofenceEnabled
	}
	if req.GeofenceRadius != nil {
		job.GeofenceRadius = *req.GeofenceRadius
	}
}

// syncAssignments replaces a job's assignment set. Runs in the caller's
// transaction so a failing insert rolls back the whole replacement.
func syncAssignments(tx *gorm.DB, jobID uuid.UUID, workerIDs []uuid.UUID) error {
	if err := tx.Where("job_id = ?", jobID).Delete(&models.WorkerJobAssignment{}).Error; err != nil {
		return err
	}
	for _, workerID := range workerIDs {
		a := models.WorkerJobAssignment{WorkerID: workerID, JobID: jobID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&a).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteJob removes a job and its assignments (owners only).
// DELETE /api/jobs/{id}
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	jobID := mux.Vars(r)["id"]

	var job models.Job
	if err := h.db.First(&job, "id = ? AND owner_id = ?", jobID, claims.UserID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if derr := tx.Where("job_id = ?", job.ID).Delete(&models.WorkerJobAssignment{}).Error; derr != nil {
			return derr
		}
		return tx.Delete(&job).Error
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete job")
		return
	}
	writeMessage(w, "Job deleted")
}

type assignWorkerReq struct {
	WorkerID uuid.UUID `json:"workerID"`
}

// AssignWorker adds a worker to a job; assigning an already-assigned worker
// is a no-op. POST /api/jobs/{id}/assign-worker
func (h *JobHandler) AssignWorker(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	jobID := mux.Vars(r)["id"]

	var req assignWorkerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WorkerID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "workerID is required")
		return
	}

	var job models.Job
	if err := h.db.First(&job, "id = ? AND owner_id = ?", jobID, claims.UserID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	var worker models.User
	err := h.db.First(&worker, "id = ? AND owner_id = ? AND role = ?",
		req.WorkerID, claims.UserID, models.RoleWorker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "Worker not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to assign worker")
		return
	}

	assignment := models.WorkerJobAssignment{WorkerID: worker.ID, JobID: job.ID}
	result := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignment)
	if result.Error != nil {
		log.Printf("❌ Assign worker %s to job %s failed: %v", worker.ID, job.ID, result.Error)
		writeError(w, http.StatusInternalServerError, "Failed to assign worker")
		return
	}

	// Notify only on a fresh assignment; the notification is best-effort
	// either way.
	if result.RowsAffected > 0 {
		h.notifications.NotifyWorkerAssigned(worker.ID, &job)
	}
	writeMessage(w, "Worker assigned to job")
}

// UnassignWorker removes a worker from a job; removing an unassigned worker
// still succeeds. DELETE /api/jobs/{id}/unassign-worker/{workerId}
func (h *JobHandler) UnassignWorker(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	vars := mux.Vars(r)

	var job models.Job
	if err := h.db.First(&job, "id = ? AND owner_id = ?", vars["id"], claims.UserID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	result := h.db.Where("worker_id = ? AND job_id = ?", vars["workerId"], job.ID).
		Delete(&models.WorkerJobAssignment{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to unassign worker")
		return
	}
	if result.RowsAffected > 0 {
		if workerID, err := uuid.Parse(vars["workerId"]); err == nil {
			h.notifications.NotifyWorkerUnassigned(workerID, &job)
		}
	}
	writeMessage(w, "Worker unassigned from job")
}

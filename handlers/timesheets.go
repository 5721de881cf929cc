// handlers/timesheets.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
	"siteledger.app/api/models"
	"siteledger.app/api/utils"
)

// TimesheetHandler handles timesheet CRUD and clock in/out.
type TimesheetHandler struct {
	db *gorm.DB
}

func NewTimesheetHandler() *TimesheetHandler {
	return &TimesheetHandler{db: config.DB}
}

// timesheetResponse decorates a Timesheet with the joined worker/job fields
// the client renders in lists.
type timesheetResponse struct {
	models.Timesheet
	WorkerName     string   `json:"workerName,omitempty"`
	HourlyRate     *float64 `json:"hourlyRate,omitempty"`
	JobName        string   `json:"jobName,omitempty"`
	EffectiveHours float64  `json:"effectiveHours"`
}

func (h *TimesheetHandler) decorate(sheets []models.Timesheet) ([]timesheetResponse, error) {
	workerIDs := make([]uuid.UUID, 0, len(sheets))
	jobIDs := make([]uuid.UUID, 0, len(sheets))
	for _, t := range sheets {
		workerIDs = append(workerIDs, t.WorkerID)
		jobIDs = append(jobIDs, t.JobID)
	}

	workers := map[uuid.UUID]models.User{}
	if len(workerIDs) > 0 {
		var rows []models.User
		if err := h.db.Where("id IN ?", workerIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, u := range rows {
			workers[u.ID] = u
		}
	}
	jobs := map[uuid.UUID]models.Job{}
	if len(jobIDs) > 0 {
		var rows []models.Job
		if err := h.db.Where("id IN ?", jobIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, j := range rows {
			jobs[j.ID] = j
		}
	}

	out := make([]timesheetResponse, 0, len(sheets))
	for _, t := range sheets {
		resp := timesheetResponse{Timesheet: t, EffectiveHours: t.EffectiveHours()}
		if u, ok := workers[t.WorkerID]; ok {
			resp.WorkerName = u.Name
			resp.HourlyRate = u.HourlyRate
		}
		if j, ok := jobs[t.JobID]; ok {
			resp.JobName = j.JobName
		}
		out = append(out, resp)
	}
	return out, nil
}

// GetTimesheets lists timesheets: owners see all for their jobs, workers see
// their own. GET /api/timesheets
func (h *TimesheetHandler) GetTimesheets(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var sheets []models.Timesheet
	var err error
	if claims.Role == models.RoleOwner {
		err = h.db.Where("owner_id = ?", claims.UserID).Order("created_at DESC").Find(&sheets).Error
	} else {
		err = h.db.Where("worker_id = ?", claims.UserID).Order("created_at DESC").Find(&sheets).Error
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch timesheets")
		return
	}

	out, derr := h.decorate(sheets)
	if derr != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch timesheets")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GetActiveTimesheet returns the caller's open clock-in, or null.
// GET /api/timesheets/active
func (h *TimesheetHandler) GetActiveTimesheet(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var sheet models.Timesheet
	err := h.db.Where("worker_id = ? AND status = ?", claims.UserID, models.TimesheetWorking).
		First(&sheet).Error
	if err != nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	out, derr := h.decorate([]models.Timesheet{sheet})
	if derr != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch active timesheet")
		return
	}
	writeJSON(w, http.StatusOK, out[0])
}

// GetJobTimesheets lists timesheets for one job. GET /api/jobs/{jobID}/timesheets
func (h *TimesheetHandler) GetJobTimesheets(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobID"]

	var sheets []models.Timesheet
	if err := h.db.Where("job_id = ?", jobID).Order("clock_in DESC").Find(&sheets).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch timesheets")
		return
	}
	out, derr := h.decorate(sheets)
	if derr != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch timesheets")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type createTimesheetReq struct {
	JobID    uuid.UUID        `json:"jobID" validate:"required"`
	UserID   *uuid.UUID       `json:"userID"`
	ClockIn  *models.JSONTime `json:"clockIn"`
	ClockOut *models.JSONTime `json:"clockOut"`
	Hours    *float64         `json:"hours" validate:"omitempty,gte=0"`
	Notes    string           `json:"notes"`
}

// CreateTimesheet records a manual time entry. Owners may enter time for any
// of their workers; workers only for themselves. POST /api/timesheets
func (h *TimesheetHandler) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var req createTimesheetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "jobID is required")
		return
	}

	workerID, _ := uuid.Parse(claims.UserID)
	if req.UserID != nil {
		workerID = *req.UserID
	}
	if claims.Role != models.RoleOwner && workerID.String() != claims.UserID {
		writeError(w, http.StatusForbidden, "Workers can only create timesheets for themselves")
		return
	}

	var job models.Job
	if err := h.db.First(&job, "id = ?", req.JobID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	clockIn := time.Now().UTC()
	if req.ClockIn != nil {
		clockIn = req.ClockIn.Time()
	}
	var clockOut *time.Time
	if req.ClockOut != nil {
		t := req.ClockOut.Time()
		clockOut = &t
	}

	hours := req.Hours
	if hours == nil && clockOut != nil {
		v := clockOut.Sub(clockIn).Hours()
		hours = &v
	}
	status := models.TimesheetWorking
	if clockOut != nil {
		status = models.TimesheetCompleted
	}

	sheet := models.Timesheet{
		OwnerID:  job.OwnerID,
		WorkerID: workerID,
		JobID:    job.ID,
		ClockIn:  clockIn,
		ClockOut: clockOut,
		Hours:    hours,
		Status:   status,
		Notes:    req.Notes,
	}
	if err := h.db.Create(&sheet).Error; err != nil {
		if isDuplicateKey(err) {
			writeError(w, http.StatusBadRequest, "Already clocked in to a job")
			return
		}
		log.Printf("❌ Failed to create timesheet: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create timesheet")
		return
	}
	writeJSON(w, http.StatusCreated, sheet)
}

type clockInReq struct {
	JobID     uuid.UUID `json:"jobID" validate:"required"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Location  *string   `json:"location"`
}

// ClockIn opens a working timesheet for the caller. A worker can hold at
// most one open session; the partial unique index backs up the pre-check so
// two simultaneous requests cannot both succeed.
// POST /api/timesheets/clock-in
func (h *TimesheetHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var req clockInReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "jobID is required")
		return
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := utils.ValidateCoordinate(utils.Coordinate{Lat: *req.Latitude, Lng: *req.Longitude}); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid coordinates")
			return
		}
	}

	var open models.Timesheet
	if err := h.db.Where("worker_id = ? AND status = ?", claims.UserID, models.TimesheetWorking).
		First(&open).Error; err == nil {
		writeError(w, http.StatusBadRequest, "Already clocked in to a job")
		return
	}

	var job models.Job
	if err := h.db.First(&job, "id = ?", req.JobID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	workerID, _ := uuid.Parse(claims.UserID)
	sheet := models.Timesheet{
		OwnerID:          job.OwnerID,
		WorkerID:         workerID,
		JobID:            job.ID,
		ClockIn:          time.Now().UTC(),
		Status:           models.TimesheetWorking,
		ClockInLocation:  req.Location,
		ClockInLatitude:  req.Latitude,
		ClockInLongitude: req.Longitude,
	}

	// Advisory geofence check: record distance and validity, never reject.
	if job.GeofenceEnabled && job.Latitude != nil && job.Longitude != nil &&
		req.Latitude != nil && req.Longitude != nil {
		site := utils.Coordinate{Lat: *job.Latitude, Lng: *job.Longitude}
		point := utils.Coordinate{Lat: *req.Latitude, Lng: *req.Longitude}
		ok, dist := utils.WithinRadius(site, point, job.GeofenceRadius)
		sheet.DistanceFromJobSite = &dist
		sheet.IsLocationValid = &ok
	}

	if err := h.db.Create(&sheet).Error; err != nil {
		if isDuplicateKey(err) {
			writeError(w, http.StatusBadRequest, "Already clocked in to a job")
			return
		}
		log.Printf("❌ Clock in failed for worker %s: %v", workerID, err)
		writeError(w, http.StatusInternalServerError, "Failed to clock in")
		return
	}

	out, derr := h.decorate([]models.Timesheet{sheet})
	if derr != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clock in")
		return
	}
	writeJSON(w, http.StatusCreated, out[0])
}

type clockOutReq struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Location  *string  `json:"location"`
	Notes     *string  `json:"notes"`
}

// ClockOut completes the caller's open timesheet. POST /api/timesheets/clock-out
func (h *TimesheetHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)

	var req clockOutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	var sheet models.Timesheet
	if err := h.db.Where("worker_id = ? AND status = ?", claims.UserID, models.TimesheetWorking).
		First(&sheet).Error; err != nil {
		writeError(w, http.StatusBadRequest, "Not clocked in")
		return
	}

	now := time.Now().UTC()
	hours := now.Sub(sheet.ClockIn).Hours()
	sheet.ClockOut = &now
	sheet.Hours = &hours
	sheet.Status = models.TimesheetCompleted
	sheet.ClockOutLocation = req.Location
	sheet.ClockOutLatitude = req.Latitude
	sheet.ClockOutLongitude = req.Longitude
	if req.Notes != nil {
		sheet.Notes = *req.Notes
	}

	if err := h.db.Save(&sheet).Error; err != nil {
		log.Printf("❌ Clock out failed for worker %s: %v", claims.UserID, err)
		writeError(w, http.StatusInternalServerError, "Failed to clock out")
		return
	}

	out, derr := h.decorate([]models.Timesheet{sheet})
	if derr != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clock out")
		return
	}
	writeJSON(w, http.StatusOK, out[0])
}

type updateTimesheetReq struct {
	Hours   *float64        `json:"hours"`
	Status  *string         `json:"status"`
	Notes   *string         `json:"notes"`
	AIFlags json.RawMessage `json:"aiFlags"`
}

// UpdateTimesheet edits a timesheet (owners only, for approval/correction).
// PUT /api/timesheets/{id}
func (h *TimesheetHandler) UpdateTimesheet(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	id := mux.Vars(r)["id"]

	var sheet models.Timesheet
	if err := h.db.First(&sheet, "id = ? AND owner_id = ?", id, claims.UserID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Timesheet not found")
		return
	}

	var req updateTimesheetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Status != nil && *req.Status != models.TimesheetWorking && *req.Status != models.TimesheetCompleted {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if req.Hours != nil {
		sheet.Hours = req.Hours
	}
	if req.Status != nil {
		sheet.Status = *req.Status
	}
	if req.Notes != nil {
		sheet.Notes = *req.Notes
	}
	if len(req.AIFlags) > 0 {
		sheet.AIFlags = []byte(req.AIFlags)
	}

	if err := h.db.Save(&sheet).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update timesheet")
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

// DeleteTimesheet removes a timesheet (owners only). DELETE /api/timesheets/{id}
func (h *TimesheetHandler) DeleteTimesheet(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	id := mux.Vars(r)["id"]

	result := h.db.Where("id = ? AND owner_id = ?", id, claims.UserID).Delete(&models.Timesheet{})
	if result.Error != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete timesheet")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Timesheet not found")
		return
	}
	writeMessage(w, "Timesheet deleted")
}

// isDuplicateKey matches the unique-violation text from both postgres and
// the sqlite driver used in tests.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

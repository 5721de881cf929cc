package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteledger.app/api/config"
	"siteledger.app/api/models"
)

func createJob(t *testing.T, h http.Handler, token string, extra map[string]interface{}) string {
	t.Helper()
	body := map[string]interface{}{
		"jobName":      "Roof repair",
		"clientName":   "Nguyen",
		"startDate":    "2026-03-01T08:00:00Z",
		"projectValue": 5000,
	}
	for k, v := range extra {
		body[k] = v
	}
	rr := do(t, h, "POST", "/api/jobs", token, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var job struct {
		ID string `json:"id"`
	}
	decode(t, rr, &job)
	return job.ID
}

func TestClockInAndOut(t *testing.T) {
	h := setupServer(t)
	owner, ownerToken := createOwner(t, "owner@example.com")
	_, workerToken := createWorker(t, owner, "worker@example.com", 25)
	jobID := createJob(t, h, ownerToken, nil)

	rr := do(t, h, "POST", "/api/timesheets/clock-in", workerToken, map[string]interface{}{
		"jobID": jobID,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var sheet struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, rr, &sheet)
	assert.Equal(t, models.TimesheetWorking, sheet.Status)

	// active endpoint sees the open session
	rr = do(t, h, "GET", "/api/timesheets/active", workerToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), sheet.ID)

	rr = do(t, h, "POST", "/api/timesheets/clock-out", workerToken, map[string]interface{}{})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var closed struct {
		Status string   `json:"status"`
		Hours  *float64 `json:"hours"`
	}
	decode(t, rr, &closed)
	assert.Equal(t, models.TimesheetCompleted, closed.Status)
	require.NotNil(t, closed.Hours)
	assert.GreaterOrEqual(t, *closed.Hours, 0.0)

	// no open session left
	rr = do(t, h, "GET", "/api/timesheets/active", workerToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null\n", rr.Body.String())
}

func TestDoubleClockInRejected(t *testing.T) {
	h := setupServer(t)
	owner, ownerToken := createOwner(t, "owner@example.com")
	_, workerToken := createWorker(t, owner, "worker@example.com", 25)
	jobA := createJob(t, h, ownerToken, nil)
	jobB := createJob(t, h, ownerToken, map[string]interface{}{"jobName": "Second job"})

	rr := do(t, h, "POST", "/api/timesheets/clock-in", workerToken, map[string]interface{}{"jobID": jobA})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, h, "POST", "/api/timesheets/clock-in", workerToken, map[string]interface{}{"jobID": jobB})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body map[string]string
	decode(t, rr, &body)
	assert.Equal(t, "Already clocked in to a job", body["error"])
}

func TestClockOutWithoutSession(t *testing.T) {
	h := setupServer(t)
	owner, _ := createOwner(t, "owner@example.com")
	_, workerToken := createWorker(t, owner, "worker@example.com", 25)

	rr := do(t, h, "POST", "/api/timesheets/clock-out", workerToken, map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body map[string]string
	decode(t, rr, &body)
	assert.Equal(t, "Not clocked in", body["error"])
}

func TestOpenTimesheetUniquePerWorker(t *testing.T) {
	h := setupServer(t)
	owner, ownerToken := createOwner(t, "owner@example.com")
	worker, _ := createWorker(t, owner, "worker@example.com", 25)
	jobID := createJob(t, h, ownerToken, nil)

	job, err := uuid.Parse(jobID)
	require.NoError(t, err)

	first := models.Timesheet{
		OwnerID:  owner.ID,
		WorkerID: worker.ID,
		JobID:    job,
		ClockIn:  time.Now().UTC(),
		Status:   models.TimesheetWorking,
	}
	require.NoError(t, config.DB.Create(&first).Error)

	// the partial unique index blocks a second open row even without the
	// handler pre-check
	second := models.Timesheet{
		OwnerID:  owner.ID,
		WorkerID: worker.ID,
		JobID:    job,
		ClockIn:  time.Now().UTC(),
		Status:   models.TimesheetWorking,
	}
	err = config.DB.Create(&second).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint")

	// a completed row for the same worker is fine
	hours := 4.0
	now := time.Now().UTC()
	done := models.Timesheet{
		OwnerID:  owner.ID,
		WorkerID: worker.ID,
		JobID:    job,
		ClockIn:  now.Add(-4 * time.Hour),
		ClockOut: &now,
		Hours:    &hours,
		Status:   models.TimesheetCompleted,
	}
	assert.NoError(t, config.DB.Create(&done).Error)
}

func TestGeofenceIsAdvisory(t *testing.T) {
	h := setupServer(t)
	owner, ownerToken := createOwner(t, "owner@example.com")
	_, workerToken := createWorker(t, owner, "worker@example.com", 25)
	jobID := createJob(t, h, ownerToken, map[string]interface{}{
		"latitude":        40.7128,
		"longitude":       -74.0060,
		"geofenceEnabled": true,
		"geofenceRadius":  100,
	})

	// clock in from ~8km away: recorded, flagged, never rejected
	rr := do(t, h, "POST", "/api/timesheets/clock-in", workerToken, map[string]interface{}{
		"jobID":     jobID,
		"latitude":  40.7828,
		"longitude": -74.0060,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var sheet struct {
		IsLocationValid     *bool    `json:"isLocationValid"`
		DistanceFromJobSite *float64 `json:"distanceFromJobSite"`
	}
	decode(t, rr, &sheet)
	require.NotNil(t, sheet.IsLocationValid)
	assert.False(t, *sheet.IsLocationValid)
	require.NotNil(t, sheet.DistanceFromJobSite)
	assert.Greater(t, *sheet.DistanceFromJobSite, 100.0)
}

func TestOwnerCreatesManualTimesheet(t *testing.T) {
	h := setupServer(t)
	owner, ownerToken := createOwner(t, "owner@example.com")
	worker, _ := createWorker(t, owner, "worker@example.com", 25)
	jobID := createJob(t, h, ownerToken, nil)

	rr := do(t, h, "POST", "/api/timesheets", ownerToken, map[string]interface{}{
		"jobID":    jobID,
		"userID":   worker.ID,
		"clockIn":  "2026-03-02T08:00:00Z",
		"clockOut": "2026-03-02T12:30:00Z",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var sheet struct {
		Status string   `json:"status"`
		Hours  *float64 `json:"hours"`
	}
	decode(t, rr, &sheet)
	assert.Equal(t, models.TimesheetCompleted, sheet.Status)
	require.NotNil(t, sheet.Hours)
	assert.InDelta(t, 4.5, *sheet.Hours, 0.001)
}

func TestClockInRejectsOutOfRangeCoordinates(t *testing.T) {
	h := setupServer(t)
	owner, ownerToken := createOwner(t, "owner@example.com")
	_, workerToken := createWorker(t, owner, "worker@example.com", 25)
	jobID := createJob(t, h, ownerToken, nil)

	rr := do(t, h, "POST", "/api/timesheets/clock-in", workerToken, map[string]interface{}{
		"jobID":     jobID,
		"latitude":  91.0,
		"longitude": 0.0,
	})
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

	var count int64
	require.NoError(t, config.DB.Model(&models.Timesheet{}).Count(&count).Error)
	assert.Zero(t, count)
}

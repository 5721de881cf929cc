package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportJobsCSVDownload(t *testing.T) {
	h := setupServer(t)
	_, token := createOwner(t, "owner@example.com")
	createJob(t, h, token, nil)

	rr := do(t, h, "GET", "/api/export/jobs", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment; filename=siteledger_jobs_")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "Job Name,"))
	assert.Contains(t, rr.Body.String(), "Roof repair")
}

func TestExportAllExcelDownload(t *testing.T) {
	h := setupServer(t)
	_, token := createOwner(t, "owner@example.com")
	createJob(t, h, token, nil)

	rr := do(t, h, "GET", "/api/export/all?format=xlsx", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".xlsx")
	// xlsx files are zip archives
	assert.True(t, strings.HasPrefix(rr.Body.String(), "PK"))
}

func TestExportIsOwnerOnly(t *testing.T) {
	h := setupServer(t)
	owner, _ := createOwner(t, "owner@example.com")
	_, workerToken := createWorker(t, owner, "worker@example.com", 25)

	rr := do(t, h, "GET", "/api/export/summary", workerToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

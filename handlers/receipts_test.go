package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerReceiptFilesUnderJobOwner(t *testing.T) {
	h := setupServer(t)
	owner, ownerToken := createOwner(t, "owner@example.com")
	worker, workerToken := createWorker(t, owner, "worker@example.com", 25)
	jobID := createJob(t, h, ownerToken, map[string]interface{}{
		"assignedWorkers": []string{worker.ID.String()},
	})

	rr := do(t, h, "POST", "/api/receipts", workerToken, map[string]interface{}{
		"jobID":  jobID,
		"amount": 89.99,
		"vendor": "Paint Supply",
		"date":   "2026-03-05",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var rec struct {
		OwnerID string  `json:"ownerID"`
		Amount  float64 `json:"amount"`
	}
	decode(t, rr, &rec)
	assert.Equal(t, owner.ID.String(), rec.OwnerID)

	// the owner sees it in their receipt list and per-job expense total
	rr = do(t, h, "GET", "/api/receipts", ownerToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []struct {
		Vendor string `json:"vendor"`
	}
	decode(t, rr, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Paint Supply", list[0].Vendor)

	rr = do(t, h, "GET", "/api/jobs/"+jobID, ownerToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var job struct {
		ReceiptExpenses float64 `json:"receiptExpenses"`
	}
	decode(t, rr, &job)
	assert.InDelta(t, 89.99, job.ReceiptExpenses, 0.001)
}

func TestReceiptWithoutJob(t *testing.T) {
	h := setupServer(t)
	_, token := createOwner(t, "owner@example.com")

	rr := do(t, h, "POST", "/api/receipts", token, map[string]interface{}{
		"amount": 45.0,
		"vendor": "Fuel Stop",
		"date":   "2026-03-05",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, h, "POST", "/api/receipts", token, map[string]interface{}{
		"amount": 45.0,
		"date":   "2026-03-05",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "vendor is required")
}

func TestWorkerCannotDeleteReceipts(t *testing.T) {
	h := setupServer(t)
	owner, ownerToken := createOwner(t, "owner@example.com")
	_, workerToken := createWorker(t, owner, "worker@example.com", 25)

	rr := do(t, h, "POST", "/api/receipts", ownerToken, map[string]interface{}{
		"amount": 45.0,
		"vendor": "Fuel Stop",
		"date":   "2026-03-05",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var rec struct {
		ID string `json:"id"`
	}
	decode(t, rr, &rec)

	rr = do(t, h, "DELETE", "/api/receipts/"+rec.ID, workerToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, h, "DELETE", "/api/receipts/"+rec.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

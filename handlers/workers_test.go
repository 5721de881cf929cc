package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteledger.app/api/utils"
)

func TestCreateWorkerGeneratesTempPassword(t *testing.T) {
	h := setupServer(t)
	_, token := createOwner(t, "owner@example.com")

	rr := do(t, h, "POST", "/api/workers", token, map[string]interface{}{
		"email":      "new@example.com",
		"name":       "Sam",
		"hourlyRate": 28.5,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Worker struct {
			Email      string   `json:"email"`
			Role       string   `json:"role"`
			HourlyRate *float64 `json:"hourlyRate"`
		} `json:"worker"`
		TempPassword string `json:"tempPassword"`
	}
	decode(t, rr, &resp)
	assert.Equal(t, "new@example.com", resp.Worker.Email)
	assert.Equal(t, "worker", resp.Worker.Role)
	require.NotNil(t, resp.Worker.HourlyRate)
	assert.Equal(t, 28.5, *resp.Worker.HourlyRate)
	require.NotEmpty(t, resp.TempPassword)
	assert.True(t, utils.StrongPassword(resp.TempPassword))

	// the generated password works for login
	rr = do(t, h, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "new@example.com",
		"password": resp.TempPassword,
	})
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestCreateWorkerWithExplicitPassword(t *testing.T) {
	h := setupServer(t)
	_, token := createOwner(t, "owner@example.com")

	rr := do(t, h, "POST", "/api/workers", token, map[string]interface{}{
		"email":    "new@example.com",
		"name":     "Sam",
		"password": "Chosen1Password",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "tempPassword")
}

func TestWorkerListIsScopedToOwner(t *testing.T) {
	h := setupServer(t)
	ownerA, tokenA := createOwner(t, "a@example.com")
	ownerB, tokenB := createOwner(t, "b@example.com")
	createWorker(t, ownerA, "wa@example.com", 20)
	createWorker(t, ownerB, "wb@example.com", 20)

	for token, email := range map[string]string{
		tokenA: "wa@example.com",
		tokenB: "wb@example.com",
	} {
		rr := do(t, h, "GET", "/api/workers", token, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var workers []struct {
			Email string `json:"email"`
		}
		decode(t, rr, &workers)
		require.Len(t, workers, 1)
		assert.Equal(t, email, workers[0].Email)
	}
}

func TestResetWorkerPassword(t *testing.T) {
	h := setupServer(t)
	owner, token := createOwner(t, "owner@example.com")
	worker, _ := createWorker(t, owner, "worker@example.com", 25)

	rr := do(t, h, "POST", "/api/workers/"+worker.ID.String()+"/reset-password", token, map[string]interface{}{
		"newPassword": "Fresh1Password",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, h, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "worker@example.com",
		"password": "Fresh1Password",
	})
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// weak replacement is rejected
	rr = do(t, h, "POST", "/api/workers/"+worker.ID.String()+"/reset-password", token, map[string]interface{}{
		"newPassword": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteWorkerRemovesAssignments(t *testing.T) {
	h := setupServer(t)
	owner, token := createOwner(t, "owner@example.com")
	worker, _ := createWorker(t, owner, "worker@example.com", 25)
	jobID := createJob(t, h, token, map[string]interface{}{
		"assignedWorkers": []string{worker.ID.String()},
	})

	rr := do(t, h, "DELETE", "/api/workers/"+worker.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, h, "GET", "/api/jobs/"+jobID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var job struct {
		AssignedWorkers []string `json:"assignedWorkers"`
	}
	decode(t, rr, &job)
	assert.Empty(t, job.AssignedWorkers)
}

func TestSendInviteRotatesTempPassword(t *testing.T) {
	h := setupServer(t)
	owner, token := createOwner(t, "owner@example.com")
	worker, _ := createWorker(t, owner, "worker@example.com", 25)

	rr := do(t, h, "POST", "/api/workers/"+worker.ID.String()+"/send-invite", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp struct {
		Message      string `json:"message"`
		Email        string `json:"email"`
		TempPassword string `json:"tempPassword"`
	}
	decode(t, rr, &resp)
	assert.Equal(t, "worker@example.com", resp.Email)
	require.True(t, utils.StrongPassword(resp.TempPassword))

	// the old password no longer works, the new one does
	rr = do(t, h, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "worker@example.com",
		"password": "Password1",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "worker@example.com",
		"password": resp.TempPassword,
	})
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

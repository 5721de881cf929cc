package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentLifecycle(t *testing.T) {
	h := setupServer(t)
	_, token := createOwner(t, "owner@example.com")
	jobID := createJob(t, h, token, nil)

	rr := do(t, h, "POST", "/api/documents", token, map[string]interface{}{
		"jobID":    jobID,
		"fileURL":  "https://storage.example.com/contracts/roof.pdf",
		"fileType": "pdf",
		"title":    "Signed contract",
		"aiExtractedData": map[string]interface{}{
			"total": 5000,
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var doc struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	decode(t, rr, &doc)

	rr = do(t, h, "GET", "/api/documents", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []struct {
		ID      string `json:"id"`
		JobName string `json:"jobName"`
	}
	decode(t, rr, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Roof repair", list[0].JobName)

	rr = do(t, h, "PUT", "/api/documents/"+doc.ID, token, map[string]interface{}{
		"title":       "Signed contract v2",
		"aiProcessed": true,
		"aiSummary":   "Fixed-price roofing contract",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated struct {
		Title       string  `json:"title"`
		AIProcessed bool    `json:"aiProcessed"`
		AISummary   *string `json:"aiSummary"`
	}
	decode(t, rr, &updated)
	assert.Equal(t, "Signed contract v2", updated.Title)
	assert.True(t, updated.AIProcessed)

	rr = do(t, h, "DELETE", "/api/documents/"+doc.ID, token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = do(t, h, "DELETE", "/api/documents/"+doc.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateDocumentValidatesFileType(t *testing.T) {
	h := setupServer(t)
	_, token := createOwner(t, "owner@example.com")

	rr := do(t, h, "POST", "/api/documents", token, map[string]interface{}{
		"fileURL":  "https://storage.example.com/x.doc",
		"fileType": "spreadsheet",
		"title":    "Bad type",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDocumentsAreScopedToOwner(t *testing.T) {
	h := setupServer(t)
	_, token := createOwner(t, "owner@example.com")
	_, otherToken := createOwner(t, "other@example.com")

	rr := do(t, h, "POST", "/api/documents", token, map[string]interface{}{
		"fileURL":  "https://storage.example.com/permit.pdf",
		"fileType": "pdf",
		"title":    "Permit",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, "GET", "/api/documents", otherToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []struct{}
	decode(t, rr, &list)
	assert.Empty(t, list)
}

// handlers/export.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
)

// ExportHandler serves owner data as CSV (default) or Excel downloads.
// GET /api/export/{dataset}?format=csv|xlsx
type ExportHandler struct {
	service *ExportService
}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{service: NewExportService(config.DB)}
}

func (h *ExportHandler) serve(w http.ResponseWriter, r *http.Request, dataset string,
	build func(uuid.UUID) ([]exportTable, error)) {

	claims := middleware.GetClaims(r)
	ownerID, _ := uuid.Parse(claims.UserID)

	tables, err := build(ownerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build export")
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		buffer, err := renderExcel(tables)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to generate Excel file")
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(dataset, "xlsx")))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
		w.WriteHeader(http.StatusOK)
		w.Write(buffer.Bytes())
		return
	}

	data, err := renderCSV(tables)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate CSV file")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(dataset, "csv")))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *ExportHandler) one(build func(uuid.UUID) (exportTable, error)) func(uuid.UUID) ([]exportTable, error) {
	return func(ownerID uuid.UUID) ([]exportTable, error) {
		t, err := build(ownerID)
		if err != nil {
			return nil, err
		}
		return []exportTable{t}, nil
	}
}

func (h *ExportHandler) ExportJobs(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "jobs", h.one(h.service.JobsTable))
}

func (h *ExportHandler) ExportReceipts(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "receipts", h.one(h.service.ReceiptsTable))
}

func (h *ExportHandler) ExportTimesheets(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "timesheets", h.one(h.service.TimesheetsTable))
}

func (h *ExportHandler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "summary", h.one(h.service.SummaryTable))
}

func (h *ExportHandler) ExportAll(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "all", h.service.AllTables)
}

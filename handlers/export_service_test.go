package handlers

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteledger.app/api/models"
)

func seedExportData(t *testing.T, svc *ExportService) uuid.UUID {
	t.Helper()
	ownerID := uuid.New()
	rate := 25.0
	worker := models.User{
		Email: "worker@example.com", PasswordHash: "x", Name: "Pat Doe",
		Role: models.RoleWorker, Active: true, HourlyRate: &rate, OwnerID: &ownerID,
	}
	require.NoError(t, svc.db.Create(&worker).Error)

	job := models.Job{
		OwnerID: ownerID, JobName: "Garage build", ClientName: "Ortiz",
		StartDate:    models.JSONTime(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)),
		Status:       models.JobStatusActive,
		ProjectValue: 8000, AmountPaid: 2000,
	}
	require.NoError(t, svc.db.Create(&job).Error)

	hours := 10.0
	out := time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)
	require.NoError(t, svc.db.Create(&models.Timesheet{
		OwnerID: ownerID, WorkerID: worker.ID, JobID: job.ID,
		ClockIn: out.Add(-10 * time.Hour), ClockOut: &out,
		Hours: &hours, Status: models.TimesheetCompleted,
	}).Error)

	jobID := job.ID
	require.NoError(t, svc.db.Create(&models.Receipt{
		OwnerID: ownerID, JobID: &jobID, Amount: 300, Vendor: "Concrete Co",
		ReceiptDate: models.JSONTime(time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)),
	}).Error)

	return ownerID
}

func TestJobsTableUsesFinanceNumbers(t *testing.T) {
	svc := NewExportService(newTestDB(t))
	ownerID := seedExportData(t, svc)

	table, err := svc.JobsTable(ownerID)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	assert.Equal(t, "Garage build", row[0])
	assert.Equal(t, "8000.00", row[5]) // project value
	assert.Equal(t, "2000.00", row[6]) // amount paid
	assert.Equal(t, "250.00", row[7])  // labor: 10h * $25
	assert.Equal(t, "300.00", row[8])  // expenses
	assert.Equal(t, "7450.00", row[9]) // profit
	assert.Equal(t, "6000.00", row[10])
}

func TestRenderCSV(t *testing.T) {
	svc := NewExportService(newTestDB(t))
	ownerID := seedExportData(t, svc)

	table, err := svc.ReceiptsTable(ownerID)
	require.NoError(t, err)

	data, err := renderCSV([]exportTable{table})
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Vendor", "Category", "Amount", "Job", "Notes"}, records[0])
	assert.Equal(t, "Concrete Co", records[1][1])
	assert.Equal(t, "300.00", records[1][3])
	assert.Equal(t, "Garage build", records[1][4])

	// summary block present
	assert.Contains(t, string(data), "Total Expenses,300.00")
}

func TestRenderCSVMultipleTables(t *testing.T) {
	svc := NewExportService(newTestDB(t))
	ownerID := seedExportData(t, svc)

	tables, err := svc.AllTables(ownerID)
	require.NoError(t, err)
	require.Len(t, tables, 4)

	data, err := renderCSV(tables)
	require.NoError(t, err)
	for _, name := range []string{"Summary", "Jobs", "Receipts", "Timesheets"} {
		assert.Contains(t, string(data), name+"\n")
	}
}

func TestRenderExcel(t *testing.T) {
	svc := NewExportService(newTestDB(t))
	ownerID := seedExportData(t, svc)

	tables, err := svc.AllTables(ownerID)
	require.NoError(t, err)

	buf, err := renderExcel(tables)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
	// xlsx files are zip archives
	assert.Equal(t, "PK", string(buf.Bytes()[:2]))
}

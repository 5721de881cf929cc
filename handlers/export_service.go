// handlers/export_service.go
package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"siteledger.app/api/models"
)

// exportTable is one named sheet of export data: a header row plus rows of
// stringified cells, with an optional key/value summary block appended.
type exportTable struct {
	Name    string
	Headers []string
	Rows    [][]string
	Summary [][2]string
}

// ExportService builds the exportable datasets for one owner. All financial
// columns come from FinanceService so exports never disagree with the API.
type ExportService struct {
	db      *gorm.DB
	finance *FinanceService
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db, finance: NewFinanceService(db)}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// JobsTable exports every job with its computed financials.
func (s *ExportService) JobsTable(ownerID uuid.UUID) (exportTable, error) {
	var jobs []models.Job
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at").Find(&jobs).Error; err != nil {
		return exportTable{}, err
	}

	t := exportTable{
		Name: "Jobs",
		Headers: []string{
			"Job Name", "Client", "Status", "Start Date", "End Date",
			"Project Value", "Amount Paid", "Labor Cost", "Expenses", "Profit", "Remaining Balance",
		},
	}

	var totalValue, totalPaid, totalProfit float64
	for _, job := range jobs {
		fin, err := s.finance.ForJob(&job)
		if err != nil {
			return exportTable{}, err
		}
		endDate := ""
		if job.EndDate != nil {
			endDate = job.EndDate.Time().Format("2006-01-02")
		}
		t.Rows = append(t.Rows, []string{
			job.JobName, job.ClientName, job.Status,
			job.StartDate.Time().Format("2006-01-02"), endDate,
			money(job.ProjectValue), money(job.AmountPaid),
			money(fin.LaborCost), money(fin.ReceiptExpenses),
			money(fin.Profit), money(fin.RemainingBalance),
		})
		totalValue += job.ProjectValue
		totalPaid += job.AmountPaid
		totalProfit += fin.Profit
	}

	t.Summary = [][2]string{
		{"Total Jobs", fmt.Sprintf("%d", len(jobs))},
		{"Total Project Value", money(totalValue)},
		{"Total Amount Paid", money(totalPaid)},
		{"Total Profit", money(totalProfit)},
	}
	return t, nil
}

// ReceiptsTable exports every receipt with its job name resolved.
func (s *ExportService) ReceiptsTable(ownerID uuid.UUID) (exportTable, error) {
	var receipts []models.Receipt
	if err := s.db.Where("owner_id = ?", ownerID).Order("receipt_date").Find(&receipts).Error; err != nil {
		return exportTable{}, err
	}

	jobNames := map[uuid.UUID]string{}
	var jobs []models.Job
	if err := s.db.Select("id, job_name").Where("owner_id = ?", ownerID).Find(&jobs).Error; err != nil {
		return exportTable{}, err
	}
	for _, j := range jobs {
		jobNames[j.ID] = j.JobName
	}

	t := exportTable{
		Name:    "Receipts",
		Headers: []string{"Date", "Vendor", "Category", "Amount", "Job", "Notes"},
	}

	var total float64
	for _, rec := range receipts {
		jobName := ""
		if rec.JobID != nil {
			jobName = jobNames[*rec.JobID]
		}
		category := ""
		if rec.Category != nil {
			category = *rec.Category
		}
		t.Rows = append(t.Rows, []string{
			rec.ReceiptDate.Time().Format("2006-01-02"),
			rec.Vendor, category, money(rec.Amount), jobName, rec.Notes,
		})
		total += rec.Amount
	}

	t.Summary = [][2]string{
		{"Total Receipts", fmt.Sprintf("%d", len(receipts))},
		{"Total Expenses", money(total)},
	}
	return t, nil
}

// TimesheetsTable exports every timesheet with worker and job names and the
// earnings implied by the worker's hourly rate.
func (s *ExportService) TimesheetsTable(ownerID uuid.UUID) (exportTable, error) {
	var sheets []models.Timesheet
	if err := s.db.Where("owner_id = ?", ownerID).Order("clock_in").Find(&sheets).Error; err != nil {
		return exportTable{}, err
	}

	workers := map[uuid.UUID]models.User{}
	var users []models.User
	if err := s.db.Where("owner_id = ? OR id = ?", ownerID, ownerID).Find(&users).Error; err != nil {
		return exportTable{}, err
	}
	for _, u := range users {
		workers[u.ID] = u
	}

	jobNames := map[uuid.UUID]string{}
	var jobs []models.Job
	if err := s.db.Select("id, job_name").Where("owner_id = ?", ownerID).Find(&jobs).Error; err != nil {
		return exportTable{}, err
	}
	for _, j := range jobs {
		jobNames[j.ID] = j.JobName
	}

	t := exportTable{
		Name:    "Timesheets",
		Headers: []string{"Worker", "Job", "Clock In", "Clock Out", "Hours", "Hourly Rate", "Earnings", "Status"},
	}

	var totalHours, totalEarnings float64
	for _, sheet := range sheets {
		worker := workers[sheet.WorkerID]
		rate := 0.0
		if worker.HourlyRate != nil {
			rate = *worker.HourlyRate
		}
		hours := sheet.EffectiveHours()
		clockOut := ""
		if sheet.ClockOut != nil {
			clockOut = sheet.ClockOut.Format("2006-01-02 15:04")
		}
		t.Rows = append(t.Rows, []string{
			worker.Name, jobNames[sheet.JobID],
			sheet.ClockIn.Format("2006-01-02 15:04"), clockOut,
			fmt.Sprintf("%.2f", hours), money(rate), money(hours * rate), sheet.Status,
		})
		totalHours += hours
		totalEarnings += hours * rate
	}

	t.Summary = [][2]string{
		{"Total Entries", fmt.Sprintf("%d", len(sheets))},
		{"Total Hours", fmt.Sprintf("%.2f", totalHours)},
		{"Total Earnings", money(totalEarnings)},
	}
	return t, nil
}

// SummaryTable is a one-page financial overview across all jobs.
func (s *ExportService) SummaryTable(ownerID uuid.UUID) (exportTable, error) {
	jobsTable, err := s.JobsTable(ownerID)
	if err != nil {
		return exportTable{}, err
	}

	t := exportTable{
		Name:    "Summary",
		Headers: []string{"Metric", "Value"},
	}
	for _, kv := range jobsTable.Summary {
		t.Rows = append(t.Rows, []string{kv[0], kv[1]})
	}

	var totalExpenses float64
	if err := s.db.Model(&models.Receipt{}).Where("owner_id = ?", ownerID).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalExpenses).Error; err != nil {
		return exportTable{}, err
	}
	var workerCount int64
	if err := s.db.Model(&models.User{}).
		Where("owner_id = ? AND role = ?", ownerID, models.RoleWorker).
		Count(&workerCount).Error; err != nil {
		return exportTable{}, err
	}
	t.Rows = append(t.Rows,
		[]string{"Total Expenses", money(totalExpenses)},
		[]string{"Workers", fmt.Sprintf("%d", workerCount)},
	)
	return t, nil
}

// AllTables returns every dataset, one sheet each.
func (s *ExportService) AllTables(ownerID uuid.UUID) ([]exportTable, error) {
	var out []exportTable
	for _, build := range []func(uuid.UUID) (exportTable, error){
		s.SummaryTable, s.JobsTable, s.ReceiptsTable, s.TimesheetsTable,
	} {
		t, err := build(ownerID)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// renderCSV writes one or more tables as CSV. Multiple tables are separated
// by a blank line and a name row.
func renderCSV(tables []exportTable) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for i, t := range tables {
		if len(tables) > 1 {
			if i > 0 {
				writer.Write([]string{})
			}
			writer.Write([]string{t.Name})
		}
		writer.Write(t.Headers)
		for _, row := range t.Rows {
			writer.Write(row)
		}
		if len(t.Summary) > 0 {
			writer.Write([]string{})
			for _, kv := range t.Summary {
				writer.Write([]string{kv[0], kv[1]})
			}
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// renderExcel writes each table to its own styled sheet.
func renderExcel(tables []exportTable) (*bytes.Buffer, error) {
	f := excelize.NewFile()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E7E6E6"}, Pattern: 1},
	})

	for i, t := range tables {
		index, err := f.NewSheet(t.Name)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}

		for colIdx, header := range t.Headers {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
			f.SetCellValue(t.Name, cell, header)
			f.SetCellStyle(t.Name, cell, cell, headerStyle)
			col, _ := excelize.ColumnNumberToName(colIdx + 1)
			f.SetColWidth(t.Name, col, col, 18)
		}

		for rowIdx, row := range t.Rows {
			for colIdx, value := range row {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				f.SetCellValue(t.Name, cell, value)
			}
		}

		if len(t.Summary) > 0 {
			summaryRow := len(t.Rows) + 3
			cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
			f.SetCellValue(t.Name, cell, "Summary")
			f.SetCellStyle(t.Name, cell, cell, summaryStyle)
			for _, kv := range t.Summary {
				summaryRow++
				keyCell, _ := excelize.CoordinatesToCellName(1, summaryRow)
				valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow)
				f.SetCellValue(t.Name, keyCell, kv[0])
				f.SetCellValue(t.Name, valueCell, kv[1])
			}
		}
	}

	f.DeleteSheet("Sheet1")
	return f.WriteToBuffer()
}

func exportFilename(dataset, ext string) string {
	return fmt.Sprintf("siteledger_%s_%s.%s", dataset, time.Now().Format("20060102_150405"), ext)
}

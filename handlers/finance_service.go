package handlers

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"siteledger.app/api/models"
)

// JobFinancials is the set of derived money values for a job. Nothing here
// is stored; every read path (job responses, exports, insight snapshots)
// goes through FinanceService so the formulas live in exactly one place.
type JobFinancials struct {
	LaborCost        float64 `json:"laborCost"`
	ReceiptExpenses  float64 `json:"receiptExpenses"`
	TotalCost        float64 `json:"totalCost"`
	Profit           float64 `json:"profit"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// ComputeFinancials applies the job money formulas:
//
//	totalCost        = laborCost + receiptExpenses
//	profit           = projectValue - laborCost - receiptExpenses
//	remainingBalance = projectValue - amountPaid
//
// Receipt expenses are part of profit; receipts never affect amountPaid.
func ComputeFinancials(projectValue, amountPaid, laborCost, receiptExpenses float64) JobFinancials {
	return JobFinancials{
		LaborCost:        laborCost,
		ReceiptExpenses:  receiptExpenses,
		TotalCost:        laborCost + receiptExpenses,
		Profit:           projectValue - laborCost - receiptExpenses,
		RemainingBalance: projectValue - amountPaid,
	}
}

// FinanceService computes job financials from the database.
type FinanceService struct {
	db *gorm.DB
}

func NewFinanceService(db *gorm.DB) *FinanceService {
	return &FinanceService{db: db}
}

// LaborCost sums hours × hourly rate over a job's timesheets. A timesheet
// whose worker has no hourly rate, or whose hours are not yet written,
// contributes 0.
func (s *FinanceService) LaborCost(jobID uuid.UUID) (float64, error) {
	var total float64
	err := s.db.Model(&models.Timesheet{}).
		Select("COALESCE(SUM(COALESCE(timesheets.hours, 0) * COALESCE(users.hourly_rate, 0)), 0)").
		Joins("LEFT JOIN users ON users.id = timesheets.worker_id").
		Where("timesheets.job_id = ?", jobID).
		Scan(&total).Error
	return total, err
}

// ReceiptExpenses sums receipt amounts charged against a job.
func (s *FinanceService) ReceiptExpenses(jobID uuid.UUID) (float64, error) {
	var total float64
	err := s.db.Model(&models.Receipt{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("job_id = ?", jobID).
		Scan(&total).Error
	return total, err
}

// ForJob computes the full derived set for one job.
func (s *FinanceService) ForJob(job *models.Job) (JobFinancials, error) {
	labor, err := s.LaborCost(job.ID)
	if err != nil {
		return JobFinancials{}, err
	}
	expenses, err := s.ReceiptExpenses(job.ID)
	if err != nil {
		return JobFinancials{}, err
	}
	return ComputeFinancials(job.ProjectValue, job.AmountPaid, labor, expenses), nil
}

// AssignedWorkerIDs returns the IDs of workers assigned to a job.
func (s *FinanceService) AssignedWorkerIDs(jobID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := s.db.Model(&models.WorkerJobAssignment{}).
		Where("job_id = ?", jobID).
		Pluck("worker_id", &ids).Error
	return ids, err
}

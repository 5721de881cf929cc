// models/job.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Job statuses.
const (
	JobStatusActive    = "active"
	JobStatusCompleted = "completed"
	JobStatusOnHold    = "onHold"
	JobStatusCancelled = "cancelled"
)

// Job is a construction job owned by an owner account.
// ProjectValue and AmountPaid are stored; labor cost, expenses, profit and
// remaining balance are derived on read by handlers.FinanceService.
type Job struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"           json:"id"`
	OwnerID    uuid.UUID  `gorm:"type:uuid;index;not null"       json:"ownerID"`
	JobName    string     `gorm:"column:job_name;size:200;not null" json:"jobName"`
	ClientName string     `gorm:"column:client_name;size:200;not null" json:"clientName"`
	Address    string     `gorm:"size:500"                       json:"address"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	StartDate  JSONTime   `gorm:"column:start_date;not null"     json:"startDate"`
	EndDate    *JSONTime  `gorm:"column:end_date"                json:"endDate,omitempty"`
	Status     string     `gorm:"size:20;not null;default:active" json:"status"`
	Notes      string     `json:"notes"`

	ProjectValue float64 `gorm:"column:project_value;not null" json:"projectValue"`
	AmountPaid   float64 `gorm:"column:amount_paid;not null;default:0" json:"amountPaid"`

	// Optional clock-in location check: a radius (meters) around the job
	// coordinates. Advisory only; an out-of-range clock-in is recorded with
	// is_location_valid=false rather than rejected.
	GeofenceEnabled bool    `gorm:"column:geofence_enabled;default:false" json:"geofenceEnabled"`
	GeofenceRadius  float64 `gorm:"column:geofence_radius;default:150"    json:"geofenceRadius"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}

// ValidStatus reports whether s is a known job status.
func ValidStatus(s string) bool {
	switch s {
	case JobStatusActive, JobStatusCompleted, JobStatusOnHold, JobStatusCancelled:
		return true
	}
	return false
}

// WorkerJobAssignment links a worker to a job. The composite primary key
// makes assignment idempotent: inserting an existing pair is a no-op.
type WorkerJobAssignment struct {
	WorkerID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"workerID"`
	JobID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"jobID"`
	CreatedAt time.Time `gorm:"autoCreateTime"       json:"createdAt"`
}

func (WorkerJobAssignment) TableName() string {
	return "worker_job_assignments"
}

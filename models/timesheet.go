// models/timesheet.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Timesheet statuses.
const (
	TimesheetWorking   = "working"
	TimesheetCompleted = "completed"
)

// Timesheet is one work session for a worker on a job. A row with
// status=working is an open clock-in; clocking out completes it and stores
// the elapsed hours. At most one working row per worker is allowed (enforced
// by a partial unique index, see config.Migrations).
type Timesheet struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	OwnerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerID"`
	WorkerID uuid.UUID `gorm:"type:uuid;index;not null" json:"workerID"`
	JobID    uuid.UUID `gorm:"type:uuid;index;not null" json:"jobID"`

	ClockIn  time.Time  `gorm:"column:clock_in;not null" json:"clockIn"`
	ClockOut *time.Time `gorm:"column:clock_out"         json:"clockOut,omitempty"`
	Hours    *float64   `json:"hours"`
	Status   string     `gorm:"size:20;not null;default:working" json:"status"`
	Notes    string     `json:"notes"`

	ClockInLocation   *string  `gorm:"column:clock_in_location"    json:"clockInLocation,omitempty"`
	ClockOutLocation  *string  `gorm:"column:clock_out_location"   json:"clockOutLocation,omitempty"`
	ClockInLatitude   *float64 `gorm:"column:clock_in_latitude"    json:"clockInLatitude,omitempty"`
	ClockInLongitude  *float64 `gorm:"column:clock_in_longitude"   json:"clockInLongitude,omitempty"`
	ClockOutLatitude  *float64 `gorm:"column:clock_out_latitude"   json:"clockOutLatitude,omitempty"`
	ClockOutLongitude *float64 `gorm:"column:clock_out_longitude"  json:"clockOutLongitude,omitempty"`

	DistanceFromJobSite *float64       `gorm:"column:distance_from_job_site" json:"distanceFromJobSite,omitempty"`
	IsLocationValid     *bool          `gorm:"column:is_location_valid"      json:"isLocationValid,omitempty"`
	AIFlags             datatypes.JSON `gorm:"column:ai_flags"               json:"aiFlags,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (t *Timesheet) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// EffectiveHours returns the stored hours, or the elapsed clock-in/out span
// when hours were never written. An open session reports 0.
func (t *Timesheet) EffectiveHours() float64 {
	if t.Hours != nil {
		return *t.Hours
	}
	if t.ClockOut != nil {
		return t.ClockOut.Sub(t.ClockIn).Hours()
	}
	return 0
}

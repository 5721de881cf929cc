// models/payment.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkerPayment is a payroll record: what an owner actually paid a worker
// for a period, alongside the hours/rate snapshot used to calculate it.
type WorkerPayment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	OwnerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerID"`
	WorkerID uuid.UUID `gorm:"type:uuid;index;not null" json:"workerID"`

	Amount             float64   `gorm:"not null"                         json:"amount"`
	PaymentDate        JSONTime  `gorm:"column:payment_date;not null"     json:"paymentDate"`
	PeriodStart        *JSONTime `gorm:"column:period_start"              json:"periodStart,omitempty"`
	PeriodEnd          *JSONTime `gorm:"column:period_end"                json:"periodEnd,omitempty"`
	HoursWorked        float64   `gorm:"column:hours_worked"              json:"hoursWorked"`
	HourlyRate         float64   `gorm:"column:hourly_rate"               json:"hourlyRate"`
	CalculatedEarnings float64   `gorm:"column:calculated_earnings"       json:"calculatedEarnings"`
	PaymentMethod      string    `gorm:"column:payment_method;size:50"    json:"paymentMethod"`
	Notes              string    `json:"notes"`
	ReferenceNumber    *string   `gorm:"column:reference_number;size:100" json:"referenceNumber,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (p *WorkerPayment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// ClientPayment is money received from a client against a job. Creating one
// bumps the job's amount_paid inside the same transaction.
type ClientPayment struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	JobID uuid.UUID `gorm:"type:uuid;index;not null" json:"jobId"`

	Amount    float64   `gorm:"not null"           json:"amount"`
	Method    string    `gorm:"size:50;not null"   json:"method"`
	Date      JSONTime  `gorm:"not null"           json:"date"`
	Reference *string   `gorm:"size:100"           json:"reference,omitempty"`
	Notes     string    `json:"notes"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"createdBy"`
	CreatedAt time.Time `gorm:"autoCreateTime"     json:"createdAt"`
}

func (p *ClientPayment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// models/receipt.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Receipt is a stored expense document. Receipts count toward a job's cost
// through FinanceService; they never touch AmountPaid.
type Receipt struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"     json:"id"`
	OwnerID uuid.UUID  `gorm:"type:uuid;index;not null" json:"ownerID"`
	JobID   *uuid.UUID `gorm:"type:uuid;index"          json:"jobID,omitempty"`

	Amount      float64  `gorm:"not null"                     json:"amount"`
	Vendor      string   `gorm:"size:200;not null"            json:"vendor"`
	Category    *string  `gorm:"size:100"                     json:"category,omitempty"`
	ReceiptDate JSONTime `gorm:"column:receipt_date;not null" json:"date"`
	ImageURL    *string  `gorm:"column:image_url"             json:"imageURL,omitempty"`
	Notes       string   `json:"notes"`

	// OCR/AI annotations written by the client after local processing.
	AIProcessed         bool           `gorm:"column:ai_processed;default:false" json:"aiProcessed"`
	AIConfidence        *float64       `gorm:"column:ai_confidence"              json:"aiConfidence,omitempty"`
	AIFlags             datatypes.JSON `gorm:"column:ai_flags"                   json:"aiFlags,omitempty"`
	AISuggestedCategory *string        `gorm:"column:ai_suggested_category"      json:"aiSuggestedCategory,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (r *Receipt) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

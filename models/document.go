// models/document.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is file metadata only; the file itself lives in object storage
// and is referenced by URL.
type Document struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"     json:"id"`
	OwnerID uuid.UUID  `gorm:"type:uuid;index;not null" json:"ownerID"`
	JobID   *uuid.UUID `gorm:"type:uuid;index"          json:"jobID,omitempty"`

	FileURL          string  `gorm:"column:file_url;not null"  json:"fileURL"`
	FileType         string  `gorm:"column:file_type;size:20"  json:"fileType"` // pdf|image|other
	Title            string  `gorm:"size:200;not null"         json:"title"`
	Notes            string  `json:"notes"`
	DocumentCategory *string `gorm:"column:document_category"  json:"documentCategory,omitempty"`

	AIProcessed     bool           `gorm:"column:ai_processed;default:false" json:"aiProcessed"`
	AISummary       *string        `gorm:"column:ai_summary"                 json:"aiSummary,omitempty"`
	AIExtractedData datatypes.JSON `gorm:"column:ai_extracted_data"          json:"aiExtractedData,omitempty"`
	AIConfidence    *float64       `gorm:"column:ai_confidence"              json:"aiConfidence,omitempty"`
	AIFlags         datatypes.JSON `gorm:"column:ai_flags"                   json:"aiFlags,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

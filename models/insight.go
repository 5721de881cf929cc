// models/insight.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AIInsight stores a generated summary for a user (daily digest, job
// summary). Generation happens client-side or through an external proxy;
// this table is only the persisted result.
type AIInsight struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userID"`

	Type        string         `gorm:"size:50;not null"               json:"type"`
	Content     string         `gorm:"type:text;not null"             json:"content"`
	Data        datatypes.JSON `json:"data,omitempty"`
	GeneratedAt time.Time      `gorm:"column:generated_at;not null"   json:"generatedAt"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"                 json:"createdAt"`
}

func (i *AIInsight) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

func (AIInsight) TableName() string {
	return "ai_insights"
}

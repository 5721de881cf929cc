// models/alert.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Alert types raised by the scheduler and handlers.
const (
	AlertTypeOverdueJob = "overdueJob"
)

// Alert is an owner-facing banner (budget overrun, overdue job, etc.).
type Alert struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"     json:"id"`
	OwnerID uuid.UUID  `gorm:"type:uuid;index;not null" json:"ownerID"`
	JobID   *uuid.UUID `gorm:"type:uuid;index"          json:"jobID,omitempty"`

	Type      string    `gorm:"size:50;not null"  json:"type"`
	Severity  string    `gorm:"size:20"           json:"severity"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `json:"message"`
	ActionURL *string   `gorm:"column:action_url" json:"actionURL,omitempty"`
	Read      bool      `gorm:"default:false"     json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime"    json:"createdAt"`
}

func (a *Alert) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// Notification is a per-user in-app notification (worker assignment, payment
// recorded, etc.). Delivery to the device is out of process; these rows are
// the in-app feed.
type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userID"`

	Type      string         `gorm:"size:50;not null"  json:"type"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Message   string         `json:"message"`
	Read      bool           `gorm:"default:false"     json:"read"`
	Data      datatypes.JSON `json:"data,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime"    json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}

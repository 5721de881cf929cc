// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account roles.
const (
	RoleOwner  = "owner"
	RoleWorker = "worker"
)

// User is an account row. Owners manage jobs and billing; workers are
// created by an owner (OwnerID set) and log timesheets against assigned jobs.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"                json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null"       json:"email"`
	PasswordHash string     `gorm:"size:255;not null"                   json:"-"`
	Name         string     `gorm:"size:100;not null"                   json:"name"`
	Role         string     `gorm:"size:20;not null;default:owner"      json:"role"`
	Active       bool       `gorm:"default:true"                        json:"active"`
	HourlyRate   *float64   `gorm:"column:hourly_rate"                  json:"hourlyRate"`
	Phone        *string    `gorm:"size:30"                             json:"phone,omitempty"`
	PhotoURL     *string    `gorm:"column:photo_url"                    json:"photoURL,omitempty"`
	OwnerID      *uuid.UUID `gorm:"type:uuid;index"                     json:"ownerId,omitempty"`

	// Worker-only permission bag, e.g. {"canViewFinancials": false}.
	WorkerPermissions datatypes.JSON `gorm:"column:worker_permissions" json:"workerPermissions,omitempty"`

	// Payroll bank details, owner-entered.
	BankName          *string `gorm:"column:bank_name"           json:"bankName,omitempty"`
	AccountHolderName *string `gorm:"column:account_holder_name" json:"accountHolderName,omitempty"`
	AccountNumber     *string `gorm:"column:account_number"      json:"accountNumber,omitempty"`
	RoutingNumber     *string `gorm:"column:routing_number"      json:"routingNumber,omitempty"`
	AccountType       *string `gorm:"column:account_type"        json:"accountType,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// IsOwner reports whether the account manages jobs and workers.
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// DefaultWorkerPermissions is the permission bag applied to new workers.
func DefaultWorkerPermissions() datatypes.JSON {
	return datatypes.JSON([]byte(`{"canViewFinancials":false,"canEditTimesheets":false,"canUploadReceipts":true,"canViewDocuments":true,"canChatWithAI":false}`))
}

package handlers

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"siteledger.app/api/models"
)

// NotificationService creates in-app notification rows. Every method is
// best-effort: a failure is logged and swallowed so the triggering operation
// (assignment, payment) never fails because of it.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (ns *NotificationService) create(userID uuid.UUID, notifType, title, message string, data datatypes.JSON) {
	n := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := ns.db.Create(&n).Error; err != nil {
		log.Printf("❌ Failed to create %s notification for user %s: %v", notifType, userID, err)
	}
}

// NotifyWorkerAssigned tells a worker they were put on a job.
func (ns *NotificationService) NotifyWorkerAssigned(workerID uuid.UUID, job *models.Job) {
	data := datatypes.JSON([]byte(fmt.Sprintf(`{"jobID":%q}`, job.ID)))
	ns.create(workerID, "job_assignment", "New job assignment",
		fmt.Sprintf("You've been assigned to %s", job.JobName), data)
}

// NotifyWorkerUnassigned tells a worker they were taken off a job.
func (ns *NotificationService) NotifyWorkerUnassigned(workerID uuid.UUID, job *models.Job) {
	data := datatypes.JSON([]byte(fmt.Sprintf(`{"jobID":%q}`, job.ID)))
	ns.create(workerID, "job_unassignment", "Job assignment removed",
		fmt.Sprintf("You've been removed from %s", job.JobName), data)
}

// NotifyPaymentRecorded tells a worker a payroll payment was logged for them.
func (ns *NotificationService) NotifyPaymentRecorded(workerID uuid.UUID, amount float64) {
	ns.create(workerID, "payment_recorded", "Payment recorded",
		fmt.Sprintf("A payment of $%.2f was recorded for you", amount), nil)
}

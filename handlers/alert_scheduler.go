// handlers/alert_scheduler.go
package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"siteledger.app/api/config"
	"siteledger.app/api/models"
)

// AlertScheduler runs the periodic scans that raise owner alerts, currently
// overdue jobs (active past their end date). Each scan raises at most one
// alert per job per day.
type AlertScheduler struct {
	db   *gorm.DB
	cron *cron.Cron
}

func NewAlertScheduler() *AlertScheduler {
	return &AlertScheduler{
		db:   config.DB,
		cron: cron.New(),
	}
}

// Start registers the scan jobs and starts the cron loop in its own
// goroutine. An immediate scan runs on startup so restarts do not skip a day.
func (s *AlertScheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.ScanOverdueJobs); err != nil {
		return err
	}
	s.cron.Start()
	go s.ScanOverdueJobs()
	log.Println("📅 Alert scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running scan to finish.
func (s *AlertScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ScanOverdueJobs raises an alert for every active job whose end date has
// passed, skipping jobs already alerted today.
func (s *AlertScheduler) ScanOverdueJobs() {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var jobs []models.Job
	if err := s.db.Where("status = ? AND end_date IS NOT NULL AND end_date < ?",
		models.JobStatusActive, now).Find(&jobs).Error; err != nil {
		log.Printf("❌ Overdue job scan failed: %v", err)
		return
	}

	for _, job := range jobs {
		var existing int64
		if err := s.db.Model(&models.Alert{}).
			Where("job_id = ? AND type = ? AND created_at >= ?", job.ID, models.AlertTypeOverdueJob, dayStart).
			Count(&existing).Error; err != nil {
			log.Printf("❌ Overdue alert lookup failed for job %s: %v", job.ID, err)
			continue
		}
		if existing > 0 {
			continue
		}

		jobID := job.ID
		alert := models.Alert{
			OwnerID:  job.OwnerID,
			JobID:    &jobID,
			Type:     models.AlertTypeOverdueJob,
			Severity: "warning",
			Title:    "Job past its end date",
			Message: fmt.Sprintf("%s was due on %s and is still active.",
				job.JobName, job.EndDate.Time().Format("Jan 2, 2006")),
		}
		if err := s.db.Create(&alert).Error; err != nil {
			log.Printf("❌ Failed to create overdue alert for job %s: %v", job.ID, err)
		}
	}
}

package cron

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/services"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Config tunes the scheduled jobs
type Config struct {
	// FundingExpiryDays is how far ahead the expiring-funding report looks.
	FundingExpiryDays int
	// LogRetention is how long cron_job_logs rows are kept.
	LogRetention time.Duration
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron    *cron.Cron
	db      *gorm.DB
	funding *services.FundingService
	config  Config
	now     func() time.Time
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, config Config) *CronManager {
	if config.FundingExpiryDays <= 0 {
		config.FundingExpiryDays = 30
	}
	if config.LogRetention <= 0 {
		config.LogRetention = 90 * 24 * time.Hour
	}

	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:    c,
		db:      db,
		funding: services.NewFundingService(db),
		config:  config,
		now:     time.Now,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Info("Starting cron jobs...")

	// Register all jobs
	if err := m.registerJobs(); err != nil {
		return err
	}

	// Start the cron scheduler
	m.cron.Start()

	log.Info("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Info("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Daily at 1 AM: audit the institution tree and rank columns
	if _, err := m.cron.AddFunc("0 0 1 * * *", m.AuditInstitutionTree); err != nil {
		return err
	}

	// 2. Daily at 2 AM: drop old job logs
	if _, err := m.cron.AddFunc("0 0 2 * * *", m.CleanupOldLogs); err != nil {
		return err
	}

	// 3. Daily at 7 AM: report awards about to end
	if _, err := m.cron.AddFunc("0 0 7 * * *", m.ReportExpiringFunding); err != nil {
		return err
	}

	log.Info("All cron jobs registered successfully")
	return nil
}

// logJobStart records the start of a run and returns its log row
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	log.Infof("[CRON] Starting job: %s at %s", jobName, m.now().Format(time.RFC3339))

	cronLog := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronJobRunning,
		StartedAt: m.now(),
		Metadata:  datatypes.JSON("{}"),
	}
	if err := m.db.Create(cronLog).Error; err != nil {
		log.Warnf("[CRON] Failed to record start of %s: %v", jobName, err)
	}
	return cronLog
}

// logJobComplete marks a run completed, attaching metadata as JSON
func (m *CronManager) logJobComplete(run *model.CronJobLog, message string, metadata interface{}) {
	log.Infof("[CRON] Completed job: %s - %s", run.JobName, message)

	updates := m.finish(run, model.CronJobCompleted)
	updates["message"] = message
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			log.Warnf("[CRON] Failed to encode metadata of %s: %v", run.JobName, err)
		} else {
			updates["metadata"] = datatypes.JSON(raw)
		}
	}
	m.save(run, updates)
}

// logJobError marks a run failed
func (m *CronManager) logJobError(run *model.CronJobLog, err error) {
	log.Errorf("[CRON] Error in job: %s - %v", run.JobName, err)

	updates := m.finish(run, model.CronJobFailed)
	updates["error_msg"] = err.Error()
	m.save(run, updates)
}

func (m *CronManager) finish(run *model.CronJobLog, status string) map[string]interface{} {
	completed := m.now()
	return map[string]interface{}{
		"status":       status,
		"completed_at": completed,
		"duration":     completed.Sub(run.StartedAt).Milliseconds(),
	}
}

func (m *CronManager) save(run *model.CronJobLog, updates map[string]interface{}) {
	if run.ID == 0 {
		return
	}
	if err := m.db.Model(run).Updates(updates).Error; err != nil {
		log.Warnf("[CRON] Failed to record result of %s: %v", run.JobName, err)
	}
}

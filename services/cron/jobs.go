package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/services"
)

const (
	jobAuditInstitutionTree  = "audit_institution_tree"
	jobReportExpiringFunding = "report_expiring_funding"
	jobCleanupOldLogs        = "cleanup_old_logs"
)

// AuditInstitutionTree looks for parent loops, dangling parents and broken
// rank sequences. Findings are logged; nothing is repaired automatically.
func (m *CronManager) AuditInstitutionTree() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	run := m.logJobStart(jobAuditInstitutionTree)

	report, err := services.AuditHierarchy(ctx, m.db)
	if err != nil {
		m.logJobError(run, fmt.Errorf("audit hierarchy: %w", err))
		return
	}

	if report.Clean() {
		m.logJobComplete(run, "Institution tree is consistent", report)
		return
	}

	for _, id := range report.Cycles {
		log.Warnf("[CRON] Institution %d has a looping parent chain", id)
	}
	for _, id := range report.Orphans {
		log.Warnf("[CRON] Institution %d points at a missing parent", id)
	}
	for _, gap := range report.RankGaps {
		log.Warnf("[CRON] Rank gap: %s", gap)
	}
	m.logJobComplete(run, fmt.Sprintf("Found %d cycles, %d orphans, %d rank gaps",
		len(report.Cycles), len(report.Orphans), len(report.RankGaps)), report)
}

// expiringAward is the log metadata kept per award.
type expiringAward struct {
	ID      uint   `json:"id"`
	Display string `json:"display"`
	EndDate string `json:"end_date"`
}

// ReportExpiringFunding logs the awards ending within the configured window.
func (m *CronManager) ReportExpiringFunding() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	run := m.logJobStart(jobReportExpiringFunding)

	from := m.now().UTC()
	to := from.AddDate(0, 0, m.config.FundingExpiryDays)
	awards, err := m.funding.EndingBetween(ctx, from, to)
	if err != nil {
		m.logJobError(run, err)
		return
	}

	expiring := make([]expiringAward, 0, len(awards))
	for _, f := range awards {
		end := time.Time(f.EndDate).Format(services.DateLayout)
		log.Infof("[CRON] Funding %s ends %s", f.String(), end)
		expiring = append(expiring, expiringAward{ID: f.ID, Display: f.String(), EndDate: end})
	}

	m.logJobComplete(run, fmt.Sprintf("%d awards end within %d days", len(awards), m.config.FundingExpiryDays), expiring)
}

// CleanupOldLogs removes cron job logs past the retention window
func (m *CronManager) CleanupOldLogs() {
	run := m.logJobStart(jobCleanupOldLogs)

	cutoff := m.now().Add(-m.config.LogRetention)
	result := m.db.Where("created_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(run, fmt.Errorf("clean cron logs: %w", result.Error))
		return
	}

	m.logJobComplete(run, fmt.Sprintf("Cleaned %d old cron logs", result.RowsAffected), nil)
}

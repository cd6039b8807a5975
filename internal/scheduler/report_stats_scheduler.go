package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sjoh/foundly-backend/internal/app/service"
	"github.com/sjoh/foundly-backend/pkg/logger"
	appRedis "github.com/sjoh/foundly-backend/pkg/redis"
)

// ReportStatsScheduler snapshots the dashboard counts into redis once a
// day. Dashboards still compute live counts per request; the snapshot is
// a dated copy for trend displays and cheap reads.
type ReportStatsScheduler struct {
	cron          *cron.Cron
	reportService service.ReportService
}

func NewReportStatsScheduler(reportService service.ReportService) *ReportStatsScheduler {
	return &ReportStatsScheduler{
		cron:          cron.New(),
		reportService: reportService,
	}
}

// Start registers the daily snapshot job (midnight) and runs one
// snapshot immediately so a fresh deployment has data.
func (s *ReportStatsScheduler) Start() error {
	_, err := s.cron.AddFunc("0 0 * * *", func() {
		if err := s.snapshot(); err != nil {
			logger.Error("Failed to snapshot report stats from scheduler", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for report stats", err)
		return err
	}

	s.cron.Start()
	logger.Info("Report stats scheduler started successfully (daily at midnight)", nil)

	if err := s.snapshot(); err != nil {
		logger.Warn("Initial report stats snapshot failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

// Stop stops the scheduler
func (s *ReportStatsScheduler) Stop() {
	logger.Info("Stopping report stats scheduler...")
	s.cron.Stop()
	logger.Info("Report stats scheduler stopped")
}

func (s *ReportStatsScheduler) snapshot() error {
	counts, err := s.reportService.GetCounts()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"taken_at": time.Now().UTC().Format(time.RFC3339),
		"counts":   counts,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Keep the snapshot until two days of failed refreshes
	if err := appRedis.CacheReportStats(ctx, string(payload), 48*time.Hour); err != nil {
		return err
	}

	logger.Info("Report stats snapshot cached", map[string]interface{}{
		"total":    counts.Total,
		"resolved": counts.Resolved,
	})
	return nil
}

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/oshpulse/atlas/internal/insight"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/logger"
)

// refreshBatch bounds how many stale records one pass regenerates, so a
// large backlog drains across runs instead of hammering the model API.
const refreshBatch = 25

// InsightRefreshJob regenerates completed insights whose content has
// outlived the staleness budget.
// ⭐ SSOT: the refresh schedule lives only in this job.
type InsightRefreshJob struct {
	service *insight.Service
	config  *config.Config
	logger  *logger.Logger
}

// NewInsightRefreshJob creates a new insight refresh job
func NewInsightRefreshJob(svc *insight.Service, cfg *config.Config, log *logger.Logger) *InsightRefreshJob {
	return &InsightRefreshJob{
		service: svc,
		config:  cfg,
		logger:  log,
	}
}

// Name returns the job name
func (j *InsightRefreshJob) Name() string {
	return "insight_refresh"
}

// Schedule returns the cron schedule (every day at 3 AM)
func (j *InsightRefreshJob) Schedule() string {
	return "0 0 3 * * *" // 3 AM daily (with seconds)
}

// Run executes the stale insight refresh
func (j *InsightRefreshJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-j.config.Insights.StaleAfter)

	j.logger.WithFields(map[string]interface{}{
		"cutoff": cutoff.Format(time.RFC3339),
		"limit":  refreshBatch,
	}).Info("Starting scheduled insight refresh")

	refreshed, err := j.service.RefreshStale(ctx, cutoff, refreshBatch)
	if err != nil {
		return fmt.Errorf("refresh stale insights: %w", err)
	}

	j.logger.WithField("refreshed", refreshed).Info("Scheduled insight refresh completed")
	return nil
}

package jobs

import (
	"context"
	"time"

	"github.com/oshpulse/atlas/internal/insight"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/logger"
)

// CacheSweepJob drops entries from the bounded insight cache once their
// content passes the staleness budget.
type CacheSweepJob struct {
	cache  *insight.Cache
	config *config.Config
	logger *logger.Logger
}

// NewCacheSweepJob creates a new cache sweep job
func NewCacheSweepJob(cache *insight.Cache, cfg *config.Config, log *logger.Logger) *CacheSweepJob {
	return &CacheSweepJob{
		cache:  cache,
		config: cfg,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheSweepJob) Name() string {
	return "cache_sweep"
}

// Schedule returns the cron schedule (every 30 minutes)
func (j *CacheSweepJob) Schedule() string {
	return "0 */30 * * * *" // Every 30 minutes
}

// Run executes the cache sweep
func (j *CacheSweepJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache sweep")

	cutoff := time.Now().Add(-j.config.Insights.StaleAfter)
	count := j.cache.CleanStale(cutoff)

	if count > 0 {
		j.logger.WithField("removed", count).Info("Cache sweep completed")
	}

	return nil
}

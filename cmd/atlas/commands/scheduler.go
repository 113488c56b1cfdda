package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshpulse/atlas/internal/country"
	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/internal/insight"
	"github.com/oshpulse/atlas/internal/insight/gemini"
	"github.com/oshpulse/atlas/internal/scheduler"
	"github.com/oshpulse/atlas/internal/scheduler/jobs"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/database"
	"github.com/oshpulse/atlas/pkg/logger"
	"github.com/oshpulse/atlas/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the background scheduler",
	Long: `Starts the scheduler daemon or manages its jobs.

This command:
- Starts the scheduler daemon
- Lists registered jobs
- Shows job run history

Subcommands:
  start   - Start the scheduler
  list    - List registered jobs
  run     - Run one job immediately
  status  - Show job run statistics

Example:
  go run ./cmd/atlas scheduler start
  go run ./cmd/atlas scheduler list
  go run ./cmd/atlas scheduler run insight_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Starts the scheduler and schedules all registered jobs.

Registered jobs:
- insight_refresh: daily at 03:00 (regenerate stale insights)
- cache_sweep: every 30 minutes (evict stale insight cache entries)

Stop the scheduler with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job run statistics",
		RunE:  showSchedulerStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Atlas Scheduler ===")

	// Initialize dependencies
	sched, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	sched, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("Job started (running in background)")
	return nil
}

func showSchedulerStatus(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler(cmd.Context())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	stats := sched.GetJobStats()

	fmt.Println("Job Statistics:")
	fmt.Println()

	for jobName, stat := range stats {
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}

		if stat.LastSuccess != nil {
			fmt.Printf("   Last Success: %s\n", stat.LastSuccess.Format("2006-01-02 15:04:05"))
		}

		if stat.LastFailure != nil {
			fmt.Printf("   Last Failure: %s\n", stat.LastFailure.Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
	}

	return nil
}

func initScheduler(ctx context.Context) (*scheduler.Scheduler, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to Redis
	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 5. Create repositories and stores
	countryRepo := country.NewRepository(db.Pool)
	insightRepo := insight.NewRepository(db.Pool)

	sharedCache := redis.NewCache(rdb, "atlas")
	countryStore := country.NewStore(countryRepo, sharedCache)

	insightCache := insight.NewCache(cfg.Insights.CacheCapacity, log)
	insightStore := insight.NewCachedStore(insightRepo, insightCache)

	// 6. Create insight generator
	var generator domain.InsightGenerator = insight.DisabledGenerator{}
	if cfg.Gemini.APIKey != "" {
		gen, err := gemini.New(ctx, cfg.Gemini, redis.NewRateLimiter(rdb, "atlas"), log)
		if err != nil {
			return nil, fmt.Errorf("create insight generator: %w", err)
		}
		generator = gen
	} else {
		log.Warn("GEMINI_API_KEY not set, insight_refresh will fail until one is configured")
	}

	// 7. Create insight service (no status feed in the daemon)
	service := insight.NewService(countryStore, insightStore, generator, nil, cfg.Insights.Workers, log)

	// 8. Create scheduler
	sched := scheduler.New(log)

	// 9. Register jobs
	if err := sched.AddJob(jobs.NewInsightRefreshJob(service, cfg, log)); err != nil {
		return nil, fmt.Errorf("register insight_refresh: %w", err)
	}
	if err := sched.AddJob(jobs.NewCacheSweepJob(insightCache, cfg, log)); err != nil {
		return nil, fmt.Errorf("register cache_sweep: %w", err)
	}

	return sched, nil
}

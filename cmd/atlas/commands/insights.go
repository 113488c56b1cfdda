package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oshpulse/atlas/internal/country"
	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/internal/insight"
	"github.com/oshpulse/atlas/internal/insight/gemini"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/database"
	"github.com/oshpulse/atlas/pkg/logger"
	"github.com/oshpulse/atlas/pkg/redis"
)

// insightsCmd represents the insights command
var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Manage narrative insights",
	Long: `Generates and inspects AI narrative insights from the CLI.

Subcommands:
  init    - Generate missing insights for one country
  regen   - Force-regenerate insights for one country
  status  - Show stored insight statuses

Example:
  go run ./cmd/atlas insights init KOR
  go run ./cmd/atlas insights regen KOR outlook
  go run ./cmd/atlas insights status KOR`,
}

var (
	insightsInitCmd = &cobra.Command{
		Use:   "init [iso]",
		Short: "Generate missing insights for one country",
		Args:  cobra.ExactArgs(1),
		RunE:  runInsightsInit,
	}

	insightsRegenCmd = &cobra.Command{
		Use:   "regen [iso] [category]",
		Short: "Force-regenerate insights (all categories, or one)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runInsightsRegen,
	}

	insightsStatusCmd = &cobra.Command{
		Use:   "status [iso]",
		Short: "Show stored insight statuses",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInsightsStatus,
	}
)

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.AddCommand(insightsInitCmd)
	insightsCmd.AddCommand(insightsRegenCmd)
	insightsCmd.AddCommand(insightsStatusCmd)
}

func runInsightsInit(cmd *cobra.Command, args []string) error {
	iso := strings.ToUpper(args[0])

	fmt.Printf("=== Atlas Insights: Initialize %s ===\n", iso)

	svc, _, cleanup, err := initInsightService(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := svc.Initialize(cmd.Context(), iso)
	if err != nil {
		return fmt.Errorf("initialize insights: %w", err)
	}

	fmt.Printf("\n✅ Done: %d existing, %d generated, %d failed\n",
		result.Existing, result.Generated, result.Failed)
	return nil
}

func runInsightsRegen(cmd *cobra.Command, args []string) error {
	iso := strings.ToUpper(args[0])

	svc, _, cleanup, err := initInsightService(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	// Single category
	if len(args) == 2 {
		category, err := domain.ParseCategory(args[1])
		if err != nil {
			return fmt.Errorf("parse category: %w", err)
		}

		fmt.Printf("=== Atlas Insights: Regenerate %s/%s ===\n", iso, category)

		if err := svc.Regenerate(cmd.Context(), iso, category); err != nil {
			return fmt.Errorf("regenerate insight: %w", err)
		}

		fmt.Println("\n✅ Regenerated successfully")
		return nil
	}

	// All categories
	fmt.Printf("=== Atlas Insights: Regenerate %s (all categories) ===\n", iso)

	result, err := svc.RegenerateAll(cmd.Context(), iso)
	if err != nil {
		return fmt.Errorf("regenerate insights: %w", err)
	}

	fmt.Printf("\n✅ Done: %d succeeded, %d failed\n", result.Succeeded, result.Failed)
	return nil
}

func runInsightsStatus(cmd *cobra.Command, args []string) error {
	_, repo, cleanup, err := initInsightService(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	// Per-country listing
	if len(args) == 1 {
		iso := strings.ToUpper(args[0])

		records, err := repo.ListByCountry(ctx, iso)
		if err != nil {
			return fmt.Errorf("list insights: %w", err)
		}
		if len(records) == 0 {
			fmt.Printf("No insights stored for %s\n", iso)
			return nil
		}

		fmt.Printf("Insights for %s:\n\n", iso)
		for _, rec := range records {
			generated := "-"
			if rec.GeneratedAt != nil {
				generated = rec.GeneratedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("  %-22s %-11s %s\n", rec.Category, rec.Status, generated)
		}
		return nil
	}

	// Global counts
	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count insights: %w", err)
	}

	fmt.Println("📊 Insight Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	total := 0
	for _, status := range []domain.InsightStatus{
		domain.StatusPending,
		domain.StatusGenerating,
		domain.StatusCompleted,
		domain.StatusError,
	} {
		fmt.Printf("%-15s %10d\n", string(status)+":", counts[status])
		total += counts[status]
	}
	fmt.Printf("%-15s %10d\n", "Total:", total)

	return nil
}

// initInsightService wires the insight service for one-shot CLI use.
// The returned cleanup closes the database and Redis connections.
func initInsightService(ctx context.Context) (*insight.Service, *insight.Repository, func(), error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to Redis
	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	cleanup := func() {
		rdb.Close()
		db.Close()
	}

	// 5. Create repositories and ensure schema
	countryRepo := country.NewRepository(db.Pool)
	insightRepo := insight.NewRepository(db.Pool)

	if err := countryRepo.EnsureSchema(ctx); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("ensure country schema: %w", err)
	}
	if err := insightRepo.EnsureSchema(ctx); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("ensure insight schema: %w", err)
	}

	// 6. Create stores
	sharedCache := redis.NewCache(rdb, "atlas")
	countryStore := country.NewStore(countryRepo, sharedCache)

	insightCache := insight.NewCache(cfg.Insights.CacheCapacity, log)
	insightStore := insight.NewCachedStore(insightRepo, insightCache)

	// 7. Create insight generator
	var generator domain.InsightGenerator = insight.DisabledGenerator{}
	if cfg.Gemini.APIKey != "" {
		gen, err := gemini.New(ctx, cfg.Gemini, redis.NewRateLimiter(rdb, "atlas"), log)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("create insight generator: %w", err)
		}
		generator = gen
	} else {
		log.Warn("GEMINI_API_KEY not set, generation will fail until one is configured")
	}

	// 8. Create insight service (no status feed in the CLI)
	service := insight.NewService(countryStore, insightStore, generator, nil, cfg.Insights.Workers, log)

	return service, insightRepo, cleanup, nil
}

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshpulse/atlas/internal/benchmark"
	"github.com/oshpulse/atlas/internal/country"
	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/internal/insight"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/database"
	"github.com/oshpulse/atlas/pkg/redis"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Long: `Checks every subsystem and prints a one-shot status report.

Checked:
- Database connectivity and pool usage
- Redis connectivity (or disabled)
- Stored country and insight counts
- Benchmark table version

Example:
  go run ./cmd/atlas status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Atlas System Status ===")
	fmt.Println()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	adminGate := "disabled"
	if cfg.API.AdminToken != "" {
		adminGate = "enabled"
	}

	fmt.Println("⚙️  Config")
	fmt.Printf("   Env:         %s\n", cfg.Env)
	fmt.Printf("   Port:        %s\n", cfg.Port)
	fmt.Printf("   Workers:     %d\n", cfg.Insights.Workers)
	fmt.Printf("   Stale after: %s\n", cfg.Insights.StaleAfter)
	fmt.Printf("   Admin gate:  %s\n", adminGate)
	fmt.Println()

	ctx := cmd.Context()

	// 2. Database
	var db *database.DB
	db, err = database.New(cfg)
	if err != nil {
		fmt.Printf("🗄️  Database:   ❌ %v\n", err)
		db = nil
	} else {
		defer db.Close()
		health, err := db.HealthCheck(ctx)
		if err != nil {
			fmt.Printf("🗄️  Database:   ❌ %v\n", err)
		} else {
			fmt.Printf("🗄️  Database:   ✅ ok (%s, %d/%d conns)\n",
				health.ResponseTime.Round(time.Millisecond),
				health.Stats.TotalConns, health.Stats.MaxConns)
		}
	}

	// 3. Redis
	rdb, err := redis.New(cfg)
	switch {
	case err != nil:
		fmt.Printf("🧰 Redis:      ❌ %v\n", err)
	case !rdb.Enabled():
		fmt.Println("🧰 Redis:      disabled")
	default:
		if pingErr := rdb.Ping(ctx); pingErr != nil {
			fmt.Printf("🧰 Redis:      ❌ %v\n", pingErr)
		} else {
			fmt.Println("🧰 Redis:      ✅ ok")
		}
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// 4. Data counts (need the database)
	if db != nil {
		countryRepo := country.NewRepository(db.Pool)
		if n, err := countryRepo.Count(ctx); err != nil {
			fmt.Printf("🌍 Countries:  ❌ %v\n", err)
		} else {
			fmt.Printf("🌍 Countries:  %d stored\n", n)
		}

		insightRepo := insight.NewRepository(db.Pool)
		if counts, err := insightRepo.CountByStatus(ctx); err != nil {
			fmt.Printf("💡 Insights:   ❌ %v\n", err)
		} else {
			total := 0
			for _, n := range counts {
				total += n
			}
			fmt.Printf("💡 Insights:   %d stored (%d completed, %d pending, %d generating, %d error)\n",
				total,
				counts[domain.StatusCompleted], counts[domain.StatusPending],
				counts[domain.StatusGenerating], counts[domain.StatusError])
		}
	}

	// 5. Benchmark table
	if tbl, err := benchmark.Load(cfg.Benchmarks.Path); err != nil {
		fmt.Printf("📊 Benchmarks: ❌ %v\n", err)
	} else {
		fmt.Printf("📊 Benchmarks: version %s (%d indicators)\n", tbl.Version, len(tbl.Benchmarks))
	}

	return nil
}

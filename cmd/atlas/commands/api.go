package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshpulse/atlas/internal/api"
	"github.com/oshpulse/atlas/internal/api/handlers"
	"github.com/oshpulse/atlas/internal/benchmark"
	"github.com/oshpulse/atlas/internal/country"
	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/internal/insight"
	"github.com/oshpulse/atlas/internal/insight/gemini"
	"github.com/oshpulse/atlas/internal/resolver"
	"github.com/oshpulse/atlas/internal/stats"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/database"
	"github.com/oshpulse/atlas/pkg/logger"
	"github.com/oshpulse/atlas/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

This command:
- Serves country scores and economic snapshots
- Resolves map categories into chart, gauge, or insight views
- Exposes the admin insight-generation endpoints
- Streams generation status over WebSocket

Example:
  go run ./cmd/atlas api
  go run ./cmd/atlas api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Atlas API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (no-op client when REDIS_ENABLED=false)
	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	// 5. Create repositories and ensure schema
	ctx := cmd.Context()

	countryRepo := country.NewRepository(db.Pool)
	insightRepo := insight.NewRepository(db.Pool)

	if err := countryRepo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure country schema: %w", err)
	}
	if err := insightRepo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure insight schema: %w", err)
	}

	// 6. Create stores
	sharedCache := redis.NewCache(rdb, "atlas")
	countryStore := country.NewStore(countryRepo, sharedCache)
	snapshotStore := country.NewSnapshotStore(countryRepo, sharedCache)

	insightCache := insight.NewCache(cfg.Insights.CacheCapacity, log)
	insightStore := insight.NewCachedStore(insightRepo, insightCache)

	// 7. Load benchmark table
	tbl, err := benchmark.Load(cfg.Benchmarks.Path)
	if err != nil {
		return fmt.Errorf("load benchmark table: %w", err)
	}
	for _, w := range benchmark.Warn(tbl) {
		log.WithField("code", w.Code).Warn(w.Message)
	}
	benchmarks := benchmark.NewProvider(tbl)

	// 8. Create insight generator
	var generator domain.InsightGenerator = insight.DisabledGenerator{}
	if cfg.Gemini.APIKey != "" {
		gen, err := gemini.New(ctx, cfg.Gemini, redis.NewRateLimiter(rdb, "atlas"), log)
		if err != nil {
			return fmt.Errorf("create insight generator: %w", err)
		}
		generator = gen
	} else {
		log.Warn("GEMINI_API_KEY not set, insight generation disabled")
	}

	// 9. Create status feed hub
	hub := api.NewHub(cfg.API.AllowedOrigins, log)
	defer hub.Close()

	// 10. Create insight service
	service := insight.NewService(countryStore, insightStore, generator, hub, cfg.Insights.Workers, log)

	// 11. Create resolver
	aggregator := stats.NewAggregator(log)
	res := resolver.NewResolver(countryStore, snapshotStore, insightStore, benchmarks, aggregator, insight.NewPlaceholderProvider(), log)

	// 12. Create handlers
	countryHandler := handlers.NewCountryHandler(countryStore, snapshotStore, log)
	resolveHandler := handlers.NewResolveHandler(countryStore, res, log)
	statsHandler := handlers.NewStatsHandler(countryStore, aggregator, log)
	benchmarkHandler := handlers.NewBenchmarkHandler(benchmarks)
	insightHandler := handlers.NewInsightHandler(service, insightStore, log)

	// 13. Create router
	router := api.NewRouter(countryHandler, resolveHandler, statsHandler, benchmarkHandler, insightHandler, hub, db, rdb, cfg, log)

	// 14. Create server
	server := api.New(cfg, log, router)

	// 15. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/v1/countries/geojson-metadata")
	fmt.Println("  GET  /api/v1/countries/{iso}/intelligence")
	fmt.Println("  GET  /api/v1/countries/{iso}/resolve/{category}")
	fmt.Println("  GET  /api/v1/stats/global")
	fmt.Println("  GET  /api/v1/benchmarks")
	fmt.Println("  GET  /api/v1/insights/{iso}/{category}")
	fmt.Println("  GET  /api/v1/insights/ws")
	fmt.Println("  POST /api/v1/insights/{iso}/initialize")
	fmt.Println("  POST /api/v1/insights/{iso}/regenerate-all")
	fmt.Println("  POST /api/v1/insights/{iso}/{category}/regenerate")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshpulse/atlas/internal/benchmark"
	"github.com/oshpulse/atlas/pkg/config"
)

// benchmarksCmd represents the benchmarks command
var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "Validate and inspect the benchmark table",
	Long: `Loads the benchmark YAML, validates it, and prints its contents.

The version and content hash identify exactly which table a running
server is positioning country values against.

Example:
  go run ./cmd/atlas benchmarks
  go run ./cmd/atlas benchmarks --path configs/benchmarks.yaml`,
	RunE: runBenchmarks,
}

var (
	benchmarksPath string
)

func init() {
	rootCmd.AddCommand(benchmarksCmd)

	// Flags
	benchmarksCmd.Flags().StringVar(&benchmarksPath, "path", "", "benchmark table path (overrides BENCHMARKS_PATH)")
}

func runBenchmarks(cmd *cobra.Command, args []string) error {
	// 1. Resolve the path
	path := benchmarksPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path = cfg.Benchmarks.Path
	}

	// 2. Load and validate
	tbl, err := benchmark.Load(path)
	if err != nil {
		return fmt.Errorf("load benchmark table: %w", err)
	}

	hash, err := benchmark.Hash(tbl)
	if err != nil {
		return fmt.Errorf("hash benchmark table: %w", err)
	}

	fmt.Println("=== Atlas Benchmark Table ===")
	fmt.Printf("Path:    %s\n", path)
	fmt.Printf("Version: %s\n", tbl.Version)
	fmt.Printf("Hash:    %s\n", hash)
	fmt.Printf("Entries: %d\n", len(tbl.Benchmarks))
	fmt.Println()

	for _, b := range tbl.Benchmarks {
		direction := "lower is better"
		if b.HigherBetter {
			direction = "higher is better"
		}
		fmt.Printf("📊 %s (%s)\n", b.Indicator, direction)
		fmt.Printf("   Range: %.2f - %.2f %s\n", b.Min, b.Max, b.Unit)
		fmt.Printf("   Avg: %.2f | Median: %.2f | P25: %.2f | P75: %.2f\n", b.Average, b.Median, b.P25, b.P75)
		fmt.Println()
	}

	// 3. Warnings
	warnings := benchmark.Warn(tbl)
	if len(warnings) == 0 {
		fmt.Println("✅ Table is valid, no warnings")
		return nil
	}

	fmt.Printf("⚠️  %d warning(s):\n", len(warnings))
	for _, w := range warnings {
		fmt.Printf("   [%s] %s\n", w.Code, w.Message)
	}

	return nil
}

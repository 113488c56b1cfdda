package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/oshpulse/atlas/internal/country"
	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/internal/ingest"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/database"
	"github.com/oshpulse/atlas/pkg/httputil"
	"github.com/oshpulse/atlas/pkg/logger"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data into the database",
	Long: `Imports the country table and economic snapshots.

Subcommands:
  countries  - Import country scores from the published HTML table
  snapshots  - Import economic snapshots from a JSON file

Example:
  go run ./cmd/atlas seed countries
  go run ./cmd/atlas seed countries --file testdata/countries.html
  go run ./cmd/atlas seed snapshots --file snapshots.json`,
}

var (
	seedCountriesCmd = &cobra.Command{
		Use:   "countries",
		Short: "Import country scores",
		Long: `Imports country records from the published score table.

The source is SEED_COUNTRY_SOURCE_URL unless --url or --file is given.
A --file ending in .json is decoded directly; anything else goes
through the HTML table parser. Existing rows are upserted by ISO code.`,
		RunE: runSeedCountries,
	}

	seedSnapshotsCmd = &cobra.Command{
		Use:   "snapshots",
		Short: "Import economic snapshots",
		Long: `Imports economic snapshots from a JSON array of records.

Each record carries iso_code plus the four nullable indicators. Rows
are upserted by ISO code and stamped with the import time.`,
		RunE: runSeedSnapshots,
	}
)

var (
	seedCountriesFile string
	seedCountriesURL  string
	seedSnapshotsFile string
)

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedCountriesCmd)
	seedCmd.AddCommand(seedSnapshotsCmd)

	// Flags
	seedCountriesCmd.Flags().StringVar(&seedCountriesFile, "file", "", "local HTML or JSON file instead of the remote source")
	seedCountriesCmd.Flags().StringVar(&seedCountriesURL, "url", "", "source URL (overrides SEED_COUNTRY_SOURCE_URL)")
	seedSnapshotsCmd.Flags().StringVar(&seedSnapshotsFile, "file", "", "JSON file with economic snapshots (required)")
}

func runSeedCountries(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Atlas Seed: Countries ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// 4. Create repository and ensure schema
	ctx := cmd.Context()
	repo := country.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure country schema: %w", err)
	}

	// 5. Read the country table
	var countries []domain.Country
	if seedCountriesFile != "" {
		countries, err = readCountriesFile(seedCountriesFile)
	} else {
		url := seedCountriesURL
		if url == "" {
			url = cfg.Seed.CountrySourceURL
		}
		if url == "" {
			return fmt.Errorf("no country source: pass --file or --url, or set SEED_COUNTRY_SOURCE_URL")
		}
		log.WithField("url", url).Info("Fetching country table")
		importer := ingest.NewImporter(httputil.New(cfg, log), log)
		countries, err = importer.FetchCountries(ctx, url)
	}
	if err != nil {
		return fmt.Errorf("read countries: %w", err)
	}

	for i := range countries {
		countries[i].ISOCode = strings.ToUpper(strings.TrimSpace(countries[i].ISOCode))
	}

	// 6. Upsert
	if err := repo.SaveAll(ctx, countries); err != nil {
		return fmt.Errorf("save countries: %w", err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count countries: %w", err)
	}

	fmt.Printf("\n✅ Imported %d countries (%d total in database)\n", len(countries), total)
	return nil
}

func runSeedSnapshots(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Atlas Seed: Economic Snapshots ===")

	if seedSnapshotsFile == "" {
		return fmt.Errorf("--file is required")
	}

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	// 4. Create repository and ensure schema
	ctx := cmd.Context()
	repo := country.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure country schema: %w", err)
	}

	// 5. Decode the snapshot file
	f, err := os.Open(seedSnapshotsFile)
	if err != nil {
		return fmt.Errorf("open %s: %w", seedSnapshotsFile, err)
	}
	defer f.Close()

	var snapshots []domain.CountryIntelligence
	if err := json.NewDecoder(f).Decode(&snapshots); err != nil {
		return fmt.Errorf("decode %s: %w", seedSnapshotsFile, err)
	}

	for i := range snapshots {
		snapshots[i].ISOCode = strings.ToUpper(strings.TrimSpace(snapshots[i].ISOCode))
	}

	log.WithField("count", len(snapshots)).Info("Importing economic snapshots")

	// 6. Upsert in parallel batches, one round trip per batch
	const batchSize = 50

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for start := 0; start < len(snapshots); start += batchSize {
		end := start + batchSize
		if end > len(snapshots) {
			end = len(snapshots)
		}
		batch := snapshots[start:end]
		g.Go(func() error {
			return repo.SaveIntelligence(gctx, batch)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("save snapshots: %w", err)
	}

	fmt.Printf("\n✅ Imported %d economic snapshots\n", len(snapshots))
	return nil
}

// readCountriesFile parses a local copy of the country table. A .json
// file is decoded directly; anything else goes through the HTML table
// parser.
func readCountriesFile(path string) ([]domain.Country, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var countries []domain.Country
		if err := json.NewDecoder(f).Decode(&countries); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return countries, nil
	}
	return ingest.ParseCountryTable(f)
}

package insight

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/pkg/logger"
)

// Sentinel errors the API layer maps onto status codes.
var (
	ErrCountryNotFound   = errors.New("country not found")
	ErrAlreadyGenerating = errors.New("insight generation already in progress")
)

// Service orchestrates insight generation for countries.
// ⭐ SSOT: every lifecycle transition (claim, complete, fail) flows
// through this service so the status feed sees all of them.
type Service struct {
	countries domain.CountryStore
	store     domain.InsightStore
	generator domain.InsightGenerator
	notifier  domain.StatusNotifier
	workers   int
	logger    *logger.Logger
}

// NewService creates the generation orchestrator. notifier may be nil
// when no status feed is attached.
func NewService(
	countries domain.CountryStore,
	store domain.InsightStore,
	generator domain.InsightGenerator,
	notifier domain.StatusNotifier,
	workers int,
	log *logger.Logger,
) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		countries: countries,
		store:     store,
		generator: generator,
		notifier:  notifier,
		workers:   workers,
		logger:    log.WithField("module", "insights"),
	}
}

// InitializeResult counts what one initialize pass did per category.
type InitializeResult struct {
	Existing  int `json:"existing"`
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

// RegenerateResult counts a forced regeneration pass.
type RegenerateResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Initialize generates insights for every category of one country that
// does not already hold completed or in-flight content. Safe to call
// repeatedly; a second pass reports everything as existing.
func (s *Service) Initialize(ctx context.Context, iso string) (*InitializeResult, error) {
	country, err := s.countries.Get(ctx, iso)
	if err != nil {
		return nil, fmt.Errorf("get country %s: %w", iso, err)
	}
	if country == nil {
		return nil, ErrCountryNotFound
	}

	runID := uuid.NewString()
	categories := domain.AllCategories()
	s.logger.WithFields(map[string]interface{}{
		"run_id":     runID,
		"iso_code":   iso,
		"categories": len(categories),
		"workers":    s.workers,
	}).Info("Starting insight initialization")

	results := s.run(ctx, country, categories, false)

	res := &InitializeResult{}
	for _, r := range results {
		switch {
		case r.existing:
			res.Existing++
		case r.err != nil:
			res.Failed++
		default:
			res.Generated++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id":    runID,
		"iso_code":  iso,
		"existing":  res.Existing,
		"generated": res.Generated,
		"failed":    res.Failed,
	}).Info("Insight initialization completed")

	return res, nil
}

// RegenerateAll force-regenerates every category for one country.
// A category already being generated elsewhere counts as failed.
func (s *Service) RegenerateAll(ctx context.Context, iso string) (*RegenerateResult, error) {
	country, err := s.countries.Get(ctx, iso)
	if err != nil {
		return nil, fmt.Errorf("get country %s: %w", iso, err)
	}
	if country == nil {
		return nil, ErrCountryNotFound
	}

	runID := uuid.NewString()
	categories := domain.AllCategories()
	s.logger.WithFields(map[string]interface{}{
		"run_id":     runID,
		"iso_code":   iso,
		"categories": len(categories),
		"workers":    s.workers,
	}).Info("Starting insight regeneration")

	results := s.run(ctx, country, categories, true)

	res := &RegenerateResult{}
	for _, r := range results {
		if r.err != nil {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id":    runID,
		"iso_code":  iso,
		"succeeded": res.Succeeded,
		"failed":    res.Failed,
	}).Info("Insight regeneration completed")

	return res, nil
}

// Regenerate forces fresh content for one (country, category) pair.
func (s *Service) Regenerate(ctx context.Context, iso string, category domain.Category) error {
	country, err := s.countries.Get(ctx, iso)
	if err != nil {
		return fmt.Errorf("get country %s: %w", iso, err)
	}
	if country == nil {
		return ErrCountryNotFound
	}

	r := s.generateOne(ctx, country, category, true)
	return r.err
}

// RefreshStale regenerates completed insights whose generation
// timestamp predates the cutoff. One pass refreshes at most limit
// records, oldest first.
func (s *Service) RefreshStale(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	stale, err := s.store.ListStale(ctx, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("list stale insights: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	refreshed := 0
	for _, ins := range stale {
		select {
		case <-ctx.Done():
			return refreshed, ctx.Err()
		default:
		}

		country, err := s.countries.Get(ctx, ins.ISOCode)
		if err != nil {
			s.logger.WithError(err).WithField("iso_code", ins.ISOCode).Error("Failed to load country for refresh")
			continue
		}
		if country == nil {
			continue
		}

		if r := s.generateOne(ctx, country, ins.Category, true); r.err != nil {
			continue
		}
		refreshed++
	}

	s.logger.WithFields(map[string]interface{}{
		"stale":     len(stale),
		"refreshed": refreshed,
	}).Info("Stale insight refresh completed")

	return refreshed, nil
}

// genResult is one worker's outcome for a single category.
type genResult struct {
	category domain.Category
	existing bool
	err      error
}

// run fans categories out over the worker pool. With force false,
// categories holding completed or in-flight content are reported as
// existing instead of regenerated.
func (s *Service) run(ctx context.Context, country *domain.Country, categories []domain.Category, force bool) []genResult {
	jobCh := make(chan domain.Category, len(categories))
	resultCh := make(chan genResult, len(categories))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, country, force, jobCh, resultCh)
		}()
	}

	for _, c := range categories {
		jobCh <- c
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var results []genResult
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// worker drains the category channel until it closes or the context
// ends.
func (s *Service) worker(ctx context.Context, country *domain.Country, force bool, jobCh <-chan domain.Category, resultCh chan<- genResult) {
	for category := range jobCh {
		select {
		case <-ctx.Done():
			resultCh <- genResult{category: category, err: ctx.Err()}
			return
		default:
		}

		resultCh <- s.generateOne(ctx, country, category, force)
	}
}

// generateOne runs the claim → generate → complete lifecycle for one
// category.
func (s *Service) generateOne(ctx context.Context, country *domain.Country, category domain.Category, force bool) genResult {
	iso := country.ISOCode

	if !force {
		existing, err := s.store.Get(ctx, iso, category)
		if err != nil {
			return genResult{category: category, err: err}
		}
		if existing != nil && (existing.Status == domain.StatusCompleted || existing.Status == domain.StatusGenerating) {
			return genResult{category: category, existing: true}
		}
	}

	claimed, err := s.store.Claim(ctx, iso, category)
	if err != nil {
		return genResult{category: category, err: err}
	}
	if !claimed {
		if force {
			return genResult{category: category, err: ErrAlreadyGenerating}
		}
		return genResult{category: category, existing: true}
	}
	s.notify(iso, category, domain.StatusGenerating)

	ins, err := s.generator.Generate(ctx, country, category)
	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"iso_code": iso,
			"category": string(category),
		}).Error("Failed to generate insight")

		if failErr := s.store.Fail(ctx, iso, category); failErr != nil {
			s.logger.WithError(failErr).WithFields(map[string]interface{}{
				"iso_code": iso,
				"category": string(category),
			}).Error("Failed to mark insight as errored")
		}
		s.notify(iso, category, domain.StatusError)
		return genResult{category: category, err: err}
	}

	ins.ISOCode = iso
	ins.Category = category
	if err := s.store.Complete(ctx, ins); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"iso_code": iso,
			"category": string(category),
		}).Error("Failed to store insight")
		s.notify(iso, category, domain.StatusError)
		return genResult{category: category, err: err}
	}

	s.logger.WithFields(map[string]interface{}{
		"iso_code": iso,
		"category": string(category),
	}).Debug("Generated insight")
	s.notify(iso, category, domain.StatusCompleted)

	return genResult{category: category}
}

func (s *Service) notify(iso string, category domain.Category, status domain.InsightStatus) {
	if s.notifier != nil {
		s.notifier.NotifyStatus(iso, category, status, time.Now())
	}
}

// Package gemini generates narrative insight content through the
// Google Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/logger"
	"github.com/oshpulse/atlas/pkg/redis"
)

// Generator implements domain.InsightGenerator against the Gemini API.
// ⭐ SSOT: Gemini calls happen only through this client.
type Generator struct {
	client    *genai.Client
	model     string
	timeout   time.Duration
	local     *rate.Limiter
	shared    *redis.RateLimiter
	sharedCfg redis.RateLimitConfig
	logger    *logger.Logger
}

// New creates a Gemini-backed generator. shared may be nil when no
// Redis limiter is attached; the local token bucket still applies.
func New(ctx context.Context, cfg config.GeminiConfig, shared *redis.RateLimiter, log *logger.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	rpm := cfg.RatePerMinute
	if rpm < 1 {
		rpm = redis.GeminiRateLimit.Limit
	}
	sharedCfg := redis.GeminiRateLimit
	sharedCfg.Limit = rpm

	return &Generator{
		client:    client,
		model:     cfg.Model,
		timeout:   cfg.RequestTimeout,
		local:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		shared:    shared,
		sharedCfg: sharedCfg,
		logger:    log.WithField("module", "gemini"),
	}, nil
}

// Generate produces narrative content for one (country, category) pair.
// Both limiters are cleared before the request: the Redis window guards
// the shared quota across instances, the local bucket smooths bursts
// within this process.
func (g *Generator) Generate(ctx context.Context, country *domain.Country, category domain.Category) (*domain.Insight, error) {
	if g.shared != nil {
		if err := g.shared.Wait(ctx, g.sharedCfg); err != nil {
			return nil, fmt.Errorf("gemini rate limit: %w", err)
		}
	}
	if err := g.local.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gemini rate limit: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := buildPrompt(country, category)
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.4),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("gemini returned empty response")
	}

	ins, err := parseInsight(text)
	if err != nil {
		return nil, err
	}

	g.logger.WithFields(map[string]interface{}{
		"iso_code":    country.ISOCode,
		"category":    string(category),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Generated insight content")

	return ins, nil
}

// insightPayload is the JSON contract the prompt asks the model for.
type insightPayload struct {
	Summary     string           `json:"summary"`
	Implication string           `json:"implication"`
	KeyStats    []domain.KeyStat `json:"key_stats"`
}

// parseInsight decodes the model response. The caller stamps ISO code,
// category, and lifecycle fields.
func parseInsight(text string) (*domain.Insight, error) {
	var payload insightPayload
	if err := json.Unmarshal([]byte(trimCodeFence(text)), &payload); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	if strings.TrimSpace(payload.Summary) == "" {
		return nil, fmt.Errorf("gemini response has no summary")
	}

	return &domain.Insight{
		Summary:     strings.TrimSpace(payload.Summary),
		Implication: strings.TrimSpace(payload.Implication),
		Images:      []string{},
		KeyStats:    payload.KeyStats,
	}, nil
}

// trimCodeFence strips the markdown fence the model sometimes wraps
// around JSON output despite the response MIME type.
func trimCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

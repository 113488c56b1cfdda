package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/logger"
)

func testLogger() *logger.Logger {
	cfg := &config.Config{Env: "test", LogLevel: "error", LogFormat: "json"}
	return logger.New(cfg)
}

func fptr(v float64) *float64 {
	return &v
}

func TestNew_RequiresAPIKey(t *testing.T) {
	cfg := config.GeminiConfig{Model: "gemini-2.0-flash"}

	_, err := New(context.Background(), cfg, nil, testLogger())
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	country := &domain.Country{
		ISOCode:    "FRA",
		Name:       "France",
		Region:     "Europe",
		Governance: fptr(71.5),
	}

	prompt := buildPrompt(country, domain.CategorySafetyCulture)

	assert.Contains(t, prompt, "France")
	assert.Contains(t, prompt, "FRA")
	assert.Contains(t, prompt, "Europe")
	assert.Contains(t, prompt, "Governance: 71.5")
	assert.Contains(t, prompt, "Hazard control: not assessed")
	assert.Contains(t, prompt, "Safety Culture")
	assert.Contains(t, prompt, `"summary"`)
	assert.Contains(t, prompt, `"key_stats"`)
}

func TestBuildPrompt_FocusPerCategory(t *testing.T) {
	country := &domain.Country{ISOCode: "BRA", Name: "Brazil"}

	for _, c := range domain.AllCategories() {
		focus, ok := categoryFocus[c]
		require.True(t, ok, "category %s has no focus line", c)
		assert.Contains(t, buildPrompt(country, c), focus)
	}
}

func TestParseInsight(t *testing.T) {
	text := `{
		"summary": "Workplace safety culture in France is mature.",
		"implication": "Employers invest ahead of regulation.",
		"key_stats": [{"label": "Fatal injuries", "value": "2.1 per 100k", "source": "Eurostat"}]
	}`

	ins, err := parseInsight(text)
	require.NoError(t, err)

	assert.Equal(t, "Workplace safety culture in France is mature.", ins.Summary)
	assert.Equal(t, "Employers invest ahead of regulation.", ins.Implication)
	require.Len(t, ins.KeyStats, 1)
	assert.Equal(t, "Fatal injuries", ins.KeyStats[0].Label)
	assert.NotNil(t, ins.Images)
}

func TestParseInsight_Fenced(t *testing.T) {
	text := "```json\n{\"summary\": \"S\", \"implication\": \"I\", \"key_stats\": []}\n```"

	ins, err := parseInsight(text)
	require.NoError(t, err)
	assert.Equal(t, "S", ins.Summary)
	assert.Equal(t, "I", ins.Implication)
}

func TestParseInsight_MissingSummary(t *testing.T) {
	_, err := parseInsight(`{"implication": "only an implication"}`)
	assert.Error(t, err)
}

func TestParseInsight_Garbage(t *testing.T) {
	_, err := parseInsight("not json at all")
	assert.Error(t, err)
}

func TestTrimCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"padded", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, trimCodeFence(tc.in))
		})
	}
}

package domain

import (
	"strings"
	"time"
)

// InsightStatus tracks the generation lifecycle of an insight record.
type InsightStatus string

const (
	StatusPending    InsightStatus = "pending"
	StatusGenerating InsightStatus = "generating"
	StatusCompleted  InsightStatus = "completed"
	StatusError      InsightStatus = "error"
)

// KeyStat is one labeled statistic attached to an insight.
type KeyStat struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Source string `json:"source,omitempty"`
}

// Insight is the generated narrative for one (country, category) pair.
// Summary answers "what is this topic for this country"; Implication
// states what it means for occupational health. Images and KeyStats
// keep their stored order.
type Insight struct {
	ISOCode     string        `json:"iso_code"`
	Category    Category      `json:"category"`
	Summary     string        `json:"summary"`
	Implication string        `json:"implication"`
	Images      []string      `json:"images"`
	KeyStats    []KeyStat     `json:"key_stats"`
	Status      InsightStatus `json:"status"`
	GeneratedAt *time.Time    `json:"generated_at,omitempty"`
}

// HasNarrative reports whether the record carries displayable content.
// Status does not gate display: content from the last successful
// generation survives an in-flight or failed regeneration, and the
// lifecycle badge is rendered separately from the narrative.
func (i *Insight) HasNarrative() bool {
	return strings.TrimSpace(i.Summary) != ""
}

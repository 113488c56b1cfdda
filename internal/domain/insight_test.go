package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestInsight_HasNarrative(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		insight Insight
		want    bool
	}{
		{
			name: "completed with content",
			insight: Insight{
				ISOCode:     "DEU",
				Category:    CategoryWorkforceProfile,
				Summary:     "Germany's workforce is concentrated in manufacturing and services.",
				Implication: "Ergonomic risk dominates the exposure profile.",
				Status:      StatusCompleted,
				GeneratedAt: &now,
			},
			want: true,
		},
		{
			name: "completed but empty summary",
			insight: Insight{
				ISOCode:  "DEU",
				Category: CategoryOutlook,
				Summary:  "   ",
				Status:   StatusCompleted,
			},
			want: false,
		},
		{
			name: "pending",
			insight: Insight{
				ISOCode:  "DEU",
				Category: CategoryOutlook,
				Status:   StatusPending,
			},
			want: false,
		},
		{
			name: "regenerating keeps previous content visible",
			insight: Insight{
				ISOCode:  "DEU",
				Category: CategorySafetyCulture,
				Summary:  "content from the previous run",
				Status:   StatusGenerating,
			},
			want: true,
		},
		{
			name: "errored without content",
			insight: Insight{
				ISOCode:  "DEU",
				Category: CategoryIncidentHistory,
				Status:   StatusError,
			},
			want: false,
		},
		{
			name: "failed refresh keeps last good content",
			insight: Insight{
				ISOCode:  "DEU",
				Category: CategoryIncidentHistory,
				Summary:  "content from the last successful run",
				Status:   StatusError,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.insight.HasNarrative(); got != tt.want {
				t.Errorf("HasNarrative() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsight_JSONOrderPreserved(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	original := Insight{
		ISOCode:     "BRA",
		Category:    CategoryPriorityIndustries,
		Summary:     "Agriculture, mining, and construction dominate.",
		Implication: "High-hazard sectors employ a large share of the workforce.",
		Images:      []string{"https://img.example/1.png", "https://img.example/2.png"},
		KeyStats: []KeyStat{
			{Label: "Agriculture share", Value: "9.1%", Source: "ILO"},
			{Label: "Mining fatalities", Value: "312/yr"},
		},
		Status:      StatusCompleted,
		GeneratedAt: &now,
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Insight
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(decoded.Images) != 2 || decoded.Images[0] != original.Images[0] {
		t.Errorf("images order not preserved: %v", decoded.Images)
	}

	if len(decoded.KeyStats) != 2 {
		t.Fatalf("key stats count = %d, want 2", len(decoded.KeyStats))
	}
	if decoded.KeyStats[0].Label != "Agriculture share" {
		t.Errorf("first key stat = %q, want Agriculture share", decoded.KeyStats[0].Label)
	}
	if decoded.KeyStats[1].Source != "" {
		t.Errorf("second key stat source = %q, want empty", decoded.KeyStats[1].Source)
	}
}

package domain

import "fmt"

// Category identifies one of the fourteen insight categories. The set
// is closed: four economic, four pillar, six narrative.
type Category string

const (
	// Economic categories, rendered as benchmark comparisons.
	CategoryGDPPerCapita       Category = "gdp-per-capita"
	CategoryUnemploymentRate   Category = "unemployment-rate"
	CategoryInformalEmployment Category = "informal-employment"
	CategoryHealthExpenditure  Category = "health-expenditure"

	// Pillar categories, rendered as gauges off the country record.
	CategoryGovernance    Category = "governance"
	CategoryHazardControl Category = "hazard-control"
	CategoryVigilance     Category = "vigilance"
	CategoryRestoration   Category = "restoration"

	// Narrative categories, backed by generated insights.
	CategoryWorkforceProfile    Category = "workforce-profile"
	CategoryPriorityIndustries  Category = "priority-industries"
	CategoryRegulatoryLandscape Category = "regulatory-landscape"
	CategoryIncidentHistory     Category = "incident-history"
	CategorySafetyCulture       Category = "safety-culture"
	CategoryOutlook             Category = "outlook"
)

// CategoryKind partitions categories by their data source.
type CategoryKind string

const (
	KindEconomic  CategoryKind = "economic"
	KindPillar    CategoryKind = "pillar"
	KindNarrative CategoryKind = "narrative"
)

var categoryKinds = map[Category]CategoryKind{
	CategoryGDPPerCapita:       KindEconomic,
	CategoryUnemploymentRate:   KindEconomic,
	CategoryInformalEmployment: KindEconomic,
	CategoryHealthExpenditure:  KindEconomic,

	CategoryGovernance:    KindPillar,
	CategoryHazardControl: KindPillar,
	CategoryVigilance:     KindPillar,
	CategoryRestoration:   KindPillar,

	CategoryWorkforceProfile:    KindNarrative,
	CategoryPriorityIndustries:  KindNarrative,
	CategoryRegulatoryLandscape: KindNarrative,
	CategoryIncidentHistory:     KindNarrative,
	CategorySafetyCulture:       KindNarrative,
	CategoryOutlook:             KindNarrative,
}

var categoryTitles = map[Category]string{
	CategoryGDPPerCapita:       "GDP per Capita",
	CategoryUnemploymentRate:   "Unemployment Rate",
	CategoryInformalEmployment: "Informal Employment",
	CategoryHealthExpenditure:  "Health Expenditure per Capita",

	CategoryGovernance:    "Governance",
	CategoryHazardControl: "Hazard Control",
	CategoryVigilance:     "Vigilance",
	CategoryRestoration:   "Restoration",

	CategoryWorkforceProfile:    "Workforce Profile",
	CategoryPriorityIndustries:  "Priority Industries",
	CategoryRegulatoryLandscape: "Regulatory Landscape",
	CategoryIncidentHistory:     "Incident History",
	CategorySafetyCulture:       "Safety Culture",
	CategoryOutlook:             "Outlook",
}

// AllCategories returns all fourteen categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryGDPPerCapita,
		CategoryUnemploymentRate,
		CategoryInformalEmployment,
		CategoryHealthExpenditure,
		CategoryGovernance,
		CategoryHazardControl,
		CategoryVigilance,
		CategoryRestoration,
		CategoryWorkforceProfile,
		CategoryPriorityIndustries,
		CategoryRegulatoryLandscape,
		CategoryIncidentHistory,
		CategorySafetyCulture,
		CategoryOutlook,
	}
}

// NarrativeCategories returns the categories backed by the insight store.
func NarrativeCategories() []Category {
	out := make([]Category, 0, 6)
	for _, c := range AllCategories() {
		if c.Kind() == KindNarrative {
			out = append(out, c)
		}
	}
	return out
}

// Kind returns the category's group, or "" for unknown categories.
func (c Category) Kind() CategoryKind {
	return categoryKinds[c]
}

// Valid reports whether c is one of the fourteen known categories.
func (c Category) Valid() bool {
	_, ok := categoryKinds[c]
	return ok
}

// Title returns the display title for the category.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

// Pillar maps a pillar category to its country record field.
func (c Category) Pillar() (PillarField, bool) {
	switch c {
	case CategoryGovernance:
		return PillarGovernance, true
	case CategoryHazardControl:
		return PillarHazardControl, true
	case CategoryVigilance:
		return PillarVigilance, true
	case CategoryRestoration:
		return PillarRestoration, true
	default:
		return "", false
	}
}

// Indicator maps an economic category to its snapshot indicator.
func (c Category) Indicator() (Indicator, bool) {
	switch c {
	case CategoryGDPPerCapita:
		return IndicatorGDPPerCapita, true
	case CategoryUnemploymentRate:
		return IndicatorUnemploymentRate, true
	case CategoryInformalEmployment:
		return IndicatorInformalEmployment, true
	case CategoryHealthExpenditure:
		return IndicatorHealthExpenditure, true
	default:
		return "", false
	}
}

// ParseCategory validates a raw path segment.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return c, nil
}

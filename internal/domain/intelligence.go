package domain

import "time"

// Indicator identifies an economic indicator tracked per country.
type Indicator string

const (
	IndicatorGDPPerCapita       Indicator = "gdp_per_capita"
	IndicatorUnemploymentRate   Indicator = "unemployment_rate"
	IndicatorInformalEmployment Indicator = "informal_employment"
	IndicatorHealthExpenditure  Indicator = "health_expenditure"
)

// AllIndicators returns the tracked indicators in display order.
func AllIndicators() []Indicator {
	return []Indicator{
		IndicatorGDPPerCapita,
		IndicatorUnemploymentRate,
		IndicatorInformalEmployment,
		IndicatorHealthExpenditure,
	}
}

// CountryIntelligence holds the optional economic snapshot for a
// country. Every value is nullable; a country may have no snapshot at
// all.
type CountryIntelligence struct {
	ISOCode            string    `json:"iso_code"`
	GDPPerCapita       *float64  `json:"gdp_per_capita"`
	UnemploymentRate   *float64  `json:"unemployment_rate"`
	InformalEmployment *float64  `json:"informal_employment"`
	HealthExpenditure  *float64  `json:"health_expenditure"`
	Source             string    `json:"source,omitempty"`
	FetchedAt          time.Time `json:"fetched_at"`
}

// Value returns the snapshot value for the given indicator.
func (ci *CountryIntelligence) Value(ind Indicator) *float64 {
	switch ind {
	case IndicatorGDPPerCapita:
		return ci.GDPPerCapita
	case IndicatorUnemploymentRate:
		return ci.UnemploymentRate
	case IndicatorInformalEmployment:
		return ci.InformalEmployment
	case IndicatorHealthExpenditure:
		return ci.HealthExpenditure
	default:
		return nil
	}
}

// Empty reports whether the snapshot carries no indicator values.
func (ci *CountryIntelligence) Empty() bool {
	for _, ind := range AllIndicators() {
		if ci.Value(ind) != nil {
			return false
		}
	}
	return true
}

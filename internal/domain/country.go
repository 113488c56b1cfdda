package domain

import (
	"fmt"
	"regexp"
	"time"
)

// PillarField identifies one of the four assessment pillars.
type PillarField string

const (
	PillarGovernance    PillarField = "governance"
	PillarHazardControl PillarField = "hazard_control"
	PillarVigilance     PillarField = "vigilance"
	PillarRestoration   PillarField = "restoration"
	// PillarMaturity is the composite score, aggregated alongside the
	// four pillars.
	PillarMaturity PillarField = "maturity"
)

// AllPillars returns the score fields in display order.
func AllPillars() []PillarField {
	return []PillarField{
		PillarGovernance,
		PillarHazardControl,
		PillarVigilance,
		PillarRestoration,
		PillarMaturity,
	}
}

// Country represents one country record served to the map layer.
// A nil score means the pillar has not been assessed, which is
// distinct from a score of zero.
type Country struct {
	ISOCode       string    `json:"iso_code"`
	Name          string    `json:"name"`
	Region        string    `json:"region,omitempty"`
	Governance    *float64  `json:"governance_score"`
	HazardControl *float64  `json:"hazard_control_score"`
	Vigilance     *float64  `json:"vigilance_score"`
	Restoration   *float64  `json:"restoration_score"`
	Maturity      *float64  `json:"maturity_score"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Score returns the country's value for the given field.
func (c *Country) Score(f PillarField) *float64 {
	switch f {
	case PillarGovernance:
		return c.Governance
	case PillarHazardControl:
		return c.HazardControl
	case PillarVigilance:
		return c.Vigilance
	case PillarRestoration:
		return c.Restoration
	case PillarMaturity:
		return c.Maturity
	default:
		return nil
	}
}

// HasAnyScore reports whether at least one field has been assessed.
func (c *Country) HasAnyScore() bool {
	for _, f := range AllPillars() {
		if c.Score(f) != nil {
			return true
		}
	}
	return false
}

// Validate checks the ISO code shape and score ranges.
func (c *Country) Validate() error {
	if !isoCodePattern.MatchString(c.ISOCode) {
		return fmt.Errorf("invalid ISO code %q", c.ISOCode)
	}
	if c.Name == "" {
		return fmt.Errorf("country %s has no name", c.ISOCode)
	}
	for _, f := range AllPillars() {
		if v := c.Score(f); v != nil && (*v < 0 || *v > 100) {
			return fmt.Errorf("country %s: %s score %.2f out of range [0,100]", c.ISOCode, f, *v)
		}
	}
	return nil
}

var isoCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidISOCode reports whether raw looks like an ISO 3166-1 alpha-3 code.
func ValidISOCode(raw string) bool {
	return isoCodePattern.MatchString(raw)
}

package domain

import "time"

// GlobalStats aggregates score fields across the assessed population.
// A nil average means no country carries a value for that field;
// callers must render it as unavailable, never as zero.
type GlobalStats struct {
	Population    int       `json:"population"`
	Governance    *float64  `json:"governance_avg"`
	HazardControl *float64  `json:"hazard_control_avg"`
	Vigilance     *float64  `json:"vigilance_avg"`
	Restoration   *float64  `json:"restoration_avg"`
	Maturity      *float64  `json:"maturity_avg"`
	ComputedAt    time.Time `json:"computed_at"`
}

// Average returns the population mean for the given field.
func (g *GlobalStats) Average(f PillarField) *float64 {
	switch f {
	case PillarGovernance:
		return g.Governance
	case PillarHazardControl:
		return g.HazardControl
	case PillarVigilance:
		return g.Vigilance
	case PillarRestoration:
		return g.Restoration
	case PillarMaturity:
		return g.Maturity
	default:
		return nil
	}
}

// SetAverage stores the population mean for the given field.
func (g *GlobalStats) SetAverage(f PillarField, v *float64) {
	switch f {
	case PillarGovernance:
		g.Governance = v
	case PillarHazardControl:
		g.HazardControl = v
	case PillarVigilance:
		g.Vigilance = v
	case PillarRestoration:
		g.Restoration = v
	case PillarMaturity:
		g.Maturity = v
	}
}

package gemini

import (
	"fmt"
	"strings"

	"github.com/oshpulse/atlas/internal/domain"
)

// categoryFocus steers the model toward the tile each category feeds.
var categoryFocus = map[domain.Category]string{
	domain.CategoryGDPPerCapita:       "Explain how the country's income level shapes workplace conditions and the resources available for safety programs.",
	domain.CategoryUnemploymentRate:   "Explain how labor market conditions affect workplace safety incentives and worker bargaining power.",
	domain.CategoryInformalEmployment: "Describe the share of informal work and what it means for regulatory reach and injury reporting.",
	domain.CategoryHealthExpenditure:  "Describe health system capacity and how it supports occupational health services.",

	domain.CategoryGovernance:    "Assess the occupational safety governance framework: laws, enforcement bodies, and tripartite structures.",
	domain.CategoryHazardControl: "Assess how workplace hazards are identified and controlled across the dominant industries.",
	domain.CategoryVigilance:     "Assess injury and disease surveillance: reporting systems, inspection coverage, and data quality.",
	domain.CategoryRestoration:   "Assess compensation, rehabilitation, and return-to-work support for injured workers.",

	domain.CategoryWorkforceProfile:    "Profile the workforce: sectoral composition, demographics, and employment arrangements that shape exposure.",
	domain.CategoryPriorityIndustries:  "Identify the industries that dominate employment or carry the highest injury burden.",
	domain.CategoryRegulatoryLandscape: "Summarize the key occupational safety laws, responsible agencies, and recent reforms.",
	domain.CategoryIncidentHistory:     "Summarize notable workplace disasters or incident trends and the responses they triggered.",
	domain.CategorySafetyCulture:       "Characterize prevailing attitudes toward workplace risk among employers and workers.",
	domain.CategoryOutlook:             "Project how occupational safety is likely to evolve given economic and regulatory trends.",
}

// buildPrompt assembles the generation prompt for one country and
// category. Unassessed scores are stated as such so the model does not
// treat absence as zero.
func buildPrompt(country *domain.Country, category domain.Category) string {
	var b strings.Builder

	b.WriteString("You are an occupational safety and health analyst writing for a global atlas dashboard.\n\n")
	fmt.Fprintf(&b, "Country: %s (%s)\n", country.Name, country.ISOCode)
	if country.Region != "" {
		fmt.Fprintf(&b, "Region: %s\n", country.Region)
	}

	b.WriteString("Assessment scores (0-100, higher is stronger):\n")
	for _, f := range domain.AllPillars() {
		if v := country.Score(f); v != nil {
			fmt.Fprintf(&b, "- %s: %.1f\n", pillarLabel(f), *v)
		} else {
			fmt.Fprintf(&b, "- %s: not assessed\n", pillarLabel(f))
		}
	}

	fmt.Fprintf(&b, "\nTopic: %s\n", category.Title())
	if focus, ok := categoryFocus[category]; ok {
		b.WriteString(focus)
		b.WriteString("\n")
	}

	b.WriteString(`
Respond with a single JSON object:
{
  "summary": "2-3 sentences describing the topic for this country",
  "implication": "1-2 sentences on what it means for worker safety and health",
  "key_stats": [{"label": "...", "value": "...", "source": "..."}]
}
Include at most 3 key_stats. Use plain language. Omit key_stats you are
not confident about rather than guessing figures.`)

	return b.String()
}

func pillarLabel(f domain.PillarField) string {
	switch f {
	case domain.PillarGovernance:
		return "Governance"
	case domain.PillarHazardControl:
		return "Hazard control"
	case domain.PillarVigilance:
		return "Vigilance"
	case domain.PillarRestoration:
		return "Restoration"
	case domain.PillarMaturity:
		return "Overall maturity"
	default:
		return string(f)
	}
}

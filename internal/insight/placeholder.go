package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshpulse/atlas/internal/domain"
)

// ErrGeneratorDisabled is returned by DisabledGenerator for every call.
var ErrGeneratorDisabled = errors.New("insight generation disabled: no model API key configured")

// DisabledGenerator stands in for the model client when no API key is
// configured. Every generation attempt fails, so claims fall over to
// the error status and the resolver keeps serving placeholders.
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(_ context.Context, _ *domain.Country, _ domain.Category) (*domain.Insight, error) {
	return nil, ErrGeneratorDisabled
}

// PlaceholderProvider serves the deterministic filler narrative shown
// when real content is missing, pending, or failed. It implements
// domain.DegradedContentProvider. Placeholder text is never persisted.
type PlaceholderProvider struct{}

// NewPlaceholderProvider creates the degraded-content provider.
func NewPlaceholderProvider() *PlaceholderProvider {
	return &PlaceholderProvider{}
}

// Placeholder returns the clearly-marked filler view for one country
// and category. The country argument is the display name.
func (p *PlaceholderProvider) Placeholder(country string, category domain.Category) *domain.NarrativeView {
	return &domain.NarrativeView{
		Summary:     fmt.Sprintf("%s insight for %s is not available yet.", category.Title(), country),
		Implication: "Fresh analysis is being prepared. Check back shortly or trigger a regeneration.",
		Placeholder: true,
	}
}

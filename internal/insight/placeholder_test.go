package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oshpulse/atlas/internal/domain"
)

func TestPlaceholderProvider(t *testing.T) {
	p := NewPlaceholderProvider()

	view := p.Placeholder("France", domain.CategorySafetyCulture)

	assert.True(t, view.Placeholder)
	assert.Contains(t, view.Summary, "France")
	assert.Contains(t, view.Summary, domain.CategorySafetyCulture.Title())
	assert.NotEmpty(t, view.Implication)
	assert.Empty(t, view.Images)
	assert.Empty(t, view.KeyStats)
}

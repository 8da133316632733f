package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphgen/infographic-api/internal/blueprint"
)

func sampleBlueprint() *blueprint.Blueprint {
	return &blueprint.Blueprint{
		Title:      "Network & CCTV System Overhaul",
		Subtitle:   "From Chaos to Control",
		Tone:       "professional",
		Creativity: "moderate",
		Layout:     "before_after_with_recommendations",
		Palette:    "teal",
		Sections: []blueprint.Section{
			{
				ID:             "rack",
				Type:           blueprint.TypeBeforeAfter,
				Heading:        "Network Rack & Power Management",
				Before:         []string{"Unorganized rack with tangled cables", "Loose cable crimps"},
				After:          []string{"Reorganized structured rack", "Proper cable management"},
				VisualMetaphor: "tangled cables like a knot vs neat organized library shelf",
				Emphasis:       "high",
			},
			{
				ID:       "recommendations",
				Type:     blueprint.TypeRecommendations,
				Heading:  "Key Recommendations",
				Items:    []string{"Install dedicated 8-port PoE switch", "Use waterproof junction boxes"},
				Emphasis: "high",
			},
		},
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	bp := sampleBlueprint()
	first := Compile(bp)
	second := Compile(bp)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestCompileIncludesHeaderAndPalette(t *testing.T) {
	prompt := Compile(sampleBlueprint())

	assert.Contains(t, prompt, `"Network & CCTV System Overhaul"`)
	assert.Contains(t, prompt, `"From Chaos to Control"`)
	assert.Contains(t, prompt, "#0d9488")
	assert.Contains(t, prompt, "teal/cyan/blue-green professional palette")
	assert.Contains(t, prompt, "=== CRITICAL TEXT RENDERING RULES ===")
}

func TestCompileSectionContent(t *testing.T) {
	prompt := Compile(sampleBlueprint())

	assert.Contains(t, prompt, "--- SECTION 1 ---")
	assert.Contains(t, prompt, "--- SECTION 2 ---")
	assert.Contains(t, prompt, "Unorganized rack with tangled cables")
	assert.Contains(t, prompt, "• Install dedicated 8-port PoE switch")

	// Metaphor split on " vs " lands in the before and after halves.
	assert.Contains(t, prompt, "Visual Metaphor: tangled cables like a knot")
	assert.Contains(t, prompt, "Visual Metaphor: neat organized library shelf")
}

func TestCompileCreativityNoneSuppressesMetaphors(t *testing.T) {
	bp := sampleBlueprint()
	bp.Creativity = "none"
	prompt := Compile(bp)

	assert.NotContains(t, prompt, "Visual Metaphor: tangled cables")
	assert.Contains(t, prompt, "NO metaphors or symbolic imagery")
}

func TestCompileCustomPalette(t *testing.T) {
	bp := sampleBlueprint()
	bp.Palette = "custom"
	bp.CustomColors = []string{"#123456", "#abcdef"}
	prompt := Compile(bp)

	assert.Contains(t, prompt, "Custom palette: #123456, #abcdef")
	// Colors still fall back to the teal ramp for the concrete values.
	assert.Contains(t, prompt, "#0d9488")
}

func TestCompileDefaults(t *testing.T) {
	bp := &blueprint.Blueprint{
		Title:    "Minimal",
		Sections: []blueprint.Section{{Type: blueprint.TypeOutcome, Heading: "Done"}},
	}
	prompt := Compile(bp)

	require.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "Creativity Level: SUBTLE")
	assert.Contains(t, prompt, "Key outcomes")
	assert.False(t, strings.HasSuffix(prompt, "\n"), "compiled prompt should be trimmed")
}

func TestCompileUnknownSectionType(t *testing.T) {
	bp := &blueprint.Blueprint{
		Title: "Odd",
		Sections: []blueprint.Section{
			{Type: "mystery", Heading: "What", Emphasis: "low"},
		},
	}
	prompt := Compile(bp)
	assert.Contains(t, prompt, "Type: mystery")
}

func TestCompileLayouts(t *testing.T) {
	tests := []struct {
		layout string
		expect string
	}{
		{"before_after_with_recommendations", "BEFORE/AFTER with RECOMMENDATIONS"},
		{"split_two_column", "TWO-COLUMN SPLIT"},
		{"process_flow", "PROCESS FLOW"},
		{"summary_grid", "SUMMARY GRID"},
		{"", "BEFORE/AFTER with RECOMMENDATIONS"},
	}

	for _, tt := range tests {
		bp := sampleBlueprint()
		bp.Layout = tt.layout
		assert.Contains(t, Compile(bp), tt.expect, "layout %q", tt.layout)
	}
}

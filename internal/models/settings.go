package models

// GenerationSettings are the user-tunable knobs sent with a generation
// request. Unknown or empty values are normalized to defaults rather
// than rejected, so older clients keep working.
type GenerationSettings struct {
	Layout      string `json:"layout"`      // before_after_with_recommendations | split_two_column | process_flow | summary_grid
	Creativity  string `json:"creativity"`  // none | subtle | moderate | high
	Palette     string `json:"palette"`     // teal | warm | mono | custom
	CustomColor string `json:"customColor"` // hex color, used when palette == custom
	Tone        string `json:"tone"`        // professional | creative (creative maps to executive)
	TextDensity string `json:"textDensity"` // low | balanced | high
	Emphasis    string `json:"emphasis"`    // low | medium | high
	Render      string `json:"render"`      // image | layout
}

// Setting value sets. The layout values match the Visual Blueprint
// layout enum.
const (
	LayoutBeforeAfter = "before_after_with_recommendations"
	LayoutSplitColumn = "split_two_column"
	LayoutProcessFlow = "process_flow"
	LayoutSummaryGrid = "summary_grid"

	CreativityNone     = "none"
	CreativitySubtle   = "subtle"
	CreativityModerate = "moderate"
	CreativityHigh     = "high"

	PaletteTeal   = "teal"
	PaletteWarm   = "warm"
	PaletteMono   = "mono"
	PaletteCustom = "custom"

	ToneProfessional = "professional"
	ToneCreative     = "creative"
	ToneExecutive    = "executive"
	ToneTechnical    = "technical"

	DensityLow      = "low"
	DensityBalanced = "balanced"
	DensityHigh     = "high"

	EmphasisLow    = "low"
	EmphasisMedium = "medium"
	EmphasisHigh   = "high"

	RenderImage  = "image"
	RenderLayout = "layout"
)

// DefaultSettings returns the settings used when the client sends none.
func DefaultSettings() GenerationSettings {
	return GenerationSettings{
		Layout:      LayoutBeforeAfter,
		Creativity:  CreativityModerate,
		Palette:     PaletteTeal,
		Tone:        ToneProfessional,
		TextDensity: DensityBalanced,
		Emphasis:    EmphasisMedium,
		Render:      RenderImage,
	}
}

// Normalize fills empty or unrecognized fields with defaults.
func (s GenerationSettings) Normalize() GenerationSettings {
	d := DefaultSettings()
	if !oneOf(s.Layout, LayoutBeforeAfter, LayoutSplitColumn, LayoutProcessFlow, LayoutSummaryGrid) {
		s.Layout = d.Layout
	}
	if !oneOf(s.Creativity, CreativityNone, CreativitySubtle, CreativityModerate, CreativityHigh) {
		s.Creativity = d.Creativity
	}
	if !oneOf(s.Palette, PaletteTeal, PaletteWarm, PaletteMono, PaletteCustom) {
		s.Palette = d.Palette
	}
	if !oneOf(s.Tone, ToneProfessional, ToneCreative) {
		s.Tone = d.Tone
	}
	if !oneOf(s.TextDensity, DensityLow, DensityBalanced, DensityHigh) {
		s.TextDensity = d.TextDensity
	}
	if !oneOf(s.Emphasis, EmphasisLow, EmphasisMedium, EmphasisHigh) {
		s.Emphasis = d.Emphasis
	}
	if !oneOf(s.Render, RenderImage, RenderLayout) {
		s.Render = d.Render
	}
	return s
}

func oneOf(v string, set ...string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

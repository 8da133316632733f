package compiler

// Palette describes the color set referenced in compiled prompts.
type Palette struct {
	Primary     string
	Secondary   string
	Accent      string
	Background  string
	Dark        string
	Description string
}

// PaletteDefinitions maps palette names to their color sets.
var PaletteDefinitions = map[string]Palette{
	"teal": {
		Primary:     "#0d9488",
		Secondary:   "#14b8a6",
		Accent:      "#2dd4bf",
		Background:  "#f0fdfa",
		Dark:        "#134e4a",
		Description: "teal/cyan/blue-green professional palette",
	},
	"warm": {
		Primary:     "#ea580c",
		Secondary:   "#f97316",
		Accent:      "#fb923c",
		Background:  "#fff7ed",
		Dark:        "#9a3412",
		Description: "warm orange/amber professional palette",
	},
	"mono": {
		Primary:     "#374151",
		Secondary:   "#6b7280",
		Accent:      "#9ca3af",
		Background:  "#f9fafb",
		Dark:        "#111827",
		Description: "monochrome grey professional palette",
	},
}

// layoutInstructions holds the per-layout structural guidance.
var layoutInstructions = map[string]string{
	"before_after_with_recommendations": `
Layout: BEFORE/AFTER with RECOMMENDATIONS structure
- Left side (40%): BEFORE state - show problems, chaos, issues with warning visual cues
- Right side (40%): AFTER state - show solutions, order, improvements with success visual cues
- Bottom section (20%): RECOMMENDATIONS callout box with check icons and action items
- Use clear visual separation between before/after with a dividing line or gradient transition
- Include small labels "BEFORE" and "AFTER" above respective sections
`,
	"split_two_column": `
Layout: TWO-COLUMN SPLIT structure
- Left column (50%): Primary information, findings, or current state
- Right column (50%): Secondary information, actions, or recommendations
- Consistent vertical alignment between columns
- Use visual connectors or arrows to show relationships
`,
	"process_flow": `
Layout: PROCESS FLOW structure
- Horizontal or vertical flow from start to end
- Each step in a distinct container with number or icon
- Connecting arrows or lines between steps
- Progressive visual treatment (lighter to darker, or left to right)
`,
	"summary_grid": `
Layout: SUMMARY GRID structure
- 2x2 or 2x3 grid of equal-sized sections
- Each section has icon, heading, and bullet points
- Consistent styling across all grid cells
- Clear grid lines or spacing for visual separation
`,
}

type creativityModifier struct {
	Style        string
	Metaphors    string
	Restrictions string
}

var creativityModifiers = map[string]creativityModifier{
	"none": {
		Style:        "literal, documentary, factual",
		Metaphors:    "NO metaphors or symbolic imagery. Use only literal representations.",
		Restrictions: "Strictly informational. No artistic flourishes.",
	},
	"subtle": {
		Style:        "professional with minor symbolic touches",
		Metaphors:    "Use subtle, tasteful symbolism. Minor metaphorical elements that enhance understanding.",
		Restrictions: "Keep metaphors minimal and clearly business-appropriate.",
	},
	"moderate": {
		Style:        "storytelling-oriented with clear metaphors",
		Metaphors:    "Include clear visual metaphors and illustrative storytelling elements. Transform concepts into relatable visual narratives.",
		Restrictions: "Balance creativity with professionalism. Metaphors should enhance, not obscure meaning.",
	},
	"high": {
		Style:        "highly metaphorical, stylized storytelling",
		Metaphors:    "Strong metaphorical scenes with artistic interpretation. Transform data into compelling visual stories.",
		Restrictions: "EXPERIMENTAL: Maintain executive clarity despite creative styling. Avoid gimmicks.",
	},
}

var emphasisInstructions = map[string]string{
	"low":    "Small size, subtle positioning, supporting role",
	"medium": "Standard size, balanced positioning, equal visual weight",
	"high":   "Large size, prominent positioning, visual focal point with label overlay",
}

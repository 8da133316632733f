// Package compiler converts a validated Visual Blueprint into the image
// generation prompt. The transformation is rule-based and deterministic;
// no model calls happen here.
package compiler

import (
	"fmt"
	"strings"

	"github.com/graphgen/infographic-api/internal/blueprint"
	"github.com/graphgen/infographic-api/pkg/embedded"
)

// Compile builds the full image generation prompt from a blueprint.
// Same blueprint in, same prompt out.
func Compile(bp *blueprint.Blueprint) string {
	title := bp.Title
	if title == "" {
		title = "Untitled"
	}
	tone := withDefault(bp.Tone, "professional")
	creativity := bp.Creativity
	if _, ok := creativityModifiers[creativity]; !ok {
		creativity = "subtle"
	}
	layout := bp.Layout
	if _, ok := layoutInstructions[layout]; !ok {
		layout = "before_after_with_recommendations"
	}
	palette := bp.Palette
	paletteInfo, ok := PaletteDefinitions[palette]
	if !ok {
		paletteInfo = PaletteDefinitions["teal"]
	}

	paletteDesc := paletteInfo.Description
	if palette == "custom" && len(bp.CustomColors) > 0 {
		paletteDesc = "Custom palette: " + strings.Join(bp.CustomColors, ", ")
	}

	mod := creativityModifiers[creativity]
	sectionsText := compileSections(bp.Sections, creativity)

	var b strings.Builder
	b.WriteString("Create a professional, executive-grade infographic image.\n\n")
	b.Write(embedded.CompilerTextRulesTxt)
	b.WriteString(fmt.Sprintf(`
=== HEADER ===
Title: %q
Subtitle: %q
(These are the ONLY longer text elements allowed)

=== STYLE & TONE ===
- Tone: %s consulting/business infographic
- Creativity Level: %s - %s
- Metaphor Guidelines: %s
- Restrictions: %s

=== COLOR PALETTE ===
- Palette: %s
- Primary Color: %s
- Secondary Color: %s
- Accent Color: %s
- Background: %s
- Dark/Text Color: %s

=== TYPOGRAPHY ===
- Font Style: Clean, modern sans-serif
- Title: Bold, large, prominent at top
- ALL OTHER TEXT: Keep extremely minimal - use icons instead
- NO body text paragraphs
- NO decorative or script fonts

=== LAYOUT ===
%s
=== VISUAL CONTENT APPROACH ===
For each section below, create VISUAL REPRESENTATIONS not text:
- Use illustrations, icons, and symbols to convey meaning
- Show concepts through imagery (e.g., tangled wires vs organized rack)
- Use color coding and visual hierarchy
- Add simple 1-2 word labels ONLY where absolutely necessary

%s

=== TECHNICAL REQUIREMENTS ===
- Output: Single high-resolution PNG image
- Dimensions: 3000x2000 pixels (landscape)
- Background: Clean, solid from palette
- Margins: Adequate whitespace

=== DO's ===
- Use ICONS and ILLUSTRATIONS as primary communication
- Use visual metaphors (before/after imagery)
- Use color to differentiate sections
- Keep any text to 1-3 word labels maximum
- Create clear visual flow without relying on text

=== DON'Ts - CRITICAL ===
- ❌ NO paragraphs or sentences
- ❌ NO bullet point lists with text
- ❌ NO text longer than 3 words (except title/subtitle)
- ❌ NO raw text dumps or walls of text
- ❌ NO spelling out full descriptions - use visuals instead
- ❌ DO NOT include any watermarks or signatures
`,
		title, bp.Subtitle,
		capitalize(tone),
		strings.ToUpper(creativity), mod.Style, mod.Metaphors, mod.Restrictions,
		paletteDesc,
		paletteInfo.Primary, paletteInfo.Secondary, paletteInfo.Accent,
		paletteInfo.Background, paletteInfo.Dark,
		layoutInstructions[layout],
		sectionsText,
	))

	return strings.TrimSpace(b.String())
}

func compileSections(sections []blueprint.Section, creativity string) string {
	parts := make([]string, 0, len(sections))

	for i, section := range sections {
		heading := section.Heading
		if heading == "" {
			heading = fmt.Sprintf("Section %d", i+1)
		}
		emphasis := section.Emphasis
		if _, ok := emphasisInstructions[emphasis]; !ok {
			emphasis = "medium"
		}
		emphasisLine := fmt.Sprintf("%s - %s", strings.ToUpper(emphasis), emphasisInstructions[emphasis])

		metaphorLine := ""
		if section.VisualMetaphor != "" && creativity != "none" {
			metaphorLine = "Visual Metaphor: " + section.VisualMetaphor
		}

		var text string
		switch section.Type {
		case blueprint.TypeBeforeAfter:
			text = compileBeforeAfter(&section, heading, emphasisLine, creativity)
		case blueprint.TypeFindingsActions:
			text = fmt.Sprintf(`
%s Section (Visual Findings → Actions):
  ⚠️ USE ICONS AND SYMBOLS NOT TEXT

  FINDINGS (left/top) - Show with ICONS:
    - Use magnifying glass or observation icons
    - Represent each finding with a simple icon, NOT text: %s

  ACTIONS (right/bottom) - Show with ICONS:
    - Use checkmark or tool icons
    - Represent each action with a simple icon, NOT text: %s

  %s
  Emphasis: %s
  Maximum 1-2 word labels per icon
`,
				heading,
				indentedList(section.Findings, "Key findings"),
				indentedList(section.Actions, "Actions taken"),
				metaphorLine, emphasisLine)
		case blueprint.TypeRecommendations:
			text = fmt.Sprintf(`
%s Section (Recommendations - Visual Callout):
  ⚠️ USE CHECKMARK ICONS NOT BULLET TEXT

  Style: Highlighted box with ICONS
  - Use large checkmark or lightbulb icons
  - Each recommendation shown as an ICON with 1-2 word label max:
%s

  %s
  Emphasis: %s - %s
  DO NOT write full sentences - use icons with tiny labels only
`,
				heading,
				bulletList(section.Items, "Key recommendations"),
				metaphorLine, strings.ToUpper(emphasis), emphasisInstructions[emphasis])
		case blueprint.TypeOutcome:
			text = fmt.Sprintf(`
%s Section (Outcome - Visual Summary):
  ⚠️ USE SUCCESS ICONS AND IMAGERY

  Style: Trophy, star, or success imagery
  - Show outcomes through visual symbols, NOT text paragraphs
  - Each point as an icon with 1-word label:
%s

  %s
  Emphasis: %s
`,
				heading,
				bulletList(section.Points, "Key outcomes"),
				metaphorLine, emphasisLine)
		case blueprint.TypeMetric:
			text = fmt.Sprintf(`
%s Section (Metrics - Visual Data):
  ⚠️ USE CHARTS, GAUGES, OR LARGE NUMBERS

  Style: Data visualization with minimal text
  - Use pie charts, bar charts, or gauge icons
  - Numbers displayed large with single-word labels
  - Points to visualize:
%s

  %s
  Emphasis: %s
`,
				heading,
				bulletList(section.Points, "Key metrics"),
				metaphorLine, emphasisLine)
		default:
			text = fmt.Sprintf("\nSection %d: %s\n  Type: %s\n  Emphasis: %s\n", i+1, heading, section.Type, emphasis)
		}

		parts = append(parts, fmt.Sprintf("--- SECTION %d ---\n%s", i+1, text))
	}

	return strings.Join(parts, "\n")
}

func compileBeforeAfter(section *blueprint.Section, heading, emphasisLine, creativity string) string {
	metaphorBefore := ""
	metaphorAfter := ""
	if section.VisualMetaphor != "" && creativity != "none" {
		parts := strings.SplitN(section.VisualMetaphor, " vs ", 2)
		metaphorBefore = "- Visual Metaphor: " + parts[0]
		if len(parts) > 1 {
			metaphorAfter = "- Visual Metaphor: " + parts[1]
		} else {
			metaphorAfter = "- Visual Metaphor: organized, resolved state"
		}
	}

	return fmt.Sprintf(`
%s Section (Before/After Visual Comparison):
  ⚠️ USE ILLUSTRATIONS NOT TEXT for this section

  LEFT (BEFORE) - Create an ILLUSTRATION showing:
    - Visual scene depicting: Chaotic, problematic state illustration
    - Single word label: "BEFORE"
    - Show through imagery: %s
    - Visual mood: Chaotic, messy, problematic (use visual cues like tangled elements, warning colors)
    %s

  RIGHT (AFTER) - Create an ILLUSTRATION showing:
    - Visual scene depicting: Organized, resolved state illustration
    - Single word label: "AFTER"
    - Show through imagery: %s
    - Visual mood: Organized, clean, resolved (use visual cues like neat arrangements, success colors)
    %s

  Emphasis: %s
  DO NOT write out the items as text - DRAW them as illustrations
`,
		heading,
		indentedList(section.Before, "Problem indicators"),
		metaphorBefore,
		indentedList(section.After, "Solution indicators"),
		metaphorAfter,
		emphasisLine)
}

func indentedList(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return "\n    - " + strings.Join(items, "\n    - ")
}

func bulletList(items []string, fallback string) string {
	if len(items) == 0 {
		return "    • " + fallback
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "    • " + item
	}
	return strings.Join(lines, "\n")
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

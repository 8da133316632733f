package llm

import (
	"fmt"
	"strings"

	"github.com/graphgen/infographic-api/internal/models"
	"github.com/graphgen/infographic-api/pkg/embedded"
)

var textInstructions = map[string]string{
	models.DensityLow:      "Use minimal text. Focus on visual elements and icons. Each bullet point should be 3-5 words max.",
	models.DensityBalanced: "Balance text and visuals. Each bullet point should be 6-10 words.",
	models.DensityHigh:     "Include detailed text. Each bullet point can be 10-15 words with more context.",
}

var toneInstructions = map[string]string{
	models.ToneProfessional: "Maintain a formal, business-appropriate tone. Focus on clarity and precision.",
	models.ToneCreative:     "Use engaging, storytelling language. Be more expressive and use vivid metaphors.",
}

// The blueprint schema asks for a JSON tone field with a different value
// set than the UI exposes; "creative" surfaces as "executive".
var toneMapping = map[string]string{
	models.ToneProfessional: models.ToneProfessional,
	models.ToneCreative:     models.ToneExecutive,
}

// BuildBlueprintPrompt assembles the instruction prompt for the Visual
// Blueprint step from the document text and normalized settings.
func BuildBlueprintPrompt(documentText string, settings models.GenerationSettings) string {
	layout := settings.Layout
	if layout == "" {
		layout = models.LayoutBeforeAfter
	}

	textInstruction := textInstructions[settings.TextDensity]
	if textInstruction == "" {
		textInstruction = textInstructions[models.DensityBalanced]
	}
	toneInstruction := toneInstructions[settings.Tone]
	if toneInstruction == "" {
		toneInstruction = toneInstructions[models.ToneProfessional]
	}
	jsonTone := toneMapping[settings.Tone]
	if jsonTone == "" {
		jsonTone = models.ToneProfessional
	}

	return fmt.Sprintf(`You are a document understanding assistant. Your ONLY job is to read the provided professional report text and output a single VALID JSON object following the exact Visual Blueprint Schema provided. DO NOT output any explanation, commentary, HTML, or image prompts. Output MUST be valid JSON and conform strictly to schema.

Report text:
<<START>>
%s
<<END>>

USER PREFERENCES:
- Preferred Layout: %s
- Creativity Level: %s
- Color Palette: %s
- Text Density: %s - %s
- Tone: %s - %s

TASK:
- Understand the report's structure, intent, and decision points.
- Identify: (1) problems/risk (before), (2) actions taken (after), (3) findings, (4) clear recommendations, (5) outcomes.
- Produce "summary" (1-2 sentences) and populate "sections" using types: before_after, findings_actions, recommendations, outcome.
- Use the preferred layout: %q
- Set creativity to: %q
- Use palette: %q
- Set tone to: %q
- Use "visual_metaphor" to suggest imagery or metaphors for each section (short phrases only, max 10 words).
- Return EXACTLY the JSON object and NOTHING ELSE.

%s
IMPORTANT: Return EXACTLY the JSON object and NOTHING ELSE. No markdown, no code blocks, no explanation.`,
		documentText,
		layout,
		settings.Creativity,
		settings.Palette,
		settings.TextDensity, textInstruction,
		settings.Tone, toneInstruction,
		layout,
		settings.Creativity,
		settings.Palette,
		jsonTone,
		string(embedded.BlueprintSchemaTxt),
	)
}

// BuildImagePrompt appends the text minimization rules and the density
// modifier to an already compiled prompt.
func BuildImagePrompt(compiledPrompt, textDensity string) string {
	var densityModifier string
	switch textDensity {
	case models.DensityLow:
		densityModifier = "\n\n⚠️ USER SELECTED 'LOW TEXT': Use ZERO text except title. All content must be purely visual - icons, illustrations, and imagery only."
	case models.DensityHigh:
		densityModifier = "\n\n⚠️ USER SELECTED 'HIGH TEXT': You may include more labels, but still keep each label to 2-3 words maximum. NO sentences or paragraphs."
	default:
		densityModifier = "\n\n⚠️ USER SELECTED 'BALANCED': Minimal text labels (1-2 words each). Focus on visual communication."
	}

	var b strings.Builder
	b.WriteString(compiledPrompt)
	b.WriteString("\n\n")
	b.Write(embedded.ImageTextRulesTxt)
	b.WriteString(densityModifier)
	return b.String()
}

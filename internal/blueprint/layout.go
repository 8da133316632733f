package blueprint

import "fmt"

// BlockLayout is the block-based result shape served when clients ask
// for a structured layout instead of a rendered image. Blocks preserve
// section order.
type BlockLayout struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Layout   string  `json:"layout"` // vertical_steps | timeline | grid
	Palette  string  `json:"palette"`
	Blocks   []Block `json:"blocks"`
}

// Block is one renderable unit of a BlockLayout.
type Block struct {
	ID      string   `json:"id"`
	IconKey string   `json:"iconKey"`
	Heading string   `json:"heading"`
	Bullets []string `json:"bullets"`
}

// Block layout values.
const (
	BlockLayoutVerticalSteps = "vertical_steps"
	BlockLayoutTimeline      = "timeline"
	BlockLayoutGrid          = "grid"
)

// sectionIconKeys maps section types to the icon keys clients resolve
// into glyphs.
var sectionIconKeys = map[string]string{
	TypeBeforeAfter:     "compare",
	TypeFindingsActions: "search",
	TypeRecommendations: "checklist",
	TypeOutcome:         "trophy",
	TypeMetric:          "chart",
}

// ToBlockLayout converts the blueprint into the block-based layout.
// Flow-style blueprints become timelines, grids stay grids, and the two
// column layouts fall back to a vertical list.
func (b *Blueprint) ToBlockLayout() *BlockLayout {
	layout := BlockLayoutVerticalSteps
	switch b.Layout {
	case LayoutProcessFlow:
		layout = BlockLayoutTimeline
	case LayoutSummaryGrid:
		layout = BlockLayoutGrid
	}

	palette := b.Palette
	if palette == "" {
		palette = "teal"
	}

	out := &BlockLayout{
		Title:    b.Title,
		Subtitle: b.Subtitle,
		Layout:   layout,
		Palette:  palette,
		Blocks:   make([]Block, 0, len(b.Sections)),
	}

	for i, section := range b.Sections {
		id := section.ID
		if id == "" {
			id = fmt.Sprintf("section-%d", i+1)
		}
		iconKey := sectionIconKeys[section.Type]
		if iconKey == "" {
			iconKey = "pin"
		}
		out.Blocks = append(out.Blocks, Block{
			ID:      id,
			IconKey: iconKey,
			Heading: section.Heading,
			Bullets: section.Bullets(),
		})
	}

	return out
}

package workflow

import (
	"fmt"
	"io"
	"strings"

	"github.com/graphgen/infographic-api/client/api"
	"github.com/graphgen/infographic-api/client/icons"
)

// RenderBlockLayout writes a text rendering of a block layout. The
// layout field picks the arrangement: numbered vertical steps, a
// timeline with connectors, or a two-column grid.
func RenderBlockLayout(w io.Writer, layout *api.BlockLayout) {
	fmt.Fprintln(w, layout.Title)
	if layout.Subtitle != "" {
		fmt.Fprintln(w, layout.Subtitle)
	}
	fmt.Fprintln(w, strings.Repeat("=", displayWidth(layout.Title)))
	fmt.Fprintln(w)

	switch layout.Layout {
	case "timeline":
		renderTimeline(w, layout.Blocks)
	case "grid":
		renderGrid(w, layout.Blocks)
	default:
		renderVerticalSteps(w, layout.Blocks)
	}
}

func renderVerticalSteps(w io.Writer, blocks []api.Block) {
	for i, block := range blocks {
		fmt.Fprintf(w, "%d. %s %s\n", i+1, icons.Resolve(block.IconKey), block.Heading)
		for _, bullet := range block.Bullets {
			fmt.Fprintf(w, "   - %s\n", bullet)
		}
		fmt.Fprintln(w)
	}
}

func renderTimeline(w io.Writer, blocks []api.Block) {
	for i, block := range blocks {
		fmt.Fprintf(w, "%s %s\n", icons.Resolve(block.IconKey), block.Heading)
		for _, bullet := range block.Bullets {
			fmt.Fprintf(w, "│   - %s\n", bullet)
		}
		if i < len(blocks)-1 {
			fmt.Fprintln(w, "▼")
		}
	}
	fmt.Fprintln(w)
}

func renderGrid(w io.Writer, blocks []api.Block) {
	for i := 0; i < len(blocks); i += 2 {
		row := blocks[i:min(i+2, len(blocks))]
		for _, block := range row {
			fmt.Fprintf(w, "[ %s %s ]  ", icons.Resolve(block.IconKey), block.Heading)
		}
		fmt.Fprintln(w)
		for _, block := range row {
			for _, bullet := range block.Bullets {
				fmt.Fprintf(w, "  - %s\n", bullet)
			}
		}
		fmt.Fprintln(w)
	}
}

func displayWidth(s string) int {
	n := len([]rune(s))
	if n < 8 {
		n = 8
	}
	return n
}

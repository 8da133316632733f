package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphgen/infographic-api/client/workflow"
)

var (
	genText       string
	genFile       string
	genLayout     string
	genCreativity string
	genPalette    string
	genDensity    string
	genTone       string
	genRender     string
	genOut        string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an infographic from text or a PDF report",
	RunE: func(cmd *cobra.Command, args []string) error {
		storage, err := openStorage()
		if err != nil {
			return err
		}
		auth, client := newAuthStore(storage)

		ctrl := workflow.NewController(client, auth, workflow.WithStageHook(func(stage workflow.Stage) {
			switch stage {
			case workflow.StageSucceeded, workflow.StageFailed:
			default:
				fmt.Printf("  %s...\n", stage)
			}
		}))

		// Best effort: the local quota check starts from the server's
		// count when it is reachable.
		if err := ctrl.RefreshUsage(cmd.Context()); err == nil {
			if remaining := ctrl.UsageRemaining(); remaining == 0 {
				return fmt.Errorf("%s", workflow.ErrQuotaExceeded)
			}
		}

		result, err := ctrl.Submit(cmd.Context(), workflow.Input{
			Text:     genText,
			FilePath: genFile,
			Settings: workflow.Settings{
				Layout:      genLayout,
				Creativity:  genCreativity,
				Palette:     genPalette,
				TextDensity: genDensity,
				Tone:        genTone,
				Render:      genRender,
			},
		})
		if err != nil {
			return err
		}

		switch {
		case result.Image != nil:
			out := genOut
			if out == "" {
				out = "infographic" + extensionFor(result.Image.MIMEType)
			}
			if err := ctrl.Download(out); err != nil {
				return err
			}
			fmt.Printf("Saved %s (%s)\n", out, result.Image.MIMEType)
			if result.Image.CompiledPromptPreview != "" {
				fmt.Printf("Prompt preview: %s\n", result.Image.CompiledPromptPreview)
			}
		case result.Layout != nil:
			workflow.RenderBlockLayout(os.Stdout, result.Layout)
			if genOut != "" {
				if err := ctrl.Download(genOut); err != nil {
					return err
				}
				fmt.Printf("Saved %s\n", genOut)
			}
		}
		return nil
	},
}

func extensionFor(mimeType string) string {
	if strings.HasSuffix(mimeType, "jpeg") {
		return ".jpg"
	}
	return ".png"
}

func init() {
	generateCmd.Flags().StringVarP(&genText, "text", "t", "", "report text")
	generateCmd.Flags().StringVarP(&genFile, "file", "f", "", "PDF report to extract text from")
	generateCmd.Flags().StringVar(&genLayout, "layout", "", "layout (before_after_with_recommendations, split_two_column, process_flow, summary_grid)")
	generateCmd.Flags().StringVar(&genCreativity, "creativity", "", "creativity (none, subtle, moderate, high)")
	generateCmd.Flags().StringVar(&genPalette, "palette", "", "palette (teal, warm, mono)")
	generateCmd.Flags().StringVar(&genDensity, "density", "", "text density (low, balanced, high)")
	generateCmd.Flags().StringVar(&genTone, "tone", "", "tone (professional, creative)")
	generateCmd.Flags().StringVar(&genRender, "render", "", "result shape (image, layout)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "output file")
}
